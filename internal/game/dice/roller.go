package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with sides and result, so a combat
// audit can be reconstructed from the log stream alone.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll
// to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll returns a die result in [1, sides] and logs it at debug level.
//
// Precondition: sides >= 2.
func (r *Roller) Roll(sides int) int {
	result := Roll(r.src, sides)
	r.logger.Debug("dice roll",
		zap.Int("sides", sides),
		zap.Int("result", result),
	)
	return result
}

// Intn satisfies Source, logging each draw.
//
// Precondition: n > 0.
func (r *Roller) Intn(n int) int {
	result := r.src.Intn(n)
	r.logger.Debug("random draw",
		zap.Int("n", n),
		zap.Int("result", result),
	)
	return result
}

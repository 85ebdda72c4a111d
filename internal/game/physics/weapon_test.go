package physics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/ironmarch/engine/internal/game/physics"
)

func TestAttackRating_MasterRollsTwenty(t *testing.T) {
	// A perfect roll plus max skill lands exactly on the cap.
	assert.Equal(t, 100.0, physics.AttackRating(20, 100))
}

func TestAttackRating_Examples(t *testing.T) {
	tests := []struct {
		roll  int
		skill float64
		want  float64
	}{
		{1, 0, 1},
		{20, 0, 20},
		{10, 50, 50},   // 10 + 40
		{20, 100, 100}, // capped exactly
		{15, 100, 95},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, physics.AttackRating(tc.roll, tc.skill), 1e-9,
			"roll=%d skill=%v", tc.roll, tc.skill)
	}
}

func TestAttackRating_Property_BoundsAndMonotone(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roll := rapid.IntRange(1, 20).Draw(rt, "roll")
		skill := float64(rapid.IntRange(0, 100).Draw(rt, "skill"))
		r := physics.AttackRating(roll, skill)
		assert.GreaterOrEqual(rt, r, 1.0)
		assert.LessOrEqual(rt, r, 100.0)
		// Monotone in both arguments.
		if roll < 20 {
			assert.LessOrEqual(rt, r, physics.AttackRating(roll+1, skill))
		}
		if skill < 100 {
			assert.LessOrEqual(rt, r, physics.AttackRating(roll, skill+1))
		}
	})
}

func TestWeaponAPCost_HeavierCostsMore(t *testing.T) {
	light := physics.WeaponAPCost(1, 50, 50)
	heavy := physics.WeaponAPCost(5, 50, 50)
	assert.Less(t, light, heavy)
}

func TestWeaponAPCost_SkilledIsFaster(t *testing.T) {
	clumsy := physics.WeaponAPCost(2, 20, 20)
	deft := physics.WeaponAPCost(2, 80, 80)
	assert.Less(t, deft, clumsy)
}

func TestWeaponDamage_ScalesWithMassAndPower(t *testing.T) {
	base := physics.WeaponDamage(10, 1, 50)
	heavier := physics.WeaponDamage(10, 3, 50)
	stronger := physics.WeaponDamage(10, 1, 90)
	assert.Greater(t, heavier, base)
	assert.Greater(t, stronger, base)
}

func TestWeaponDPS_Consistent(t *testing.T) {
	dps := physics.WeaponDPS(10, 2, 60, 40)
	want := physics.WeaponDamage(10, 2, 60) / physics.WeaponAPCost(2, 60, 40)
	assert.InDelta(t, want, dps, 1e-12)
}

func TestStrikeCost_APRounded(t *testing.T) {
	c := physics.StrikeCost(2.3, 55, 45)
	raw := physics.WeaponAPCost(2.3, 55, 45)
	assert.GreaterOrEqual(t, c.AP, raw)
	assert.Less(t, c.AP-raw, 0.1+1e-9)
	assert.Greater(t, c.Energy, 0.0)
}

func TestCleaveCost_EnergySurcharge(t *testing.T) {
	strike := physics.StrikeCost(3, 50, 50)
	cleave := physics.CleaveCost(3, 50, 50)
	assert.Equal(t, strike.AP, cleave.AP)
	assert.InDelta(t,
		strike.Energy+physics.CleaveEnergyFlat+physics.CleaveEnergyPerKg*3,
		cleave.Energy, 1e-9)
}

func TestFullCommitCost_NeverExceedsPool(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pool := rapid.Float64Range(0, 20).Draw(rt, "pool")
		c := physics.FullCommitCost(pool)
		assert.LessOrEqual(rt, c.AP, pool)
	})
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, physics.Clamp01(-1))
	assert.Equal(t, 1.0, physics.Clamp01(2))
	assert.Equal(t, 0.4, physics.Clamp01(0.4))
}

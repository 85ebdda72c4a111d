package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironmarch/engine/internal/game/id"
)

// yamlWorldFile is the top-level YAML structure for world fixture files.
type yamlWorldFile struct {
	World yamlWorld `yaml:"world"`
}

// yamlWorld is the YAML representation of a projection fixture.
type yamlWorld struct {
	Places []yamlPlace `yaml:"places"`
	Actors []yamlActor `yaml:"actors"`
	Items  []yamlItem  `yaml:"items"`
}

// yamlPlace is the YAML representation of a place.
type yamlPlace struct {
	ID                string  `yaml:"id"`
	Name              string  `yaml:"name"`
	Description       string  `yaml:"description"`
	BattlefieldLength float64 `yaml:"battlefield_length"`
	BattlefieldMargin float64 `yaml:"battlefield_margin"`
}

// yamlActor is the YAML representation of an actor.
type yamlActor struct {
	ID         string             `yaml:"id"`
	Name       string             `yaml:"name"`
	Location   string             `yaml:"location"`
	HP         float64            `yaml:"hp"`
	MaxHP      float64            `yaml:"max_hp"`
	Power      float64            `yaml:"power"`
	Finesse    float64            `yaml:"finesse"`
	Resilience float64            `yaml:"resilience"`
	MassKg     float64            `yaml:"mass_kg"`
	Skills     map[string]float64 `yaml:"skills"`
	Weapon     *yamlWeapon        `yaml:"weapon"`
}

// yamlWeapon is the YAML representation of a wielded weapon.
type yamlWeapon struct {
	Name       string  `yaml:"name"`
	Skill      string  `yaml:"skill"`
	MassKg     float64 `yaml:"mass_kg"`
	DamageBase float64 `yaml:"damage_base"`
	ReachM     float64 `yaml:"reach_m"`
}

// yamlItem is the YAML representation of an item.
type yamlItem struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Location string  `yaml:"location"`
	MassKg   float64 `yaml:"mass_kg"`
}

// LoadProjectionFromFile reads and validates a world fixture YAML file.
//
// Precondition: path must point to a valid YAML world file.
// Postcondition: Returns a validated Projection or a non-nil error.
func LoadProjectionFromFile(path string) (*Projection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	return LoadProjectionFromBytes(data)
}

// LoadProjectionFromBytes parses and validates a projection from YAML
// bytes.
//
// Postcondition: every actor location references a declared place; every
// ID is unique; actors without a weapon wield BareHands.
func LoadProjectionFromBytes(data []byte) (*Projection, error) {
	var file yamlWorldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing world YAML: %w", err)
	}

	p := NewProjection()
	for _, ypl := range file.World.Places {
		if ypl.ID == "" || ypl.Name == "" {
			return nil, fmt.Errorf("world: place must have id and name, got %+v", ypl)
		}
		pl := &Place{
			ID:                id.From(id.NSPlace, ypl.ID),
			Name:              ypl.Name,
			Description:       ypl.Description,
			BattlefieldLength: ypl.BattlefieldLength,
			BattlefieldMargin: ypl.BattlefieldMargin,
		}
		if err := p.AddPlace(pl); err != nil {
			return nil, err
		}
	}

	for _, ya := range file.World.Actors {
		if ya.ID == "" || ya.Name == "" {
			return nil, fmt.Errorf("world: actor must have id and name, got %+v", ya)
		}
		a := &Actor{
			ID:         id.From(id.NSActor, ya.ID),
			Name:       ya.Name,
			HP:         ya.HP,
			MaxHP:      ya.MaxHP,
			Power:      ya.Power,
			Finesse:    ya.Finesse,
			Resilience: ya.Resilience,
			MassKg:     ya.MassKg,
			Skills:     ya.Skills,
			Weapon:     BareHands,
		}
		if a.Skills == nil {
			a.Skills = make(map[string]float64)
		}
		if a.MaxHP == 0 {
			a.MaxHP = a.HP
		}
		if ya.Weapon != nil {
			a.Weapon = Weapon{
				Name:       ya.Weapon.Name,
				Skill:      ya.Weapon.Skill,
				MassKg:     ya.Weapon.MassKg,
				DamageBase: ya.Weapon.DamageBase,
				ReachM:     ya.Weapon.ReachM,
			}
		}
		if ya.Location != "" {
			loc := id.From(id.NSPlace, ya.Location)
			if _, ok := p.Place(loc); !ok {
				return nil, fmt.Errorf("world: actor %q location %q not declared", ya.ID, ya.Location)
			}
			a.Location = loc
		}
		if err := p.AddActor(a); err != nil {
			return nil, err
		}
	}

	for _, yi := range file.World.Items {
		if yi.ID == "" || yi.Name == "" {
			return nil, fmt.Errorf("world: item must have id and name, got %+v", yi)
		}
		it := &Item{
			ID:     id.From(id.NSItem, yi.ID),
			Name:   yi.Name,
			MassKg: yi.MassKg,
		}
		if yi.Location != "" {
			loc := id.From(id.NSPlace, yi.Location)
			if _, ok := p.Place(loc); !ok {
				return nil, fmt.Errorf("world: item %q location %q not declared", yi.ID, yi.Location)
			}
			it.Location = loc
		}
		if err := p.AddItem(it); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Package ruleset holds the static game data that parameterises combatants:
// the closed set of archetypes with their base-stat and growth tables.
package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

// ArchetypeID names one of the four combatant kinds.
type ArchetypeID string

const (
	Swordsman ArchetypeID = "swordsman"
	Assassin  ArchetypeID = "assassin"
	Tank      ArchetypeID = "tank"
	Cleric    ArchetypeID = "cleric"
)

// ArchetypeIDs lists the closed archetype set in display order.
var ArchetypeIDs = []ArchetypeID{Swordsman, Assassin, Tank, Cleric}

// Valid reports whether id belongs to the closed archetype set.
func (id ArchetypeID) Valid() bool {
	switch id {
	case Swordsman, Assassin, Tank, Cleric:
		return true
	}
	return false
}

// StatDice holds one dice expression per rollable stat. Each expression covers
// an inclusive range, e.g. "1d11+74" for 75-85.
//
// Validation compiles the expressions once; Roll draws from the compiled
// form, so editing a string field afterwards has no effect until the owning
// archetype is validated again.
type StatDice struct {
	Attack  string `yaml:"attack"`
	Defense string `yaml:"defense"`
	Speed   string `yaml:"speed"`
	HP      string `yaml:"hp"`

	compiled *statExprs
}

type statExprs struct {
	attack, defense, speed, hp dice.Expression
}

// Stats is the result of rolling a StatDice block.
type Stats struct {
	Attack  int
	Defense int
	Speed   int
	HP      int
}

// compile parses every expression and stores the result on d. d is left
// untouched on error.
func (d *StatDice) compile(block string) error {
	var (
		exprs statExprs
		errs  []string
	)
	for _, f := range []struct {
		name string
		raw  string
		dst  *dice.Expression
	}{
		{"attack", d.Attack, &exprs.attack},
		{"defense", d.Defense, &exprs.defense},
		{"speed", d.Speed, &exprs.speed},
		{"hp", d.HP, &exprs.hp},
	} {
		e, err := dice.Parse(f.raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s.%s: %v", block, f.name, err))
			continue
		}
		if e.Min() < 0 {
			errs = append(errs, fmt.Sprintf("%s.%s: %q can roll below zero", block, f.name, f.raw))
		}
		*f.dst = e
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	d.compiled = &exprs
	return nil
}

// exprs returns the compiled expressions, parsing on the spot when d was
// never validated.
func (d StatDice) exprs() statExprs {
	if d.compiled != nil {
		return *d.compiled
	}
	return statExprs{
		attack:  dice.MustParse(d.Attack),
		defense: dice.MustParse(d.Defense),
		speed:   dice.MustParse(d.Speed),
		hp:      dice.MustParse(d.HP),
	}
}

// Roll draws every stat in attack, defense, speed, hp order.
//
// Precondition: d must have passed validation; src must be non-nil.
func (d StatDice) Roll(src dice.Source) Stats {
	e := d.exprs()
	return Stats{
		Attack:  dice.Draw(e.attack, src),
		Defense: dice.Draw(e.defense, src),
		Speed:   dice.Draw(e.speed, src),
		HP:      dice.Draw(e.hp, src),
	}
}

// Archetype fixes the base-stat ranges, per-level growth ranges and the fixed
// accuracy/crit values for one combatant kind.
//
// Precondition: ID must be one of ArchetypeIDs; every dice expression must parse.
type Archetype struct {
	ID         ArchetypeID `yaml:"id"`
	Name       string      `yaml:"name"`
	Heals      bool        `yaml:"heals"`
	Accuracy   int         `yaml:"accuracy"`
	CritChance int         `yaml:"crit_chance"`
	Base       StatDice    `yaml:"base"`
	Growth     StatDice    `yaml:"growth"`
}

// Validate checks the archetype invariants.
//
// Postcondition: Returns nil iff the archetype is usable by RollBase and
// RollGrowth; on nil the dice expressions are compiled for rolling.
func (a *Archetype) Validate() error {
	if !a.ID.Valid() {
		return fmt.Errorf("archetype id %q is not one of swordsman, assassin, tank, cleric", a.ID)
	}
	if a.Name == "" {
		return fmt.Errorf("archetype %q: name must not be empty", a.ID)
	}
	if a.CritChance < 0 || a.CritChance > 100 {
		return fmt.Errorf("archetype %q: crit_chance must be 0-100, got %d", a.ID, a.CritChance)
	}
	if a.Accuracy < 0 {
		return fmt.Errorf("archetype %q: accuracy must be >= 0, got %d", a.ID, a.Accuracy)
	}
	if err := a.Base.compile("base"); err != nil {
		return fmt.Errorf("archetype %q: %w", a.ID, err)
	}
	if a.Base.compiled.hp.Min() < 1 {
		return fmt.Errorf("archetype %q: base.hp must not roll below 1", a.ID)
	}
	if err := a.Growth.compile("growth"); err != nil {
		return fmt.Errorf("archetype %q: %w", a.ID, err)
	}
	return nil
}

// RollBase draws a fresh level-1 stat line.
func (a *Archetype) RollBase(src dice.Source) Stats { return a.Base.Roll(src) }

// RollGrowth draws one level-up worth of stat increases.
func (a *Archetype) RollGrowth(src dice.Source) Stats { return a.Growth.Roll(src) }

// Table is the archetype lookup used by combatant generation.
type Table struct {
	byID map[ArchetypeID]*Archetype
}

// DefaultTable returns the built-in archetype table.
//
// Postcondition: every ArchetypeID resolves.
func DefaultTable() *Table {
	t := &Table{byID: make(map[ArchetypeID]*Archetype, len(ArchetypeIDs))}
	for _, a := range []*Archetype{
		{
			ID: Swordsman, Name: "Swordsman", Accuracy: 90, CritChance: 10,
			Base:   StatDice{Attack: dice.Range(75, 85), Defense: dice.Range(55, 65), Speed: dice.Range(55, 65), HP: dice.Range(90, 100)},
			Growth: StatDice{Attack: dice.Range(1, 3), Defense: dice.Range(1, 3), Speed: dice.Range(1, 2), HP: dice.Range(5, 10)},
		},
		{
			ID: Assassin, Name: "Assassin", Accuracy: 90, CritChance: 20,
			Base:   StatDice{Attack: dice.Range(85, 95), Defense: dice.Range(45, 55), Speed: dice.Range(75, 85), HP: dice.Range(60, 70)},
			Growth: StatDice{Attack: dice.Range(1, 3), Defense: dice.Range(0, 2), Speed: dice.Range(5, 7), HP: dice.Range(5, 10)},
		},
		{
			ID: Tank, Name: "Tank", Accuracy: 60, CritChance: 10,
			Base:   StatDice{Attack: dice.Range(65, 75), Defense: dice.Range(65, 75), Speed: dice.Range(25, 35), HP: dice.Range(100, 120)},
			Growth: StatDice{Attack: dice.Range(1, 3), Defense: dice.Range(5, 10), Speed: dice.Range(0, 1), HP: dice.Range(8, 12)},
		},
		{
			ID: Cleric, Name: "Cleric", Heals: true, Accuracy: 100, CritChance: 0,
			Base:   StatDice{Attack: dice.Range(25, 35), Defense: dice.Range(35, 45), Speed: dice.Range(35, 45), HP: dice.Range(70, 80)},
			Growth: StatDice{Attack: dice.Range(7, 10), Defense: dice.Range(1, 2), Speed: dice.Range(1, 2), HP: dice.Range(5, 10)},
		},
	} {
		if err := a.Validate(); err != nil {
			panic(fmt.Sprintf("ruleset: built-in archetype: %v", err))
		}
		t.byID[a.ID] = a
	}
	return t
}

// Get returns the archetype for id.
//
// Postcondition: Returns (archetype, true) if found, or (nil, false) otherwise.
func (t *Table) Get(id ArchetypeID) (*Archetype, bool) {
	a, ok := t.byID[id]
	return a, ok
}

// MustGet returns the archetype for id and panics if it is missing.
func (t *Table) MustGet(id ArchetypeID) *Archetype {
	a, ok := t.byID[id]
	if !ok {
		panic(fmt.Sprintf("ruleset: archetype %q not in table", id))
	}
	return a
}

// All returns the archetypes in ArchetypeIDs order.
func (t *Table) All() []*Archetype {
	out := make([]*Archetype, 0, len(t.byID))
	for _, id := range ArchetypeIDs {
		if a, ok := t.byID[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Override validates a and replaces the table entry with the same ID.
func (t *Table) Override(a *Archetype) error {
	if err := a.Validate(); err != nil {
		return err
	}
	t.byID[a.ID] = a
	return nil
}

// LoadArchetypes reads all .yaml files in dir and parses each as an Archetype.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed archetypes (may be empty slice) or a non-nil error.
func LoadArchetypes(dir string) ([]*Archetype, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	archetypes := make([]*Archetype, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var a Archetype
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("parsing archetype file %s: %w", path, err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("archetype file %s: %w", path, err)
		}
		archetypes = append(archetypes, &a)
	}
	return archetypes, nil
}

// LoadTable returns DefaultTable with every archetype found in dir applied on
// top. An empty dir means defaults only.
func LoadTable(dir string) (*Table, error) {
	t := DefaultTable()
	if dir == "" {
		return t, nil
	}
	loaded, err := LoadArchetypes(dir)
	if err != nil {
		return nil, err
	}
	for _, a := range loaded {
		if err := t.Override(a); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}

package console

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

// Cries are the quoted lines combatants shout while fighting.
type Cries struct {
	Attack   []string `yaml:"attack"`
	Support  []string `yaml:"support"`
	Critical []string `yaml:"critical"`
	Death    []string `yaml:"death"`
}

// DefaultCries returns the built-in cry table.
func DefaultCries() Cries {
	return Cries{
		Attack: []string{
			"Take this!",
			"How do you like this one!",
			"Give up already!",
			"You'll never prevail!",
			"Hold Still!",
			"Forfeit!",
			"You're wasting your time!",
			"You bore me...",
		},
		Support: []string{
			"Here you go!",
			"Hope this helps!",
			"Hang in there!",
			"Don't give up!",
			"You're doing great!",
			"Keep it up!",
			"Be careful!",
			"We need you alive!",
		},
		Critical: []string{
			"You're finished!",
			"This is the end!",
			"This is the end for you!",
			"You're out of luck!",
			"Say GoodBye!",
			"You lose!",
		},
		Death: []string{
			"This... This is it...",
			"I'm... done.",
			"How... How could I... lose.",
			"I... failed.",
			"How... How could this... be.",
			"Gahhhhh!",
		},
	}
}

// LoadCries reads a cry table from a YAML file. Lists missing from the file
// keep their built-in lines.
//
// Precondition: path must name a readable YAML file.
// Postcondition: every list in the returned table is non-empty.
func LoadCries(path string) (Cries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Cries{}, fmt.Errorf("reading cries %q: %w", path, err)
	}
	var loaded Cries
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Cries{}, fmt.Errorf("parsing cries %q: %w", path, err)
	}
	c := DefaultCries()
	if len(loaded.Attack) > 0 {
		c.Attack = loaded.Attack
	}
	if len(loaded.Support) > 0 {
		c.Support = loaded.Support
	}
	if len(loaded.Critical) > 0 {
		c.Critical = loaded.Critical
	}
	if len(loaded.Death) > 0 {
		c.Death = loaded.Death
	}
	return c, nil
}

// pick draws one quoted line from lines.
func pick(src dice.Source, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return `"` + lines[src.Intn(len(lines))] + `"`
}

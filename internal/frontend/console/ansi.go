// Package console is the terminal frontend: a line-oriented input provider
// and an ANSI-coloured narrator for battle events.
package console

import "fmt"

// ANSI escape code constants for terminal styling.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"

	// DarkRed marks a combatant at 0 HP.
	DarkRed  = "\033[2;31m"
	DarkGray = "\033[90m"

	BgCyan = "\033[46m"
	BgRed  = "\033[41m"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
//
// Precondition: color must be a valid ANSI escape sequence.
// Postcondition: Returns text wrapped with the color code and Reset.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
func Colorf(color, format string, args ...any) string {
	return color + fmt.Sprintf(format, args...) + Reset
}

// StripANSI removes all ANSI escape sequences from a string.
//
// Postcondition: Returns text with all \033[...m sequences removed.
func StripANSI(s string) string {
	result := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				i = j + 1
				continue
			}
		}
		result = append(result, s[i])
		i++
	}
	return string(result)
}

// HealthColor grades hp against maxHP: dark red at 0, red below a third,
// yellow below two thirds, green otherwise.
func HealthColor(hp, maxHP int) string {
	switch {
	case hp <= 0:
		return DarkRed
	case float64(hp) < float64(maxHP)/3.0:
		return Red
	case float64(hp) < float64(maxHP)*2.0/3.0:
		return Yellow
	default:
		return Green
	}
}

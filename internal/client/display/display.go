// Package display renders server state for the debug client. ANSI
// color is disabled automatically when stdout is not a terminal.
package display

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var colorEnabled = term.IsTerminal(int(os.Stdout.Fd()))

func color(code string) string {
	if !colorEnabled {
		return ""
	}
	return code
}

// ANSI codes, empty when piped
var (
	Reset   = color("\033[0m")
	Red     = color("\033[31m")
	Green   = color("\033[32m")
	Yellow  = color("\033[33m")
	Blue    = color("\033[34m")
	Magenta = color("\033[35m")
	Cyan    = color("\033[36m")
)

// Prompt formats the readline prompt.
func Prompt(base string) string {
	return fmt.Sprintf("%s%s>%s ", Cyan, base, Reset)
}

// Board renders a FEN position as an ASCII grid from White's
// perspective.
func Board(fen string) string {
	placement := strings.SplitN(fen, " ", 2)[0]
	ranks := strings.Split(placement, "/")

	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for i, rank := range ranks {
		sb.WriteString(fmt.Sprintf("%d ", 8-i))
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				for n := 0; n < int(r-'0'); n++ {
					sb.WriteString(". ")
				}
				continue
			}
			sb.WriteString(fmt.Sprintf("%c ", r))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-i))
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}

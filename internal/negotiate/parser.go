package negotiate

import (
	"regexp"
	"strings"
)

// Move token grammar: origin square, destination square, optional
// promotion piece. Matched case-insensitively and normalized to
// lowercase.
var moveTokenPattern = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qnrb]?$`)

const (
	placeholderEmptyReply  = "empty response"
	placeholderNoRationale = "no rationale provided"
)

// ParseReply extracts a candidate move token and accompanying
// rationale from one raw model reply. The last non-empty line is the
// candidate if it matches the token grammar; everything before it is
// rationale. A reply whose last line is not a token yields the whole
// text as rationale and no candidate — that is degradation, not an
// error, so ParseReply never fails.
func ParseReply(text string) (rationale, token string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	if len(lines) == 0 {
		return placeholderEmptyReply, ""
	}

	last := strings.ToLower(lines[len(lines)-1])
	if !moveTokenPattern.MatchString(last) {
		return strings.Join(lines, "\n"), ""
	}

	if len(lines) == 1 {
		return placeholderNoRationale, last
	}
	return strings.Join(lines[:len(lines)-1], "\n"), last
}

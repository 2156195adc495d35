package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ignite/trello-agent/internal/domain"
)

// noonSuffix is appended to bare dates. Noon UTC keeps the calendar day stable
// for every timezone the board UI might render it in.
const noonSuffix = "T12:00:00Z"

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ].+)?$`)

// AcceptedDueFormats is reported back to callers when a due date can't be parsed.
const AcceptedDueFormats = "DD/MM/YYYY, DDMMYYYY, YYYY-MM-DD or ISO-8601"

// Due normalizes a user-supplied due date into the provider timestamp format.
//
// Accepted shapes:
//
//	DDMMYYYY            -> YYYY-MM-DDT12:00:00Z (YYYYMMDD as a fallback)
//	DD/MM/YYYY          -> YYYY-MM-DDT12:00:00Z
//	YYYY-MM-DD          -> YYYY-MM-DDT12:00:00Z
//	YYYY-MM-DD[T ]time  -> unchanged
//
// An empty input yields "" and no error, meaning "no due date".
func Due(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", nil
	}

	// Bare digits read as DDMMYYYY, the same as DD/MM/YYYY. YYYYMMDD is only
	// tried when the day-first reading is not a calendar date.
	if len(s) == 8 && isDigits(s) {
		for _, layout := range []string{"02012006", "20060102"} {
			if t, err := time.Parse(layout, s); err == nil {
				return atNoon(t), nil
			}
		}
		return "", invalidDue(input)
	}

	if t, err := time.Parse("2/1/2006", s); err == nil {
		return atNoon(t), nil
	}
	if t, err := time.Parse("2006-1-2", s); err == nil {
		return atNoon(t), nil
	}

	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		if m[1] == "" {
			return s + noonSuffix, nil
		}
		return s, nil
	}

	return "", invalidDue(input)
}

func atNoon(t time.Time) string {
	return t.Format("2006-01-02") + noonSuffix
}

func invalidDue(input string) error {
	return fmt.Errorf("%w: invalid due date %q, use %s", domain.ErrInvalidInput, input, AcceptedDueFormats)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

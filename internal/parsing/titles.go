package parsing

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"ytxtract/internal/domain/consts"
)

// SafeTitle keeps letters, digits, spaces, '-' and '_' and trims trailing space.
//
// An empty result returns "".
func SafeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	s := strings.TrimRightFunc(b.String(), unicode.IsSpace)
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	if r := []rune(s); len(r) > consts.MaxSafeTitleLength {
		s = strings.TrimRightFunc(string(r[:consts.MaxSafeTitleLength]), unicode.IsSpace)
	}
	return s
}

// PlaceholderTitle names an item whose info could not be fetched.
func PlaceholderTitle(now time.Time) string {
	return fmt.Sprintf("%s%d", consts.PlaceholderTitle, now.Unix())
}

// FallbackTitle names an item produced by the audio fallback without known info.
func FallbackTitle(now time.Time) string {
	return fmt.Sprintf("%s%d", consts.FallbackPrefix, now.Unix())
}

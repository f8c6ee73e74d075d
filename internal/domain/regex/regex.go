// Package regex compiles and caches various regex expressions.
package regex

import (
	"regexp"
	"sync"
)

var (
	ansiEscape   *regexp.Regexp
	videoIDParam *regexp.Regexp
	anyVideoID   *regexp.Regexp
	listParam    *regexp.Regexp
	validVideoID *regexp.Regexp
	percent      *regexp.Regexp

	once sync.Once
)

func compile() {
	ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	videoIDParam = regexp.MustCompile(`[?&]v=([a-zA-Z0-9_-]{11})`)
	anyVideoID = regexp.MustCompile(`(?:v=|/)([a-zA-Z0-9_-]{11})`)
	listParam = regexp.MustCompile(`[?&]list=([a-zA-Z0-9_-]+)`)
	validVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	percent = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
}

// AnsiEscape matches ANSI color escape codes.
func AnsiEscape() *regexp.Regexp {
	once.Do(compile)
	return ansiEscape
}

// VideoIDParam captures an 11-character id from a v= query parameter.
func VideoIDParam() *regexp.Regexp {
	once.Do(compile)
	return videoIDParam
}

// AnyVideoID captures an 11-character id following v= or a path separator.
func AnyVideoID() *regexp.Regexp {
	once.Do(compile)
	return anyVideoID
}

// ListParam captures a list= query parameter.
func ListParam() *regexp.Regexp {
	once.Do(compile)
	return listParam
}

// ValidVideoID matches a bare 11-character id.
func ValidVideoID() *regexp.Regexp {
	once.Do(compile)
	return validVideoID
}

// Percent captures a percentage in a progress line.
func Percent() *regexp.Regexp {
	once.Do(compile)
	return percent
}

// Package screening implements the keyword-based resume scorer and its experience extractor.
package screening

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Years returned when no explicit duration is stated.
const (
	seniorYears  = 5
	juniorYears  = 1
	defaultYears = 2
)

// space matches any Unicode whitespace, including the no-break space that
// latin-1 and cp1252 decode byte 0xA0 to.
const space = `[\s\x{0b}\p{Z}\x{85}\x{1c}-\x{1f}]`

// experiencePatterns are tried in order; the first pattern with any match decides.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?` + space + `*years?` + space + `*(?:of` + space + `*)?experience`),
	regexp.MustCompile(`experience.*?(\d+)\+?` + space + `*years?`),
}

// ExtractExperience estimates years of experience from free-form resume text.
// It never fails: text without any signal gets the default baseline.
func ExtractExperience(text string) int {
	lower := strings.ToLower(text)

	for _, re := range experiencePatterns {
		if years, ok := maxCapturedInt(re, lower); ok {
			return years
		}
	}

	switch {
	case containsAny(lower, "senior", "lead"):
		return seniorYears
	case containsAny(lower, "junior", "entry"):
		return juniorYears
	default:
		return defaultYears
	}
}

// maxCapturedInt returns the largest integer captured by re's first group.
// Captures that overflow int count as math.MaxInt.
func maxCapturedInt(re *regexp.Regexp, text string) (int, bool) {
	best, found := 0, false
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		switch {
		case errors.Is(err, strconv.ErrRange):
			n = math.MaxInt
		case err != nil:
			continue
		}
		if !found || n > best {
			best, found = n, true
		}
	}
	return best, found
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

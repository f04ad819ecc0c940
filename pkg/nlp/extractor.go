package nlp

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingFloatPattern = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)`)
	leadingIntPattern   = regexp.MustCompile(`^\s*(\d+)`)
)

var numberWords = map[string]float64{
	"zero":  0,
	"none":  0,
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
	"six":   6,
	"seven": 7,
	"eight": 8,
	"nine":  9,
	"ten":   10,
}

// LeadingFloat parses the leading numeric token of text. "2.5 baths",
// "2,5" and "two" all parse; "half" or "" do not.
func LeadingFloat(text string) (float64, bool) {
	text = strings.ToLower(text)

	if m := leadingFloatPattern.FindStringSubmatch(text); len(m) > 1 {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err == nil {
			return v, true
		}
	}

	return leadingWord(text)
}

// LeadingInt parses the leading integer token of text. "4+" yields 4.
func LeadingInt(text string) (int, bool) {
	text = strings.ToLower(text)

	if m := leadingIntPattern.FindStringSubmatch(text); len(m) > 1 {
		v, err := strconv.Atoi(m[1])
		if err == nil {
			return v, true
		}
	}

	v, ok := leadingWord(text)
	if !ok {
		return 0, false
	}
	return int(v), true
}

func leadingWord(text string) (float64, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, false
	}
	v, ok := numberWords[strings.Trim(fields[0], ".,!?")]
	return v, ok
}

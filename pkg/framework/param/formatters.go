package param

import (
	"fmt"
	"strconv"
	"unicode"
)

// Common parameter formatters and parsers

// SecondsFormatter formats a time in seconds, e.g. "0.10 s"
func SecondsFormatter(seconds float64) string {
	return fmt.Sprintf("%.2f s", seconds)
}

// SecondsParser reads the number at the start of str, ignoring any unit.
func SecondsParser(str string) (float64, error) {
	return parseNumericPrefix(str)
}

// PercentFormatter shows a 0..1 level as a percentage, e.g. "80.00 %"
func PercentFormatter(value float64) string {
	return fmt.Sprintf("%.2f %%", value*100)
}

// PercentParser reads a percentage and returns it as a 0..1 level.
func PercentParser(str string) (float64, error) {
	v, err := parseNumericPrefix(str)
	if err != nil {
		return 0, err
	}
	return v * 0.01, nil
}

// parseNumericPrefix parses the longest leading run of digits, '.' and ','.
// A sign or leading space is not part of the number.
func parseNumericPrefix(str string) (float64, error) {
	end := len(str)
	for i, r := range str {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			end = i
			break
		}
	}
	return strconv.ParseFloat(str[:end], 64)
}

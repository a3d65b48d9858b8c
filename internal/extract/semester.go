package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var romanValues = map[rune]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100}

var (
	reRoman          = regexp.MustCompile(`^[IVXLC]+$`)
	reSemesterPrefix = regexp.MustCompile(`^(SEMESTER|SEM)\s*`)
)

var numberToRoman = map[string]string{
	"1": "I", "2": "II", "3": "III", "4": "IV",
	"5": "V", "6": "VI", "7": "VII", "8": "VIII",
}

// codeSemester maps the first two digits of a course code's number to the
// semester those courses usually run in.
var codeSemester = map[int]string{
	10: "I", 11: "I",
	12: "III",
	13: "V",
	14: "VI",
	20: "III", 21: "III",
	22: "V", 23: "V",
}

// studyYearSemester maps "Nth year" folder markers to that year's first semester.
var studyYearSemester = map[int]string{1: "I", 2: "III", 3: "V", 4: "VII"}

// IsRoman reports whether s is made only of the numerals I, V, X, L and C.
func IsRoman(s string) bool {
	return reRoman.MatchString(strings.ToUpper(s))
}

// RomanToNumber decodes a Roman numeral with subtractive notation and returns
// the integer as a string. Unknown characters count as zero.
func RomanToNumber(roman string) string {
	result, prev := 0, 0
	r := []rune(strings.ToUpper(roman))
	for i := len(r) - 1; i >= 0; i-- {
		v := romanValues[r[i]]
		if v >= prev {
			result += v
		} else {
			result -= v
		}
		prev = v
	}
	return strconv.Itoa(result)
}

// NormalizeSemester returns the Roman-numeral form of a semester label.
// "SEM 3", "3" and "III" all become "III". Values outside 1-8 that are not
// Roman numerals are returned uppercased as-is; blank input returns "".
func NormalizeSemester(s string) string {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return ""
	}
	v = reSemesterPrefix.ReplaceAllString(v, "")
	if r, ok := numberToRoman[v]; ok {
		return r
	}
	return v
}

// InferSemesterFromCode guesses a semester from the numeric part of a course
// code, e.g. CS12xx runs in semester III. Returns "" when no rule applies.
func InferSemesterFromCode(code string) string {
	digits := reDigits.FindString(code)
	if len(digits) < 3 {
		return ""
	}
	firstTwo, err := strconv.Atoi(digits[:2])
	if err != nil {
		return ""
	}
	return codeSemester[firstTwo]
}

var reDigits = regexp.MustCompile(`\d+`)

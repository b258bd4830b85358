package display

import (
	"strings"
	"unicode/utf8"

	"github.com/hammamikhairi/wristtimer/internal/domain"
)

// fieldWidth is the width of one "HH:" group in the countdown.
const fieldWidth = 3

// markerLine draws the bar under the selected field of "HH:MM:SS".
func markerLine(unit domain.Unit) string {
	return strings.Repeat(" ", int(unit)*fieldWidth) + "‾‾"
}

// markField brackets the selected field, e.g. "00:[05]:00".
func markField(countdown string, unit domain.Unit, visible bool) string {
	start := int(unit) * fieldWidth
	if !visible || start+2 > len(countdown) {
		return countdown
	}
	return countdown[:start] + "[" + countdown[start:start+2] + "]" + countdown[start+2:]
}

// padTo right-pads s with spaces to n runes so centred lines stay aligned.
func padTo(s string, n int) string {
	if w := utf8.RuneCountInString(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

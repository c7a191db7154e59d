package content

import (
	"strings"

	"github.com/srab2001/myteacher-sub005/internal/types"
)

// ClassifyGradeBand normalizes a raw grade string ("K", "3rd", "Grade 9")
// into one of the fixed bands. Everything except digits and the letter k
// is stripped before matching. Inputs that survive normalization but fit
// no bucket ("K1", "13", "") yield the empty band; ambiguous input is
// rejected rather than guessed.
func ClassifyGradeBand(raw string) types.GradeBand {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if r == 'k' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	switch b.String() {
	case "k", "0", "1", "2":
		return types.GradeBandK2
	case "3", "4", "5":
		return types.GradeBand35
	case "6", "7", "8":
		return types.GradeBand68
	case "9", "10", "11", "12":
		return types.GradeBand912
	default:
		return ""
	}
}

package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkordes/racelog/internal/domain"
)

// NotAvailable is displayed in place of a missing duration.
const NotAvailable = "N/D"

// clockPart is one field of clock text: decimal digits with an optional
// fraction. Signs, exponents and hex forms are rejected.
var clockPart = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseDuration reads "H:MM:SS" or "MM:SS" clock text as seconds.
// Any other shape, blank text, or a part that is not plain decimal digits
// returns domain.Infinite.
func ParseDuration(text string) domain.Seconds {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Infinite
	}
	parts := strings.Split(text, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return domain.Infinite
	}

	var total float64
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if !clockPart.MatchString(p) {
			return domain.Infinite
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return domain.Infinite
		}
		total = total*60 + v
	}
	return domain.Seconds(total)
}

// FormatDuration renders seconds as "MM:SS" below one hour and "H:MM:SS"
// above. Zero and domain.Infinite render as NotAvailable. Fractions are
// rounded to the nearest second.
func FormatDuration(s domain.Seconds) string {
	v := float64(s)
	if v == 0 || s.IsInfinite() || math.IsNaN(v) || v < 0 {
		return NotAvailable
	}
	total := int64(math.Round(v))
	h, m, sec := total/3600, total%3600/60, total%60
	if h == 0 {
		return fmt.Sprintf("%02d:%02d", m, sec)
	}
	return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
}

package progress

import (
	"time"

	"github.com/purpleschool/purpleschool/internal/domain"
)

// dateOf formats a wall-clock instant as a calendar date.
func dateOf(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// daysBetween counts whole calendar days from one date to another.
// Malformed dates count as zero days so a corrupted marker can never
// produce runaway decay or a broken streak.
func daysBetween(from, to string) int {
	a, err := time.Parse(domain.DateLayout, from)
	if err != nil {
		return 0
	}
	b, err := time.Parse(domain.DateLayout, to)
	if err != nil {
		return 0
	}
	return int(b.Sub(a) / (24 * time.Hour))
}

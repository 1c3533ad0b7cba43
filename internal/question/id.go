package question

import (
	"fmt"
	"time"
)

// CustomIDPrefix prefixes generated IDs of user-authored questions.
const CustomIDPrefix = "CUS-"

// NewCustomID returns CUS-<unix millis> when it is free, otherwise the first
// free CUS-<unix millis>-<n>.
func NewCustomID(now time.Time, taken func(string) bool) string {
	base := fmt.Sprintf("%s%d", CustomIDPrefix, now.UnixMilli())
	if !taken(base) {
		return base
	}
	id, _ := NewSuffixedID(now, 0, taken)
	return id
}

// NewSuffixedID returns the first free CUS-<unix millis>-<n> with n > after,
// together with n so batch callers can keep counting.
func NewSuffixedID(now time.Time, after int, taken func(string) bool) (string, int) {
	base := fmt.Sprintf("%s%d", CustomIDPrefix, now.UnixMilli())
	for n := after + 1; ; n++ {
		id := fmt.Sprintf("%s-%d", base, n)
		if !taken(id) {
			return id, n
		}
	}
}

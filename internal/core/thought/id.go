package thought

import (
	"fmt"
	"strings"
	"time"
)

// IDTimeLayout is the timestamp prefix of a thought id.
const IDTimeLayout = "20060102150405"

// IDSuffixLen is the number of random lowercase letters after the timestamp.
const IDSuffixLen = 6

// GenerateThoughtID builds a thought id from the creation time and a random
// lowercase suffix. Ids sort lexicographically by creation time.
func GenerateThoughtID(now time.Time, suffix string) string {
	return now.UTC().Format(IDTimeLayout) + suffix
}

// ValidateThoughtID checks the id shape.
func ValidateThoughtID(id string) error {
	if len(id) != len(IDTimeLayout)+IDSuffixLen {
		return fmt.Errorf("invalid thought id %q: expected %d characters", id, len(IDTimeLayout)+IDSuffixLen)
	}
	if _, err := time.Parse(IDTimeLayout, id[:len(IDTimeLayout)]); err != nil {
		return fmt.Errorf("invalid thought id %q: bad timestamp", id)
	}
	if strings.Trim(id[len(IDTimeLayout):], "abcdefghijklmnopqrstuvwxyz") != "" {
		return fmt.Errorf("invalid thought id %q: suffix must be lowercase letters", id)
	}
	return nil
}

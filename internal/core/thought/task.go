package thought

import (
	"errors"
	"fmt"
	"strings"
)

// TaskMarker begins the committed task statement in an elicitation response.
const TaskMarker = "I will"

// ErrMalformedTaskResponse is returned when the response does not end with a task statement.
var ErrMalformedTaskResponse = errors.New("malformed task response")

// ParseTaskResponse extracts the task statement from an elicitation response.
// The last non-blank line must begin with TaskMarker.
func ParseTaskResponse(response string) (string, error) {
	lines := strings.Split(strings.TrimSpace(response), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return "", fmt.Errorf("%w: empty response", ErrMalformedTaskResponse)
	}
	if !strings.HasPrefix(last, TaskMarker) {
		return "", fmt.Errorf("%w: final line does not begin with %q", ErrMalformedTaskResponse, TaskMarker)
	}
	return last, nil
}

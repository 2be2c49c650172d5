// Package plan contains the pure business logic for thought plans.
// A plan is an ordered list of steps, each naming one tool from a fixed
// vocabulary. This is part of the Functional Core - no I/O.
package plan

import (
	"errors"
	"fmt"
)

// ErrUnhandledTool is returned when a tool name is outside the vocabulary.
var ErrUnhandledTool = errors.New("unhandled tool")

// Tool names one of the fixed actions a persona can take.
type Tool string

// The closed tool vocabulary.
const (
	ToolQueryForInfo    Tool = "QueryForInfo"
	ToolReadFromJournal Tool = "ReadFromJournal"
	ToolReadLatestBlogs Tool = "ReadLatestBlogs"
	ToolWriteInJournal  Tool = "WriteInJournal"
	ToolCreateArt       Tool = "CreateArt"
	ToolWriteBlogPost   Tool = "WriteBlogPost"
	ToolPostOnSocial    Tool = "PostOnSocial"
)

// Tools lists the vocabulary in catalog order.
var Tools = []Tool{
	ToolReadLatestBlogs,
	ToolReadFromJournal,
	ToolCreateArt,
	ToolWriteInJournal,
	ToolPostOnSocial,
	ToolWriteBlogPost,
	ToolQueryForInfo,
}

// ParseTool converts a raw name into a Tool.
func ParseTool(name string) (Tool, error) {
	for _, t := range Tools {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnhandledTool, name)
}

// Valid reports whether the tool is part of the vocabulary.
func (t Tool) Valid() bool {
	_, err := ParseTool(string(t))
	return err == nil
}

// Step is one entry in a thought's plan.
type Step struct {
	ToolName Tool   `json:"tool_name"`
	Purpose  string `json:"purpose"`
}

// Format renders the step as "<tool_name>: <purpose>".
func (s Step) Format() string {
	return fmt.Sprintf("%s: %s", s.ToolName, s.Purpose)
}

// Equal reports whether two plans hold the same steps in the same order.
func Equal(a, b []Step) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

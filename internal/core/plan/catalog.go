package plan

import "strings"

var descriptions = map[Tool]string{
	ToolReadLatestBlogs: "Returns the contents of your latest 3 blog posts, useful to ensure continuity.",
	ToolReadFromJournal: "Returns the contents of your latest 3 journal entries.",
	ToolCreateArt: "Generate a piece of art; you can use this to photograph things, paint pictures, " +
		"and produce digital art of all kinds.",
	ToolWriteInJournal: "Record information in a journal; use this whenever you need a step to think about something, " +
		"for example after QueryForInfo you could journal and then create a piece of art. " +
		"Writing in your journal resets your working context to the entry you write.",
	ToolPostOnSocial: "Send a short message out to the social media sphere. If you use this immediately after " +
		"CreateArt, the art will be included in the post.",
	ToolWriteBlogPost: "Write a long format blog post; ensure you are ready to publish before using this action, " +
		"as there is no editing or drafts. Art created earlier in the same task is linked into the post.",
	ToolQueryForInfo: "Your main interface for asking questions and learning things; you can query for any piece " +
		"of information and receive a response. Information learned this way is the only thing you can " +
		"utilize when writing blog entries.",
}

// Describe returns the prompt description of a tool.
func Describe(t Tool) string {
	return descriptions[t]
}

// Catalog renders every tool with its description, one paragraph each.
func Catalog() string {
	var b strings.Builder
	for i, t := range Tools {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(string(t))
		b.WriteString(" - ")
		b.WriteString(descriptions[t])
	}
	return b.String()
}

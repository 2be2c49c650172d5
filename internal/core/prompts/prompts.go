// Package prompts builds the text sent to the reasoning backend.
// Every builder is a pure function of its inputs.
package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/core/plan"
	"github.com/example/muse/internal/core/thought"
	"github.com/example/muse/internal/personas"
)

// BlankContext stands in for an empty rolling context.
const BlankContext = "Your context is currently blank"

// NoRecentActions stands in for an empty task history.
const NoRecentActions = "You have not completed any tasks yet."

func contextOrBlank(t *thought.Thought) string {
	if strings.TrimSpace(t.Context) == "" {
		return BlankContext
	}
	return t.Context
}

// setup renders the header shared by the step prompts.
func setup(now time.Time, t *thought.Thought, p personas.Persona, opts personas.FormatOptions, step plan.Step, withContext bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# SETUP\n\nToday's date is: %s\n\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "You are acting as the following persona:\n\n%s\n\n", p.Format(opts))
	fmt.Fprintf(&b, "You are currently working to accomplish the following task:\n\n%s\n\n", t.Rationale)
	fmt.Fprintf(&b, "You are currently performing this action: %q\n\n", step.Format())
	if withContext {
		fmt.Fprintf(&b, "## CURRENT CONTEXT WINDOW\n\n%s\n\n", contextOrBlank(t))
	}
	return b.String()
}

// RecentActions renders completed tasks as bullets, most recent first.
func RecentActions(recent []*thought.Thought) string {
	if len(recent) == 0 {
		return NoRecentActions
	}
	lines := make([]string, 0, len(recent))
	for _, t := range recent {
		lines = append(lines, "* "+t.InitialThought)
	}
	return strings.Join(lines, "\n")
}

// NewThought asks the persona to choose a task. The response must end with
// a line beginning with thought.TaskMarker.
func NewThought(p personas.Persona, recent []*thought.Thought, nudge string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## TAKE ON THE FOLLOWING PERSONA\n\n%s\n\n", p.Format(personas.FormatOptions{IncludeBloggingVoice: true}))
	b.WriteString("## YOUR JOB\n\n")
	b.WriteString("Your job now is to come up with a specific task that can be completed utilizing the available tools.\n")
	b.WriteString("It is important to choose a task that is in-line with your persona and that can be accomplished with your tools.\n")
	b.WriteString("You can build upon a previous task, for example if you have previously created a piece of Art you could choose\n")
	b.WriteString("to write a blog post about it.\n\n")
	b.WriteString("Don't try to do too much in a single thought, ideally keep it to 6 or fewer steps.\n\n")
	fmt.Fprintf(&b, "## AVAILABLE TOOLS\n\n%s\n\n", plan.Catalog())
	fmt.Fprintf(&b, "## RECENTLY COMPLETED ACTIONS\n\nTasks you have recently completed, most recent first:\n\n%s\n\n", RecentActions(recent))
	b.WriteString("------\n\nNOW CHOOSE A TASK\n")
	b.WriteString("Now is the time to define the specific task you will do, ensuring the use of at least one output tool.\n")
	b.WriteString("Consider your recently completed actions, try not to repeat the exact action over and over.\n\n")
	b.WriteString("Define a plan on how to achieve this utilizing the available tools,\n")
	b.WriteString("laying out the decisions you may need to make at each step using the following format:")
	if nudge = strings.ReplaceAll(strings.TrimSpace(nudge), "\n", ""); nudge != "" {
		b.WriteString("\n\nA SYSTEM USER REQUESTED YOU INCORPORATE THE FOLLOWING INTO YOUR CHOSEN TASK; ")
		b.WriteString("DO SO IF THE SUGGESTION IS IN-LINE WITH YOUR CHARACTER:\n\n\t^^^")
		b.WriteString(nudge)
		b.WriteString("^^^")
	}
	b.WriteString("\n\n## RATIONALE\n\nWhy you choose this task\n\n")
	b.WriteString("## Plan\n\nA brief plan on how to accomplish the task with the available tools\n\n")
	b.WriteString("## Task\n")
	b.WriteString(thought.TaskMarker)
	b.WriteString("...\n\n----\n\n")
	fmt.Fprintf(&b, "Respond now, ensuring your Task begins with %q", thought.TaskMarker)
	return b.String()
}

// PlanTask asks for the rationale to be reformatted as a JSON step list.
func PlanTask(t *thought.Thought) string {
	var b strings.Builder
	b.WriteString("# CONTEXT\nGiven the following rationale, plan, and task, and the listing of available tools,\n")
	b.WriteString("reformat the plan into a json listing.\n\n")
	fmt.Fprintf(&b, "# TASK\n\n%s\n\n", t.Rationale)
	fmt.Fprintf(&b, "# AVAILABLE TOOLS\n\n%s\n\n", plan.Catalog())
	b.WriteString("------\n\n")
	b.WriteString("NOW OUTPUT THE PLAN IN JSON; do not output any additional text other than the raw JSON output.\n")
	b.WriteString("Every tool_name must be exactly one of the available tools.\nExample:\n\n")
	b.WriteString(`[{"tool_name": "ReadLatestBlogs", "purpose": "Review recent blog topics before picking a new one"}]`)
	return b.String()
}

// SummarizeForContext folds action output into the rolling context.
func SummarizeForContext(t *thought.Thought, p personas.Persona, step plan.Step, output string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# SETUP\n\nYou are acting as the following persona:\n\n* %s\n* %s\n\n", p.Name, p.ShortDescription)
	fmt.Fprintf(&b, "You are currently working to accomplish the following task:\n\n%s\n\n", t.Rationale)
	fmt.Fprintf(&b, "You have just executed this action: %q\n\nThe output from this action will follow.\n\n", step.Format())
	b.WriteString("# JOB\n\n")
	b.WriteString("Your job now is to consider the output of the action and add information relevant to your task plan\n")
	b.WriteString("from this output into your context window. This context window is the only part of the output that\n")
	b.WriteString("will be carried forward to the future actions. Capture whatever may be useful in your future actions,\n")
	b.WriteString("including specific quotes when appropriate to the task at hand.\n\n")
	b.WriteString("Here is your current context window; you must retain or rewrite this information, along with whatever\n")
	b.WriteString("additional information you want to add based on the output you receive.\n\n")
	fmt.Fprintf(&b, "## CURRENT CONTEXT WINDOW\n\n%s\n\n~~~\n\n", contextOrBlank(t))
	b.WriteString("OUTPUT ONLY THE NEW CONTEXT WINDOW WITH NO ADDITIONAL TEXT. DO NOT UTILIZE MARKDOWN FORMATTING IN THIS RESPONSE\n\n")
	fmt.Fprintf(&b, "ACTION OUTPUT BEGINS NOW:\n\n%s\n", output)
	return b.String()
}

// GenerateQuestions asks for one to three research questions.
func GenerateQuestions(t *thought.Thought, p personas.Persona, step plan.Step) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# SETUP\n\nYou are acting as the following persona:\n\n* %s\n* %s\n\n", p.Name, p.ShortDescription)
	fmt.Fprintf(&b, "You are currently working to accomplish the following task:\n\n%s\n\n", t.Rationale)
	fmt.Fprintf(&b, "You are currently performing this action: %q\n\n", step.Format())
	fmt.Fprintf(&b, "## CURRENT CONTEXT WINDOW\n\n%s\n\n", contextOrBlank(t))
	b.WriteString("# JOB\n\n")
	b.WriteString("Your job now is to consider the action you are performing, your overall task, and your current context and come\n")
	b.WriteString("up with one or more appropriate questions or queries. You will then receive responses to those queries to update\n")
	b.WriteString("your context window.\n\n")
	b.WriteString("You may ask 1, 2, or 3 questions. The more detailed and specific the better quality the response will be.\n")
	b.WriteString("One detailed question is better than 3 lackluster questions.\n\n")
	b.WriteString("OUTPUT YOUR QUESTIONS NOW, EACH ON A SEPARATE LINE. DO NOT INCLUDE ANY ADDITIONAL TEXT OTHER THAN THE QUESTIONS.\n")
	return b.String()
}

// AnswerQuestions asks for encyclopedia-style answers.
func AnswerQuestions(questions []string) string {
	var b strings.Builder
	b.WriteString("Write an answer to the following question or questions as if you were writing a wikipedia article\n\n")
	b.WriteString("* Be sure to restate the question. If there are multiple questions, address each separately\n")
	b.WriteString("* Do not generate more than a few paragraphs for each question.\n")
	b.WriteString("* You may utilize markdown formatting in your response\n")
	b.WriteString("* Do not output anything other than the restated questions and answers\n\n")
	b.WriteString("Questions:\n")
	for _, q := range questions {
		b.WriteString(q)
		b.WriteString("\n")
	}
	return b.String()
}

// WriteJournalEntry asks for a journal entry.
func WriteJournalEntry(now time.Time, t *thought.Thought, p personas.Persona, step plan.Step) string {
	var b strings.Builder
	b.WriteString(setup(now, t, p, personas.FormatOptions{IncludeBloggingVoice: true}, step, true))
	b.WriteString("# JOB\n\n")
	b.WriteString("Your job now is to write the journal entry, taking into account your personality, context window, and purpose.\n\n")
	b.WriteString("You may use markdown formatting in your response.\n\n")
	b.WriteString("OUTPUT THE JOURNAL ENTRY NOW. DO NOT INCLUDE ANY ADDITIONAL TEXT OTHER THAN THE ENTRY.\n")
	return b.String()
}

// CreateArtwork asks for a single-paragraph description that names the medium first.
func CreateArtwork(now time.Time, t *thought.Thought, p personas.Persona, step plan.Step) string {
	var b strings.Builder
	b.WriteString(setup(now, t, p, personas.FormatOptions{IncludePhysical: true}, step, true))
	b.WriteString("# JOB\n\nYour job now is to create art!\n\n")
	b.WriteString("You create art by providing a detailed description of the piece, taking into account your personality,\n")
	b.WriteString("context window, and purpose. You can create artwork of nearly any type, be it a painting,\n")
	b.WriteString("photograph, statue, computer program, or anything else. Avoid mentioning most proper nouns,\n")
	b.WriteString("rather describe what can be seen, and limit the output to a single paragraph.\n\n")
	b.WriteString("DO NOT NAME THE ARTWORK NOW, YOU WILL NAME IT AT A LATER TIME.\n\n")
	b.WriteString("DO NOT OUTPUT MORE THAN ONE PARAGRAPH.\n\n")
	b.WriteString("OUTPUT THE DESCRIPTION OF THE NEW ARTWORK NOW. DO NOT INCLUDE ANY ADDITIONAL TEXT OTHER THAN THE DESCRIPTION.\n\n")
	b.WriteString(`ALWAYS BEGIN BY STATING WHAT TYPE OF ARTWORK YOU ARE CREATING, E.G. "An oil painting of...", "A photograph of..."`)
	b.WriteString("\n")
	return b.String()
}

// TitleArtwork asks for a title for a described artwork.
func TitleArtwork(now time.Time, t *thought.Thought, p personas.Persona, step plan.Step, description string) string {
	var b strings.Builder
	b.WriteString(setup(now, t, p, personas.FormatOptions{IncludePhysical: true}, step, false))
	b.WriteString("# JOB\n\nYou've just created a new piece of art. Now you must give it a title\n\n")
	fmt.Fprintf(&b, "Here is the description of the art you've created:\n\n%s\n\n", description)
	b.WriteString("OUTPUT THE NAME OF THE NEW ARTWORK NOW. DO NOT INCLUDE ANY ADDITIONAL TEXT OTHER THAN THE NAME\n")
	return b.String()
}

// TitleBlog asks for the title of an upcoming blog post.
func TitleBlog(now time.Time, t *thought.Thought, p personas.Persona, step plan.Step) string {
	var b strings.Builder
	b.WriteString(setup(now, t, p, personas.FormatOptions{IncludePhysical: true}, step, true))
	b.WriteString("# JOB\n\nYou are ready to create a new blog entry. The first step is to come up with a title, taking into account your\n")
	b.WriteString("personality, context window, and purpose.\n\n")
	b.WriteString("OUTPUT THE TITLE OF THE UPCOMING BLOG POST. DO NOT INCLUDE ANY ADDITIONAL TEXT OTHER THAN THE TITLE\n")
	return b.String()
}

// WriteBlogEntry asks for the Markdown body of a titled blog post.
func WriteBlogEntry(now time.Time, t *thought.Thought, p personas.Persona, step plan.Step, title string, art []*content.Art) string {
	var b strings.Builder
	b.WriteString(setup(now, t, p, personas.FormatOptions{IncludePhysical: true}, step, true))
	fmt.Fprintf(&b, "# JOB\n\nYou are ready to create a new blog entry. You've just come up with a title:\n\n%q\n\n", title)
	fmt.Fprintf(&b, "Your writing style:\n%s\n\n", p.BloggingVoice)
	b.WriteString("To create the blog post, simply output the markdown contents of the post.\n\n")
	if len(art) > 0 {
		b.WriteString("The following artwork you created will be displayed alongside the post; you may refer to it:\n\n")
		for _, a := range art {
			fmt.Fprintf(&b, "* %s: %s\n", a.Title, a.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("DO NOT INCLUDE THE TITLE OF THE BLOG POST, OR A BYLINE; THESE WILL BE ADDED AS WELL.\n\n")
	b.WriteString("OUTPUT THE CONTENT OF THE BLOG POST. DO NOT INCLUDE ANY ADDITIONAL TEXT OTHER THAN THE CONTENTS.\n")
	return b.String()
}

// PostOnSocial asks for a short social media post.
func PostOnSocial(now time.Time, t *thought.Thought, p personas.Persona, step plan.Step, art *content.Art) string {
	var b strings.Builder
	b.WriteString(setup(now, t, p, personas.FormatOptions{IncludePhysical: true}, step, true))
	b.WriteString("# JOB\n\nYou are ready to create a social media post; this is a short message, generally a single sentence.\n")
	if art != nil {
		fmt.Fprintf(&b, "Your artwork %q will be included in the post.\n", art.Title)
	}
	fmt.Fprintf(&b, "\nYour writing style:\n%s\n\n", p.BloggingVoice)
	b.WriteString("Your job now is to simply output the contents of the social media post.\n\n")
	b.WriteString("OUTPUT THE CONTENT OF THE POST. DO NOT INCLUDE ANY ADDITIONAL TEXT OTHER THAN THE POST CONTENTS.\n")
	return b.String()
}

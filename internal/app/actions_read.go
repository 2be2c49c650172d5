package app

import (
	"context"
	"strings"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/core/prompts"
)

const (
	noJournalEntries = "You have not written any journal entries yet."
	noBlogEntries    = "You have not published any blog posts yet."
)

// queryForInfo asks the backend for research questions, answers them, and
// summarizes the answers into the context.
func (s *ThoughtServiceImpl) queryForInfo(ctx context.Context, in actionInput) (*actionOutput, error) {
	in.report("generating questions")
	response, err := s.complete(ctx, "generate questions",
		prompts.GenerateQuestions(in.thought, in.persona, in.step))
	if err != nil {
		return nil, err
	}
	questions := parseQuestions(response)

	in.report("answering questions")
	answers, err := s.complete(ctx, "answer questions", prompts.AnswerQuestions(questions))
	if err != nil {
		return nil, err
	}

	summary, err := s.summarize(ctx, in, answers)
	if err != nil {
		return nil, err
	}
	return &actionOutput{context: summary, output: answers}, nil
}

// parseQuestions keeps at most three non-blank lines.
func parseQuestions(response string) []string {
	var questions []string
	for _, line := range strings.Split(response, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == 3 {
			break
		}
	}
	return questions
}

// readFromJournal summarizes the persona's latest journal entries into the context.
func (s *ThoughtServiceImpl) readFromJournal(ctx context.Context, in actionInput) (*actionOutput, error) {
	in.report("reading journal")
	entries, err := s.content.LatestJournalEntries(ctx, in.persona.Name, readLimit)
	if err != nil {
		return nil, err
	}
	return s.summarizeRead(ctx, in, renderEntries(entries, noJournalEntries))
}

// readLatestBlogs summarizes the persona's latest blog entries into the context.
func (s *ThoughtServiceImpl) readLatestBlogs(ctx context.Context, in actionInput) (*actionOutput, error) {
	in.report("reading blog")
	entries, err := s.content.LatestBlogEntries(ctx, in.persona.Name, readLimit)
	if err != nil {
		return nil, err
	}
	return s.summarizeRead(ctx, in, renderEntries(entries, noBlogEntries))
}

func (s *ThoughtServiceImpl) summarizeRead(ctx context.Context, in actionInput, output string) (*actionOutput, error) {
	summary, err := s.summarize(ctx, in, output)
	if err != nil {
		return nil, err
	}
	return &actionOutput{context: summary, output: output}, nil
}

// renderEntries joins the canonical renderings, or returns empty when there are none.
func renderEntries[E content.Entity](entries []E, empty string) string {
	if len(entries) == 0 {
		return empty
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.Format())
	}
	return strings.Join(parts, contextSeparator)
}

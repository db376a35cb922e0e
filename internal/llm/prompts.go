package llm

import (
	"fmt"

	"github.com/qualityslop/backend/internal/events"
)

const EventExplanationSystemPrompt = `You are a financial literacy tutor for teenagers.

An event is given below. Explain what happened in simple language.

Write ONLY 1 to 4 sentences.
Use simple words, as if explaining to a 14-year-old.
Do not use bullet points or headings.
Do not add extra information beyond what is in the event.`

const TextExplanationSystemPrompt = `You are a financial literacy tutor for teenagers.

Some text is highlighted inside a sentence. Explain what the text means,
given the sentence it appears in.

Explain the text in simple language, based on how it is used in this sentence.

Requirements:
- Write ONLY 1 to 3 sentences.
- Use simple words, as if explaining to a 14-year-old.
- Focus on the meaning of the text in this context.
- Do not add extra information unrelated to the sentence.`

func BuildEventPrompt(ev events.Event) string {
	return fmt.Sprintf("Event:\n- Date: %s\n- Title: %s\n- Description: %s\n",
		ev.Date.Format("2006-01-02"), ev.Title, ev.Description)
}

func BuildTextExplanationPrompt(text, context string) string {
	return fmt.Sprintf("Sentence:\n%s\n\nHighlighted text:\n%q\n", context, text)
}

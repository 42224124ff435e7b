package ai

import (
	"fmt"
	"strings"

	"github.com/thoughtpipe/thought-pipeline/internal/topic"
)

// ResearchedTopic is the structure the generation service returns for a
// topic research request.
type ResearchedTopic struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Details    string `json:"details"`
	Link       string `json:"link"`
	PostWorthy string `json:"postWorthy"`
}

// Thread is the structure the generation service returns for a merge
// request.
type Thread struct {
	Title string   `json:"title"`
	Posts []string `json:"posts"`
}

const researchSystem = `You are a research assistant. Given a topic idea, research it thoroughly and return a JSON object with these fields:
- "title": a concise, engaging title
- "summary": 2-3 sentence overview of the topic
- "details": why this matters, different angles, key insights (2-3 sentences)
- "link": a relevant URL for further reading (real, well-known source)
- "postWorthy": your assessment of whether this is worth posting about and why (1 sentence)

Return ONLY valid JSON, no markdown fences.`

// ResearchPrompt builds the system/user pair for turning a raw idea into a
// structured topic.
func ResearchPrompt(idea string) (system, user string) {
	return researchSystem, "Research this topic idea: " + idea
}

const draftSystem = `You are a LinkedIn ghostwriter for a Head of Technology at a fintech startup. Write engaging, authentic LinkedIn posts. Keep it concise (150-250 words), use a conversational but professional tone. Include a hook in the first line. No hashtags unless they add real value. The user will provide an article summary and their voice note thoughts - combine both into a polished draft.`

// DraftPrompt builds the system/user pair for generating a post draft from a
// topic and the user's voice note transcript.
func DraftPrompt(t topic.Topic, transcript string) (system, user string) {
	user = fmt.Sprintf(
		"Article: %s\n\nSummary: %s\n\nWhy it matters: %s\n\nLink: %s\n\nMy thoughts (voice note): %s\n\nWrite a LinkedIn post draft combining the article info with my personal take.",
		t.Title, t.Summary, t.Details, t.Link, transcript,
	)
	return draftSystem, user
}

const threadSystem = `You are a content strategist. The user gives you several related topics. Weave them into one narrative thread and return a JSON object with these fields:
- "title": a title for the combined thread
- "posts": an array of 3-6 short post texts that build on each other

Return ONLY valid JSON, no markdown fences.`

// ThreadPrompt builds the system/user pair for merging topics into a thread.
// A non-empty title is passed along as the preferred thread title.
func ThreadPrompt(topics []topic.Topic, title string) (system, user string) {
	var b strings.Builder
	for i, t := range topics {
		fmt.Fprintf(&b, "Topic %d: %s\nSummary: %s\nWhy it matters: %s\n\n", i+1, t.Title, t.Summary, t.Details)
	}
	if title != "" {
		fmt.Fprintf(&b, "Preferred thread title: %s\n\n", title)
	}
	b.WriteString("Merge these topics into one thread.")
	return threadSystem, b.String()
}

// SpokenText is what the TTS service reads aloud for a topic.
func SpokenText(t topic.Topic) string {
	return fmt.Sprintf("%s. %s %s", t.Title, t.Summary, t.Details)
}

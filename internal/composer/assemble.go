// Package composer assembles the prompt sent to the completion API:
// the full text of every loaded document, the selected user's profile
// context, and the question, as a fixed two-message sequence.
package composer

import (
	"fmt"
	"strings"

	"github.com/avellar/docask/internal/document"
	"github.com/avellar/docask/internal/groq"
	"github.com/avellar/docask/internal/profile"
)

// SystemInstruction pins the assistant to the provided material.
const SystemInstruction = "You are a helpful, personalized assistant. " +
	"Answer questions based on the provided document context and user context. " +
	"Tailor your response to the user's preferences and history when relevant. " +
	"If the answer is not in the document, say 'The information is not available in the provided document.'"

// NoDocumentsMessage is what callers return when assembly short-circuits
// on an empty collection; the generator must not be invoked in that case.
const NoDocumentsMessage = "No documents loaded. Please load a document first."

// recentHistoryCount bounds how many trailing history entries are
// injected into the prompt.
const recentHistoryCount = 3

// Assemble builds the message sequence for a question: a system
// instruction followed by one user message holding the document
// context block, the optional user-context block, and the question.
// Every loaded document's text is included in collection order with
// blank-line separators; there is no truncation or relevance filtering.
//
// ok is false when docs is empty, regardless of question or profile.
func Assemble(question string, docs []document.Document, userID string, prof *profile.Profile) (msgs []groq.Message, ok bool) {
	if len(docs) == 0 {
		return nil, false
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	var sb strings.Builder
	sb.WriteString("Document context:\n")
	sb.WriteString(strings.Join(texts, "\n\n"))

	if userCtx := userContext(userID, prof); userCtx != "" {
		sb.WriteString("\n\nUser Context:\n")
		sb.WriteString(userCtx)
	}

	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)

	return []groq.Message{
		{Role: groq.RoleSystem, Content: SystemInstruction},
		{Role: groq.RoleUser, Content: sb.String()},
	}, true
}

func userContext(userID string, prof *profile.Profile) string {
	if prof != nil {
		return FormatProfile(*prof)
	}
	if userID != "" {
		return fmt.Sprintf("User ID: %s (no profile data available)", userID)
	}
	return ""
}

// FormatProfile renders a profile for prompt injection: a name line,
// the preference tags joined with ", ", and only the last three
// history entries, oldest first.
func FormatProfile(p profile.Profile) string {
	lines := []string{"Name: " + p.DisplayName()}

	if len(p.Preferences) > 0 {
		lines = append(lines, "Preferences: "+strings.Join(p.Preferences, ", "))
	}

	if len(p.History) > 0 {
		recent := p.History
		if len(recent) > recentHistoryCount {
			recent = recent[len(recent)-recentHistoryCount:]
		}
		lines = append(lines, "Recent interactions: "+strings.Join(recent, ", "))
	}

	return strings.Join(lines, "\n")
}

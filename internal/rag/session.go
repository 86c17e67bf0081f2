package rag

import (
	"github.com/avellar/docask/internal/document"
	"github.com/avellar/docask/internal/groq"
)

// Turn is one entry of a session's conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session carries the per-conversation state: the loaded documents,
// the conversation history, and the currently selected profile id.
// It is an explicit value passed into Service calls so that a future
// multi-session version only needs to hand out more of them.
type Session struct {
	Docs    *document.Collection
	History []Turn
	UserID  string
}

// NewSession returns an empty session with no documents and no
// selected profile.
func NewSession() *Session {
	return &Session{Docs: document.NewCollection()}
}

func (s *Session) appendTurn(role, content string) {
	s.History = append(s.History, Turn{Role: role, Content: content})
}

func (s *Session) appendUser(content string)      { s.appendTurn(groq.RoleUser, content) }
func (s *Session) appendAssistant(content string) { s.appendTurn(groq.RoleAssistant, content) }

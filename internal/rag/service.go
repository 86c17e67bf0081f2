// Package rag is the facade the console, HTTP API, and MCP server
// share: load documents into a session, maintain profiles, and answer
// questions by sending assembled context to the completion API.
package rag

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avellar/docask/internal/composer"
	"github.com/avellar/docask/internal/document"
	"github.com/avellar/docask/internal/generate"
	"github.com/avellar/docask/internal/profile"
	"github.com/avellar/docask/internal/storage"
)

// Service composes the profile store, context assembly, and the
// generator behind single-call operations.
type Service struct {
	model    string
	profiles *profile.Store
	gen      *generate.Generator
	log      *storage.Store // optional interaction log; nil disables recording
	fetcher  *http.Client
	logger   *slog.Logger
}

// New creates a Service answering with the given model. log may be nil
// to disable interaction recording.
func New(model string, profiles *profile.Store, gen *generate.Generator, log *storage.Store) *Service {
	return &Service{
		model:    model,
		profiles: profiles,
		gen:      gen,
		log:      log,
		fetcher:  &http.Client{Timeout: 15 * time.Second},
		logger:   slog.Default(),
	}
}

// Model returns the configured completion model identifier.
func (s *Service) Model() string { return s.model }

// Profiles exposes the shared profile store.
func (s *Service) Profiles() *profile.Store { return s.profiles }

// Configured reports whether the generator has an outbound client.
func (s *Service) Configured() bool { return s.gen.Configured() }

// Ask answers a question from the session's loaded documents and the
// selected profile. With no documents loaded it returns the fixed
// sentinel without invoking the generator. The question and answer are
// appended to the session history and recorded to the interaction log.
func (s *Service) Ask(ctx context.Context, sess *Session, question string) string {
	docs := sess.Docs.List()

	msgs, ok := composer.Assemble(question, docs, sess.UserID, s.lookupProfile(sess.UserID))
	if !ok {
		return composer.NoDocumentsMessage
	}

	sess.appendUser(question)
	answer := s.gen.Generate(ctx, msgs, s.model)
	sess.appendAssistant(answer)

	s.record(sess.UserID, question, answer, docs)
	return answer
}

// LoadPDF extracts a PDF into the session's document collection.
func (s *Service) LoadPDF(sess *Session, path string) (document.Document, error) {
	doc, err := document.LoadPDF(path)
	if err != nil {
		return document.Document{}, err
	}
	sess.Docs.Append(doc)
	s.logger.Info("document loaded", "name", doc.Name, "pages", doc.Pages, "chars", doc.CharCount)
	return doc, nil
}

// LoadURL fetches a web page into the session's document collection.
func (s *Service) LoadURL(ctx context.Context, sess *Session, url string) (document.Document, error) {
	doc, err := document.LoadURL(ctx, s.fetcher, url)
	if err != nil {
		return document.Document{}, err
	}
	sess.Docs.Append(doc)
	s.logger.Info("document loaded", "name", doc.Name, "chars", doc.CharCount, "url", url)
	return doc, nil
}

// RemoveDocument removes the first document with the given name.
func (s *Service) RemoveDocument(sess *Session, name string) bool {
	return sess.Docs.Remove(name)
}

// ClearDocuments empties the session's documents and, with them, the
// conversation history: prior turns referred to context that no longer
// exists.
func (s *Service) ClearDocuments(sess *Session) {
	sess.Docs.Clear()
	sess.History = nil
}

func (s *Service) lookupProfile(userID string) *profile.Profile {
	if userID == "" {
		return nil
	}
	p, ok := s.profiles.Get(userID)
	if !ok {
		return nil
	}
	return &p
}

func (s *Service) record(userID, question, answer string, docs []document.Document) {
	if s.log == nil {
		return
	}

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}

	err := s.log.SaveInteraction(storage.Interaction{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		UserID:    userID,
		Question:  question,
		Answer:    answer,
		Model:     s.model,
		Documents: strings.Join(names, ", "),
	})
	if err != nil {
		s.logger.Warn("could not record interaction", "error", err)
	}
}

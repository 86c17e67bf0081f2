package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Interaction is one answered question: what was asked, by which
// profile, against which documents, and what came back.
type Interaction struct {
	ID        string
	CreatedAt time.Time
	UserID    string
	Question  string
	Answer    string
	Model     string
	Documents string // comma-separated document names at ask time
}

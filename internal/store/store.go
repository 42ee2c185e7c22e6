// Package store persists chat history and generated-project records.
//
// Saves are best effort: callers that must not block on a slow backend wrap
// a Sink with NewAsync.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/project"
)

// Collection and table names shared by every backend.
const (
	ChatCollection    = "chat_history"
	ProjectCollection = "projects"
)

// ChatTypeProjectGeneration marks chat records written by the plan step.
const ChatTypeProjectGeneration = "project_generation"

// ChatRecord is one user message and the model's answer.
type ChatRecord struct {
	ID          string    `json:"id" firestore:"chat_id"`
	UserID      string    `json:"userId" firestore:"user_id"`
	UserMessage string    `json:"userMessage" firestore:"user_message"`
	LLMResponse string    `json:"llmResponse" firestore:"llm_response"`
	Type        string    `json:"type" firestore:"type"`
	CreatedAt   time.Time `json:"createdAt" firestore:"created_at"`
}

// ProjectRecord describes a generated project. The archive itself is not
// stored; Location points at wherever the export boundary put it.
type ProjectRecord struct {
	ID           string          `json:"id" firestore:"project_id"`
	UserID       string          `json:"userId" firestore:"user_id"`
	Name         string          `json:"name" firestore:"name"`
	Slug         string          `json:"slug" firestore:"slug"`
	Config       *project.Config `json:"config,omitempty" firestore:"config,omitempty"`
	Plan         string          `json:"plan,omitempty" firestore:"plan"`
	Files        []string        `json:"files" firestore:"files"`
	Placeholders []string        `json:"placeholders,omitempty" firestore:"placeholders"`
	Diagnostics  []string        `json:"diagnostics,omitempty" firestore:"diagnostics"`
	Location     string          `json:"location,omitempty" firestore:"location"`
	CreatedAt    time.Time       `json:"createdAt" firestore:"created_at"`
}

// Sink is a persistence backend.
type Sink interface {
	// SaveChat stores rec for userID and returns the record id.
	SaveChat(ctx context.Context, userID string, rec ChatRecord) (string, error)

	// SaveProject stores rec for userID and returns the record id.
	SaveProject(ctx context.Context, userID string, rec ProjectRecord) (string, error)

	// ListProjects returns the newest projects of userID first. A limit of
	// zero or less means no limit.
	ListProjects(ctx context.Context, userID string, limit int) ([]ProjectRecord, error)

	Close() error
}

func checkUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return oerrors.NewValidationError("user id is required", "", "userId",
			"pass X-User-ID or --user")
	}
	return nil
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

func prepareChat(userID string, rec ChatRecord) (ChatRecord, error) {
	if err := checkUser(userID); err != nil {
		return rec, err
	}
	rec.UserID = userID
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Type == "" {
		rec.Type = ChatTypeProjectGeneration
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now()
	}
	return rec, nil
}

func prepareProject(userID string, rec ProjectRecord) (ProjectRecord, error) {
	if err := checkUser(userID); err != nil {
		return rec, err
	}
	rec.UserID = userID
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now()
	}
	if rec.Files == nil {
		rec.Files = []string{}
	}
	return rec, nil
}

// Discard accepts every record and keeps nothing.
type Discard struct{}

func (Discard) SaveChat(_ context.Context, userID string, rec ChatRecord) (string, error) {
	rec, err := prepareChat(userID, rec)
	return rec.ID, err
}

func (Discard) SaveProject(_ context.Context, userID string, rec ProjectRecord) (string, error) {
	rec, err := prepareProject(userID, rec)
	return rec.ID, err
}

func (Discard) ListProjects(_ context.Context, userID string, _ int) ([]ProjectRecord, error) {
	return []ProjectRecord{}, checkUser(userID)
}

func (Discard) Close() error { return nil }

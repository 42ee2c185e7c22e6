package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// FirestoreOptions selects the Firebase project.
type FirestoreOptions struct {
	ProjectID string

	// CredentialsFile is a service account JSON key. When empty the
	// application default credentials are used.
	CredentialsFile string
}

// FirestoreSink stores records in the chat_history and projects collections.
// Document ids equal record ids.
type FirestoreSink struct {
	client *firestore.Client
}

// NewFirestoreSink initializes the Firebase Admin SDK and opens a Firestore
// client.
func NewFirestoreSink(ctx context.Context, opts FirestoreOptions) (*FirestoreSink, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	var fbConfig *firebase.Config
	if opts.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: opts.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}
	return NewFirestoreSinkFromClient(client), nil
}

// NewFirestoreSinkFromClient wraps an existing client, for example one
// pointed at the emulator.
func NewFirestoreSinkFromClient(client *firestore.Client) *FirestoreSink {
	return &FirestoreSink{client: client}
}

func (s *FirestoreSink) SaveChat(ctx context.Context, userID string, rec ChatRecord) (string, error) {
	rec, err := prepareChat(userID, rec)
	if err != nil {
		return "", err
	}
	if _, err := s.client.Collection(ChatCollection).Doc(rec.ID).Set(ctx, rec); err != nil {
		return "", fmt.Errorf("saving chat history: %w", err)
	}
	return rec.ID, nil
}

func (s *FirestoreSink) SaveProject(ctx context.Context, userID string, rec ProjectRecord) (string, error) {
	rec, err := prepareProject(userID, rec)
	if err != nil {
		return "", err
	}
	if _, err := s.client.Collection(ProjectCollection).Doc(rec.ID).Set(ctx, rec); err != nil {
		return "", fmt.Errorf("saving project: %w", err)
	}
	return rec.ID, nil
}

func (s *FirestoreSink) ListProjects(ctx context.Context, userID string, limit int) ([]ProjectRecord, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}

	q := s.client.Collection(ProjectCollection).
		Where("user_id", "==", userID).
		OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	it := q.Documents(ctx)
	defer it.Stop()

	out := []ProjectRecord{}
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing projects: %w", err)
		}
		var rec ProjectRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decoding project %s: %w", doc.Ref.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *FirestoreSink) Close() error {
	return s.client.Close()
}

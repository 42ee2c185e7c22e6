package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/project"
)

func TestMemorySink_SaveAndList(t *testing.T) {
	ctx := context.Background()
	sink := NewMemorySink()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"one", "two", "three"} {
		_, err := sink.SaveProject(ctx, "u1", ProjectRecord{
			Name:      name,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := sink.SaveProject(ctx, "u2", ProjectRecord{Name: "other"})
	require.NoError(t, err)

	got, err := sink.ListProjects(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "three", got[0].Name)
	assert.Equal(t, "one", got[2].Name)

	limited, err := sink.ListProjects(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := sink.ListProjects(ctx, "nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemorySink_AssignsIDs(t *testing.T) {
	ctx := context.Background()
	sink := NewMemorySink()

	id, err := sink.SaveChat(ctx, "u1", ChatRecord{UserMessage: "hi", LLMResponse: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	chats := sink.Chats("u1")
	require.Len(t, chats, 1)
	assert.Equal(t, id, chats[0].ID)
	assert.Equal(t, "u1", chats[0].UserID)
	assert.Equal(t, ChatTypeProjectGeneration, chats[0].Type)
	assert.False(t, chats[0].CreatedAt.IsZero())

	pid, err := sink.SaveProject(ctx, "u1", ProjectRecord{ID: "fixed", Config: &project.Config{Name: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "fixed", pid)
}

func TestSinks_RejectEmptyUser(t *testing.T) {
	ctx := context.Background()
	sinks := map[string]Sink{
		"memory":  NewMemorySink(),
		"discard": Discard{},
		"async":   NewAsync(NewMemorySink(), time.Second),
	}
	for name, sink := range sinks {
		t.Run(name, func(t *testing.T) {
			_, err := sink.SaveChat(ctx, "  ", ChatRecord{})
			assert.ErrorIs(t, err, oerrors.ErrValidation)

			_, err = sink.SaveProject(ctx, "", ProjectRecord{})
			assert.ErrorIs(t, err, oerrors.ErrValidation)

			_, err = sink.ListProjects(ctx, "", 0)
			assert.ErrorIs(t, err, oerrors.ErrValidation)
		})
	}
}

func TestAsync_SavesInBackground(t *testing.T) {
	inner := NewMemorySink()
	a := NewAsync(inner, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	id, err := a.SaveChat(ctx, "u1", ChatRecord{UserMessage: "plan please"})
	require.NoError(t, err)
	cancel()

	a.Wait()
	chats := inner.Chats("u1")
	require.Len(t, chats, 1)
	assert.Equal(t, id, chats[0].ID)

	pid, err := a.SaveProject(context.Background(), "u1", ProjectRecord{Name: "p"})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	got, err := inner.ListProjects(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pid, got[0].ID)
}

type failingSink struct {
	MemorySink
}

func (*failingSink) SaveProject(context.Context, string, ProjectRecord) (string, error) {
	return "", errors.New("backend down")
}

func TestAsync_FailuresAreReportedNotReturned(t *testing.T) {
	a := NewAsync(&failingSink{}, time.Second)

	var (
		mu   sync.Mutex
		seen []error
	)
	a.OnError = func(err error) {
		mu.Lock()
		seen = append(seen, err)
		mu.Unlock()
	}

	id, err := a.SaveProject(context.Background(), "u1", ProjectRecord{Name: "p"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.NoError(t, a.Close())
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.EqualError(t, seen[0], "backend down")
}

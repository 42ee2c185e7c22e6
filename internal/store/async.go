package store

import (
	"context"
	"sync"
	"time"

	"github.com/devspell/cli/internal/output"
)

// DefaultSaveTimeout bounds one background save.
const DefaultSaveTimeout = 10 * time.Second

// Async wraps a Sink so saves return immediately. Record ids are assigned
// before dispatch, so the caller still gets the id that will be stored.
// Background failures are logged and otherwise dropped.
type Async struct {
	sink    Sink
	timeout time.Duration
	wg      sync.WaitGroup

	// OnError, when set, also receives background failures.
	OnError func(error)
}

// NewAsync wraps sink. A timeout of zero uses DefaultSaveTimeout.
func NewAsync(sink Sink, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = DefaultSaveTimeout
	}
	return &Async{sink: sink, timeout: timeout}
}

func (a *Async) SaveChat(ctx context.Context, userID string, rec ChatRecord) (string, error) {
	rec, err := prepareChat(userID, rec)
	if err != nil {
		return "", err
	}
	a.dispatch(ctx, "chat", rec.ID, func(ctx context.Context) error {
		_, err := a.sink.SaveChat(ctx, userID, rec)
		return err
	})
	return rec.ID, nil
}

func (a *Async) SaveProject(ctx context.Context, userID string, rec ProjectRecord) (string, error) {
	rec, err := prepareProject(userID, rec)
	if err != nil {
		return "", err
	}
	a.dispatch(ctx, "project", rec.ID, func(ctx context.Context) error {
		_, err := a.sink.SaveProject(ctx, userID, rec)
		return err
	})
	return rec.ID, nil
}

// ListProjects reads synchronously from the wrapped sink.
func (a *Async) ListProjects(ctx context.Context, userID string, limit int) ([]ProjectRecord, error) {
	return a.sink.ListProjects(ctx, userID, limit)
}

// Wait blocks until every dispatched save has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}

// Close waits for pending saves, then closes the wrapped sink.
func (a *Async) Close() error {
	a.wg.Wait()
	return a.sink.Close()
}

func (a *Async) dispatch(ctx context.Context, kind, id string, save func(context.Context) error) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		// The request that triggered the save may finish first.
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()

		if err := save(saveCtx); err != nil {
			output.Warn("background save failed", "kind", kind, "id", id, "err", err)
			if a.OnError != nil {
				a.OnError(err)
			}
			return
		}
		output.Debug("background save finished", "kind", kind, "id", id)
	}()
}

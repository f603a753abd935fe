package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/aipx/internal/logging"
	"github.com/vvka-141/aipx/pkg/aipx"
)

func resultFor(id string) aipx.Result {
	return aipx.Result{Root: aipx.Item{ID: id, CollectionID: id, Type: aipx.ItemTypeFolder}}
}

func TestIngest_AllSucceed(t *testing.T) {
	processor := &mockProcessor{results: map[string]aipx.Result{
		"/p/a": resultFor("a"),
		"/p/b": resultFor("b"),
		"/p/c": resultFor("c"),
	}}
	store := &mockStore{}
	svc := NewIngestService(processor, store, logging.NewNullLogger(), 2)

	var mu sync.Mutex
	var seen []string
	svc.OnOutcome = func(o IngestOutcome) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, o.Path)
	}

	outcomes, err := svc.Ingest(context.Background(), []string{"/p/a", "/p/b", "/p/c"}, aipx.FolderProfile{})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	for i, id := range []string{"a", "b", "c"} {
		assert.Equal(t, id, outcomes[i].Result.Root.ID)
		assert.NoError(t, outcomes[i].Err)
	}

	sort.Strings(store.stored)
	assert.Equal(t, []string{"a", "b", "c"}, store.stored)
	assert.Len(t, seen, 3)
}

func TestIngest_FailuresDoNotStopOthers(t *testing.T) {
	processor := &mockProcessor{
		results: map[string]aipx.Result{"/p/ok": resultFor("ok")},
		errs:    map[string]error{"/p/bad": aipx.ErrMissingLabel},
	}
	store := &mockStore{}
	logger := &recordingLogger{}
	svc := NewIngestService(processor, store, logger, 1)

	outcomes, err := svc.Ingest(context.Background(), []string{"/p/bad", "/p/ok"}, aipx.FolderProfile{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, aipx.ErrMissingLabel))
	assert.Equal(t, []string{"ok"}, store.stored)
	assert.Error(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
	assert.Len(t, logger.errors, 1)
}

func TestIngest_StoreFailure(t *testing.T) {
	processor := &mockProcessor{results: map[string]aipx.Result{"/p/a": resultFor("a")}}
	store := &mockStore{err: errors.New("connection reset")}
	svc := NewIngestService(processor, store, logging.NewNullLogger(), 0)

	outcomes, err := svc.Ingest(context.Background(), []string{"/p/a"}, aipx.FolderProfile{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, aipx.ErrStoreFailed))
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, aipx.ExitStoreError, aipx.ExitCodeForError(err))

	var collErr *aipx.CollectionError
	require.True(t, errors.As(outcomes[0].Err, &collErr))
	assert.Equal(t, "/p/a", collErr.Path)
}

func TestIngest_Canceled(t *testing.T) {
	processor := &mockProcessor{errs: map[string]error{"/p/a": context.Canceled}}
	svc := NewIngestService(processor, &mockStore{}, logging.NewNullLogger(), 1)

	_, err := svc.Ingest(context.Background(), []string{"/p/a"}, aipx.FolderProfile{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewIngestService(t *testing.T) {
	svc := NewIngestService(&mockProcessor{}, &mockStore{}, logging.NewNullLogger(), 0)
	assert.Equal(t, aipx.DefaultJobs, svc.jobs)

	assert.Panics(t, func() { NewIngestService(nil, &mockStore{}, logging.NewNullLogger(), 1) })
	assert.Panics(t, func() { NewIngestService(&mockProcessor{}, nil, logging.NewNullLogger(), 1) })
	assert.Panics(t, func() { NewIngestService(&mockProcessor{}, &mockStore{}, nil, 1) })
}

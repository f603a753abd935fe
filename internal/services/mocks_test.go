package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vvka-141/aipx/pkg/aipx"
)

type mockScanner struct {
	manifestPath string
	locateErr    error
	content      []byte
	readErr      error
	objects      []string
	listErr      error
}

func (m *mockScanner) LocateManifest(_ string) (string, error) {
	return m.manifestPath, m.locateErr
}

func (m *mockScanner) ReadManifest(_ string) ([]byte, error) {
	return m.content, m.readErr
}

func (m *mockScanner) ListObjects(_ string) ([]string, error) {
	return m.objects, m.listErr
}

type mockProcessor struct {
	results map[string]aipx.Result
	errs    map[string]error
}

func (m *mockProcessor) Process(_ context.Context, path string, _ aipx.Profile) (aipx.Result, error) {
	if err, ok := m.errs[path]; ok {
		return aipx.Result{}, &aipx.CollectionError{Path: path, Err: err}
	}
	if r, ok := m.results[path]; ok {
		return r, nil
	}
	return aipx.Result{}, fmt.Errorf("unexpected path %s", path)
}

type mockStore struct {
	mu     sync.Mutex
	stored []string
	err    error
}

func (m *mockStore) Store(_ context.Context, result aipx.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.stored = append(m.stored, result.Root.ID)
	return nil
}

type recordingLogger struct {
	mu       sync.Mutex
	verboses []string
	errors   []string
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verboses = append(l.verboses, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Info(string, ...interface{}) {}

func (l *recordingLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

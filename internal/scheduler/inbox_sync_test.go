package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	mu    sync.Mutex
	paths []string
	fail  map[string]bool
}

func (r *recordingSubmitter) SubmitBook(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[filepath.Base(path)] {
		return errors.New("import failed")
	}
	r.paths = append(r.paths, path)
	return nil
}

func (r *recordingSubmitter) submitted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("zip"), 0644))
	return p
}

func TestInboxSync_SubmitsNewBooks(t *testing.T) {
	dir := t.TempDir()
	b := touch(t, dir, "b.epub")
	a := touch(t, dir, "a.kepub.epub")
	touch(t, dir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.epub"), 0755))

	sub := &recordingSubmitter{}
	s := NewInboxSyncScheduler(InboxConfig{Enabled: true, Dir: dir, Schedule: "* * * * *"}, sub)

	status := s.Sync(context.Background())
	assert.Equal(t, 2, status.Submitted)
	assert.Zero(t, status.Failed)
	assert.Equal(t, []string{a, b}, sub.submitted())
	assert.Equal(t, status, s.Status())

	status = s.Sync(context.Background())
	assert.Zero(t, status.Submitted)
	assert.Len(t, sub.submitted(), 2)
}

func TestInboxSync_ResubmitsModifiedFile(t *testing.T) {
	dir := t.TempDir()
	p := touch(t, dir, "a.epub")

	sub := &recordingSubmitter{}
	s := NewInboxSyncScheduler(InboxConfig{Enabled: true, Dir: dir, Schedule: "* * * * *"}, sub)
	s.Sync(context.Background())

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(p, later, later))

	status := s.Sync(context.Background())
	assert.Equal(t, 1, status.Submitted)
	assert.Len(t, sub.submitted(), 2)
}

func TestInboxSync_RetriesFailedFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "bad.epub")

	sub := &recordingSubmitter{fail: map[string]bool{"bad.epub": true}}
	s := NewInboxSyncScheduler(InboxConfig{Enabled: true, Dir: dir, Schedule: "* * * * *"}, sub)

	status := s.Sync(context.Background())
	assert.Equal(t, 1, status.Failed)

	sub.mu.Lock()
	sub.fail = nil
	sub.mu.Unlock()

	status = s.Sync(context.Background())
	assert.Equal(t, 1, status.Submitted)
}

func TestInboxSync_MissingDir(t *testing.T) {
	s := NewInboxSyncScheduler(InboxConfig{Enabled: true, Dir: filepath.Join(t.TempDir(), "missing")}, &recordingSubmitter{})

	status := s.Sync(context.Background())
	assert.Contains(t, status.Message, "scan failed")
}

func TestInboxScheduler_StartStop(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")
	s := NewInboxSyncScheduler(InboxConfig{Enabled: true, Dir: dir, Schedule: "*/5 * * * *"}, &recordingSubmitter{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())
	assert.DirExists(t, dir)

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestInboxScheduler_Disabled(t *testing.T) {
	s := NewInboxSyncScheduler(InboxConfig{Enabled: false, Dir: t.TempDir(), Schedule: "* * * * *"}, &recordingSubmitter{})

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestInboxScheduler_InvalidSchedule(t *testing.T) {
	s := NewInboxSyncScheduler(InboxConfig{Enabled: true, Dir: t.TempDir(), Schedule: "bogus"}, &recordingSubmitter{})

	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/lexreader/internal/utils"
)

// BookSubmitter hands a book file over for import, either running it
// directly or queueing it.
type BookSubmitter interface {
	SubmitBook(ctx context.Context, path string) error
}

// InboxConfig configures the inbox scheduler.
type InboxConfig struct {
	Enabled  bool
	Dir      string
	Schedule string
}

// SyncStatus describes the last inbox scan.
type SyncStatus struct {
	LastRun   time.Time `json:"last_run"`
	Submitted int       `json:"submitted"`
	Failed    int       `json:"failed"`
	Message   string    `json:"message"`
}

// InboxSyncScheduler periodically scans a folder and submits every new
// book file for import. Files already submitted are remembered by path
// and modification time until the process exits.
type InboxSyncScheduler struct {
	config    InboxConfig
	submitter BookSubmitter

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool

	syncMu sync.Mutex
	seen   map[string]time.Time
	status SyncStatus
}

func NewInboxSyncScheduler(cfg InboxConfig, submitter BookSubmitter) *InboxSyncScheduler {
	return &InboxSyncScheduler{
		config:    cfg,
		submitter: submitter,
		cron:      cron.New(cron.WithParser(scheduleParser)),
		seen:      make(map[string]time.Time),
	}
}

// Start schedules the scan if the inbox is enabled and configured.
func (s *InboxSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.config.Enabled {
		log.Printf("[INBOX] Scheduler disabled")
		return nil
	}
	if s.config.Dir == "" {
		log.Printf("[INBOX] Inbox directory not configured, skipping")
		return nil
	}
	if err := ValidateSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}
	if err := os.MkdirAll(s.config.Dir, 0755); err != nil {
		return fmt.Errorf("create inbox dir: %w", err)
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.Sync(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule inbox sync: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("[INBOX] Watching %s with schedule '%s' (%s)",
		s.config.Dir, s.config.Schedule, DescribeSchedule(s.config.Schedule))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the cron and waits for a running scan to finish.
func (s *InboxSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	log.Printf("[INBOX] Scheduler stopped")
}

// RunNow triggers a scan in the background.
func (s *InboxSyncScheduler) RunNow(ctx context.Context) {
	go s.Sync(ctx)
}

func (s *InboxSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next scan will occur, or nil when the
// scheduler is not running.
func (s *InboxSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// Status returns the outcome of the last scan.
func (s *InboxSyncScheduler) Status() SyncStatus {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	return s.status
}

// Sync scans the inbox once. Scans never overlap.
func (s *InboxSyncScheduler) Sync(ctx context.Context) SyncStatus {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	status := SyncStatus{LastRun: time.Now()}
	files, err := s.pending()
	if err != nil {
		status.Message = fmt.Sprintf("scan failed: %v", err)
		log.Printf("[INBOX] %s", status.Message)
		s.status = status
		return status
	}

	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		if err := s.submitter.SubmitBook(ctx, f.path); err != nil {
			log.Printf("[INBOX] Failed to submit %s: %v", f.path, err)
			status.Failed++
			continue
		}
		s.seen[f.path] = f.modTime
		status.Submitted++
	}

	status.Message = fmt.Sprintf("submitted %d, failed %d", status.Submitted, status.Failed)
	if status.Submitted > 0 || status.Failed > 0 {
		log.Printf("[INBOX] Sync %s: %s", s.config.Dir, status.Message)
	}
	s.status = status
	return status
}

type inboxFile struct {
	path    string
	modTime time.Time
}

func (s *InboxSyncScheduler) pending() ([]inboxFile, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		return nil, err
	}

	var files []inboxFile
	for _, e := range entries {
		if e.IsDir() || !utils.IsBookFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		p := filepath.Join(s.config.Dir, e.Name())
		if seen, ok := s.seen[p]; ok && seen.Equal(info.ModTime()) {
			continue
		}
		files = append(files, inboxFile{path: p, modTime: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })
	return files, nil
}

package crash

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CrashCrew/crash-crew-sdk/config"
	"github.com/CrashCrew/crash-crew-sdk/logger"
)

const spoolExt = ".crashreport"

// Spool keeps pending crash reports on disk, one JSON file per report, so
// they survive until the next launch gets a chance to upload them.
type Spool struct {
	mu         sync.Mutex
	dir        string
	maxPending int
	log        *zap.SugaredLogger
}

// NewSpool opens (creating if needed) the spool directory.
func NewSpool(cfg config.CrashConfig) (*Spool, error) {
	if cfg.SpoolDir == "" {
		return nil, fmt.Errorf("spool directory is required")
	}
	if cfg.MaxPending < 1 {
		cfg.MaxPending = 100
	}
	if err := os.MkdirAll(cfg.SpoolDir, 0o700); err != nil {
		return nil, fmt.Errorf("create spool directory: %w", err)
	}
	return &Spool{
		dir:        cfg.SpoolDir,
		maxPending: cfg.MaxPending,
		log:        logger.GetLogger(),
	}, nil
}

// Put persists a report, assigning an ID and timestamp when missing. When
// the spool is at capacity the oldest pending report is dropped to make room.
func (s *Spool) Put(r *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	pending, err := s.pendingIDsLocked()
	if err != nil {
		return err
	}
	for len(pending) >= s.maxPending {
		oldest := pending[0]
		pending = pending[1:]
		s.log.Warnw("Crash spool full, dropping oldest report", "id", oldest)
		if err := os.Remove(s.pathFor(oldest)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("drop oldest report: %w", err)
		}
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	// Write via a temp file and rename so a crash mid-write never leaves a
	// half-written report for the next launch to trip over.
	tmp := s.pathFor(r.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, s.pathFor(r.ID)); err != nil {
		return fmt.Errorf("commit report: %w", err)
	}

	s.log.Debugw("Crash report spooled", "id", r.ID)
	return nil
}

// List returns all pending reports, oldest first. Corrupt spool files are
// removed and skipped rather than failing the listing.
func (s *Spool) List() ([]*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.pendingIDsLocked()
	if err != nil {
		return nil, err
	}

	reports := make([]*Report, 0, len(ids))
	for _, id := range ids {
		data, err := os.ReadFile(s.pathFor(id))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read report %s: %w", id, err)
		}
		var r Report
		if err := json.Unmarshal(data, &r); err != nil {
			s.log.Warnw("Removing corrupt crash report", "id", id, "error", err)
			_ = os.Remove(s.pathFor(id))
			continue
		}
		reports = append(reports, &r)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.Before(reports[j].CreatedAt)
	})
	return reports, nil
}

// Remove deletes a pending report. Removing an already-gone report is not
// an error.
func (s *Spool) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathFor(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove report %s: %w", id, err)
	}
	return nil
}

func (s *Spool) pathFor(id string) string {
	return filepath.Join(s.dir, id+spoolExt)
}

// pendingIDsLocked lists spooled report IDs ordered by file modification
// time, oldest first. Callers must hold mu.
func (s *Spool) pendingIDsLocked() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read spool directory: %w", err)
	}

	type pending struct {
		id  string
		mod time.Time
	}
	var found []pending
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), spoolExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, pending{
			id:  strings.TrimSuffix(e.Name(), spoolExt),
			mod: info.ModTime(),
		})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].mod.Before(found[j].mod) })

	ids := make([]string, len(found))
	for i, p := range found {
		ids[i] = p.id
	}
	return ids, nil
}

package tracker

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// Source delivers activity signals. Implementations block in Run until ctx
// is cancelled, invoking signal once per observed burst of activity.
type Source interface {
	Run(ctx context.Context, signal func())
}

// errFound aborts a walk as soon as one fresh modification is seen.
var errFound = errors.New("activity found")

// MtimeSource detects edit activity by polling the working trees of the
// watched repositories for files modified since the previous pass. VCS
// metadata and hidden directories are skipped.
type MtimeSource struct {
	roots    []string
	interval time.Duration
	lastScan time.Time
	now      func() time.Time
}

// NewMtimeSource creates a source polling the given directory roots.
func NewMtimeSource(roots []string, interval time.Duration) *MtimeSource {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &MtimeSource{
		roots:    roots,
		interval: interval,
		now:      time.Now,
	}
}

func (s *MtimeSource) Run(ctx context.Context, signal func()) {
	s.lastScan = s.now()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.scan() {
				signal()
			}
		}
	}
}

// scan returns true when any file under the roots changed since the last
// pass, then advances the scan watermark.
func (s *MtimeSource) scan() bool {
	since := s.lastScan
	s.lastScan = s.now()

	for _, root := range s.roots {
		if treeModifiedSince(root, since) {
			return true
		}
	}
	return false
}

func treeModifiedSince(root string, since time.Time) bool {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are not activity
		}
		if d.IsDir() && path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(since) {
			return errFound
		}
		return nil
	})
	return errors.Is(err, errFound)
}

// Package artifact owns the lifetime of returned map images.
// Every successful submission yields one revocable temp-file handle; the
// store guarantees each handle is released at most once and that stale
// leftovers from crashed runs can be swept
package artifact

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	perr "mapaclim/internal/platform/errors"
	"mapaclim/internal/platform/logger"
	"mapaclim/internal/services/upload/domain"

	"github.com/google/uuid"
)

// DefaultExportName is the filename offered for the download action
const DefaultExportName = "mapa_climatico.png"

// now is a seam for sweep tests
var now = time.Now

// Store creates and revokes artifact handles backed by files under dir
type Store struct {
	dir string
	log logger.Logger

	mu   sync.Mutex
	live map[uuid.UUID]string // id -> path, present while unreleased
}

// New creates a Store rooted at dir, creating it when missing
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "create artifact dir %s", dir)
	}
	return &Store{
		dir:  dir,
		log:  *logger.Named("artifact"),
		live: make(map[uuid.UUID]string),
	}, nil
}

// Dir returns the artifact directory
func (s *Store) Dir() string { return s.dir }

// Create writes data to a fresh file and returns the handle.
// It never touches a prior handle; superseding order is the caller's concern
func (s *Store) Create(data []byte, endpoint string) (*domain.Artifact, error) {
	id := uuid.New()
	path := filepath.Join(s.dir, id.String()+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "write artifact")
	}

	s.mu.Lock()
	s.live[id] = path
	s.mu.Unlock()

	s.log.Debug().Str("id", id.String()).Int("bytes", len(data)).Msg("artifact created")
	return &domain.Artifact{ID: id, Path: path, Endpoint: endpoint}, nil
}

// Release revokes the handle and removes its backing file.
// A second Release of the same handle is a programming error and is
// reported as a conflict
func (s *Store) Release(a *domain.Artifact) error {
	if a == nil {
		return perr.InvalidArgf("nil artifact")
	}

	s.mu.Lock()
	path, ok := s.live[a.ID]
	if ok {
		delete(s.live, a.ID)
	}
	s.mu.Unlock()

	if !ok {
		return perr.Conflictf("artifact %s already released", a.ID)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "remove artifact %s", a.ID)
	}
	s.log.Debug().Str("id", a.ID.String()).Msg("artifact released")
	return nil
}

// LiveCount returns the number of unreleased handles
func (s *Store) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Export copies the artifact to dst (the "download as PNG" action).
// When dst is a directory the DefaultExportName is used inside it
func (s *Store) Export(a *domain.Artifact, dst string) error {
	if a == nil {
		return perr.InvalidArgf("nil artifact")
	}
	s.mu.Lock()
	_, ok := s.live[a.ID]
	s.mu.Unlock()
	if !ok {
		return perr.Conflictf("artifact %s already released", a.ID)
	}

	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		dst = filepath.Join(dst, DefaultExportName)
	}

	src, err := os.Open(a.Path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "open artifact %s", a.ID)
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "create %s", dst)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, src); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "copy artifact to %s", dst)
	}
	return nil
}

// Sweep removes unmanaged files under dir older than maxAge and returns how
// many were removed. Live handles are never swept
func (s *Store) Sweep(maxAge time.Duration) int {
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Error().Err(err).Msg("sweep read dir")
		return 0
	}

	s.mu.Lock()
	keep := make(map[string]bool, len(s.live))
	for _, p := range s.live {
		keep[p] = true
	}
	s.mu.Unlock()

	removed := 0
	cutoff := now().Add(-maxAge)
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(s.dir, e.Name())
		if keep[p] {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(p); err == nil {
			removed++
		}
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("swept stale artifacts")
	}
	return removed
}

var _ domain.ArtifactPort = (*Store)(nil)

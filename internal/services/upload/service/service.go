// Package service implements the submission orchestrator: the state machine
// over the two file slots, the single in-flight guard, and the handoff of
// returned images to the artifact store
package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	perr "mapaclim/internal/platform/errors"
	"mapaclim/internal/platform/logger"
	pstrings "mapaclim/internal/platform/strings"
	"mapaclim/internal/platform/validate"
	"mapaclim/internal/services/upload/domain"

	"github.com/google/uuid"
)

// Config for the orchestrator
type Config struct {
	Settings domain.Settings
}

// Orchestrator owns both slots, the processor port, and the artifact store.
// All mutation happens through its methods; slots are never shared across
// instances
type Orchestrator struct {
	proc  domain.ProcessorPort
	store domain.ArtifactPort
	log   logger.Logger

	mu       sync.Mutex
	doc      domain.Slot
	geom     domain.Slot
	settings domain.Settings
	inFlight bool
	failMsg  string
	result   *domain.Artifact
}

// New constructs an orchestrator after validating the initial settings
func New(proc domain.ProcessorPort, store domain.ArtifactPort, cfg Config) (*Orchestrator, error) {
	cfg.Settings.BaseURL = strings.TrimSpace(cfg.Settings.BaseURL)
	if err := validate.Struct(cfg.Settings); err != nil {
		return nil, err
	}
	return &Orchestrator{
		proc:     proc,
		store:    store,
		log:      *logger.Named("uploader"),
		settings: cfg.Settings,
	}, nil
}

// slot returns the slot bound to role; unknown roles map to the document slot
func (o *Orchestrator) slot(role domain.Role) *domain.Slot {
	if role == domain.RoleGeometry {
		return &o.geom
	}
	return &o.doc
}

// Select stores path in the slot for role. An empty path clears the slot,
// which is how the remove affordance signals through the selection callback.
// A file with an unexpected extension is still accepted; the mismatch is
// recorded as an advisory note on the slot
func (o *Orchestrator) Select(role domain.Role, path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.slot(role)
	if path == "" {
		s.Clear()
		return
	}
	s.Select(path)
	if ext := pstrings.Ext(path); ext != role.Accept() {
		s.SetNote(fmt.Sprintf("expected a %s file, got %q", role.Accept(), filepath.Base(path)))
	}
}

// SlotNote returns the advisory note for role's slot, or "" when absent
func (o *Orchestrator) SlotNote(role domain.Role) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.slot(role).Note()
}

// SlotPath returns the selected path for role, or "" when the slot is empty
func (o *Orchestrator) SlotPath(role domain.Role) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.slot(role).Path()
}

// State derives the submission state; it is never stored independently
func (o *Orchestrator) State() domain.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stateLocked()
}

func (o *Orchestrator) stateLocked() domain.State {
	switch {
	case o.inFlight:
		return domain.StateInFlight
	case o.failMsg != "":
		return domain.StateFailed
	case o.result != nil:
		return domain.StateSucceeded
	case o.doc.Populated() && o.geom.Populated():
		return domain.StateReady
	default:
		return domain.StateIdle
	}
}

// Submit runs one submission attempt.
// While another attempt is outstanding it is a strict no-op, not a queued
// call. Submitting without both files is a caller error. On success exactly
// one new artifact is created and any prior artifact is released after the
// new one is in place, so a fast re-run never observes an empty result
func (o *Orchestrator) Submit(ctx context.Context) error {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		o.log.Debug().Msg("submit ignored, another attempt is outstanding")
		return nil
	}
	if !o.doc.Populated() || !o.geom.Populated() {
		o.mu.Unlock()
		return perr.Conflictf("both the document and the geometry archive are required")
	}
	o.inFlight = true
	o.failMsg = ""
	base := o.settings.BaseURL
	docPath := o.doc.Path()
	geomPath := o.geom.Path()
	o.mu.Unlock()

	ctx = logger.WithRun(ctx, uuid.NewString())
	log := logger.C(ctx)
	log.Info().Str("document", docPath).Str("geometry", geomPath).Msg("submitting")

	png, endpoint, err := o.proc.Process(ctx, base, docPath, geomPath)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = false

	if err != nil {
		o.failMsg = err.Error()
		log.Error().Err(err).Msg("submission failed")
		return err
	}

	art, err := o.store.Create(png, endpoint)
	if err != nil {
		o.failMsg = err.Error()
		log.Error().Err(err).Msg("artifact creation failed")
		return err
	}

	prev := o.result
	o.result = art
	if prev != nil {
		if rerr := o.store.Release(prev); rerr != nil {
			log.Error().Err(rerr).Msg("release of superseded artifact failed")
		}
	}
	log.Info().Str("artifact", art.ID.String()).Msg("submission succeeded")
	return nil
}

// Reset clears both slots and the failure message and releases any live artifact
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.doc.Clear()
	o.geom.Clear()
	o.failMsg = ""
	o.releaseResultLocked()
}

// Close releases any live artifact; call on permanent teardown
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.releaseResultLocked()
}

func (o *Orchestrator) releaseResultLocked() {
	if o.result == nil {
		return
	}
	if err := o.store.Release(o.result); err != nil {
		o.log.Error().Err(err).Msg("artifact release failed")
	}
	o.result = nil
}

// Result returns the live artifact, or nil
func (o *Orchestrator) Result() *domain.Artifact {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// FailureMessage returns the user-visible message of the last failed attempt
func (o *Orchestrator) FailureMessage() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failMsg
}

// SetBaseURL is the single entry point for the runtime settings change.
// A trailing slash is tolerated; an invalid URL is rejected with the
// translated validation message and leaves the previous value in place
func (o *Orchestrator) SetBaseURL(raw string) error {
	next := domain.Settings{BaseURL: strings.TrimSpace(raw)}
	if err := validate.Struct(next); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settings = next
	return nil
}

// BaseURL returns the configured backend base URL
func (o *Orchestrator) BaseURL() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settings.BaseURL
}

// SaveResult exports the live artifact to dst (the download action)
func (o *Orchestrator) SaveResult(dst string) error {
	o.mu.Lock()
	art := o.result
	o.mu.Unlock()
	if art == nil {
		return perr.Conflictf("no result to save")
	}
	return o.store.Export(art, dst)
}

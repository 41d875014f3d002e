// Package domain defines the types and interfaces for the upload service
package domain

import "github.com/google/uuid"

// Role names one of the two required input slots
type Role uint8

const (
	// RoleDocument is the climate-zone document (a PDF)
	RoleDocument Role = iota
	// RoleGeometry is the compressed shapefile archive (a ZIP)
	RoleGeometry
)

// String returns the role name
func (r Role) String() string {
	switch r {
	case RoleDocument:
		return "document"
	case RoleGeometry:
		return "geometry"
	default:
		return "unknown"
	}
}

// PartName returns the multipart field name the processing service expects
func (r Role) PartName() string {
	switch r {
	case RoleDocument:
		return "pdf"
	case RoleGeometry:
		return "shp"
	default:
		return ""
	}
}

// Accept returns the advisory extension hint for the role.
// It is a picker hint only; a file forwarded with another extension is
// still accepted and validated by the processing service
func (r Role) Accept() string {
	switch r {
	case RoleDocument:
		return ".pdf"
	case RoleGeometry:
		return ".zip"
	default:
		return ""
	}
}

// State is the derived submission state
type State uint8

const (
	// StateIdle means at least one slot is empty and nothing has run
	StateIdle State = iota
	// StateReady means both slots are populated and submission may start
	StateReady
	// StateInFlight means a submission is outstanding
	StateInFlight
	// StateSucceeded means the last attempt produced an artifact
	StateSucceeded
	// StateFailed means the last attempt ended in an error
	StateFailed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StateInFlight:
		return "in_flight"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Slot holds zero-or-one selected file for a fixed role plus a transient
// message. Mutated only through Select and Clear
type Slot struct {
	path string
	note string
}

// Select replaces any existing file and clears any prior note.
// The slot accepts any path handed to it; validation is advisory and
// happens elsewhere
func (s *Slot) Select(path string) {
	s.path = path
	s.note = ""
}

// Clear empties the slot
func (s *Slot) Clear() {
	s.path = ""
	s.note = ""
}

// Path returns the selected file path, or "" when empty
func (s *Slot) Path() string { return s.path }

// Populated reports whether a file is selected
func (s *Slot) Populated() bool { return s.path != "" }

// SetNote records an advisory message on the slot (e.g. a type-filter hint)
func (s *Slot) SetNote(msg string) { s.note = msg }

// Note returns the advisory message, or "" when absent
func (s *Slot) Note() string { return s.note }

// Artifact is a revocable local handle over a returned image.
// Exactly one live instance exists per successful submission; the store
// that created it owns the release bookkeeping
type Artifact struct {
	ID       uuid.UUID
	Path     string
	Endpoint string
}

// Settings holds the runtime-editable client configuration
type Settings struct {
	BaseURL string `json:"base_url" validate:"required,http_url"`
}

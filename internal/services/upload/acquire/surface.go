// Package acquire unifies the two file selection paths, an explicit pick
// and a drop inbox, into a single selection callback per input role
package acquire

import (
	"os"
	"path/filepath"
	"sort"

	perr "mapaclim/internal/platform/errors"
	"mapaclim/internal/platform/logger"
	pstrings "mapaclim/internal/platform/strings"
	"mapaclim/internal/services/upload/domain"
)

// Surface feeds one slot role. Both selection paths funnel through the same
// onSelect callback; Remove signals the bound slot to clear with an empty path
type Surface struct {
	role     domain.Role
	onSelect func(path string)
	log      logger.Logger
}

// New binds a surface to a role and its selection callback
func New(role domain.Role, onSelect func(path string)) *Surface {
	return &Surface{
		role:     role,
		onSelect: onSelect,
		log:      *logger.Named("acquire"),
	}
}

// Role returns the bound input role
func (s *Surface) Role() domain.Role { return s.role }

// Pick selects an explicitly named file.
// The extension hint is advisory only: a mismatching file is still forwarded
// and left for the processing service to validate
func (s *Surface) Pick(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "pick %s", path)
	}
	if fi.IsDir() {
		return perr.InvalidArgf("%s is a directory", path)
	}
	if ext := pstrings.Ext(path); ext != s.role.Accept() {
		s.log.Warn().
			Str("role", s.role.String()).
			Str("ext", ext).
			Str("hint", s.role.Accept()).
			Msg("extension differs from the advisory filter; forwarding anyway")
	}
	s.onSelect(path)
	return nil
}

// Drop takes only the first file of a multi-file drop; extras are silently ignored
func (s *Surface) Drop(paths ...string) {
	if len(paths) == 0 {
		return
	}
	if len(paths) > 1 {
		s.log.Debug().Int("ignored", len(paths)-1).Msg("multi-file drop, extras ignored")
	}
	s.onSelect(paths[0])
}

// ScanInbox looks for a file in dir matching the role's extension hint and
// selects the first one in name order. Reports whether a file was selected
func (s *Surface) ScanInbox(dir string) (bool, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return false, perr.Wrapf(err, perr.ErrorCodeNotFound, "scan inbox %s", dir)
	}
	var names []string
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		if pstrings.Ext(e.Name()) == s.role.Accept() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return false, nil
	}
	sort.Strings(names)
	s.onSelect(filepath.Join(dir, names[0]))
	return true, nil
}

// Remove signals the bound slot to clear
func (s *Surface) Remove() {
	s.onSelect("")
}

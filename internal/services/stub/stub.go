// Package stub implements a development stand-in for the map processing
// backend: same route, same multipart contract, same error wire format,
// with a synthetic rendering in place of the real geoprocessing pipeline
package stub

import (
	"io"
	stdhttp "net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	perr "mapaclim/internal/platform/errors"
	"mapaclim/internal/platform/logger"
	phttp "mapaclim/internal/platform/net/http"
	pstrings "mapaclim/internal/platform/strings"
	"mapaclim/internal/services/upload/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ProcessPath is the single processing route
const ProcessPath = "/api/procesar/"

const (
	defaultMaxPDFBytes = 50 << 20
	defaultMaxZIPBytes = 100 << 20
	defaultMaxAge      = time.Hour
)

// seam for sweep tests
var now = time.Now

// Options configure the stub service
type Options struct {
	// UploadDir receives the uploaded files; swept after MaxAge
	UploadDir string
	// MaxPDFBytes caps the document part (default 50 MiB)
	MaxPDFBytes int64
	// MaxZIPBytes caps the geometry archive part (default 100 MiB)
	MaxZIPBytes int64
	// MaxAge is how long uploads are kept before the sweeper removes them
	MaxAge time.Duration
}

// Service holds the stub state
type Service struct {
	opts Options
	log  logger.Logger
}

// New creates the service and its upload directory
func New(opts Options) (*Service, error) {
	if opts.UploadDir == "" {
		opts.UploadDir = filepath.Join(os.TempDir(), "mapaclim-uploads")
	}
	if opts.MaxPDFBytes <= 0 {
		opts.MaxPDFBytes = defaultMaxPDFBytes
	}
	if opts.MaxZIPBytes <= 0 {
		opts.MaxZIPBytes = defaultMaxZIPBytes
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = defaultMaxAge
	}
	if err := os.MkdirAll(opts.UploadDir, 0o755); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeService, "create upload dir")
	}
	return &Service{opts: opts, log: *logger.Named("stub")}, nil
}

// Mount registers the stub routes on r
func (s *Service) Mount(r chi.Router) {
	r.Post(ProcessPath, s.handleProcess)
	r.Get("/healthz", s.handleHealth)
}

func (s *Service) handleHealth(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
	phttp.JSON(w, stdhttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleProcess(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	start := now()
	defer func() { requestDuration.Observe(time.Since(start).Seconds()) }()

	docPath, err := s.savePart(r, domain.RoleDocument, s.opts.MaxPDFBytes)
	if err != nil {
		s.fail(w, err)
		return
	}
	geomPath, err := s.savePart(r, domain.RoleGeometry, s.opts.MaxZIPBytes)
	if err != nil {
		s.fail(w, err)
		return
	}

	s.log.Info().
		Str("document", filepath.Base(docPath)).
		Str("geometry", filepath.Base(geomPath)).
		Msg("processing uploads")

	// the original schedules cleanup after each request
	defer func() { go s.sweep() }()

	if wantsGeoJSON(r) {
		phttp.JSON(w, stdhttp.StatusOK, featureCollection(filepath.Base(docPath), filepath.Base(geomPath)))
		requestsTotal.WithLabelValues("200").Inc()
		return
	}

	png, err := renderMap(filepath.Base(docPath), filepath.Base(geomPath))
	if err != nil {
		s.log.Error().Err(err).Msg("rendering failed")
		s.fail(w, perr.Servicef("Error interno del servidor"))
		return
	}
	phttp.RespondPNG(w, png)
	requestsTotal.WithLabelValues("200").Inc()
}

func (s *Service) fail(w stdhttp.ResponseWriter, err error) {
	status, _ := perr.HTTP(err)
	requestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	phttp.RespondError(w, err)
}

// savePart validates and persists one multipart file, returning its path.
// Missing part is 422, wrong extension 400, oversize 413, matching the
// statuses the real backend emits
func (s *Service) savePart(r *stdhttp.Request, role domain.Role, maxBytes int64) (string, error) {
	f, hdr, err := r.FormFile(role.PartName())
	if err != nil {
		return "", perr.InvalidArgf("Archivo requerido: %s", role.PartName())
	}
	defer func() { _ = f.Close() }()

	name := pstrings.SanitizeFilename(hdr.Filename)
	if ext := pstrings.Ext(name); ext != role.Accept() {
		return "", perr.Validationf("Extensión no permitida: %s. Permitidas: [%s]", ext, role.Accept())
	}

	dst := filepath.Join(s.opts.UploadDir, uuid.NewString()+"_"+name)
	out, err := os.Create(dst)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeService, "persist upload")
	}
	n, err := io.Copy(out, io.LimitReader(f, maxBytes+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", perr.Wrap(err, perr.ErrorCodeService, "persist upload")
	}
	if n > maxBytes {
		_ = os.Remove(dst)
		return "", perr.TooLargef("Archivo demasiado grande. Máximo: %d MB", maxBytes>>20)
	}
	uploadBytes.WithLabelValues(role.PartName()).Add(float64(n))
	return dst, nil
}

func wantsGeoJSON(r *stdhttp.Request) bool {
	switch r.URL.Query().Get("geojson") {
	case "true", "1":
		return true
	}
	return false
}

// sweep removes uploads older than MaxAge
func (s *Service) sweep() {
	cutoff := now().Add(-s.opts.MaxAge)
	entries, err := os.ReadDir(s.opts.UploadDir)
	if err != nil {
		s.log.Error().Err(err).Msg("sweep failed")
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.opts.UploadDir, e.Name())); err != nil {
			s.log.Error().Err(err).Str("file", e.Name()).Msg("sweep remove failed")
			continue
		}
		sweepRemoved.Inc()
		s.log.Info().Str("file", e.Name()).Msg("removed stale upload")
	}
}

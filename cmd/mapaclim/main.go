// Command mapaclim submits a PDF report and a zipped geometry archive to the
// map processing service and saves the returned PNG
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mapaclim/internal/platform/config"
	"mapaclim/internal/platform/logger"
	"mapaclim/internal/services/artifact"
	"mapaclim/internal/services/upload/acquire"
	"mapaclim/internal/services/upload/domain"
	"mapaclim/internal/services/upload/remote"
	"mapaclim/internal/services/upload/service"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	pdf := flag.String("pdf", "", "path to the PDF report")
	shp := flag.String("shp", "", "path to the zipped geometry archive")
	inbox := flag.String("inbox", "", "directory to scan for both files instead of naming them")
	out := flag.String("out", "", "where to save the resulting PNG (default "+artifact.DefaultExportName+")")
	base := flag.String("base", "", "backend base URL (overrides MAPACLIM_BASE_URL)")
	flag.Parse()

	if err := run(*pdf, *shp, *inbox, *out, *base); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(pdf, shp, inbox, out, base string) error {
	cfg := config.New().Prefix("MAPACLIM_")
	l := logger.Get()

	if base == "" {
		base = cfg.MayURL("BASE_URL", "http://localhost:8000")
	}

	store, err := artifact.New(cfg.MayString("ARTIFACT_DIR", filepath.Join(os.TempDir(), "mapaclim-artifacts")))
	if err != nil {
		return err
	}
	store.Sweep(cfg.MayDuration("ARTIFACT_MAX_AGE", time.Hour))

	client := remote.NewClient(remote.Options{
		UserAgent: cfg.MayString("USER_AGENT", "mapaclim"),
	})

	orch, err := service.New(client, store, service.Config{
		Settings: domain.Settings{BaseURL: base},
	})
	if err != nil {
		return err
	}
	defer orch.Close()

	docSurface := acquire.New(domain.RoleDocument, func(p string) { orch.Select(domain.RoleDocument, p) })
	geomSurface := acquire.New(domain.RoleGeometry, func(p string) { orch.Select(domain.RoleGeometry, p) })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if pdf != "" {
		if err := docSurface.Pick(pdf); err != nil {
			return err
		}
	}
	if shp != "" {
		if err := geomSurface.Pick(shp); err != nil {
			return err
		}
	}
	if inbox != "" {
		if err := waitForInbox(ctx, cfg, inbox, orch, docSurface, geomSurface); err != nil {
			return err
		}
	}

	if orch.State() != domain.StateReady {
		return fmt.Errorf("need both a .pdf and a .zip; run with -pdf and -shp, or -inbox")
	}

	if err := orch.Submit(ctx); err != nil {
		return fmt.Errorf("%s", orch.FailureMessage())
	}

	if out == "" {
		out = artifact.DefaultExportName
	}
	if err := orch.SaveResult(out); err != nil {
		return err
	}
	l.Info().Str("out", out).Msg("map saved")
	fmt.Println("saved", out)
	return nil
}

// waitForInbox polls dir until both surfaces have picked up a file or ctx ends
func waitForInbox(ctx context.Context, cfg config.Conf, dir string, orch *service.Orchestrator, surfaces ...*acquire.Surface) error {
	interval := cfg.MayDuration("INBOX_POLL", 2*time.Second)
	log := logger.Named("inbox")
	log.Info().Str("dir", dir).Dur("interval", interval).Msg("scanning inbox")

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		for _, s := range surfaces {
			if _, err := s.ScanInbox(dir); err != nil {
				return err
			}
		}
		if orch.State() == domain.StateReady {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

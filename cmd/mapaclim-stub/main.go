// Command mapaclim-stub serves a development stand-in for the map processing
// backend on the same route and wire format the client expects
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mapaclim/internal/platform/config"
	"mapaclim/internal/platform/logger"
	phttp "mapaclim/internal/platform/net/http"
	mw "mapaclim/internal/platform/net/middleware"
	"mapaclim/internal/services/stub"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	cfg := config.New().Prefix("MAPACLIM_STUB_")
	l := logger.Get()

	svc, err := stub.New(stub.Options{
		UploadDir:   cfg.MayString("UPLOAD_DIR", ""),
		MaxPDFBytes: cfg.MayInt64("MAX_PDF_BYTES", 0),
		MaxZIPBytes: cfg.MayInt64("MAX_ZIP_BYTES", 0),
		MaxAge:      cfg.MayDuration("UPLOAD_MAX_AGE", time.Hour),
	})
	if err != nil {
		l.Panic().Err(err).Msg("stub init failed")
	}

	srv := phttp.NewServer(cfg, func(m *chi.Mux) {
		m.Use(mw.RealIP())
		m.Use(mw.RequestID())
		m.Use(mw.RecoverDetail)
		m.Use(mw.Timeout(cfg.MayDuration("REQUEST_TIMEOUT", time.Minute)))
		m.Use(mw.AccessLog(mw.AccessLogOptions{Slow: cfg.MayDuration("SLOW", 500 * time.Millisecond)}))
		m.Use(mw.CORS(mw.CORSOptions{
			AllowedOrigins: cfg.MayCSV("ALLOWED_ORIGINS", []string{"*"}),
		}))
		m.Use(mw.RateLimit(mw.RateLimitOptions{
			PerMinute: cfg.MayInt("RATE_PER_MIN", 10),
			Burst:     cfg.MayInt("RATE_BURST", 10),
		}))

		svc.Mount(m)
		m.Handle("/metrics", promhttp.Handler())
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

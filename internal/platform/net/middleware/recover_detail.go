package middleware

import (
	stdhttp "net/http"
	"runtime/debug"
	"strings"

	perr "mapaclim/internal/platform/errors"
	"mapaclim/internal/platform/logger"
	pnet "mapaclim/internal/platform/net"
	phttp "mapaclim/internal/platform/net/http"
)

// RecoverDetail converts panics into a JSON 500 {"detail": ...} and logs the
// stack with the request id. The detail stays generic so internals never leak
func RecoverDetail(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			if v := recover(); v != nil {
				reqID := pnet.RequestID(r.Context())

				// format stack like chi recover
				raw := debug.Stack()
				lines := strings.Split(string(raw), "\n")
				stack := strings.Join(lines, "\n\t")

				log := logger.C(logger.WithRequest(r.Context(), reqID))
				log.Error().
					Interface("panic", v).
					Msgf("panic recovered\n%s", stack)

				// mirror id in response header
				if reqID != "" {
					w.Header().Set("X-Request-ID", reqID)
				}

				phttp.RespondError(w, perr.PanicErrf("internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter the bootstrap router mounts at /health.
// The root path is the readiness check (pings Mongo); /live only reports
// that the process is serving.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	r.Get("/live", h.Alive)
	return r
}

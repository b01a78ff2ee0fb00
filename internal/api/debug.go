package api

import (
	"net/http"
	"time"

	"tmsopt/internal/buildinfo"
)

// DebugJSON reports build info and the effective, non-secret configuration.
func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	c := s.Cfg
	writeJSON(w, http.StatusOK, map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"port":                    c.Server.Port,
			"auth_enabled":            s.Auth.Enabled(),
			"rate_rps":                c.Server.RateRPS,
			"rate_burst":              c.Server.RateBurst,
			"has_database_url":        c.Database.URL != "",
			"has_redis_url":           c.Redis.URL != "",
			"webhook_enabled":         c.Webhook.URL != "",
			"webhook_max_attempts":    c.Webhook.MaxAttempts,
			"solver_stall_iterations": c.Solver.StallIterations,
			"log_level":               c.Logging.Level,
		},
	})
}

package handler

import (
	"net/http"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/worker"
)

type ProbeStatusReporter interface {
	Status() worker.ProbeStatus
}

// HandlerReadiness reports the process as ready. When a probe is given, the last
// upstream check is included; an unhealthy upstream does not fail readiness.
func HandlerReadiness(probe ProbeStatusReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{"status": "ok"}
		if probe != nil {
			body["upstream"] = probe.Status()
		}
		commons.RespondWithJSON(w, http.StatusOK, body)
	}
}

package commons

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Lutefd/currency-converter/internal/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func RespondWithError(w http.ResponseWriter, code int, kind, msg string) {
	if code > 499 {
		logger.Errorf("responding with %d error: %s", code, msg)
	}
	RespondWithJSON(w, code, ErrorResponse{
		Error: msg,
		Kind:  kind,
	})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	dat, err := json.Marshal(payload)
	if err != nil {
		log.Printf("error marshalling JSON: %s", err)
		w.WriteHeader(500)
		return
	}
	w.WriteHeader(code)
	w.Write(dat)
}

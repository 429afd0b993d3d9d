package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/Lutefd/currency-converter/internal/model"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Currencies   []model.CurrencyInfo
	HistoryLimit int
}

type PageHandler struct {
	currencies []model.CurrencyInfo
}

func NewPageHandler(currencies []model.CurrencyInfo) *PageHandler {
	return &PageHandler{currencies: currencies}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Currencies:   h.currencies,
		HistoryLimit: commons.DefaultHistoryLimit,
	})
	if err != nil {
		logger.Errorf("failed to render page: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/Lutefd/currency-converter/internal/service"
)

const notLoggedWarning = "conversion succeeded but not logged"

type ConversionHandler struct {
	conversionService service.ConversionServiceInterface
}

func NewConversionHandler(conversionService service.ConversionServiceInterface) *ConversionHandler {
	return &ConversionHandler{
		conversionService: conversionService,
	}
}

type conversionResponse struct {
	*model.ConversionResult
	Warning string `json:"warning,omitempty"`
}

func (h *ConversionHandler) ConvertCurrency(w http.ResponseWriter, r *http.Request) {
	from := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("from")))
	to := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("to")))
	amountStr := strings.TrimSpace(r.URL.Query().Get("amount"))

	if from == "" || to == "" || amountStr == "" {
		commons.RespondWithError(w, http.StatusBadRequest, commons.ErrorKindInvalidInput, "Missing required parameters")
		return
	}
	amount, err := strconv.ParseFloat(strings.Replace(amountStr, ",", ".", 1), 64)
	if err != nil {
		commons.RespondWithError(w, http.StatusBadRequest, commons.ErrorKindInvalidInput, "Invalid amount")
		return
	}

	result, err := h.conversionService.Convert(r.Context(), model.ConversionRequest{
		Amount: amount,
		Source: model.Currency(from),
		Target: model.Currency(to),
	})

	var unsupported *model.UnsupportedCurrencyError
	var invalid *model.InvalidAmountError
	var fetchErr *model.RateFetchError
	var writeErr *model.HistoryWriteError
	switch {
	case err == nil:
		commons.RespondWithJSON(w, http.StatusOK, conversionResponse{ConversionResult: result})
	case errors.As(err, &writeErr) && result != nil:
		commons.RespondWithJSON(w, http.StatusOK, conversionResponse{ConversionResult: result, Warning: notLoggedWarning})
	case errors.As(err, &unsupported), errors.As(err, &invalid):
		commons.RespondWithError(w, http.StatusBadRequest, commons.ErrorKindInvalidInput, err.Error())
	case errors.As(err, &fetchErr):
		code := http.StatusBadGateway
		if fetchErr.Kind == model.RateFetchTimeout {
			code = http.StatusGatewayTimeout
		}
		commons.RespondWithError(w, code, commons.ErrorKindRateFetch, "Could not fetch exchange rates")
	default:
		logger.Errorf("conversion failed: %v", err)
		commons.RespondWithError(w, http.StatusInternalServerError, commons.ErrorKindRateFetch, "Conversion failed")
	}
}

func (h *ConversionHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := commons.DefaultHistoryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			commons.RespondWithError(w, http.StatusBadRequest, commons.ErrorKindInvalidInput, "Invalid limit, must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := h.conversionService.History(r.Context(), limit)
	if err != nil {
		commons.RespondWithError(w, http.StatusInternalServerError, commons.ErrorKindHistoryRead, "Failed to read conversion history")
		return
	}
	if records == nil {
		records = []model.ConversionRecord{}
	}

	commons.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"history": records,
	})
}

func (h *ConversionHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.conversionService.ClearHistory(r.Context()); err != nil {
		commons.RespondWithError(w, http.StatusInternalServerError, commons.ErrorKindHistoryWrite, "Failed to clear conversion history")
		return
	}

	commons.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "History cleared successfully"})
}

func (h *ConversionHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	commons.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"currencies": h.conversionService.Currencies(),
		"popular":    model.PopularCurrencies,
	})
}

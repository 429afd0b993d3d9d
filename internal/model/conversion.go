package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ConversionRequest struct {
	Amount float64  `json:"amount" validate:"gte=0"`
	Source Currency `json:"from" validate:"supported_currency"`
	Target Currency `json:"to" validate:"supported_currency"`
}

type ConversionRecord struct {
	ID              uuid.UUID `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Source          Currency  `json:"from"`
	Target          Currency  `json:"to"`
	Amount          float64   `json:"amount"`
	ConvertedAmount float64   `json:"result"`
	RateUsed        float64   `json:"rate"`
}

// localTimestampLayout matches ISO timestamps written without a zone offset,
// as older history files contain. They are read as local time.
const localTimestampLayout = "2006-01-02T15:04:05.999999999"

func (r *ConversionRecord) UnmarshalJSON(data []byte) error {
	type plain ConversionRecord
	aux := struct {
		*plain
		Timestamp string `json:"timestamp"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Timestamp = time.Time{}
	if aux.Timestamp == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339Nano, aux.Timestamp)
	if err != nil {
		ts, err = time.ParseInLocation(localTimestampLayout, aux.Timestamp, time.Local)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", aux.Timestamp, err)
		}
	}
	r.Timestamp = ts
	return nil
}

type ConversionResult struct {
	ConversionRecord
	Display        string               `json:"display"`
	QuickRates     map[Currency]float64 `json:"quick_rates"`
	RatesUpdatedAt time.Time            `json:"rates_updated_at"`
	Logged         bool                 `json:"logged"`
}

// UnmarshalJSON also fills the result fields the promoted record decoder skips.
func (r *ConversionResult) UnmarshalJSON(data []byte) error {
	if err := r.ConversionRecord.UnmarshalJSON(data); err != nil {
		return err
	}
	var rest struct {
		Display        string               `json:"display"`
		QuickRates     map[Currency]float64 `json:"quick_rates"`
		RatesUpdatedAt time.Time            `json:"rates_updated_at"`
		Logged         bool                 `json:"logged"`
	}
	if err := json.Unmarshal(data, &rest); err != nil {
		return err
	}
	r.Display = rest.Display
	r.QuickRates = rest.QuickRates
	r.RatesUpdatedAt = rest.RatesUpdatedAt
	r.Logged = rest.Logged
	return nil
}

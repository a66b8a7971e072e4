package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cotacao/gateway/internal/service"
)

const defaultVsCurrency = "brl"

const (
	msgNotFound    = "Criptomoeda ou moeda de conversão não encontrada."
	msgUnavailable = "Erro ao contatar a API externa: %v"
	msgInternal    = "Ocorreu um erro interno: %v"
)

type quoteService interface {
	CurrentPrice(ctx context.Context, assetID, vsCurrency string) (*service.Quote, error)
	Convert(ctx context.Context, from, to string, amount float64) (*service.Conversion, error)
}

type handlers struct {
	svc quoteService
}

// handleGetCurrentPrice returns the current price of coin_id in vs_currency.
func (h *handlers) handleGetCurrentPrice(w http.ResponseWriter, r *http.Request) {
	var (
		ctx        = r.Context()
		coinID     = chi.URLParam(r, "coin_id")
		query      = r.URL.Query()
		vsCurrency = defaultVsCurrency
	)
	// An explicit empty vs_currency goes upstream as is.
	if query.Has("vs_currency") {
		vsCurrency = query.Get("vs_currency")
	}

	quote, err := h.svc.CurrentPrice(ctx, coinID, vsCurrency)
	if err != nil {
		h.handleServiceError(w, "current_price", err)
		return
	}

	quoteRequests.WithLabelValues("current_price", "ok").Inc()
	writeJSON(w, http.StatusOK, quote)
}

// handleConvert converts valor units of de into para.
func (h *handlers) handleConvert(w http.ResponseWriter, r *http.Request) {
	var (
		ctx      = r.Context()
		from     = r.URL.Query().Get("de")
		to       = r.URL.Query().Get("para")
		valorStr = r.URL.Query().Get("valor")
	)

	if from == "" {
		writeDetail(w, http.StatusBadRequest, "de param required")
		return
	}
	if to == "" {
		writeDetail(w, http.StatusBadRequest, "para param required")
		return
	}
	if valorStr == "" {
		writeDetail(w, http.StatusBadRequest, "valor param required")
		return
	}
	amount, err := strconv.ParseFloat(valorStr, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		writeDetail(w, http.StatusBadRequest, "valor must be a number")
		return
	}

	conv, err := h.svc.Convert(ctx, from, to, amount)
	if err != nil {
		h.handleServiceError(w, "convert", err)
		return
	}

	quoteRequests.WithLabelValues("convert", "ok").Inc()
	writeJSON(w, http.StatusOK, conv)
}

// handleServiceError maps gateway errors to status codes. Transport failures
// are checked first, then misses, and everything else is internal.
func (h *handlers) handleServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUpstreamUnavailable):
		log.Printf("err: %s: %v", op, err)
		quoteRequests.WithLabelValues(op, "unavailable").Inc()
		cause := err
		var unavailable *service.UnavailableError
		if errors.As(err, &unavailable) {
			cause = unavailable.Cause
		}
		writeDetail(w, http.StatusServiceUnavailable, fmt.Sprintf(msgUnavailable, cause))
	case errors.Is(err, service.ErrNotFound):
		quoteRequests.WithLabelValues(op, "not_found").Inc()
		writeDetail(w, http.StatusNotFound, msgNotFound)
	default:
		log.Printf("err: %s: %v", op, err)
		quoteRequests.WithLabelValues(op, "error").Inc()
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf(msgInternal, err))
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	jsonb, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal response: %v", err)
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf(msgInternal, err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonb)
}

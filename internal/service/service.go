package service

import (
	"context"
	"fmt"
	"math"
)

// Prices is the upstream simple price payload, keyed by asset id and then by
// quote currency.
type Prices map[string]map[string]float64

// PriceProvider fetches simple prices from the upstream quote API.
// Transport level failures must wrap ErrUpstreamUnavailable.
type PriceProvider interface {
	SimplePrice(ctx context.Context, assetID, vsCurrency string) (Prices, error)
}

type Service struct {
	prices PriceProvider
}

func New(prices PriceProvider) (*Service, error) {
	if prices == nil {
		return nil, fmt.Errorf("must provide a price provider")
	}

	return &Service{
		prices: prices,
	}, nil
}

type Quote struct {
	CoinID   string  `json:"coin_id"`
	Currency string  `json:"currency"`
	Price    float64 `json:"price"`
}

type Conversion struct {
	OriginalAmount  float64 `json:"valor_original"`
	SourceCurrency  string  `json:"moeda_origem"`
	TargetCurrency  string  `json:"moeda_destino"`
	Rate            float64 `json:"taxa_conversao"`
	ConvertedAmount float64 `json:"valor_convertido"`
}

// FetchRate returns the price of one unit of assetID in vsCurrency.
func (s *Service) FetchRate(ctx context.Context, assetID, vsCurrency string) (float64, error) {
	prices, err := s.prices.SimplePrice(ctx, assetID, vsCurrency)
	if err != nil {
		return 0, fmt.Errorf("SimplePrice: %w", err)
	}

	rates, ok := prices[assetID]
	if !ok {
		return 0, fmt.Errorf("asset %q: %w", assetID, ErrNotFound)
	}
	rate, ok := rates[vsCurrency]
	if !ok {
		return 0, fmt.Errorf("currency %q for asset %q: %w", vsCurrency, assetID, ErrNotFound)
	}

	return rate, nil
}

func (s *Service) CurrentPrice(ctx context.Context, assetID, vsCurrency string) (*Quote, error) {
	rate, err := s.FetchRate(ctx, assetID, vsCurrency)
	if err != nil {
		return nil, err
	}

	return &Quote{
		CoinID:   assetID,
		Currency: vsCurrency,
		Price:    rate,
	}, nil
}

// Convert prices amount units of from in to. Any amount is accepted,
// including zero and negative values.
func (s *Service) Convert(ctx context.Context, from, to string, amount float64) (*Conversion, error) {
	rate, err := s.FetchRate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	converted := amount * rate
	if math.IsInf(converted, 0) || math.IsNaN(converted) {
		return nil, fmt.Errorf("converting %v %s to %s at %v overflows", amount, from, to, rate)
	}

	return &Conversion{
		OriginalAmount:  amount,
		SourceCurrency:  from,
		TargetCurrency:  to,
		Rate:            rate,
		ConvertedAmount: converted,
	}, nil
}

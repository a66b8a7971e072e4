package service

import (
	"context"
)

type mockPriceProvider struct {
	SimplePricePrices Prices
	SimplePriceErr    error

	calls []string
}

func (m *mockPriceProvider) SimplePrice(ctx context.Context, assetID, vsCurrency string) (Prices, error) {
	m.calls = append(m.calls, assetID+"/"+vsCurrency)
	return m.SimplePricePrices, m.SimplePriceErr
}

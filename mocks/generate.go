package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/market-pulse/pkg/marketdata/provider Provider

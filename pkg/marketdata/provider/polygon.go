package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
)

// PolygonHistoryYears is how far back the Polygon provider requests daily aggregates.
const PolygonHistoryYears = 5

// PolygonAggsIterator is the subset of the polygon iterator used by the provider.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the subset of the polygon REST client used by the provider.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonAPIClientAdapter struct {
	client *polygon.Client
}

func (a *polygonAPIClientAdapter) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return a.client.ListAggs(ctx, params, options...)
}

// PolygonClient fetches daily aggregates from polygon.io.
type PolygonClient struct {
	apiClient PolygonAPIClient
	now       func() time.Time
}

// NewPolygonClient creates a Polygon price provider. An API key is required.
func NewPolygonClient(apiKey string) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	return NewPolygonClientWithAPI(&polygonAPIClientAdapter{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a Polygon provider around an existing API client.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	return &PolygonClient{
		apiClient: apiClient,
		now:       time.Now,
	}
}

// Name returns the provider name.
func (c *PolygonClient) Name() string {
	return string(ProviderPolygon)
}

// FetchDaily downloads adjusted daily aggregates for the last PolygonHistoryYears years.
func (c *PolygonClient) FetchDaily(ctx context.Context, symbol string) (series.Series[types.PriceBar], error) {
	endDate := series.Day(c.now())
	startDate := endDate.AddDate(-PolygonHistoryYears, 0, 0)

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     strings.ToUpper(symbol),
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithAdjusted(true).WithLimit(50000)

	iter := c.apiClient.ListAggs(ctx, params)

	points := make([]series.Point[types.PriceBar], 0, PolygonHistoryYears*252)

	for iter.Next() {
		agg := iter.Item()

		// Daily bars are stamped at midnight US-Eastern; the UTC date is the trading day.
		point := series.Point[types.PriceBar]{
			Date:  series.Day(time.Time(agg.Timestamp).UTC()),
			Value: types.PriceBar{
				Open:   agg.Open,
				High:   agg.High,
				Low:    agg.Low,
				Close:  agg.Close,
				Volume: agg.Volume,
			},
		}

		if n := len(points); n > 0 && !point.Date.After(points[n-1].Date) {
			if point.Date.Equal(points[n-1].Date) {
				points[n-1] = point
			}

			continue
		}

		points = append(points, point)
	}

	if err := iter.Err(); err != nil {
		return series.Series[types.PriceBar]{}, errors.Wrap(errors.ErrCodeNetwork, "error iterating polygon aggregates", err)
	}

	prices, err := series.New(points)
	if err != nil {
		return series.Series[types.PriceBar]{}, err
	}

	if prices.IsEmpty() {
		return series.Series[types.PriceBar]{}, errors.Newf(errors.ErrCodeEmptyResult, "polygon returned no aggregates for %s", symbol)
	}

	return prices, nil
}

package gateway

import (
	"context"

	"github.com/go-resty/resty/v2"

	"stellar-client-go/internal/domain/model"
	"stellar-client-go/internal/platform/observability"
)

// EarthImagery looks up Landsat assets for a coordinate.
type EarthImagery struct {
	space
}

func NewEarthImagery(client *resty.Client, metrics *observability.Metrics) *EarthImagery {
	return &EarthImagery{space{name: "earth", client: client, metrics: metrics}}
}

type earthQuery struct {
	Lat  float64 `url:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `url:"lon" validate:"gte=-180,lte=180"`
	Date string  `url:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (g *EarthImagery) GetEarthImagery(ctx context.Context, q model.EarthQuery) (model.EarthImage, error) {
	var out model.EarthImage
	if err := g.get(ctx, "assets", "/planetary/earth/assets", earthQuery{Lat: q.Lat, Lon: q.Lon, Date: q.Date}, nil, &out); err != nil {
		return model.EarthImage{}, err
	}
	return out, nil
}

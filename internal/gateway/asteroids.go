package gateway

import (
	"context"
	"sort"

	"github.com/go-resty/resty/v2"

	"stellar-client-go/internal/domain/model"
	"stellar-client-go/internal/platform/observability"
)

// Asteroids reads the near-earth-object feed.
type Asteroids struct {
	space
}

func NewAsteroids(client *resty.Client, metrics *observability.Metrics) *Asteroids {
	return &Asteroids{space{name: "asteroids", client: client, metrics: metrics}}
}

type neoFeed struct {
	ElementCount     int                                `json:"element_count"`
	NearEarthObjects map[string][]model.NearEarthObject `json:"near_earth_objects"`
}

// GetNearEarthObjects returns every object in [start, end] as one list,
// ordered by date and then by the server's order within a date.
func (g *Asteroids) GetNearEarthObjects(ctx context.Context, start, end string) ([]model.NearEarthObject, error) {
	var feed neoFeed
	if err := g.get(ctx, "feed", "/neo/rest/v1/feed", dateRangeQuery{StartDate: start, EndDate: end}, nil, &feed); err != nil {
		return nil, err
	}
	return flatten(feed.NearEarthObjects), nil
}

func flatten(grouped map[string][]model.NearEarthObject) []model.NearEarthObject {
	dates := make([]string, 0, len(grouped))
	n := 0
	for d, objs := range grouped {
		dates = append(dates, d)
		n += len(objs)
	}
	sort.Strings(dates)
	out := make([]model.NearEarthObject, 0, n)
	for _, d := range dates {
		out = append(out, grouped[d]...)
	}
	return out
}

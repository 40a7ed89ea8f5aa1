package gateway

import (
	"context"

	"github.com/go-resty/resty/v2"

	"stellar-client-go/internal/domain/model"
	"stellar-client-go/internal/platform/observability"
)

// AstronomyPictures fetches the astronomy picture of the day.
type AstronomyPictures struct {
	space
}

func NewAstronomyPictures(client *resty.Client, metrics *observability.Metrics) *AstronomyPictures {
	return &AstronomyPictures{space{name: "apod", client: client, metrics: metrics}}
}

type apodDateQuery struct {
	Date string `url:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type dateRangeQuery struct {
	StartDate string `url:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `url:"end_date" validate:"required,datetime=2006-01-02"`
}

// GetForDate returns the picture for date, or the most recent one when date is "".
func (g *AstronomyPictures) GetForDate(ctx context.Context, date string) (model.APOD, error) {
	var out model.APOD
	if err := g.get(ctx, "date", "/planetary/apod", apodDateQuery{Date: date}, nil, &out); err != nil {
		return model.APOD{}, err
	}
	return out, nil
}

func (g *AstronomyPictures) GetRange(ctx context.Context, start, end string) ([]model.APOD, error) {
	var out []model.APOD
	if err := g.get(ctx, "range", "/planetary/apod", dateRangeQuery{StartDate: start, EndDate: end}, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.APOD{}
	}
	return out, nil
}

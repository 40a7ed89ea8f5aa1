package gateway

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"

	"stellar-client-go/internal/domain/model"
	platformerrors "stellar-client-go/internal/platform/errors"
	"stellar-client-go/internal/platform/observability"
)

const (
	DefaultRover = "curiosity"
	DefaultSol   = 1000
)

// Rovers reads rover manifests and photos.
type Rovers struct {
	space
}

func NewRovers(client *resty.Client, metrics *observability.Metrics) *Rovers {
	return &Rovers{space{name: "mars", client: client, metrics: metrics}}
}

type photosQuery struct {
	Sol    int    `url:"sol" validate:"gte=0"`
	Camera string `url:"camera,omitempty"`
}

func (g *Rovers) GetManifest(ctx context.Context, rover string) (model.RoverManifest, error) {
	rover = strings.ToLower(strings.TrimSpace(rover))
	if rover == "" {
		return model.RoverManifest{}, platformerrors.Validation("mars.manifest", "rover name is required")
	}
	var out struct {
		PhotoManifest model.RoverManifest `json:"photo_manifest"`
	}
	err := g.get(ctx, "manifest", "/mars-photos/api/v1/manifests/{rover}", nil, map[string]string{"rover": rover}, &out)
	if err != nil {
		return model.RoverManifest{}, err
	}
	return out.PhotoManifest, nil
}

// GetPhotos lists photos taken by rover on sol, optionally for one camera.
// An empty rover means curiosity. Sol 0 is the landing day and is sent as is.
func (g *Rovers) GetPhotos(ctx context.Context, rover string, sol int, camera string) ([]model.RoverPhoto, error) {
	rover, sol = PhotoDefaults(rover, &sol)
	var out struct {
		Photos []model.RoverPhoto `json:"photos"`
	}
	q := photosQuery{Sol: sol, Camera: strings.ToLower(camera)}
	if err := g.get(ctx, "photos", "/mars-photos/api/v1/rovers/{rover}/photos", q, map[string]string{"rover": rover}, &out); err != nil {
		return nil, err
	}
	if out.Photos == nil {
		out.Photos = []model.RoverPhoto{}
	}
	return out.Photos, nil
}

// PhotoDefaults applies the rover and sol used when a caller leaves them unset.
// A nil sol is unset; a zero sol is kept.
func PhotoDefaults(rover string, sol *int) (string, int) {
	rover = strings.ToLower(strings.TrimSpace(rover))
	if rover == "" {
		rover = DefaultRover
	}
	if sol == nil {
		return rover, DefaultSol
	}
	return rover, *sol
}

package cache

import (
	"sync"

	"stellar-client-go/internal/domain/model"
)

// Cache names used in notifications and metrics.
const (
	NameAPOD      = "apod"
	NameAPODRange = "apod_range"
	NameAsteroids = "asteroids"
	NameManifests = "mars_manifests"
	NamePhotos    = "mars_photos"
	NameEarth     = "earth"
	NameArticles  = "articles"
	NameComments  = "comments"
)

// APOD caches pictures by date ("" is the most recent picture) and ranges by interval.
type APOD struct {
	Pictures *Keyed[string, model.Resource[model.APOD]]
	Ranges   *Keyed[model.DateRange, []model.Resource[model.APOD]]
}

func NewAPOD(opts Options) *APOD {
	return &APOD{
		Pictures: NewKeyed[string, model.Resource[model.APOD]](NameAPOD, opts),
		Ranges:   NewKeyed[model.DateRange, []model.Resource[model.APOD]](NameAPODRange, opts),
	}
}

// Selection remembers the record a detail screen is showing.
type Selection[T any] struct {
	mu    sync.RWMutex
	value *T
}

func (s *Selection[T]) Select(v T) {
	s.mu.Lock()
	s.value = &v
	s.mu.Unlock()
}

func (s *Selection[T]) Clear() {
	s.mu.Lock()
	s.value = nil
	s.mu.Unlock()
}

func (s *Selection[T]) Selected() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.value == nil {
		var zero T
		return zero, false
	}
	return *s.value, true
}

// Asteroids caches the flattened feed per date range.
type Asteroids struct {
	Feeds    *Keyed[model.DateRange, []model.Resource[model.NearEarthObject]]
	Selected Selection[model.NearEarthObject]
}

func NewAsteroids(opts Options) *Asteroids {
	return &Asteroids{
		Feeds: NewKeyed[model.DateRange, []model.Resource[model.NearEarthObject]](NameAsteroids, opts),
	}
}

// Mars caches manifests by lowercased rover name and the latest photo list per rover.
type Mars struct {
	Manifests *Keyed[string, model.Resource[model.RoverManifest]]
	Photos    *Keyed[string, []model.Resource[model.RoverPhoto]]
	Selected  Selection[model.RoverPhoto]
}

func NewMars(opts Options) *Mars {
	return &Mars{
		Manifests: NewKeyed[string, model.Resource[model.RoverManifest]](NameManifests, opts),
		Photos:    NewKeyed[string, []model.Resource[model.RoverPhoto]](NamePhotos, opts),
	}
}

// Earth caches imagery by coordinate and date.
type Earth struct {
	Images *Keyed[model.EarthQuery, model.Resource[model.EarthImage]]
}

func NewEarth(opts Options) *Earth {
	return &Earth{Images: NewKeyed[model.EarthQuery, model.Resource[model.EarthImage]](NameEarth, opts)}
}

// Comments caches comments per article id. Appends are local only.
type Comments struct {
	ByArticle *Keyed[string, []model.Resource[model.Comment]]
}

func NewComments(opts Options) *Comments {
	return &Comments{ByArticle: NewKeyed[string, []model.Resource[model.Comment]](NameComments, opts)}
}

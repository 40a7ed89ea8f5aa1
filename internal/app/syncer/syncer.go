// Package syncer runs the intent → gateway → cache flow for every resource.
package syncer

import (
	"context"
	"strings"

	"github.com/juju/clock"
	"golang.org/x/sync/errgroup"

	"stellar-client-go/internal/cache"
	"stellar-client-go/internal/domain/model"
	"stellar-client-go/internal/gateway"
	platformerrors "stellar-client-go/internal/platform/errors"
	"stellar-client-go/internal/platform/logging"
)

type ArticleGateway interface {
	ListAll(ctx context.Context) ([]model.Article, error)
	GetByID(ctx context.Context, id string) (model.Article, error)
	Create(ctx context.Context, in model.ArticleInput) (model.Article, error)
	Update(ctx context.Context, id string, patch model.ArticlePatch) (model.Article, error)
	Remove(ctx context.Context, id string) error
	Like(ctx context.Context, id string) (model.Article, error)
	Dislike(ctx context.Context, id string) (model.Article, error)
}

type PictureGateway interface {
	GetForDate(ctx context.Context, date string) (model.APOD, error)
	GetRange(ctx context.Context, start, end string) ([]model.APOD, error)
}

type AsteroidGateway interface {
	GetNearEarthObjects(ctx context.Context, start, end string) ([]model.NearEarthObject, error)
}

type RoverGateway interface {
	GetManifest(ctx context.Context, rover string) (model.RoverManifest, error)
	GetPhotos(ctx context.Context, rover string, sol int, camera string) ([]model.RoverPhoto, error)
}

type EarthGateway interface {
	GetEarthImagery(ctx context.Context, q model.EarthQuery) (model.EarthImage, error)
}

// UserSource reports the signed-in user, used to stamp local comments.
type UserSource interface {
	User() (model.User, bool)
}

type Logger interface {
	DebugTag(tag, format string, args ...any)
	WarnTag(tag, format string, args ...any)
}

type Gateways struct {
	Articles  ArticleGateway
	Pictures  PictureGateway
	Asteroids AsteroidGateway
	Rovers    RoverGateway
	Earth     EarthGateway
}

type Caches struct {
	Articles  *cache.Articles
	Comments  *cache.Comments
	APOD      *cache.APOD
	Asteroids *cache.Asteroids
	Mars      *cache.Mars
	Earth     *cache.Earth
}

// NewCaches builds empty caches sharing opts.
func NewCaches(opts cache.Options) Caches {
	return Caches{
		Articles:  cache.NewArticles(opts),
		Comments:  cache.NewComments(opts),
		APOD:      cache.NewAPOD(opts),
		Asteroids: cache.NewAsteroids(opts),
		Mars:      cache.NewMars(opts),
		Earth:     cache.NewEarth(opts),
	}
}

type Options struct {
	Gateways Gateways
	Caches   Caches
	Users    UserSource
	Clock    clock.Clock
	Logger   Logger
}

// Syncer dispatches the fetch lifecycle of each operation to its cache.
// A fetch for a key that is already loading returns nil without a request.
type Syncer struct {
	gw     Gateways
	caches Caches
	users  UserSource
	clock  clock.Clock
	logger Logger
}

func New(opts Options) *Syncer {
	clk := opts.Clock
	if clk == nil {
		clk = clock.WallClock
	}
	var logger Logger = logging.Nop()
	if opts.Logger != nil {
		logger = opts.Logger
	}
	return &Syncer{
		gw:     opts.Gateways,
		caches: opts.Caches,
		users:  opts.Users,
		clock:  clk,
		logger: logger,
	}
}

func (s *Syncer) Caches() Caches { return s.caches }

// fetch runs one keyed fetch: FetchStart, the call, then the outcome intent.
func fetch[K comparable, D any](ctx context.Context, s *Syncer, c *cache.Keyed[K, D], key K, call func(context.Context) (cache.Intent[D], error)) error {
	if _, applied := c.Dispatch(key, cache.FetchStart[D]{}); !applied {
		s.logger.DebugTag("SYNC", "%s[%v] already loading", c.Name(), key)
		return nil
	}
	in, err := call(ctx)
	if err != nil {
		s.logger.WarnTag("SYNC", "%s[%v] fetch failed: %v", c.Name(), key, err)
		c.Dispatch(key, cache.FetchFailed[D]{Message: platformerrors.MessageOf(err)})
		return err
	}
	c.Dispatch(key, in)
	return nil
}

// FetchAPOD loads the picture for date, or the latest one when date is "".
func (s *Syncer) FetchAPOD(ctx context.Context, date string) error {
	return fetch(ctx, s, s.caches.APOD.Pictures, date, func(ctx context.Context) (cache.Intent[model.Resource[model.APOD]], error) {
		p, err := s.gw.Pictures.GetForDate(ctx, date)
		return cache.Fetched[model.APOD]{Item: p}, err
	})
}

func (s *Syncer) FetchAPODRange(ctx context.Context, start, end string) error {
	key := model.DateRange{Start: start, End: end}
	return fetch(ctx, s, s.caches.APOD.Ranges, key, func(ctx context.Context) (cache.Intent[[]model.Resource[model.APOD]], error) {
		ps, err := s.gw.Pictures.GetRange(ctx, start, end)
		return cache.ListFetched[model.APOD]{Items: ps}, err
	})
}

func (s *Syncer) FetchAsteroids(ctx context.Context, start, end string) error {
	key := model.DateRange{Start: start, End: end}
	return fetch(ctx, s, s.caches.Asteroids.Feeds, key, func(ctx context.Context) (cache.Intent[[]model.Resource[model.NearEarthObject]], error) {
		objs, err := s.gw.Asteroids.GetNearEarthObjects(ctx, start, end)
		return cache.ListFetched[model.NearEarthObject]{Items: objs}, err
	})
}

// FetchManifest caches the manifest under the lowercased rover name.
func (s *Syncer) FetchManifest(ctx context.Context, rover string) error {
	key := strings.ToLower(strings.TrimSpace(rover))
	return fetch(ctx, s, s.caches.Mars.Manifests, key, func(ctx context.Context) (cache.Intent[model.Resource[model.RoverManifest]], error) {
		m, err := s.gw.Rovers.GetManifest(ctx, key)
		return cache.Fetched[model.RoverManifest]{Item: m}, err
	})
}

// FetchPhotos replaces the photo list of a rover with the photos of one sol.
// A nil sol means sol 1000. The list is keyed by rover only: while a fetch
// for a rover is in flight any other FetchPhotos for that rover returns nil
// without a request, whatever its sol or camera, and the list ends up
// holding the in-flight sol.
func (s *Syncer) FetchPhotos(ctx context.Context, rover string, sol *int, camera string) error {
	key, solNum := gateway.PhotoDefaults(rover, sol)
	return fetch(ctx, s, s.caches.Mars.Photos, key, func(ctx context.Context) (cache.Intent[[]model.Resource[model.RoverPhoto]], error) {
		photos, err := s.gw.Rovers.GetPhotos(ctx, key, solNum, camera)
		return cache.ListFetched[model.RoverPhoto]{Items: photos}, err
	})
}

func (s *Syncer) FetchEarth(ctx context.Context, q model.EarthQuery) error {
	return fetch(ctx, s, s.caches.Earth.Images, q, func(ctx context.Context) (cache.Intent[model.Resource[model.EarthImage]], error) {
		img, err := s.gw.Earth.GetEarthImagery(ctx, q)
		return cache.Fetched[model.EarthImage]{Item: img}, err
	})
}

// Preload warms the home screen: the article feed and the latest picture are
// fetched concurrently and one failing does not stop the other.
func (s *Syncer) Preload(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.FetchArticles(ctx) })
	g.Go(func() error { return s.FetchAPOD(ctx, "") })
	return g.Wait()
}

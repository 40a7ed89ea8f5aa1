package gateway

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credmodel "stellar-client-go/internal/domain/credential/model"
	"stellar-client-go/internal/domain/credential/store"
	"stellar-client-go/internal/domain/model"
	platformerrors "stellar-client-go/internal/platform/errors"
	"stellar-client-go/internal/platform/observability"
	"stellar-client-go/internal/platform/testing/fakeapi"
	httpclient "stellar-client-go/internal/transport/http/client"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

type env struct {
	api      *fakeapi.Server
	store    store.Store
	factory  *httpclient.Factory
	metrics  *observability.Metrics
	articles *Articles
	apod     *AstronomyPictures
	neo      *Asteroids
	rovers   *Rovers
	earth    *EarthImagery
}

func newEnv(t *testing.T, token string) *env {
	t.Helper()
	ctx := context.Background()
	api := fakeapi.New(t)
	api.RequireAPIKey("TEST_KEY")
	s := store.NewMemory(store.Config{})
	factory, err := httpclient.NewFactory(httpclient.Options{BaseURL: api.APIURL(), Store: s})
	require.NoError(t, err)
	if token != "" {
		api.IssueToken(token, "a@b.com")
		require.NoError(t, factory.SetToken(ctx, credmodel.Credential{AccessToken: token}))
	}
	spaceClient, err := factory.Space(httpclient.SpaceOptions{BaseURL: api.URL(), APIKey: "TEST_KEY"})
	require.NoError(t, err)
	metrics := observability.NewMetrics(nil)

	return &env{
		api:      api,
		store:    s,
		factory:  factory,
		metrics:  metrics,
		articles: NewArticles(factory, staticToken(token), metrics),
		apod:     NewAstronomyPictures(spaceClient, metrics),
		neo:      NewAsteroids(spaceClient, metrics),
		rovers:   NewRovers(spaceClient, metrics),
		earth:    NewEarthImagery(spaceClient, metrics),
	}
}

func (e *env) assertStoreEmpty(t *testing.T) {
	t.Helper()
	_, ok, err := e.store.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "credential store should hold no token")
}

func TestNearEarthObjectsAreFlattenedInDateOrder(t *testing.T) {
	e := newEnv(t, "")
	e.api.SeedNEO("2024-01-02", model.NearEarthObject{ID: "c"})
	e.api.SeedNEO("2024-01-01", model.NearEarthObject{ID: "a"}, model.NearEarthObject{ID: "b"})
	e.api.SeedNEO("2024-02-01", model.NearEarthObject{ID: "outside"})

	got, err := e.neo.GetNearEarthObjects(context.Background(), "2024-01-01", "2024-01-03")
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, o := range got {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestFlattenEmpty(t *testing.T) {
	got := flatten(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAPOD(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")
	e.api.SeedAPOD(
		model.APOD{Date: "2024-01-01", Title: "first"},
		model.APOD{Date: "2024-01-02", Title: "second"},
		model.APOD{Date: "2024-01-03", Title: "third", MediaType: "image"},
	)

	latest, err := e.apod.GetForDate(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "third", latest.Title)
	assert.Equal(t, "image", latest.MediaType)

	one, err := e.apod.GetForDate(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "first", one.Title)

	rng, err := e.apod.GetRange(ctx, "2024-01-02", "2024-01-03")
	require.NoError(t, err)
	require.Len(t, rng, 2)
	assert.Equal(t, "second", rng[0].Title)

	_, err = e.apod.GetForDate(ctx, "1999-01-01")
	require.Error(t, err)
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindRemote))
	assert.Equal(t, http.StatusNotFound, platformerrors.StatusOf(err))
	assert.Equal(t, "picture for 1999-01-01 not found", platformerrors.MessageOf(err))
}

func TestQueryValidationHappensBeforeNetwork(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")

	_, err := e.apod.GetForDate(ctx, "yesterday")
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindValidation), "got %v", err)
	_, err = e.apod.GetRange(ctx, "2024-01-01", "")
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindValidation), "got %v", err)
	_, err = e.neo.GetNearEarthObjects(ctx, "", "2024-01-02")
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindValidation), "got %v", err)
	_, err = e.earth.GetEarthImagery(ctx, model.EarthQuery{Lat: 120, Lon: 0})
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindValidation), "got %v", err)

	assert.Zero(t, e.api.Count(fakeapi.RouteAPOD))
	assert.Zero(t, e.api.Count(fakeapi.RouteNEOFeed))
	assert.Zero(t, e.api.Count(fakeapi.RouteEarthAssets))
}

func TestRoversManifestAndPhotos(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")
	e.api.SeedManifest(model.RoverManifest{Name: "Curiosity", MaxSol: 4000, Photos: []model.ManifestSol{{Sol: 1000, TotalPhotos: 2}}})
	e.api.SeedPhotos("curiosity",
		model.RoverPhoto{ID: 1, Sol: 1000, Camera: model.Camera{Name: "FHAZ"}, Rover: model.RoverInfo{Name: "Curiosity"}},
		model.RoverPhoto{ID: 2, Sol: 1000, Camera: model.Camera{Name: "NAVCAM"}, Rover: model.RoverInfo{Name: "Curiosity"}},
		model.RoverPhoto{ID: 3, Sol: 7, Camera: model.Camera{Name: "FHAZ"}, Rover: model.RoverInfo{Name: "Curiosity"}},
		model.RoverPhoto{ID: 4, Sol: 0, Camera: model.Camera{Name: "MAHLI"}, Rover: model.RoverInfo{Name: "Curiosity"}},
	)

	m, err := e.rovers.GetManifest(ctx, "  Curiosity ")
	require.NoError(t, err)
	assert.Equal(t, "curiosity", m.Key())
	assert.Equal(t, 4000, m.MaxSol)

	photos, err := e.rovers.GetPhotos(ctx, "", 1000, "")
	require.NoError(t, err)
	assert.Len(t, photos, 2, "empty rover means curiosity")

	photos, err = e.rovers.GetPhotos(ctx, "curiosity", 0, "")
	require.NoError(t, err)
	require.Len(t, photos, 1, "sol 0 is the landing day, not the default sol")
	assert.Equal(t, 4, photos[0].ID)

	photos, err = e.rovers.GetPhotos(ctx, "curiosity", 1000, "navcam")
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, 2, photos[0].ID)

	photos, err = e.rovers.GetPhotos(ctx, "spirit", 1, "")
	require.NoError(t, err)
	assert.NotNil(t, photos)
	assert.Empty(t, photos)

	_, err = e.rovers.GetManifest(ctx, "")
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindValidation))

	_, err = e.rovers.GetManifest(ctx, "unknown")
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindRemote))
}

func TestEarthImagery(t *testing.T) {
	e := newEnv(t, "")
	q := model.EarthQuery{Lat: 29.78, Lon: -95.33, Date: "2018-01-01"}
	e.api.SeedEarth(q, model.EarthImage{ID: "LC8_L1T_TOA/LC80250392017", Date: "2018-01-01T16:48:53", URL: "https://example.test/img.png"})

	img, err := e.earth.GetEarthImagery(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "LC8_L1T_TOA/LC80250392017", img.Key())
}

func TestAPIKeyIsSentOnEverySpaceCall(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")
	e.api.SeedAPOD(model.APOD{Date: "2024-01-01"})
	e.api.RequireAPIKey("OTHER")

	_, err := e.apod.GetForDate(ctx, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, platformerrors.StatusOf(err))
	assert.Equal(t, "API_KEY_INVALID", platformerrors.MessageOf(err))
}

func TestArticleReadsAndWrites(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "tok1")
	e.api.SeedArticles(model.Article{ID: "a1", Title: "Hello"})

	list, err := e.articles.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	created, err := e.articles.Create(ctx, model.ArticleInput{Title: "Mars", Content: "red"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	require.NotEqual(t, "a1", created.ID, "created article must not reuse a seeded id")

	title := "Mars!"
	updated, err := e.articles.Update(ctx, created.ID, model.ArticlePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Mars!", updated.Title)
	assert.Equal(t, "red", updated.Content)

	liked, err := e.articles.Like(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	disliked, err := e.articles.Dislike(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 1, disliked.Dislikes)

	got, err := e.articles.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mars!", got.Title)

	require.NoError(t, e.articles.Remove(ctx, created.ID))
	_, err = e.articles.GetByID(ctx, created.ID)
	assert.Equal(t, http.StatusNotFound, platformerrors.StatusOf(err))

	seeded, err := e.articles.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", seeded.Title, "writes to the new article leave the seeded one alone")

	assert.Equal(t, []string{"Bearer tok1"}, e.api.Authorizations(fakeapi.RouteArticleAdd))
}

func TestArticleWritesRequireSession(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")
	e.api.SeedArticles(model.Article{ID: "a1"})

	_, err := e.articles.Like(ctx, "a1")
	require.Error(t, err)
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindAuth))
	err = e.articles.Remove(ctx, "a1")
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindAuth))
	assert.Zero(t, e.api.Count(fakeapi.RouteArticleLike))
	assert.Zero(t, e.api.Count(fakeapi.RouteArticleDelete))

	_, err = e.articles.ListAll(ctx)
	assert.NoError(t, err, "reads are anonymous")
}

func TestUnauthorizedFromAnyGatewayClearsCredential(t *testing.T) {
	tests := []struct {
		name string
		call func(ctx context.Context, e *env) error
	}{
		{"articles", func(ctx context.Context, e *env) error {
			e.api.RevokeTokens()
			_, err := e.articles.Like(ctx, "a1")
			return err
		}},
		{"apod", func(ctx context.Context, e *env) error {
			e.api.Fail(fakeapi.RouteAPOD, http.StatusUnauthorized, "Unauthorized")
			_, err := e.apod.GetForDate(ctx, "")
			return err
		}},
		{"asteroids", func(ctx context.Context, e *env) error {
			e.api.Fail(fakeapi.RouteNEOFeed, http.StatusUnauthorized, "Unauthorized")
			_, err := e.neo.GetNearEarthObjects(ctx, "2024-01-01", "2024-01-02")
			return err
		}},
		{"mars", func(ctx context.Context, e *env) error {
			e.api.Fail(fakeapi.RouteManifest, http.StatusUnauthorized, "Unauthorized")
			_, err := e.rovers.GetManifest(ctx, "curiosity")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, "tok1")
			e.api.SeedArticles(model.Article{ID: "a1"})

			err := tt.call(context.Background(), e)
			require.Error(t, err)
			assert.True(t, platformerrors.IsKind(err, platformerrors.KindRemote))
			assert.Equal(t, http.StatusUnauthorized, platformerrors.StatusOf(err))
			e.assertStoreEmpty(t)
		})
	}
}

func TestRemoteErrorsCarryUpstreamMessage(t *testing.T) {
	e := newEnv(t, "tok1")
	e.api.Fail(fakeapi.RouteArticles, http.StatusServiceUnavailable, "maintenance window")

	_, err := e.articles.ListAll(context.Background())
	require.Error(t, err)
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindRemote))
	assert.Equal(t, "maintenance window", platformerrors.MessageOf(err))
}

func TestTransportFailureIsRemoteError(t *testing.T) {
	s := store.NewMemory(store.Config{})
	factory, err := httpclient.NewFactory(httpclient.Options{BaseURL: "http://127.0.0.1:1/api", Store: s})
	require.NoError(t, err)
	g := NewArticles(factory, staticToken(""), nil)

	_, err = g.ListAll(context.Background())
	require.Error(t, err)
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindRemote))
	assert.Zero(t, platformerrors.StatusOf(err))
}

func TestPhotoDefaults(t *testing.T) {
	rover, sol := PhotoDefaults("", nil)
	assert.Equal(t, "curiosity", rover)
	assert.Equal(t, 1000, sol)

	five, zero := 5, 0
	rover, sol = PhotoDefaults("Opportunity", &five)
	assert.Equal(t, "opportunity", rover)
	assert.Equal(t, 5, sol)
	_, sol = PhotoDefaults("curiosity", &zero)
	assert.Equal(t, 0, sol)
}

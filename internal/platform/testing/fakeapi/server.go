// Package fakeapi serves an in-memory copy of the article backend and the
// space-data API for tests.
package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stellar-client-go/internal/domain/model"
)

// Route keys, "METHOD path-pattern", used by counters and failure injection.
const (
	RouteArticles       = "GET /api/articles/get-all"
	RouteArticle        = "GET /api/articles/:id"
	RouteArticleAdd     = "POST /api/articles/add"
	RouteArticleUpdate  = "PUT /api/articles/update/:id"
	RouteArticleDelete  = "DELETE /api/articles/delete/:id"
	RouteArticleLike    = "POST /api/articles/like/:id"
	RouteArticleDislike = "POST /api/articles/dislike/:id"
	RouteLogin          = "POST /api/user/login"
	RouteRegister       = "POST /api/user/register"
	RouteUserUpdate     = "PUT /api/user/update/:email"
	RouteAPOD           = "GET /planetary/apod"
	RoutePhotos         = "GET /mars-photos/api/v1/rovers/:rover/photos"
	RouteManifest       = "GET /mars-photos/api/v1/manifests/:rover"
	RouteNEOFeed        = "GET /neo/rest/v1/feed"
	RouteEarthAssets    = "GET /planetary/earth/assets"
)

type account struct {
	user     model.User
	password string
}

type failure struct {
	status  int
	message string
}

// Server is a fake of both backends behind one httptest server.
type Server struct {
	srv *httptest.Server

	mu        sync.Mutex
	apiKey    string
	articles  []model.Article
	accounts  map[string]*account
	tokens    map[string]string
	apods     map[string]model.APOD
	neo       map[string][]model.NearEarthObject
	manifests map[string]model.RoverManifest
	photos    map[string][]model.RoverPhoto
	earth     map[string]model.EarthImage
	failures  map[string]failure
	gates     map[string]chan struct{}
	counts    map[string]int
	authz     map[string][]string
}

// New starts a fake server; it is closed by t.Cleanup when t is given.
func New(t interface{ Cleanup(func()) }) *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		accounts:  map[string]*account{},
		tokens:    map[string]string{},
		apods:     map[string]model.APOD{},
		neo:       map[string][]model.NearEarthObject{},
		manifests: map[string]model.RoverManifest{},
		photos:    map[string][]model.RoverPhoto{},
		earth:     map[string]model.EarthImage{},
		failures:  map[string]failure{},
		gates:     map[string]chan struct{}{},
		counts:    map[string]int{},
		authz:     map[string][]string{},
	}
	s.srv = httptest.NewServer(s.routes())
	if t != nil {
		t.Cleanup(s.Close)
	}
	return s
}

// URL is the space-data base URL.
func (s *Server) URL() string { return s.srv.URL }

// APIURL is the article backend base URL.
func (s *Server) APIURL() string { return s.srv.URL + "/api" }

func (s *Server) Close() { s.srv.Close() }

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.record())

	api := engine.Group("/api")
	api.GET("/articles/get-all", s.listArticles)
	api.GET("/articles/:id", s.getArticle)
	api.POST("/user/login", s.login)
	api.POST("/user/register", s.register)

	secured := api.Group("")
	secured.Use(s.requireToken())
	secured.POST("/articles/add", s.addArticle)
	secured.PUT("/articles/update/:id", s.updateArticle)
	secured.DELETE("/articles/delete/:id", s.deleteArticle)
	secured.POST("/articles/like/:id", s.vote(1, 0))
	secured.POST("/articles/dislike/:id", s.vote(0, 1))
	secured.PUT("/user/update/:email", s.updateUser)

	space := engine.Group("")
	space.Use(s.requireAPIKey())
	space.GET("/planetary/apod", s.apod)
	space.GET("/mars-photos/api/v1/rovers/:rover/photos", s.roverPhotos)
	space.GET("/mars-photos/api/v1/manifests/:rover", s.manifest)
	space.GET("/neo/rest/v1/feed", s.neoFeed)
	space.GET("/planetary/earth/assets", s.earthAssets)
	return engine
}

// record counts calls, keeps Authorization headers, waits on gates and
// applies injected failures.
func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.Request.Method + " " + c.FullPath()
		s.mu.Lock()
		s.counts[route]++
		s.authz[route] = append(s.authz[route], c.GetHeader("Authorization"))
		gate := s.gates[route]
		f, failing := s.failures[route]
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if failing {
			respondError(c, f.status, f.message)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		s.mu.Lock()
		email, known := s.tokens[token]
		s.mu.Unlock()
		if !ok || !known {
			respondError(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}
		c.Set("email", email)
		c.Next()
	}
}

func (s *Server) requireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		want := s.apiKey
		s.mu.Unlock()
		if want != "" && c.Query("api_key") != want {
			respondError(c, http.StatusForbidden, "API_KEY_INVALID")
			c.Abort()
			return
		}
		c.Next()
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// RequireAPIKey makes every space route demand ?api_key=key.
func (s *Server) RequireAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = key
}

// Fail makes route answer status with message until Recover is called.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Hold blocks every request to route until the returned release func runs.
func (s *Server) Hold(route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates[route] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, route)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Count returns how many requests reached route.
func (s *Server) Count(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[route]
}

// Authorizations returns the Authorization header of every request to route.
func (s *Server) Authorizations(route string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.authz[route]...)
}

// RevokeTokens invalidates every issued token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = map[string]string{}
}

// IssueToken registers a bearer token for email without a login round trip.
func (s *Server) IssueToken(token, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = email
}

// nextID returns an id that cannot collide with seeded ids such as "a1".
func (s *Server) nextID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func notFound(c *gin.Context, what string) {
	respondError(c, http.StatusNotFound, fmt.Sprintf("%s not found", what))
}

package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	credmodel "stellar-client-go/internal/domain/credential/model"
	"stellar-client-go/internal/domain/eventbus"
	"stellar-client-go/internal/domain/model"
	platformerrors "stellar-client-go/internal/platform/errors"
	httpclient "stellar-client-go/internal/transport/http/client"
)

// State is the authentication lifecycle of a Manager.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// ClientFactory is the slice of the HTTP client factory the session drives.
type ClientFactory interface {
	Client(ctx context.Context) (*resty.Client, error)
	SetToken(ctx context.Context, cred credmodel.Credential) error
	ClearToken(ctx context.Context) error
	Credential() credmodel.Credential
}

// Logger is the logging contract of the session domain.
type Logger interface {
	InfoTag(tag, format string, args ...any)
	WarnTag(tag, format string, args ...any)
	DebugTag(tag, format string, args ...any)
}

// Snapshot is a consistent copy of the session fields.
type Snapshot struct {
	State           State
	User            *model.User
	IsAuthenticated bool
	AccessToken     string
	RefreshToken    string
	ExpiresAt       *time.Time
}

// Manager owns the authenticated-user state and the login/logout flows.
type Manager struct {
	factory  ClientFactory
	logger   Logger
	validate *validator.Validate

	mu           sync.RWMutex
	state        State
	user         *model.User
	accessToken  string
	refreshToken string
	expiresAt    *time.Time
}

// New creates an anonymous session. When bus is non-nil the session clears
// itself whenever the factory reports a revoked credential.
func New(factory ClientFactory, bus *eventbus.Bus, logger Logger) (*Manager, error) {
	m := &Manager{
		factory:  factory,
		logger:   logger,
		validate: validator.New(),
	}
	if bus != nil {
		if err := bus.Subscribe(eventbus.TopicCredentialRevoked, m.handleRevoked); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindBootstrap, "session.new", "subscribe to revocations", err)
		}
	}
	return m, nil
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates with email and password.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	req := loginRequest{Email: email, Password: password}
	if err := m.check("session.login", req); err != nil {
		return err
	}
	return m.authenticate(ctx, "session.login", "/user/login", req)
}

// Register creates an account and signs in with it.
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	req := registerRequest{Name: name, Email: email, Password: password}
	if err := m.check("session.register", req); err != nil {
		return err
	}
	return m.authenticate(ctx, "session.register", "/user/register", req)
}

func (m *Manager) authenticate(ctx context.Context, op, path string, body any) error {
	m.mu.Lock()
	m.state = StateAuthenticating
	m.mu.Unlock()

	out, err := m.post(ctx, op, path, body)
	if err != nil {
		m.reset()
		return err
	}

	cred := credmodel.Credential{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    tokenExpiry(out.AccessToken),
	}
	if err := m.factory.SetToken(ctx, cred); err != nil {
		m.reset()
		return err
	}

	user := out.User
	m.mu.Lock()
	m.user = &user
	m.accessToken = cred.AccessToken
	m.refreshToken = cred.RefreshToken
	m.expiresAt = cred.ExpiresAt
	m.state = StateAuthenticated
	m.mu.Unlock()

	m.logger.InfoTag("AUTH", "signed in as %s", user.Email)
	return nil
}

func (m *Manager) post(ctx context.Context, op, path string, body any) (*model.AuthResponse, error) {
	client, err := m.factory.Client(ctx)
	if err != nil {
		return nil, err
	}
	var out model.AuthResponse
	resp, err := client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post(path)
	if err != nil {
		return nil, httpclient.Check(op, resp, err)
	}
	if resp.IsError() {
		return nil, platformerrors.Auth(op, resp.StatusCode(), httpclient.ErrorMessage(resp))
	}
	if out.AccessToken == "" {
		return nil, platformerrors.Auth(op, resp.StatusCode(), "response carried no access token")
	}
	return &out, nil
}

// Logout clears the session and the stored credential. It is a no-op when
// nothing is held.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	if m.user == nil && m.accessToken == "" && m.state == StateAnonymous {
		m.mu.Unlock()
		return nil
	}
	m.clearLocked()
	m.mu.Unlock()

	if err := m.factory.ClearToken(ctx); err != nil {
		return err
	}
	m.logger.InfoTag("AUTH", "signed out")
	return nil
}

// Restore adopts a credential persisted by an earlier run. The session keeps
// the token for authorized calls but stays unauthenticated until a user is known.
func (m *Manager) Restore(ctx context.Context) error {
	if _, err := m.factory.Client(ctx); err != nil {
		return err
	}
	cred := m.factory.Credential()
	if cred.Empty() {
		return nil
	}
	m.mu.Lock()
	m.accessToken = cred.AccessToken
	m.refreshToken = cred.RefreshToken
	m.expiresAt = cred.ExpiresAt
	m.mu.Unlock()
	m.logger.DebugTag("AUTH", "restored stored credential")
	return nil
}

// UpdateProfile changes the signed-in user's name or password and replaces the
// user record with the server's copy.
func (m *Manager) UpdateProfile(ctx context.Context, patch model.ProfileUpdate) (model.User, error) {
	const op = "session.update_profile"
	if patch.Name == "" && patch.Password == "" {
		return model.User{}, platformerrors.Validation(op, "nothing to update")
	}
	m.mu.RLock()
	var current model.User
	if m.user != nil {
		current = *m.user
	}
	authenticated := m.state == StateAuthenticated
	m.mu.RUnlock()
	if !authenticated {
		return model.User{}, platformerrors.Auth(op, http.StatusUnauthorized, "not signed in")
	}

	client, err := m.factory.Client(ctx)
	if err != nil {
		return model.User{}, err
	}
	var updated model.User
	resp, err := client.R().
		SetContext(ctx).
		SetPathParam("email", current.Email).
		SetBody(patch).
		SetResult(&updated).
		Put("/user/update/{email}")
	if err := httpclient.Check(op, resp, err); err != nil {
		return model.User{}, err
	}
	if updated.ID == "" {
		updated = current
		if patch.Name != "" {
			updated.Name = patch.Name
		}
	}

	m.mu.Lock()
	if m.user != nil && m.user.ID == current.ID {
		m.user = &updated
	}
	m.mu.Unlock()
	return updated, nil
}

// AccessToken returns the current bearer token or "".
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken
}

// User returns the signed-in user.
func (m *Manager) User() (model.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return model.User{}, false
	}
	return *m.user, true
}

// IsAuthenticated holds exactly when both a user and an access token are present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.accessToken != ""
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Snapshot{
		State:           m.state,
		IsAuthenticated: m.user != nil && m.accessToken != "",
		AccessToken:     m.accessToken,
		RefreshToken:    m.refreshToken,
		ExpiresAt:       m.expiresAt,
	}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

func (m *Manager) handleRevoked(ev eventbus.CredentialRevoked) {
	m.reset()
	m.logger.WarnTag("AUTH", "credential revoked by %s %s", ev.Method, ev.URL)
}

func (m *Manager) reset() {
	m.mu.Lock()
	m.clearLocked()
	m.mu.Unlock()
}

func (m *Manager) clearLocked() {
	m.state = StateAnonymous
	m.user = nil
	m.accessToken = ""
	m.refreshToken = ""
	m.expiresAt = nil
}

func (m *Manager) check(op string, req any) error {
	if err := m.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return platformerrors.Validation(op, verrs[0].Field()+" is required")
		}
		return platformerrors.Validation(op, err.Error())
	}
	return nil
}

// tokenExpiry reads the exp claim of a JWT access token without verifying it.
// Opaque tokens have no expiry.
func tokenExpiry(raw string) *time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	exp := claims.ExpiresAt.Time
	return &exp
}

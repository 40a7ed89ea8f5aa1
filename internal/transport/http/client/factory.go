package httpclient

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"stellar-client-go/internal/domain/credential/model"
	"stellar-client-go/internal/domain/credential/store"
	"stellar-client-go/internal/domain/eventbus"
	platformerrors "stellar-client-go/internal/platform/errors"
	"stellar-client-go/internal/platform/logging"
)

// Options configures a Factory.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Retries applies to transport errors and 5xx responses. 401 is never retried.
	Retries int
	// Transport replaces http.DefaultTransport, mostly for tests.
	Transport http.RoundTripper

	Store  store.Store
	Bus    *eventbus.Bus
	Logger *logging.Logger
}

// Factory hands out first-party API clients bound to the current credential.
//
// A client is built once per token. SetToken and ClearToken swap it; requests
// already holding the previous client finish with the previous token.
type Factory struct {
	opts Options

	mu     sync.RWMutex
	loaded bool
	cred   model.Credential
	client *resty.Client
	// gen identifies the current client; it moves on every rebuild and reset.
	gen uint64
}

// NewFactory validates opts and returns an idle factory. The stored credential
// is read lazily by the first Client call.
func NewFactory(opts Options) (*Factory, error) {
	if opts.BaseURL == "" {
		return nil, platformerrors.New(platformerrors.KindConfig, "httpclient.new", "base url is required")
	}
	if opts.Store == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "httpclient.new", "credential store is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Factory{opts: opts}, nil
}

// Client returns the client for the current credential, building it on first use.
func (f *Factory) Client(ctx context.Context) (*resty.Client, error) {
	f.mu.RLock()
	if f.client != nil {
		c := f.client
		f.mu.RUnlock()
		return c, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client != nil {
		return f.client, nil
	}
	if !f.loaded {
		cred, ok, err := f.opts.Store.Get(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			f.cred = cred
		}
		f.loaded = true
	}
	f.client = f.build(f.cred)
	return f.client, nil
}

// SetToken persists cred and rebinds the factory to it.
func (f *Factory) SetToken(ctx context.Context, cred model.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.opts.Store.Set(ctx, cred); err != nil {
		return err
	}
	f.cred = cred
	f.loaded = true
	f.client = f.build(cred)
	f.opts.Logger.DebugTag("HTTP", "client rebound to a new credential")
	return nil
}

// ClearToken removes the stored credential and falls back to an anonymous client.
func (f *Factory) ClearToken(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.opts.Store.Clear(ctx); err != nil {
		return err
	}
	f.resetLocked()
	return nil
}

// Credential returns the credential the current client is bound to.
func (f *Factory) Credential() model.Credential {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cred
}

func (f *Factory) resetLocked() {
	f.cred = model.Credential{}
	f.loaded = true
	f.client = nil
	f.gen++
}

// build must be called with f.mu held. The client is stamped with a new
// generation; its 401s count only while that generation is current.
func (f *Factory) build(cred model.Credential) *resty.Client {
	f.gen++
	gen := f.gen

	var httpClient *http.Client
	base := f.opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if cred.Empty() {
		httpClient = &http.Client{Transport: base}
	} else {
		httpClient = &http.Client{Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(cred.OAuth2()),
			Base:   base,
		}}
	}

	c := newResty(httpClient, f.opts.BaseURL, f.opts.Timeout, f.opts.Retries, f.opts.Logger)
	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() == http.StatusUnauthorized {
			f.revoke(resp, gen)
		}
		return nil
	})
	return c
}

// anyGeneration makes revoke clear the credential whichever client is current.
const anyGeneration = 0

// revoke clears the stored credential after a 401. A 401 seen by a client of
// an older generation, anonymous or not, leaves the newer credential alone.
func (f *Factory) revoke(resp *resty.Response, gen uint64) {
	method, url := requestInfo(resp)

	f.mu.Lock()
	if gen != anyGeneration && gen != f.gen {
		f.mu.Unlock()
		f.opts.Logger.DebugTag("HTTP", "ignoring 401 from superseded client: %s %s", method, url)
		return
	}
	f.opts.Logger.WarnTag("HTTP", "401 from %s %s, clearing stored credential", method, url)
	ctx := context.Background()
	if resp.Request != nil && resp.Request.Context() != nil {
		ctx = context.WithoutCancel(resp.Request.Context())
	}
	if err := f.opts.Store.Clear(ctx); err != nil {
		f.opts.Logger.ErrorTag("HTTP", "failed to clear credential: %v", err)
	}
	f.resetLocked()
	f.mu.Unlock()

	f.opts.Bus.Publish(eventbus.TopicCredentialRevoked, eventbus.CredentialRevoked{
		Status: resp.StatusCode(),
		Method: method,
		URL:    url,
	})
}

// idempotent reports whether a request may be replayed. Votes and creates
// are POSTs and must not be applied twice.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func requestInfo(resp *resty.Response) (string, string) {
	if resp.Request == nil {
		return "", ""
	}
	return resp.Request.Method, resp.Request.URL
}

func newResty(httpClient *http.Client, baseURL string, timeout time.Duration, retries int, logger *logging.Logger) *resty.Client {
	c := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	if retries > 0 {
		c.SetRetryCount(retries).
			SetRetryWaitTime(100 * time.Millisecond).
			AddRetryCondition(func(resp *resty.Response, err error) bool {
				if resp == nil || resp.Request == nil || !idempotent(resp.Request.Method) {
					return false
				}
				if resp.StatusCode() == http.StatusUnauthorized {
					return false
				}
				return err != nil || (resp != nil && resp.StatusCode() >= http.StatusInternalServerError)
			})
	}
	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		logger.DebugTag("HTTP", "%s %s", req.Method, req.URL)
		return nil
	})
	return c
}

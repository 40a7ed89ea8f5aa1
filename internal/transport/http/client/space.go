package httpclient

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	platformerrors "stellar-client-go/internal/platform/errors"
)

// SpaceOptions configures the client for the public space-data API.
type SpaceOptions struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	Retries   int
	Transport http.RoundTripper
}

// Space builds the keyed space-data client. It shares the factory's 401
// handling so an unauthorized response from any gateway clears the session.
func (f *Factory) Space(opts SpaceOptions) (*resty.Client, error) {
	if opts.BaseURL == "" {
		return nil, platformerrors.New(platformerrors.KindConfig, "httpclient.space", "space base url is required")
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	c := newResty(&http.Client{Transport: transport}, opts.BaseURL, opts.Timeout, opts.Retries, f.opts.Logger)
	if opts.APIKey != "" {
		c.SetQueryParam("api_key", opts.APIKey)
	}
	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() == http.StatusUnauthorized {
			f.revoke(resp, anyGeneration)
		}
		return nil
	})
	return c, nil
}

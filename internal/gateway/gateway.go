// Package gateway maps domain operations onto the article backend and the
// space-data API. Every failure leaves here as a remote, auth or validation
// error from internal/platform/errors.
package gateway

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/google/go-querystring/query"

	platformerrors "stellar-client-go/internal/platform/errors"
	"stellar-client-go/internal/platform/observability"
	httpclient "stellar-client-go/internal/transport/http/client"
)

// ClientSource yields the first-party client bound to the current credential.
type ClientSource interface {
	Client(ctx context.Context) (*resty.Client, error)
}

// TokenSource reports the session's current access token.
type TokenSource interface {
	AccessToken() string
}

var validate = validator.New()

// space is shared by the space-data gateways.
type space struct {
	name    string
	client  *resty.Client
	metrics *observability.Metrics
}

// get issues GET path with params encoded from a tagged query struct.
func (s space) get(ctx context.Context, op, path string, params any, pathParams map[string]string, out any) (err error) {
	done := s.metrics.StartSpan(ctx, s.name, op)
	defer func() { done(err) }()

	fullOp := s.name + "." + op
	if err := checkQuery(fullOp, params); err != nil {
		return err
	}
	req := s.client.R().SetContext(ctx).SetResult(out)
	if params != nil {
		values, err := query.Values(params)
		if err != nil {
			return platformerrors.Validation(fullOp, err.Error())
		}
		req.SetQueryParamsFromValues(values)
	}
	if pathParams != nil {
		req.SetPathParams(pathParams)
	}
	resp, err := req.Get(path)
	return httpclient.Check(fullOp, resp, err)
}

func checkQuery(op string, params any) error {
	if params == nil {
		return nil
	}
	if err := validate.Struct(params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Tag() == "required" {
				return platformerrors.Validation(op, fe.Field()+" is required")
			}
			return platformerrors.Validation(op, fe.Field()+" is invalid: "+fe.Tag())
		}
		return platformerrors.Validation(op, err.Error())
	}
	return nil
}

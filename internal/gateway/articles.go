package gateway

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"

	"stellar-client-go/internal/domain/model"
	platformerrors "stellar-client-go/internal/platform/errors"
	"stellar-client-go/internal/platform/observability"
	httpclient "stellar-client-go/internal/transport/http/client"
)

// Articles talks to the first-party article backend. Reads are anonymous;
// writes require a signed-in session.
type Articles struct {
	clients ClientSource
	session TokenSource
	metrics *observability.Metrics
}

func NewArticles(clients ClientSource, session TokenSource, metrics *observability.Metrics) *Articles {
	return &Articles{clients: clients, session: session, metrics: metrics}
}

func (g *Articles) ListAll(ctx context.Context) (out []model.Article, err error) {
	done := g.metrics.StartSpan(ctx, "articles", "list")
	defer func() { done(err) }()

	req, err := g.request(ctx, "articles.list", false)
	if err != nil {
		return nil, err
	}
	resp, err := req.SetResult(&out).Get("/articles/get-all")
	if err := httpclient.Check("articles.list", resp, err); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Article{}
	}
	return out, nil
}

func (g *Articles) GetByID(ctx context.Context, id string) (out model.Article, err error) {
	done := g.metrics.StartSpan(ctx, "articles", "get")
	defer func() { done(err) }()

	if id == "" {
		return model.Article{}, platformerrors.Validation("articles.get", "article id is required")
	}
	req, err := g.request(ctx, "articles.get", false)
	if err != nil {
		return model.Article{}, err
	}
	resp, err := req.SetResult(&out).SetPathParam("id", id).Get("/articles/{id}")
	if err := httpclient.Check("articles.get", resp, err); err != nil {
		return model.Article{}, err
	}
	return out, nil
}

func (g *Articles) Create(ctx context.Context, in model.ArticleInput) (out model.Article, err error) {
	done := g.metrics.StartSpan(ctx, "articles", "create")
	defer func() { done(err) }()

	if in.Title == "" {
		return model.Article{}, platformerrors.Validation("articles.create", "title is required")
	}
	req, err := g.request(ctx, "articles.create", true)
	if err != nil {
		return model.Article{}, err
	}
	resp, err := req.SetBody(in).SetResult(&out).Post("/articles/add")
	if err := httpclient.Check("articles.create", resp, err); err != nil {
		return model.Article{}, err
	}
	return out, nil
}

func (g *Articles) Update(ctx context.Context, id string, patch model.ArticlePatch) (out model.Article, err error) {
	done := g.metrics.StartSpan(ctx, "articles", "update")
	defer func() { done(err) }()

	if id == "" {
		return model.Article{}, platformerrors.Validation("articles.update", "article id is required")
	}
	req, err := g.request(ctx, "articles.update", true)
	if err != nil {
		return model.Article{}, err
	}
	resp, err := req.SetBody(patch).SetResult(&out).SetPathParam("id", id).Put("/articles/update/{id}")
	if err := httpclient.Check("articles.update", resp, err); err != nil {
		return model.Article{}, err
	}
	return out, nil
}

func (g *Articles) Remove(ctx context.Context, id string) (err error) {
	done := g.metrics.StartSpan(ctx, "articles", "remove")
	defer func() { done(err) }()

	if id == "" {
		return platformerrors.Validation("articles.remove", "article id is required")
	}
	req, err := g.request(ctx, "articles.remove", true)
	if err != nil {
		return err
	}
	resp, err := req.SetPathParam("id", id).Delete("/articles/delete/{id}")
	return httpclient.Check("articles.remove", resp, err)
}

// Like returns the server's copy of the article after the vote.
func (g *Articles) Like(ctx context.Context, id string) (model.Article, error) {
	return g.vote(ctx, "like", id)
}

func (g *Articles) Dislike(ctx context.Context, id string) (model.Article, error) {
	return g.vote(ctx, "dislike", id)
}

func (g *Articles) vote(ctx context.Context, kind, id string) (out model.Article, err error) {
	done := g.metrics.StartSpan(ctx, "articles", kind)
	defer func() { done(err) }()

	op := "articles." + kind
	if id == "" {
		return model.Article{}, platformerrors.Validation(op, "article id is required")
	}
	req, err := g.request(ctx, op, true)
	if err != nil {
		return model.Article{}, err
	}
	resp, err := req.SetResult(&out).SetPathParam("id", id).Post("/articles/" + kind + "/{id}")
	if err := httpclient.Check(op, resp, err); err != nil {
		return model.Article{}, err
	}
	return out, nil
}

// request prepares a call. Authorized calls read the session token first and
// never reach the network without one.
func (g *Articles) request(ctx context.Context, op string, authorized bool) (*resty.Request, error) {
	if authorized && g.session.AccessToken() == "" {
		return nil, platformerrors.Auth(op, http.StatusUnauthorized, "sign in required")
	}
	client, err := g.clients.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.R().SetContext(ctx), nil
}

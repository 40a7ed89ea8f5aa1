package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"stellar-client-go/internal/bootstrap"
	"stellar-client-go/internal/domain/model"
	"stellar-client-go/internal/gateway"
)

type command struct {
	name    string
	usage   string
	summary string
	minArgs int
	maxArgs int
	run     func(ctx context.Context, app *bootstrap.App, args []string) (any, error)
}

func (c command) checkArgs(args []string) error {
	if len(args) < c.minArgs || len(args) > c.maxArgs {
		return usageError{fmt.Sprintf("usage: stellar-client %s %s", c.name, c.usage)}
	}
	return nil
}

var commands = []command{
	{name: "apod", usage: "[date]", summary: "astronomy picture of a day (latest when omitted)", maxArgs: 1, run: runAPOD},
	{name: "apod-range", usage: "<start> <end>", summary: "astronomy pictures between two dates", minArgs: 2, maxArgs: 2, run: runAPODRange},
	{name: "asteroids", usage: "<start> <end>", summary: "near-earth objects approaching in a date window", minArgs: 2, maxArgs: 2, run: runAsteroids},
	{name: "manifest", usage: "<rover>", summary: "mission manifest of a mars rover", minArgs: 1, maxArgs: 1, run: runManifest},
	{name: "photos", usage: "[rover] [sol] [camera]", summary: "mars rover photos (curiosity, sol 1000 by default)", maxArgs: 3, run: runPhotos},
	{name: "earth", usage: "<lat> <lon> <date>", summary: "earth imagery asset for a coordinate", minArgs: 3, maxArgs: 3, run: runEarth},
	{name: "articles", summary: "article feed", run: runArticles},
	{name: "article", usage: "<id>", summary: "one article", minArgs: 1, maxArgs: 1, run: runArticle},
	{name: "login", usage: "<email> <password>", summary: "sign in and store the token", minArgs: 2, maxArgs: 2, run: runLogin},
	{name: "register", usage: "<name> <email> <password>", summary: "create an account and sign in", minArgs: 3, maxArgs: 3, run: runRegister},
	{name: "logout", summary: "forget the stored token", run: runLogout},
	{name: "like", usage: "<id>", summary: "like an article", minArgs: 1, maxArgs: 1, run: vote(true)},
	{name: "dislike", usage: "<id>", summary: "dislike an article", minArgs: 1, maxArgs: 1, run: vote(false)},
	{name: "whoami", summary: "current session", run: runWhoami},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func runAPOD(ctx context.Context, app *bootstrap.App, args []string) (any, error) {
	date := arg(args, 0)
	if err := app.Syncer.FetchAPOD(ctx, date); err != nil {
		return nil, err
	}
	return app.Syncer.Caches().APOD.Pictures.Get(date), nil
}

func runAPODRange(ctx context.Context, app *bootstrap.App, args []string) (any, error) {
	if err := app.Syncer.FetchAPODRange(ctx, args[0], args[1]); err != nil {
		return nil, err
	}
	return app.Syncer.Caches().APOD.Ranges.Get(model.DateRange{Start: args[0], End: args[1]}), nil
}

func runAsteroids(ctx context.Context, app *bootstrap.App, args []string) (any, error) {
	if err := app.Syncer.FetchAsteroids(ctx, args[0], args[1]); err != nil {
		return nil, err
	}
	return app.Syncer.Caches().Asteroids.Feeds.Get(model.DateRange{Start: args[0], End: args[1]}), nil
}

func runManifest(ctx context.Context, app *bootstrap.App, args []string) (any, error) {
	if err := app.Syncer.FetchManifest(ctx, args[0]); err != nil {
		return nil, err
	}
	return app.Syncer.Caches().Mars.Manifests.Get(strings.ToLower(strings.TrimSpace(args[0]))), nil
}

func runPhotos(ctx context.Context, app *bootstrap.App, args []string) (any, error) {
	var sol *int
	if s := arg(args, 1); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, usageError{fmt.Sprintf("sol must be a non-negative integer, got %q", s)}
		}
		sol = &n
	}
	rover, _ := gateway.PhotoDefaults(arg(args, 0), sol)
	if err := app.Syncer.FetchPhotos(ctx, rover, sol, arg(args, 2)); err != nil {
		return nil, err
	}
	return app.Syncer.Caches().Mars.Photos.Get(rover), nil
}

func runEarth(ctx context.Context, app *bootstrap.App, args []string) (any, error) {
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, usageError{fmt.Sprintf("lat must be a number, got %q", args[0])}
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return nil, usageError{fmt.Sprintf("lon must be a number, got %q", args[1])}
	}
	q := model.EarthQuery{Lat: lat, Lon: lon, Date: args[2]}
	if err := app.Syncer.FetchEarth(ctx, q); err != nil {
		return nil, err
	}
	return app.Syncer.Caches().Earth.Images.Get(q), nil
}

func runArticles(ctx context.Context, app *bootstrap.App, _ []string) (any, error) {
	if err := app.Syncer.FetchArticles(ctx); err != nil {
		return nil, err
	}
	return app.Syncer.Caches().Articles.State().List, nil
}

func runArticle(ctx context.Context, app *bootstrap.App, args []string) (any, error) {
	if err := app.Syncer.FetchArticle(ctx, args[0]); err != nil {
		return nil, err
	}
	return app.Syncer.Caches().Articles.State().Detail, nil
}

// vote loads the article first so the detail view shows the server's count.
func vote(like bool) func(context.Context, *bootstrap.App, []string) (any, error) {
	return func(ctx context.Context, app *bootstrap.App, args []string) (any, error) {
		id := args[0]
		if err := app.Syncer.FetchArticle(ctx, id); err != nil {
			return nil, err
		}
		var err error
		if like {
			err = app.Syncer.LikeArticle(ctx, id)
		} else {
			err = app.Syncer.DislikeArticle(ctx, id)
		}
		if err != nil {
			return nil, err
		}
		return app.Syncer.Caches().Articles.State().Detail, nil
	}
}

func runLogin(ctx context.Context, app *bootstrap.App, args []string) (any, error) {
	if err := app.Session.Login(ctx, args[0], args[1]); err != nil {
		return nil, err
	}
	return whoami(app), nil
}

func runRegister(ctx context.Context, app *bootstrap.App, args []string) (any, error) {
	if err := app.Session.Register(ctx, args[0], args[1], args[2]); err != nil {
		return nil, err
	}
	return whoami(app), nil
}

func runLogout(ctx context.Context, app *bootstrap.App, _ []string) (any, error) {
	if err := app.Session.Logout(ctx); err != nil {
		return nil, err
	}
	return whoami(app), nil
}

func runWhoami(_ context.Context, app *bootstrap.App, _ []string) (any, error) {
	return whoami(app), nil
}

type sessionView struct {
	State           string      `json:"state"`
	IsAuthenticated bool        `json:"isAuthenticated"`
	HasToken        bool        `json:"hasToken"`
	User            *model.User `json:"user,omitempty"`
	ExpiresAt       *time.Time  `json:"expiresAt,omitempty"`
}

func whoami(app *bootstrap.App) sessionView {
	s := app.Session.Snapshot()
	return sessionView{
		State:           s.State.String(),
		IsAuthenticated: s.IsAuthenticated,
		HasToken:        s.AccessToken != "",
		User:            s.User,
		ExpiresAt:       s.ExpiresAt,
	}
}

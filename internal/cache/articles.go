package cache

import (
	"sync"
	"time"

	"stellar-client-go/internal/domain/model"
)

// ArticleState is the article feed plus the article a detail screen shows.
// When the same article sits in both views they hold the same record.
type ArticleState struct {
	List Entry[[]model.Resource[model.Article]]
	// DetailID is the article the detail view is bound to, "" when none.
	DetailID string
	Detail   Entry[model.Resource[model.Article]]
	// Mutation tracks the last write; Data is the id being written.
	Mutation Entry[string]
}

// Current returns the detail record when it has loaded.
func (s ArticleState) Current() (model.Article, bool) {
	if s.DetailID == "" || s.Detail.Data.ID != s.DetailID {
		return model.Article{}, false
	}
	return s.Detail.Data.Payload, true
}

// ArticleIntent is the closed set of article transitions.
type ArticleIntent interface {
	applyArticle(s ArticleState, now time.Time) (ArticleState, bool)
	view() string
}

type ListFetchStarted struct{}

func (ListFetchStarted) view() string { return "list" }
func (ListFetchStarted) applyArticle(s ArticleState, now time.Time) (ArticleState, bool) {
	var ok bool
	s.List, ok = FetchStart[[]model.Resource[model.Article]]{}.apply(s.List, now)
	return s, ok
}

type ListFetchSucceeded struct {
	Articles []model.Article
}

func (ListFetchSucceeded) view() string { return "list" }
func (i ListFetchSucceeded) applyArticle(s ArticleState, now time.Time) (ArticleState, bool) {
	s.List, _ = ListFetched[model.Article]{Items: i.Articles}.apply(s.List, now)
	if cur, ok := find(s.List.Data, s.DetailID); ok && s.Detail.Data.ID == s.DetailID {
		s.Detail.Data = cur
	}
	return s, true
}

type ListFetchFailed struct {
	Message string
}

func (ListFetchFailed) view() string { return "list" }
func (i ListFetchFailed) applyArticle(s ArticleState, now time.Time) (ArticleState, bool) {
	s.List, _ = FetchFailed[[]model.Resource[model.Article]]{Message: i.Message}.apply(s.List, now)
	return s, true
}

// DetailFetchStarted binds the detail view to ID. It is suppressed while the
// same article is already loading.
type DetailFetchStarted struct {
	ID string
}

func (DetailFetchStarted) view() string { return "detail" }
func (i DetailFetchStarted) applyArticle(s ArticleState, _ time.Time) (ArticleState, bool) {
	if s.DetailID == i.ID && s.Detail.Status == StatusLoading {
		return s, false
	}
	if s.DetailID != i.ID {
		s.Detail = Entry[model.Resource[model.Article]]{}
		s.DetailID = i.ID
	}
	s.Detail.Status = StatusLoading
	return s, true
}

// DetailFetchSucceeded is dropped when the detail view moved to another article meanwhile.
type DetailFetchSucceeded struct {
	Article model.Article
}

func (DetailFetchSucceeded) view() string { return "detail" }
func (i DetailFetchSucceeded) applyArticle(s ArticleState, now time.Time) (ArticleState, bool) {
	if s.DetailID != i.Article.ID {
		return s, false
	}
	r := model.Wrap(i.Article, now)
	s.Detail = succeed(s.Detail, r, now)
	if list, ok := replace(s.List.Data, r); ok {
		s.List.Data = list
	}
	return s, true
}

type DetailFetchFailed struct {
	ID      string
	Message string
}

func (DetailFetchFailed) view() string { return "detail" }
func (i DetailFetchFailed) applyArticle(s ArticleState, now time.Time) (ArticleState, bool) {
	if s.DetailID != i.ID {
		return s, false
	}
	s.Detail, _ = FetchFailed[model.Resource[model.Article]]{Message: i.Message}.apply(s.Detail, now)
	return s, true
}

// DetailCleared unbinds the detail view.
type DetailCleared struct{}

func (DetailCleared) view() string { return "detail" }
func (DetailCleared) applyArticle(s ArticleState, _ time.Time) (ArticleState, bool) {
	if s.DetailID == "" {
		return s, false
	}
	s.DetailID = ""
	s.Detail = Entry[model.Resource[model.Article]]{}
	return s, true
}

type MutationStarted struct {
	ID string
}

func (MutationStarted) view() string { return "mutation" }
func (i MutationStarted) applyArticle(s ArticleState, _ time.Time) (ArticleState, bool) {
	s.Mutation.Status = StatusLoading
	s.Mutation.Data = i.ID
	s.Mutation.Error = ""
	return s, true
}

type MutationFailed struct {
	ID      string
	Message string
}

func (MutationFailed) view() string { return "mutation" }
func (i MutationFailed) applyArticle(s ArticleState, now time.Time) (ArticleState, bool) {
	s.Mutation.Status = StatusFailed
	s.Mutation.Data = i.ID
	s.Mutation.Error = i.Message
	return s, true
}

// ArticleCreated puts a new article at the head of the feed.
type ArticleCreated struct {
	Article model.Article
}

func (ArticleCreated) view() string { return "list" }
func (i ArticleCreated) applyArticle(s ArticleState, now time.Time) (ArticleState, bool) {
	s.List.Data = prepend(s.List.Data, model.Wrap(i.Article, now))
	s.List.UpdatedAt = now
	s.Mutation = succeed(s.Mutation, i.Article.ID, now)
	return s, true
}

// ArticleUpserted installs the server's copy of an article in the feed and,
// when it is the one on screen, in the detail view. Both views receive the
// same record. Articles missing from the feed are not added to it.
type ArticleUpserted struct {
	Article model.Article
}

func (ArticleUpserted) view() string { return "list" }
func (i ArticleUpserted) applyArticle(s ArticleState, now time.Time) (ArticleState, bool) {
	r := model.Wrap(i.Article, now)
	if list, ok := replace(s.List.Data, r); ok {
		s.List.Data = list
		s.List.UpdatedAt = now
	}
	if s.DetailID == r.ID {
		s.Detail = succeed(s.Detail, r, now)
	}
	s.Mutation = succeed(s.Mutation, r.ID, now)
	return s, true
}

// ArticleRemoved drops an article from the feed and clears the detail view
// only when it shows that article.
type ArticleRemoved struct {
	ID string
}

func (ArticleRemoved) view() string { return "list" }
func (i ArticleRemoved) applyArticle(s ArticleState, now time.Time) (ArticleState, bool) {
	if list, ok := remove(s.List.Data, i.ID); ok {
		s.List.Data = list
		s.List.UpdatedAt = now
	}
	if s.DetailID == i.ID {
		s.DetailID = ""
		s.Detail = Entry[model.Resource[model.Article]]{}
	}
	s.Mutation = succeed(s.Mutation, i.ID, now)
	return s, true
}

// ArticleErrorCleared drops the error of every view.
type ArticleErrorCleared struct{}

func (ArticleErrorCleared) view() string { return "list" }
func (ArticleErrorCleared) applyArticle(s ArticleState, _ time.Time) (ArticleState, bool) {
	if s.List.Error == "" && s.Detail.Error == "" && s.Mutation.Error == "" {
		return s, false
	}
	s.List.Error, s.Detail.Error, s.Mutation.Error = "", "", ""
	return s, true
}

// Articles is the article cache.
type Articles struct {
	opts Options

	mu    sync.Mutex
	state ArticleState
}

func NewArticles(opts Options) *Articles {
	return &Articles{opts: opts}
}

func (c *Articles) State() ArticleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies in atomically and returns the new state.
func (c *Articles) Dispatch(in ArticleIntent) (ArticleState, bool) {
	now := c.opts.now().Now()

	c.mu.Lock()
	next, applied := in.applyArticle(c.state, now)
	if applied {
		c.state = next
	}
	c.mu.Unlock()

	if !applied {
		switch in.(type) {
		case ListFetchStarted, DetailFetchStarted:
			c.opts.deduplicated(NameArticles)
		}
		return next, false
	}

	view := in.view()
	status := next.List.Status
	key := view
	switch view {
	case "detail":
		status = next.Detail.Status
		key = "detail:" + next.DetailID
	case "mutation":
		status = next.Mutation.Status
	}
	c.opts.notify(NameArticles, key, status)
	return next, true
}

func find(list []model.Resource[model.Article], id string) (model.Resource[model.Article], bool) {
	if id == "" {
		return model.Resource[model.Article]{}, false
	}
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return model.Resource[model.Article]{}, false
}

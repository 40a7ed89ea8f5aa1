package cache

import (
	"testing"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellar-client-go/internal/domain/model"
)

func seededArticles(t *testing.T) *Articles {
	t.Helper()
	c := NewArticles(Options{Clock: testclock.NewClock(t0)})
	c.Dispatch(ListFetchStarted{})
	c.Dispatch(ListFetchSucceeded{Articles: []model.Article{
		{ID: "a1", Title: "One", Likes: 1},
		{ID: "a2", Title: "Two"},
		{ID: "a3", Title: "Three"},
	}})
	c.Dispatch(DetailFetchStarted{ID: "a2"})
	c.Dispatch(DetailFetchSucceeded{Article: model.Article{ID: "a2", Title: "Two"}})
	return c
}

func listIDs(s ArticleState) []string {
	ids := make([]string, 0, len(s.List.Data))
	for _, r := range s.List.Data {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestArticleListLifecycle(t *testing.T) {
	c := NewArticles(Options{})

	_, applied := c.Dispatch(ListFetchStarted{})
	require.True(t, applied)
	_, applied = c.Dispatch(ListFetchStarted{})
	assert.False(t, applied, "list fetch already in flight")

	s, _ := c.Dispatch(ListFetchSucceeded{Articles: []model.Article{{ID: "a1"}}})
	assert.Equal(t, StatusSucceeded, s.List.Status)
	assert.Equal(t, []string{"a1"}, listIDs(s))

	c.Dispatch(ListFetchStarted{})
	s, _ = c.Dispatch(ListFetchFailed{Message: "Network Error"})
	assert.Equal(t, StatusFailed, s.List.Status)
	assert.Equal(t, "Network Error", s.List.Error)
	assert.Equal(t, []string{"a1"}, listIDs(s), "stale data stays available")

	s, applied = c.Dispatch(ArticleErrorCleared{})
	assert.True(t, applied)
	assert.Empty(t, s.List.Error)
}

func TestUpdateConvergesListAndDetail(t *testing.T) {
	for _, name := range []string{"update", "like", "dislike"} {
		t.Run(name, func(t *testing.T) {
			c := seededArticles(t)
			server := model.Article{ID: "a2", Title: "Two", Likes: 0, Dislikes: 0}
			switch name {
			case "update":
				server.Title = "Two (edited)"
			case "like":
				server.Likes = 1
			case "dislike":
				server.Dislikes = 1
			}

			c.Dispatch(MutationStarted{ID: "a2"})
			s, applied := c.Dispatch(ArticleUpserted{Article: server})
			require.True(t, applied)

			cur, ok := s.Current()
			require.True(t, ok)
			assert.Equal(t, server, cur)
			assert.Equal(t, s.List.Data[1], s.Detail.Data, "list and detail must hold the same record")
			assert.Equal(t, []string{"a1", "a2", "a3"}, listIDs(s))
			assert.Equal(t, StatusSucceeded, s.Mutation.Status)
		})
	}
}

func TestUpsertOfArticleNotOnScreen(t *testing.T) {
	c := seededArticles(t)
	before := c.State().Detail

	s, _ := c.Dispatch(ArticleUpserted{Article: model.Article{ID: "a3", Title: "Three!", Likes: 4}})
	assert.Equal(t, "Three!", s.List.Data[2].Payload.Title)
	assert.Equal(t, before, s.Detail)
}

func TestLikesFollowServerCounts(t *testing.T) {
	c := seededArticles(t)

	// two dispatches, one confirmed response
	c.Dispatch(MutationStarted{ID: "a1"})
	c.Dispatch(MutationStarted{ID: "a1"})
	s, _ := c.Dispatch(ArticleUpserted{Article: model.Article{ID: "a1", Title: "One", Likes: 2}})
	assert.Equal(t, 2, s.List.Data[0].Payload.Likes)

	s, _ = c.Dispatch(MutationFailed{ID: "a1", Message: "Network Error"})
	assert.Equal(t, 2, s.List.Data[0].Payload.Likes, "a failed like leaves the count alone")
	assert.Equal(t, "Network Error", s.Mutation.Error)
}

func TestDeleteClearsDetailOnlyForCurrentArticle(t *testing.T) {
	t.Run("other id", func(t *testing.T) {
		c := seededArticles(t)
		before := c.State()
		s, _ := c.Dispatch(ArticleRemoved{ID: "a3"})
		assert.Equal(t, []string{"a1", "a2"}, listIDs(s))
		assert.Equal(t, before.DetailID, s.DetailID)
		assert.Equal(t, before.Detail, s.Detail)
	})
	t.Run("current id", func(t *testing.T) {
		c := seededArticles(t)
		s, _ := c.Dispatch(ArticleRemoved{ID: "a2"})
		assert.Equal(t, []string{"a1", "a3"}, listIDs(s))
		assert.Empty(t, s.DetailID)
		_, ok := s.Current()
		assert.False(t, ok)
		assert.Equal(t, StatusIdle, s.Detail.Status)
	})
}

func TestCreatePrepends(t *testing.T) {
	c := seededArticles(t)
	s, _ := c.Dispatch(ArticleCreated{Article: model.Article{ID: "a9", Title: "New"}})
	assert.Equal(t, []string{"a9", "a1", "a2", "a3"}, listIDs(s))
	assert.Equal(t, "a9", s.Mutation.Data)
}

func TestDetailFetch(t *testing.T) {
	c := NewArticles(Options{})

	_, applied := c.Dispatch(DetailFetchStarted{ID: "a1"})
	require.True(t, applied)
	_, applied = c.Dispatch(DetailFetchStarted{ID: "a1"})
	assert.False(t, applied, "same article already loading")

	// moving to another article drops the late response for the first one
	_, applied = c.Dispatch(DetailFetchStarted{ID: "a2"})
	require.True(t, applied)
	_, applied = c.Dispatch(DetailFetchSucceeded{Article: model.Article{ID: "a1"}})
	assert.False(t, applied)

	s, _ := c.Dispatch(DetailFetchFailed{ID: "a2", Message: "Request failed with status code 404"})
	assert.Equal(t, StatusFailed, s.Detail.Status)
	assert.Equal(t, "a2", s.DetailID)

	s, applied = c.Dispatch(DetailCleared{})
	assert.True(t, applied)
	assert.Empty(t, s.DetailID)
}

func TestListRefreshKeepsDetailInSync(t *testing.T) {
	c := seededArticles(t)
	s, _ := c.Dispatch(ListFetchSucceeded{Articles: []model.Article{
		{ID: "a2", Title: "Two (server)", Likes: 9},
	}})
	assert.Equal(t, s.List.Data[0], s.Detail.Data)
	cur, _ := s.Current()
	assert.Equal(t, 9, cur.Likes)
}

func TestArticleNotifications(t *testing.T) {
	rec := newRecorder()
	c := NewArticles(Options{Metrics: rec})
	c.Dispatch(ListFetchStarted{})
	c.Dispatch(ListFetchStarted{})
	c.Dispatch(DetailFetchStarted{ID: "a1"})
	c.Dispatch(DetailFetchStarted{ID: "a1"})

	assert.Equal(t, 2, rec.deduped[NameArticles])
	assert.Equal(t, 2, rec.transitions[NameArticles+"/loading"])
}

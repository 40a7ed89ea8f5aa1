package syncer

import (
	"context"

	"stellar-client-go/internal/cache"
	"stellar-client-go/internal/domain/model"
	platformerrors "stellar-client-go/internal/platform/errors"
)

func (s *Syncer) FetchArticles(ctx context.Context) error {
	if _, applied := s.caches.Articles.Dispatch(cache.ListFetchStarted{}); !applied {
		s.logger.DebugTag("SYNC", "article list already loading")
		return nil
	}
	list, err := s.gw.Articles.ListAll(ctx)
	if err != nil {
		s.caches.Articles.Dispatch(cache.ListFetchFailed{Message: platformerrors.MessageOf(err)})
		return err
	}
	s.caches.Articles.Dispatch(cache.ListFetchSucceeded{Articles: list})
	return nil
}

// FetchArticle binds the detail view to id and loads it.
func (s *Syncer) FetchArticle(ctx context.Context, id string) error {
	if _, applied := s.caches.Articles.Dispatch(cache.DetailFetchStarted{ID: id}); !applied {
		s.logger.DebugTag("SYNC", "article %s already loading", id)
		return nil
	}
	a, err := s.gw.Articles.GetByID(ctx, id)
	if err != nil {
		s.caches.Articles.Dispatch(cache.DetailFetchFailed{ID: id, Message: platformerrors.MessageOf(err)})
		return err
	}
	s.caches.Articles.Dispatch(cache.DetailFetchSucceeded{Article: a})
	return nil
}

func (s *Syncer) CreateArticle(ctx context.Context, in model.ArticleInput) (model.Article, error) {
	if u, ok := s.users.User(); ok {
		if in.AuthorID == "" {
			in.AuthorID = u.ID
		}
		if in.AuthorName == "" {
			in.AuthorName = u.Name
		}
	}
	var created model.Article
	err := s.mutate(ctx, "", func(ctx context.Context) (cache.ArticleIntent, error) {
		a, err := s.gw.Articles.Create(ctx, in)
		created = a
		return cache.ArticleCreated{Article: a}, err
	})
	return created, err
}

func (s *Syncer) UpdateArticle(ctx context.Context, id string, patch model.ArticlePatch) error {
	return s.mutate(ctx, id, func(ctx context.Context) (cache.ArticleIntent, error) {
		a, err := s.gw.Articles.Update(ctx, id, patch)
		return cache.ArticleUpserted{Article: a}, err
	})
}

func (s *Syncer) DeleteArticle(ctx context.Context, id string) error {
	return s.mutate(ctx, id, func(ctx context.Context) (cache.ArticleIntent, error) {
		return cache.ArticleRemoved{ID: id}, s.gw.Articles.Remove(ctx, id)
	})
}

// LikeArticle stores the server's copy of the article; the count only moves
// when the backend confirms the vote.
func (s *Syncer) LikeArticle(ctx context.Context, id string) error {
	return s.mutate(ctx, id, func(ctx context.Context) (cache.ArticleIntent, error) {
		a, err := s.gw.Articles.Like(ctx, id)
		return cache.ArticleUpserted{Article: a}, err
	})
}

func (s *Syncer) DislikeArticle(ctx context.Context, id string) error {
	return s.mutate(ctx, id, func(ctx context.Context) (cache.ArticleIntent, error) {
		a, err := s.gw.Articles.Dislike(ctx, id)
		return cache.ArticleUpserted{Article: a}, err
	})
}

func (s *Syncer) mutate(ctx context.Context, id string, call func(context.Context) (cache.ArticleIntent, error)) error {
	s.caches.Articles.Dispatch(cache.MutationStarted{ID: id})
	in, err := call(ctx)
	if err != nil {
		s.caches.Articles.Dispatch(cache.MutationFailed{ID: id, Message: platformerrors.MessageOf(err)})
		return err
	}
	s.caches.Articles.Dispatch(in)
	return nil
}

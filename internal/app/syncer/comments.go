package syncer

import (
	"strings"

	"github.com/google/uuid"

	"stellar-client-go/internal/cache"
	"stellar-client-go/internal/domain/model"
	platformerrors "stellar-client-go/internal/platform/errors"
)

// AddComment appends a comment to the article's local list. Nothing is sent
// to the backend and there is no rollback path.
func (s *Syncer) AddComment(articleID, content string) (model.Comment, error) {
	const op = "comments.add"
	content = strings.TrimSpace(content)
	if articleID == "" || content == "" {
		return model.Comment{}, platformerrors.Validation(op, "article id and content are required")
	}
	user, ok := s.users.User()
	if !ok {
		return model.Comment{}, platformerrors.Auth(op, 0, "sign in to comment")
	}
	c := model.Comment{
		ID:        uuid.NewString(),
		ArticleID: articleID,
		UserID:    user.ID,
		UserName:  user.Name,
		Content:   content,
		CreatedAt: s.clock.Now(),
	}
	s.caches.Comments.ByArticle.Dispatch(articleID, cache.AppendOne[model.Comment]{Item: c})
	return c, nil
}

// SetComments replaces the comment list of an article.
func (s *Syncer) SetComments(articleID string, comments []model.Comment) {
	s.caches.Comments.ByArticle.Dispatch(articleID, cache.ListFetched[model.Comment]{Items: comments})
}

func (s *Syncer) RemoveComment(articleID, commentID string) {
	s.caches.Comments.ByArticle.Dispatch(articleID, cache.RemoveOne[model.Comment]{ID: commentID})
}

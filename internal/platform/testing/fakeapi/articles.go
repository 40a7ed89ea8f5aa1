package fakeapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stellar-client-go/internal/domain/model"
)

// SeedArticles replaces the article collection.
func (s *Server) SeedArticles(articles ...model.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append([]model.Article(nil), articles...)
}

// Article returns the server-side copy of an article.
func (s *Server) Article(id string) (model.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Article{}, false
	}
	return s.articles[i], true
}

func (s *Server) indexOf(id string) int {
	for i, a := range s.articles {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) listArticles(c *gin.Context) {
	s.mu.Lock()
	out := append([]model.Article{}, s.articles...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) getArticle(c *gin.Context) {
	a, ok := s.Article(c.Param("id"))
	if !ok {
		notFound(c, "article")
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) addArticle(c *gin.Context) {
	var in model.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Title == "" {
		respondError(c, http.StatusBadRequest, "title is required")
		return
	}
	s.mu.Lock()
	a := model.Article{
		ID:         s.nextID("a"),
		Title:      in.Title,
		Content:    in.Content,
		ImageURL:   in.ImageURL,
		AuthorID:   in.AuthorID,
		AuthorName: in.AuthorName,
		CreatedAt:  now(),
		Comments:   []string{},
	}
	s.articles = append(s.articles, a)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, a)
}

func (s *Server) updateArticle(c *gin.Context) {
	var patch model.ArticlePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	i := s.indexOf(c.Param("id"))
	if i < 0 {
		s.mu.Unlock()
		notFound(c, "article")
		return
	}
	a := &s.articles[i]
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Content != nil {
		a.Content = *patch.Content
	}
	if patch.ImageURL != nil {
		a.ImageURL = *patch.ImageURL
	}
	out := *a
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) deleteArticle(c *gin.Context) {
	s.mu.Lock()
	i := s.indexOf(c.Param("id"))
	if i < 0 {
		s.mu.Unlock()
		notFound(c, "article")
		return
	}
	s.articles = append(s.articles[:i], s.articles[i+1:]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Article deleted"})
}

func (s *Server) vote(likes, dislikes int) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		i := s.indexOf(c.Param("id"))
		if i < 0 {
			s.mu.Unlock()
			notFound(c, "article")
			return
		}
		s.articles[i].Likes += likes
		s.articles[i].Dislikes += dislikes
		out := s.articles[i]
		s.mu.Unlock()
		c.JSON(http.StatusOK, out)
	}
}

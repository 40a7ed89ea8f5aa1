package model

import "encoding/json"

// Article is a user-generated feed entry from the first-party backend.
type Article struct {
	ID         string   `json:"_id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	ImageURL   string   `json:"imageUrl"`
	AuthorID   string   `json:"authorId"`
	AuthorName string   `json:"authorName"`
	CreatedAt  string   `json:"createdAt"`
	Likes      int      `json:"likes"`
	Dislikes   int      `json:"dislikes"`
	Comments   []string `json:"comments"`
}

func (a Article) Key() string { return a.ID }

// UnmarshalJSON accepts both "_id" and "id" as the identity field.
func (a *Article) UnmarshalJSON(data []byte) error {
	type plain Article
	aux := struct {
		*plain
		AltID string `json:"id"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = aux.AltID
	}
	return nil
}

// ArticleInput is the body of an article create.
type ArticleInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	ImageURL   string `json:"imageUrl,omitempty"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
}

// ArticlePatch is a partial article update; nil fields are left untouched.
type ArticlePatch struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

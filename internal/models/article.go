package models

import "time"

type ArticleCategory struct {
	ID      int       `json:"id"`
	Title   string    `json:"title"`
	Created time.Time `json:"created"`
}

type Article struct {
	ID            int       `json:"id"`
	AuthorID      int       `json:"author_id"`
	Avatar        string    `json:"avatar,omitempty"` // обложка статьи
	Title         string    `json:"title"`
	CategoryID    int       `json:"category_id"`
	Tags          string    `json:"tags,omitempty"`
	Summary       string    `json:"summary"`
	Content       string    `json:"content,omitempty"`
	TotalViews    int       `json:"total_views"`
	CommentsCount int       `json:"comments_count"`
	Created       time.Time `json:"created"`
	Updated       time.Time `json:"updated"`

	// заполняются JOIN-ом, в таблице не хранятся
	AuthorName    string `json:"author_name,omitempty"`
	CategoryTitle string `json:"category_title,omitempty"`
}

type Comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	ArticleID int       `json:"article_id"`
	UserID    int       `json:"user_id"`
	Created   time.Time `json:"created"`

	Username string `json:"username,omitempty"`
}

type CreateArticleRequest struct {
	Title      string `json:"title"`
	CategoryID int    `json:"category"`
	Tags       string `json:"tags"`
	Summary    string `json:"summary"`
	Content    string `json:"content"`
}

type CreateCommentRequest struct {
	ArticleID int    `json:"id"`
	Content   string `json:"content"`
}

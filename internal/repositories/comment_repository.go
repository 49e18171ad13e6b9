package repositories

import (
	"database/sql"
	"log"

	"goblog/internal/models"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *models.Comment) error {
	const query = `
		INSERT INTO tb_comment (content, article_id, user_id, created)
		VALUES ($1,$2,$3,NOW())
		RETURNING id, created
	`
	return r.db.QueryRow(query, comment.Content, comment.ArticleID, comment.UserID).
		Scan(&comment.ID, &comment.Created)
}

func (r *CommentRepository) CountByArticle(articleID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM tb_comment WHERE article_id=$1`, articleID).Scan(&count)
	return count, err
}

func (r *CommentRepository) ListByArticle(articleID, limit, offset int) ([]models.Comment, error) {
	const query = `
		SELECT cm.id, cm.content, cm.article_id, cm.user_id, cm.created, u.username
		FROM tb_comment cm
		JOIN tb_users u ON u.id = cm.user_id
		WHERE cm.article_id=$1
		ORDER BY cm.created DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(query, articleID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.ArticleID, &c.UserID, &c.Created, &c.Username); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

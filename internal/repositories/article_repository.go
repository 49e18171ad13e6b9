package repositories

import (
	"database/sql"
	"errors"
	"log"

	"goblog/internal/models"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) ListCategories() ([]models.ArticleCategory, error) {
	const query = `SELECT id, title, created FROM tb_category ORDER BY id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.ArticleCategory
	for rows.Next() {
		var c models.ArticleCategory
		if err := rows.Scan(&c.ID, &c.Title, &c.Created); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategoryByID — (nil, nil), если такой категории нет.
func (r *ArticleRepository) GetCategoryByID(id int) (*models.ArticleCategory, error) {
	const query = `SELECT id, title, created FROM tb_category WHERE id=$1`
	c := &models.ArticleCategory{}
	err := r.db.QueryRow(query, id).Scan(&c.ID, &c.Title, &c.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ArticleRepository) Create(article *models.Article) error {
	const query = `
		INSERT INTO tb_article (author_id, avatar, title, category_id, tags, summary, content,
		                        total_views, comments_count, created, updated)
		VALUES ($1,$2,$3,$4,$5,$6,$7,0,0,NOW(),NOW())
		RETURNING id, created, updated
	`
	return r.db.QueryRow(query,
		article.AuthorID, article.Avatar, article.Title, article.CategoryID,
		article.Tags, article.Summary, article.Content,
	).Scan(&article.ID, &article.Created, &article.Updated)
}

func (r *ArticleRepository) GetByID(id int) (*models.Article, error) {
	const query = `
		SELECT a.id, a.author_id, a.avatar, a.title, a.category_id, a.tags,
		       a.summary, a.content, a.total_views, a.comments_count, a.created, a.updated,
		       u.username, COALESCE(c.title,'')
		FROM tb_article a
		JOIN tb_users u ON u.id = a.author_id
		LEFT JOIN tb_category c ON c.id = a.category_id
		WHERE a.id=$1
	`
	a := &models.Article{}
	err := r.db.QueryRow(query, id).Scan(
		&a.ID, &a.AuthorID, &a.Avatar, &a.Title, &a.CategoryID, &a.Tags,
		&a.Summary, &a.Content, &a.TotalViews, &a.CommentsCount, &a.Created, &a.Updated,
		&a.AuthorName, &a.CategoryTitle,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ArticleRepository) CountByCategory(categoryID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM tb_article WHERE category_id=$1`, categoryID).Scan(&count)
	return count, err
}

// ListByCategory — страница статей категории, новые сверху. Контент не тянем,
// для ленты хватает summary.
func (r *ArticleRepository) ListByCategory(categoryID, limit, offset int) ([]models.Article, error) {
	const query = `
		SELECT a.id, a.author_id, a.avatar, a.title, a.category_id, a.tags,
		       a.summary, a.total_views, a.comments_count, a.created, a.updated,
		       u.username
		FROM tb_article a
		JOIN tb_users u ON u.id = a.author_id
		WHERE a.category_id=$1
		ORDER BY a.created DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(query, categoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(
			&a.ID, &a.AuthorID, &a.Avatar, &a.Title, &a.CategoryID, &a.Tags,
			&a.Summary, &a.TotalViews, &a.CommentsCount, &a.Created, &a.Updated,
			&a.AuthorName,
		); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (r *ArticleRepository) ListHot(limit int) ([]models.Article, error) {
	const query = `
		SELECT a.id, a.author_id, a.avatar, a.title, a.category_id, a.tags,
		       a.summary, a.total_views, a.comments_count, a.created, a.updated,
		       u.username
		FROM tb_article a
		JOIN tb_users u ON u.id = a.author_id
		ORDER BY a.total_views DESC
		LIMIT $1
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(
			&a.ID, &a.AuthorID, &a.Avatar, &a.Title, &a.CategoryID, &a.Tags,
			&a.Summary, &a.TotalViews, &a.CommentsCount, &a.Created, &a.Updated,
			&a.AuthorName,
		); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (r *ArticleRepository) IncrementViews(id int) error {
	_, err := r.db.Exec(`UPDATE tb_article SET total_views = total_views + 1 WHERE id=$1`, id)
	return err
}

func (r *ArticleRepository) IncrementComments(id int) error {
	_, err := r.db.Exec(`UPDATE tb_article SET comments_count = comments_count + 1 WHERE id=$1`, id)
	return err
}

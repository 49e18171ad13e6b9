package services

import (
	"errors"
	"fmt"
	"log"

	"goblog/internal/models"
	"goblog/internal/pdf"
	"goblog/internal/repositories"
)

var (
	ErrNoCategory = errors.New("category not found")
	ErrNoArticle  = errors.New("article not found")
	ErrEmptyPage  = errors.New("page out of range")
)

const hotArticlesLimit = 9

// ArticleStore / CommentStore — то, что сервису нужно от хранилища.
// Конкретные реализации — SQL-репозитории, в тестах подставляются фейки.
type ArticleStore interface {
	ListCategories() ([]models.ArticleCategory, error)
	GetCategoryByID(id int) (*models.ArticleCategory, error)
	Create(article *models.Article) error
	GetByID(id int) (*models.Article, error)
	CountByCategory(categoryID int) (int, error)
	ListByCategory(categoryID, limit, offset int) ([]models.Article, error)
	ListHot(limit int) ([]models.Article, error)
	IncrementViews(id int) error
	IncrementComments(id int) error
}

type CommentStore interface {
	Create(comment *models.Comment) error
	CountByArticle(articleID int) (int, error)
	ListByArticle(articleID, limit, offset int) ([]models.Comment, error)
}

type IndexPage struct {
	Categories []models.ArticleCategory `json:"categories"`
	Category   *models.ArticleCategory  `json:"category"`
	Articles   []models.Article         `json:"articles"`
	PageNum    int                      `json:"page_num"`
	PageSize   int                      `json:"page_size"`
	TotalPage  int                      `json:"total_page"`
}

type DetailPage struct {
	Categories  []models.ArticleCategory `json:"categories"`
	Article     *models.Article          `json:"article"`
	HotArticles []models.Article         `json:"hot_articles"`
	Comments    []models.Comment         `json:"comments"`
	TotalCount  int                      `json:"total_count"`
	TotalPage   int                      `json:"total_page"`
	PageNum     int                      `json:"page_num"`
	PageSize    int                      `json:"page_size"`
}

type ArticleService struct {
	Articles ArticleStore
	Comments CommentStore
	Users    repositories.UserRepository

	// необязательные побочные каналы
	Email    EmailService
	Telegram *TelegramService
	PDF      pdf.Generator
}

func NewArticleService(
	articles ArticleStore,
	comments CommentStore,
	users repositories.UserRepository,
	email EmailService,
	telegram *TelegramService,
	pdfGen pdf.Generator,
) *ArticleService {
	return &ArticleService{
		Articles: articles,
		Comments: comments,
		Users:    users,
		Email:    email,
		Telegram: telegram,
		PDF:      pdfGen,
	}
}

func normalizePage(pageNum, pageSize int) (int, int) {
	if pageNum <= 0 {
		pageNum = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return pageNum, pageSize
}

// totalPages считает страницы как Django-пагинатор: пустой набор — одна
// пустая страница, а не ноль.
func totalPages(count, pageSize int) int {
	if count == 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

func (s *ArticleService) Categories() ([]models.ArticleCategory, error) {
	return s.Articles.ListCategories()
}

// Index — лента статей категории, новые сверху.
func (s *ArticleService) Index(categoryID, pageNum, pageSize int) (*IndexPage, error) {
	categories, err := s.Articles.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if categoryID <= 0 { // без параметра показываем первую категорию
		if len(categories) == 0 {
			return nil, ErrNoCategory
		}
		categoryID = categories[0].ID
	}
	category, err := s.Articles.GetCategoryByID(categoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrNoCategory
	}

	pageNum, pageSize = normalizePage(pageNum, pageSize)
	count, err := s.Articles.CountByCategory(categoryID)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}
	totalPage := totalPages(count, pageSize)
	if pageNum > totalPage {
		return nil, ErrEmptyPage
	}

	articles, err := s.Articles.ListByCategory(categoryID, pageSize, (pageNum-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return &IndexPage{
		Categories: categories,
		Category:   category,
		Articles:   articles,
		PageNum:    pageNum,
		PageSize:   pageSize,
		TotalPage:  totalPage,
	}, nil
}

// Detail — статья, горячий список и страница комментариев.
// Счётчик просмотров инкрементируется на каждый показ.
func (s *ArticleService) Detail(articleID, pageNum, pageSize int) (*DetailPage, error) {
	article, err := s.Articles.GetByID(articleID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrNoArticle
	}
	if err := s.Articles.IncrementViews(articleID); err != nil {
		// счётчик не стоит показа статьи
		log.Printf("[article][detail] increment views failed: id=%d err=%v", articleID, err)
	} else {
		article.TotalViews++
	}

	categories, err := s.Articles.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	hot, err := s.Articles.ListHot(hotArticlesLimit)
	if err != nil {
		return nil, fmt.Errorf("list hot articles: %w", err)
	}

	pageNum, pageSize = normalizePage(pageNum, pageSize)
	totalCount, err := s.Comments.CountByArticle(articleID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	totalPage := totalPages(totalCount, pageSize)
	if pageNum > totalPage {
		return nil, ErrEmptyPage
	}
	comments, err := s.Comments.ListByArticle(articleID, pageSize, (pageNum-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return &DetailPage{
		Categories:  categories,
		Article:     article,
		HotArticles: hot,
		Comments:    comments,
		TotalCount:  totalCount,
		TotalPage:   totalPage,
		PageNum:     pageNum,
		PageSize:    pageSize,
	}, nil
}

func (s *ArticleService) CreateArticle(authorID int, req models.CreateArticleRequest, avatarPath string) (*models.Article, error) {
	if req.Title == "" || req.Summary == "" || req.Content == "" || req.CategoryID == 0 {
		return nil, ErrMissingParam
	}
	category, err := s.Articles.GetCategoryByID(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrNoCategory
	}

	article := &models.Article{
		AuthorID:   authorID,
		Avatar:     avatarPath,
		Title:      req.Title,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
		Summary:    req.Summary,
		Content:    req.Content,
	}
	if err := s.Articles.Create(article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	log.Printf("[article][create] ok: id=%d author=%d", article.ID, authorID)

	if s.Telegram != nil {
		author, err := s.Users.GetByID(authorID)
		name := ""
		if err == nil && author != nil {
			name = author.Username
		}
		// анонс не должен ломать публикацию
		_ = s.Telegram.AnnounceArticle(article.Title, name, article.ID)
	}
	return article, nil
}

func (s *ArticleService) CreateComment(userID int, req models.CreateCommentRequest) (*models.Comment, error) {
	if req.ArticleID == 0 || req.Content == "" {
		return nil, ErrMissingParam
	}
	article, err := s.Articles.GetByID(req.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrNoArticle
	}

	comment := &models.Comment{
		Content:   req.Content,
		ArticleID: req.ArticleID,
		UserID:    userID,
	}
	if err := s.Comments.Create(comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if err := s.Articles.IncrementComments(req.ArticleID); err != nil {
		log.Printf("[comment][create] increment count failed: article_id=%d err=%v", req.ArticleID, err)
	}
	log.Printf("[comment][create] ok: id=%d article_id=%d user=%d", comment.ID, req.ArticleID, userID)

	s.notifyAuthor(article, userID)
	return comment, nil
}

// notifyAuthor шлёт автору письмо о новом комментарии, если у него есть email.
// Сбой уведомления только логируем.
func (s *ArticleService) notifyAuthor(article *models.Article, commenterID int) {
	if s.Email == nil || article.AuthorID == commenterID {
		return
	}
	author, err := s.Users.GetByID(article.AuthorID)
	if err != nil || author == nil || author.Email == "" {
		return
	}
	commenter, err := s.Users.GetByID(commenterID)
	name := "пользователь"
	if err == nil && commenter != nil {
		name = commenter.Username
	}
	if err := s.Email.SendCommentNotification(author.Email, article.Title, name); err != nil {
		log.Printf("[comment][notify] email failed: article_id=%d err=%v", article.ID, err)
	}
}

// ExportPDF рендерит статью в PDF и возвращает путь до файла.
func (s *ArticleService) ExportPDF(articleID int) (string, error) {
	if s.PDF == nil {
		return "", errors.New("pdf generator is not configured")
	}
	article, err := s.Articles.GetByID(articleID)
	if err != nil {
		return "", fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return "", ErrNoArticle
	}
	return s.PDF.GenerateArticle(pdf.ArticleData{
		ID:       article.ID,
		Title:    article.Title,
		Author:   article.AuthorName,
		Category: article.CategoryTitle,
		Summary:  article.Summary,
		Content:  article.Content,
		Views:    article.TotalViews,
		Created:  article.Created,
	})
}

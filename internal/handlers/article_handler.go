package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"goblog/internal/models"
	"goblog/internal/services"
)

type ArticleHandler struct {
	articleService *services.ArticleService
	filesRoot      string
}

func NewArticleHandler(articleService *services.ArticleService, filesRoot string) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, filesRoot: filesRoot}
}

// @Summary      Лента статей
// @Description  Статьи выбранной категории с пагинацией, новые сверху
// @Tags         Articles
// @Produce      json
// @Param        cat_id     query  int  false  "Категория (по умолчанию первая)"
// @Param        page_num   query  int  false  "Номер страницы"  default(1)
// @Param        page_size  query  int  false  "Размер страницы"  default(10)
// @Success      200  {object}  services.IndexPage
// @Failure      404  {object}  map[string]string
// @Router       / [get]
func (h *ArticleHandler) Index(c *gin.Context) {
	catID := queryInt(c, "cat_id", 0)
	pageNum := queryInt(c, "page_num", 1)
	pageSize := queryInt(c, "page_size", 10)

	page, err := h.articleService.Index(catID, pageNum, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": models.CodeOK, "data": page})
}

// @Summary      Статья
// @Description  Статья, горячий список и страница комментариев; каждый показ увеличивает счётчик просмотров
// @Tags         Articles
// @Produce      json
// @Param        id         query  int  true   "ID статьи"
// @Param        page_num   query  int  false  "Страница комментариев"  default(1)
// @Param        page_size  query  int  false  "Размер страницы"  default(10)
// @Success      200  {object}  services.DetailPage
// @Failure      404  {object}  map[string]string
// @Router       /detail [get]
func (h *ArticleHandler) Detail(c *gin.Context) {
	id := queryInt(c, "id", 0)
	pageNum := queryInt(c, "page_num", 1)
	pageSize := queryInt(c, "page_size", 10)

	page, err := h.articleService.Detail(id, pageNum, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": models.CodeOK, "data": page})
}

// @Summary      Категории для формы публикации
// @Tags         Articles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.ArticleCategory
// @Router       /writeblog [get]
func (h *ArticleHandler) WriteBlogForm(c *gin.Context) {
	categories, err := h.articleService.Categories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": models.CodeOK, "categories": categories})
}

// @Summary      Публикация статьи
// @Description  multipart-форма: title, category, tags, summary, content и файл avatar (обложка)
// @Tags         Articles
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Article
// @Failure      400  {object}  map[string]string
// @Router       /writeblog [post]
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": models.CodeSessionErr, "errmsg": "Не авторизован"})
		return
	}

	categoryID, _ := strconv.Atoi(c.PostForm("category"))
	req := models.CreateArticleRequest{
		Title:      c.PostForm("title"),
		CategoryID: categoryID,
		Tags:       c.PostForm("tags"),
		Summary:    c.PostForm("summary"),
		Content:    c.PostForm("content"),
	}

	avatarPath, err := saveUpload(c, h.filesRoot, "article", "avatar")
	if err != nil {
		log.Printf("[article][create] save cover failed: userID=%d err=%v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": models.CodeDBErr, "errmsg": "Не удалось сохранить обложку"})
		return
	}

	article, err := h.articleService.CreateArticle(userID, req, avatarPath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": models.CodeOK, "article": article})
}

// @Summary      Комментарий
// @Tags         Articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        comment  body      models.CreateCommentRequest  true  "ID статьи и текст"
// @Success      200      {object}  models.Comment
// @Failure      400      {object}  map[string]string
// @Router       /comments [post]
func (h *ArticleHandler) CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": models.CodeSessionErr, "errmsg": "Не авторизован"})
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": models.CodeNecessaryParamErr, "errmsg": err.Error()})
		return
	}

	comment, err := h.articleService.CreateComment(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": models.CodeOK, "comment": comment})
}

// @Summary      Экспорт статьи в PDF
// @Tags         Articles
// @Produce      application/pdf
// @Param        id  path  int  true  "ID статьи"
// @Success      200  {file}  binary
// @Failure      404  {object}  map[string]string
// @Router       /articles/{id}/pdf [get]
func (h *ArticleHandler) ExportPDF(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": models.CodeNecessaryParamErr, "errmsg": "Некорректный id"})
		return
	}

	path, err := h.articleService.ExportPDF(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "article.pdf")
}

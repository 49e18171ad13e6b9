package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"goblog/internal/models"
	"goblog/internal/services"
)

type UserHandler struct {
	userService services.UserService
	filesRoot   string
}

func NewUserHandler(userService services.UserService, filesRoot string) *UserHandler {
	return &UserHandler{userService: userService, filesRoot: filesRoot}
}

// @Summary      Регистрация
// @Description  Создаёт аккаунт по номеру телефона, подтверждённому SMS-кодом
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Данные регистрации"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  map[string]string
// @Router       /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": models.CodeNecessaryParamErr, "errmsg": err.Error()})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// после регистрации сразу логиним
	tokenString, err := issueToken(user.ID, 7*24*time.Hour)
	if err != nil {
		log.Printf("[user][register] sign token failed for userID=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": models.CodeDBErr, "errmsg": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":         models.CodeOK,
		"user":         user,
		"access_token": tokenString,
	})
}

// @Summary      Восстановление пароля
// @Description  Меняет пароль по SMS-коду; если аккаунта нет — создаёт его
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        reset  body      models.RegisterRequest  true  "Номер, новый пароль и SMS-код"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Router       /forgetpassword [post]
func (h *UserHandler) ForgetPassword(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": models.CodeNecessaryParamErr, "errmsg": err.Error()})
		return
	}

	if _, err := h.userService.ResetPassword(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": models.CodeOK, "errmsg": "Пароль обновлён, войдите заново"})
}

// @Summary      Профиль
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Router       /center [get]
func (h *UserHandler) Center(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": models.CodeSessionErr, "errmsg": "Не авторизован"})
		return
	}
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": models.CodeOK, "user": user})
}

// @Summary      Обновление профиля
// @Description  multipart-форма: username, desc, email и файл avatar
// @Tags         Users
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      400  {object}  map[string]string
// @Router       /center [post]
func (h *UserHandler) UpdateCenter(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": models.CodeSessionErr, "errmsg": "Не авторизован"})
		return
	}

	username := c.PostForm("username")
	userDesc := c.PostForm("desc")
	email := c.PostForm("email")

	avatarPath, err := saveUpload(c, h.filesRoot, "avatar", "avatar")
	if err != nil {
		log.Printf("[user][profile] save avatar failed: userID=%d err=%v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": models.CodeDBErr, "errmsg": "Не удалось сохранить аватар"})
		return
	}

	user, err := h.userService.UpdateProfile(userID, username, userDesc, email, avatarPath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": models.CodeOK, "user": user})
}

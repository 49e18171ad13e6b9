package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"goblog/internal/middleware"
	"goblog/internal/models"
	"goblog/internal/services"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// issueToken подписывает access JWT на заданный срок.
func issueToken(userID int, ttl time.Duration) (string, error) {
	claims := &middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.JWTKey())
}

// @Summary      Вход в систему
// @Description  Аутентифицирует по номеру телефона и паролю, возвращает JWT
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][login] bad request: bind json failed: err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": models.CodeNecessaryParamErr, "errmsg": err.Error()})
		return
	}
	log.Printf("[auth][login] attempt mobile=%q", req.Mobile)

	user, err := h.userService.Login(req)
	if err != nil {
		respondError(c, err)
		return
	}

	// "запомнить меня" продлевает срок токена
	ttl := 2 * time.Hour
	if req.Remember {
		ttl = 14 * 24 * time.Hour
	}
	tokenString, err := issueToken(user.ID, ttl)
	if err != nil {
		log.Printf("[auth][login] sign token failed for userID=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": models.CodeDBErr, "errmsg": "Failed to generate token"})
		return
	}

	log.Printf("[auth][login] success userID=%d took=%s", user.ID, time.Since(start).Truncate(time.Millisecond))
	c.JSON(http.StatusOK, gin.H{
		"code":         models.CodeOK,
		"user":         user, // PasswordHash помечен json:"-", наружу не уйдёт
		"access_token": tokenString,
	})
}

// @Summary      Выход
// @Description  Состояние на сервере не хранится, клиент просто забывает токен
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": models.CodeOK, "errmsg": "OK"})
}

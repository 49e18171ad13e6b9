package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goblog/internal/models"
	"goblog/internal/services"
)

type VerifyHandler struct {
	Verify *services.VerifyService
}

func NewVerifyHandler(v *services.VerifyService) *VerifyHandler { return &VerifyHandler{Verify: v} }

// @Summary      Графическая капча
// @Description  Генерирует картинку и сохраняет её текст под переданным uuid на 5 минут
// @Tags         Verify
// @Produce      png
// @Param        uuid  query  string  true  "Идентификатор сессии клиента"
// @Success      200  {file}  binary
// @Failure      400  {object}  map[string]string
// @Router       /imagecode [get]
func (h *VerifyHandler) ImageCode(c *gin.Context) {
	uuid := c.Query("uuid")

	image, err := h.Verify.RequestImageChallenge(c.Request.Context(), uuid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", image)
}

// @Summary      Выдача SMS-кода
// @Description  Сверяет код с картинки (одноразовый) и отправляет SMS-код на номер
// @Tags         Verify
// @Produce      json
// @Param        uuid        query  string  true  "Идентификатор сессии клиента"
// @Param        mobile      query  string  true  "Номер телефона"
// @Param        image_code  query  string  true  "Текст с картинки"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /smscode [get]
func (h *VerifyHandler) SmsCode(c *gin.Context) {
	uuid := c.Query("uuid")
	mobile := c.Query("mobile")
	imageCode := c.Query("image_code")

	if err := h.Verify.RequestSmsCode(c.Request.Context(), uuid, mobile, imageCode); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": models.CodeOK, "errmsg": "SMS отправлено"})
}

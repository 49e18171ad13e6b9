package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"goblog/internal/models"
	"goblog/internal/services"
)

// более устойчиво к типам (int / int64 / float64 / string)
func getIntFromCtx(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}

func currentUserID(c *gin.Context) (int, bool) {
	return getIntFromCtx(c, "user_id")
}

func queryInt(c *gin.Context, key string, def int) int {
	if s := c.Query(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

// retcodeFor переводит ошибку сервиса в (HTTP-статус, код, сообщение).
// Детали сбоев хранилищ наружу не отдаём — только лог и общий код.
func retcodeFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, services.ErrMissingParam):
		return http.StatusBadRequest, models.CodeNecessaryParamErr, "Не хватает обязательных параметров"
	case errors.Is(err, services.ErrMobileFormat):
		return http.StatusBadRequest, models.CodeMobileErr, "Номер телефона не соответствует формату"
	case errors.Is(err, services.ErrPasswordFormat):
		return http.StatusBadRequest, models.CodePwdErr, "Пароль: 8-20 символов, цифры и латиница"
	case errors.Is(err, services.ErrPasswordMismatch):
		return http.StatusBadRequest, models.CodeCPwdErr, "Пароли не совпадают"
	case errors.Is(err, services.ErrImageCodeExpired):
		return http.StatusBadRequest, models.CodeImageErr, "Код с картинки истёк"
	case errors.Is(err, services.ErrImageCodeMismatch):
		return http.StatusBadRequest, models.CodeImageErr, "Код с картинки неверный"
	case errors.Is(err, services.ErrSmsCodeExpired):
		return http.StatusBadRequest, models.CodeSmsCodeErr, "SMS-код истёк"
	case errors.Is(err, services.ErrSmsCodeMismatch):
		return http.StatusBadRequest, models.CodeSmsCodeErr, "SMS-код не совпадает"
	case errors.Is(err, services.ErrSmsDispatch):
		return http.StatusBadRequest, models.CodeThrottlingErr, "Не удалось отправить SMS"
	case errors.Is(err, services.ErrDuplicateUser):
		return http.StatusBadRequest, models.CodeUserErr, "Номер уже зарегистрирован"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.CodeUserErr, "Неверный номер или пароль"
	case errors.Is(err, services.ErrNoUser):
		return http.StatusNotFound, models.CodeUserErr, "Пользователь не найден"
	case errors.Is(err, services.ErrNoCategory):
		return http.StatusNotFound, models.CodeNecessaryParamErr, "Нет такой категории"
	case errors.Is(err, services.ErrNoArticle):
		return http.StatusNotFound, models.CodeNecessaryParamErr, "Нет такой статьи"
	case errors.Is(err, services.ErrEmptyPage):
		return http.StatusNotFound, models.CodeNecessaryParamErr, "Empty Page"
	default:
		return http.StatusInternalServerError, models.CodeDBErr, "Ошибка сервера, попробуйте позже"
	}
}

func respondError(c *gin.Context, err error) {
	status, code, msg := retcodeFor(err)
	c.JSON(status, gin.H{"code": code, "errmsg": msg})
}

// saveUpload кладёт файл в {root}/{subdir}/{uuid}{ext} и возвращает
// относительный путь для хранения в БД.
func saveUpload(c *gin.Context, root, subdir, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil // файла нет — это не ошибка
	}
	rel := filepath.Join(subdir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(root, rel)); err != nil {
		return "", err
	}
	return rel, nil
}

package services

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/mojocn/base64Captcha"
)

// алфавит без визуально похожих символов (0/o, 1/l, i)
const captchaSource = "23456789abcdefghjkmnpqrstuvwxyz"

// CaptchaService генерирует картинку с текстом. Состояния у сервиса нет,
// хранением текста занимается координатор верификации.
type CaptchaService struct {
	driver *base64Captcha.DriverString
}

func NewCaptchaService() *CaptchaService {
	driver := base64Captcha.NewDriverString(
		60, 180, // высота/ширина
		2,                                  // шум
		base64Captcha.OptionShowHollowLine, // помехи-линии
		4,                                  // длина текста
		captchaSource,
		&color.RGBA{R: 240, G: 240, B: 246, A: 246},
		nil, nil, // шрифты по умолчанию
	)
	return &CaptchaService{driver: driver.ConvertFonts()}
}

// Generate возвращает текст и PNG-картинку с ним. Сравнение текста
// дальше идёт без учёта регистра.
func (s *CaptchaService) Generate() (string, []byte, error) {
	_, content, answer := s.driver.GenerateIdQuestionAnswer()
	item, err := s.driver.DrawCaptcha(content)
	if err != nil {
		return "", nil, fmt.Errorf("draw captcha: %w", err)
	}
	var buf bytes.Buffer
	if _, err := item.WriteTo(&buf); err != nil {
		return "", nil, fmt.Errorf("encode captcha: %w", err)
	}
	return answer, buf.Bytes(), nil
}

package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"regexp"
	"strings"
	"time"

	"goblog/internal/repositories"
)

var (
	ErrMissingParam      = errors.New("missing required parameter")
	ErrMobileFormat      = errors.New("mobile number malformed")
	ErrImageCodeExpired  = errors.New("image code expired")
	ErrImageCodeMismatch = errors.New("image code mismatch")
	ErrSmsCodeExpired    = errors.New("sms code expired")
	ErrSmsDispatch       = errors.New("sms dispatch failed")
	ErrStore             = errors.New("code store failure")
)

var mobileRe = regexp.MustCompile(`^1[3-9]\d{9}$`)

const defaultCodeTTL = 5 * time.Minute

// SmsSender — внешний SMS-транспорт: номер, код, срок действия в минутах.
type SmsSender interface {
	SendSMS(to, code string, expiryMinutes int) error
}

// ChallengeGenerator отдаёт текст и картинку для графической проверки.
type ChallengeGenerator interface {
	Generate() (text string, image []byte, err error)
}

// VerifyService — двухшаговая выдача кодов: картинка открывает выдачу SMS,
// SMS открывает регистрацию/смену пароля. Всё короткоживущее состояние
// лежит в CodeStore, TTL следит за очисткой.
type VerifyService struct {
	Store   repositories.CodeStore
	Captcha ChallengeGenerator
	Sms     SmsSender
	CodeTTL time.Duration // если 0 — возьмём defaultCodeTTL
}

func NewVerifyService(store repositories.CodeStore, captcha ChallengeGenerator, sms SmsSender) *VerifyService {
	return &VerifyService{
		Store:   store,
		Captcha: captcha,
		Sms:     sms,
		CodeTTL: defaultCodeTTL,
	}
}

func (s *VerifyService) ttl() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return defaultCodeTTL
}

// --- утилита генерации 6-значного кода ---
func generateSmsCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestImageChallenge генерирует картинку и кладёт её текст под img:{uuid}.
// Повторный вызов с тем же uuid перезаписывает прежний код.
func (s *VerifyService) RequestImageChallenge(ctx context.Context, uuid string) ([]byte, error) {
	if uuid == "" {
		return nil, ErrMissingParam
	}
	text, image, err := s.Captcha.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate image challenge: %w", err)
	}
	if err := s.Store.Put(ctx, repositories.ImageKey(uuid), text, s.ttl()); err != nil {
		log.Printf("[verify][image] store failed: uuid=%s err=%v", uuid, err)
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	log.Printf("[verify][image] issued: uuid=%s", uuid)
	return image, nil
}

// RequestSmsCode сверяет код с картинки и выдаёт SMS-код.
// Код картинки одноразовый: удаляем сразу после чтения, до сравнения,
// чтобы запись нельзя было переиспользовать. Ошибку удаления только логируем.
// Порядок "сохранить, потом отправить": при сбое отправки код остаётся
// валидным до истечения TTL.
func (s *VerifyService) RequestSmsCode(ctx context.Context, uuid, mobile, imageCode string) error {
	if uuid == "" || mobile == "" || imageCode == "" {
		return ErrMissingParam
	}
	if !mobileRe.MatchString(mobile) {
		return ErrMobileFormat
	}

	storedText, err := s.Store.Get(ctx, repositories.ImageKey(uuid))
	if errors.Is(err, repositories.ErrCodeNotFound) {
		return ErrImageCodeExpired
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if err := s.Store.Delete(ctx, repositories.ImageKey(uuid)); err != nil {
		log.Printf("[verify][sms] delete image code failed: uuid=%s err=%v", uuid, err)
	}
	if !strings.EqualFold(storedText, imageCode) {
		return ErrImageCodeMismatch
	}

	code, err := generateSmsCode()
	if err != nil {
		return fmt.Errorf("generate sms code: %w", err)
	}
	if err := s.Store.Put(ctx, repositories.SmsKey(mobile), code, s.ttl()); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	log.Printf("[verify][sms] issued: mobile=%s code=%s", mobile, code)

	if err := s.Sms.SendSMS(mobile, code, int(s.ttl().Minutes())); err != nil {
		log.Printf("[verify][sms] dispatch failed: mobile=%s err=%v", mobile, err)
		return fmt.Errorf("%w: %v", ErrSmsDispatch, err)
	}
	return nil
}

// ConfirmSmsCode сверяет присланный код с сохранённым. Запись не удаляется:
// в пределах TTL код можно подтвердить повторно (переотправка формы).
// Несовпадение — не ошибка, решает вызывающий.
func (s *VerifyService) ConfirmSmsCode(ctx context.Context, mobile, code string) (bool, error) {
	if mobile == "" || code == "" {
		return false, ErrMissingParam
	}
	stored, err := s.Store.Get(ctx, repositories.SmsKey(mobile))
	if errors.Is(err, repositories.ErrCodeNotFound) {
		return false, ErrSmsCodeExpired
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStore, err)
	}
	// коды числовые, сравнение строгое
	return stored == code, nil
}

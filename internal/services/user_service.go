package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"goblog/internal/models"
	"goblog/internal/repositories"
)

var (
	ErrPasswordFormat     = errors.New("password malformed")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrSmsCodeMismatch    = errors.New("sms code mismatch")
	ErrDuplicateUser      = errors.New("mobile already registered")
	ErrInvalidCredentials = errors.New("invalid mobile or password")
	ErrNoUser             = errors.New("user not found")
)

// 8-20 символов, цифры и латиница
var passwordRe = regexp.MustCompile(`^[0-9A-Za-z]{8,20}$`)

type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(req models.LoginRequest) (*models.User, error)
	ResetPassword(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	GetProfile(userID int) (*models.User, error)
	UpdateProfile(userID int, username, userDesc, email, avatarPath string) (*models.User, error)
}

type userService struct {
	repo   repositories.UserRepository
	verify *VerifyService
}

func NewUserService(repo repositories.UserRepository, verify *VerifyService) UserService {
	return &userService{repo: repo, verify: verify}
}

// validateRegisterRequest — общая проверка форм регистрации и сброса пароля.
// Никаких обращений к хранилищам до того, как все поля прошли проверку.
func validateRegisterRequest(req models.RegisterRequest) error {
	if req.Mobile == "" || req.Password == "" || req.Password2 == "" || req.SmsCode == "" {
		return ErrMissingParam
	}
	if !mobileRe.MatchString(req.Mobile) {
		return ErrMobileFormat
	}
	if !passwordRe.MatchString(req.Password) {
		return ErrPasswordFormat
	}
	if req.Password != req.Password2 {
		return ErrPasswordMismatch
	}
	return nil
}

func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	ok, err := s.verify.ConfirmSmsCode(ctx, req.Mobile, req.SmsCode)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSmsCodeMismatch
	}

	existing, err := s.repo.GetByMobile(req.Mobile)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt generate: %w", err)
	}
	user := &models.User{
		Mobile:       req.Mobile,
		Username:     req.Mobile, // имя по умолчанию — номер, меняется в профиле
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.Printf("[user][register] ok: id=%d mobile=%s", user.ID, user.Mobile)
	return user, nil
}

func (s *userService) Login(req models.LoginRequest) (*models.User, error) {
	mobile := strings.TrimSpace(req.Mobile)
	if !mobileRe.MatchString(mobile) {
		return nil, ErrMobileFormat
	}
	if !passwordRe.MatchString(req.Password) {
		return nil, ErrPasswordFormat
	}

	user, err := s.repo.GetByMobile(mobile)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Printf("[user][login] bcrypt mismatch: mobile=%s", mobile)
		return nil, ErrInvalidCredentials
	}
	log.Printf("[user][login] ok: id=%d mobile=%s", user.ID, mobile)
	return user, nil
}

// ResetPassword — "забыли пароль". Если аккаунта с таким номером нет,
// он создаётся: номер уже подтверждён SMS-кодом, так что это фактически
// регистрация через форму восстановления. Ветка намеренная.
func (s *userService) ResetPassword(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	ok, err := s.verify.ConfirmSmsCode(ctx, req.Mobile, req.SmsCode)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSmsCodeMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt generate: %w", err)
	}

	user, err := s.repo.GetByMobile(req.Mobile)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		user = &models.User{
			Mobile:       req.Mobile,
			Username:     req.Mobile,
			PasswordHash: string(hash),
		}
		if err := s.repo.Create(user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		log.Printf("[user][reset] new account created: id=%d mobile=%s", user.ID, user.Mobile)
		return user, nil
	}

	if err := s.repo.UpdatePassword(user.ID, string(hash)); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	log.Printf("[user][reset] password updated: id=%d mobile=%s", user.ID, user.Mobile)
	return user, nil
}

func (s *userService) GetProfile(userID int) (*models.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, ErrNoUser
	}
	return user, nil
}

// UpdateProfile меняет только переданные поля, пустые оставляют старое значение.
func (s *userService) UpdateProfile(userID int, username, userDesc, email, avatarPath string) (*models.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, ErrNoUser
	}
	if username != "" {
		user.Username = username
	}
	if userDesc != "" {
		user.UserDesc = userDesc
	}
	if email != "" {
		user.Email = email
	}
	if avatarPath != "" {
		user.Avatar = avatarPath
	}
	if err := s.repo.UpdateProfile(user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	log.Printf("[user][profile] updated: id=%d", userID)
	return user, nil
}

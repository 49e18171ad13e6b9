package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"goblog/internal/models"
	"goblog/internal/repositories"
)

type fakeUserRepo struct {
	mu       sync.Mutex
	seq      int
	byID     map[int]*models.User
	byMobile map[string]*models.User
	writes   int // счётчик мутаций, чтобы проверять "валидация раньше записи"
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:     map[int]*models.User{},
		byMobile: map[string]*models.User{},
	}
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.writes++
	user.ID = f.seq
	user.CreatedAt = time.Now()
	cp := *user
	f.byID[user.ID] = &cp
	f.byMobile[user.Mobile] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, ErrNoUser
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByMobile(mobile string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byMobile[mobile]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdatePassword(userID int, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.byID[userID].PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) UpdateProfile(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	cp := *user
	f.byID[user.ID] = &cp
	f.byMobile[user.Mobile] = &cp
	return nil
}

// userFixture — сервис с фейковым репозиторием и SMS-кодом,
// уже лежащим в хранилище.
func userFixture(t *testing.T, smsCode string) (UserService, *fakeUserRepo, *fakeStore) {
	t.Helper()
	repo := newFakeUserRepo()
	store := newFakeStore()
	verify := NewVerifyService(store, &fakeCaptcha{text: "X7K2"}, &fakeSms{})
	if smsCode != "" {
		require.NoError(t, store.Put(context.Background(), repositories.SmsKey(testMobile), smsCode, time.Minute))
	}
	return NewUserService(repo, verify), repo, store
}

func validRegisterReq() models.RegisterRequest {
	return models.RegisterRequest{
		Mobile:    testMobile,
		Password:  "abc12345",
		Password2: "abc12345",
		SmsCode:   "042913",
	}
}

func TestRegister_OK(t *testing.T) {
	svc, repo, _ := userFixture(t, "042913")

	user, err := svc.Register(context.Background(), validRegisterReq())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, testMobile, user.Mobile)
	assert.Equal(t, testMobile, user.Username)

	stored, err := repo.GetByMobile(testMobile)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("abc12345")))
}

func TestRegister_ValidationBeforeAnyWrite(t *testing.T) {
	svc, repo, _ := userFixture(t, "042913")
	ctx := context.Background()

	cases := []struct {
		mutate func(*models.RegisterRequest)
		want   error
	}{
		{func(r *models.RegisterRequest) { r.Mobile = "" }, ErrMissingParam},
		{func(r *models.RegisterRequest) { r.SmsCode = "" }, ErrMissingParam},
		{func(r *models.RegisterRequest) { r.Mobile = "12800000000" }, ErrMobileFormat},
		{func(r *models.RegisterRequest) { r.Password = "short"; r.Password2 = "short" }, ErrPasswordFormat},
		{func(r *models.RegisterRequest) { r.Password = "с-дефисом!1"; r.Password2 = "с-дефисом!1" }, ErrPasswordFormat},
		{func(r *models.RegisterRequest) { r.Password2 = "abc12346" }, ErrPasswordMismatch},
	}
	for _, tc := range cases {
		req := validRegisterReq()
		tc.mutate(&req)
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, tc.want)
	}
	assert.Zero(t, repo.writes, "валидация должна падать до записи")
}

func TestRegister_SmsCodeChecks(t *testing.T) {
	ctx := context.Background()

	svc, repo, _ := userFixture(t, "042913")
	req := validRegisterReq()
	req.SmsCode = "999999"
	_, err := svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrSmsCodeMismatch)
	assert.Zero(t, repo.writes)

	// кода вообще нет в хранилище
	svc, repo, _ = userFixture(t, "")
	_, err = svc.Register(ctx, validRegisterReq())
	assert.ErrorIs(t, err, ErrSmsCodeExpired)
	assert.Zero(t, repo.writes)
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _, _ := userFixture(t, "042913")
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterReq())
	require.NoError(t, err)

	// SMS-код не удаляется при подтверждении, так что повтор доходит
	// до проверки дубликата
	_, err = svc.Register(ctx, validRegisterReq())
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestLogin(t *testing.T) {
	svc, _, _ := userFixture(t, "042913")
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegisterReq())
	require.NoError(t, err)

	user, err := svc.Login(models.LoginRequest{Mobile: testMobile, Password: "abc12345"})
	require.NoError(t, err)
	assert.Equal(t, testMobile, user.Mobile)

	_, err = svc.Login(models.LoginRequest{Mobile: testMobile, Password: "abc12346"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(models.LoginRequest{Mobile: "13900000000", Password: "abc12345"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(models.LoginRequest{Mobile: "bogus", Password: "abc12345"})
	assert.ErrorIs(t, err, ErrMobileFormat)
}

func TestResetPassword_ExistingAccount(t *testing.T) {
	svc, _, _ := userFixture(t, "042913")
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegisterReq())
	require.NoError(t, err)

	req := validRegisterReq()
	req.Password = "newpass99"
	req.Password2 = "newpass99"
	_, err = svc.ResetPassword(ctx, req)
	require.NoError(t, err)

	_, err = svc.Login(models.LoginRequest{Mobile: testMobile, Password: "newpass99"})
	require.NoError(t, err)
	_, err = svc.Login(models.LoginRequest{Mobile: testMobile, Password: "abc12345"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// "Забыли пароль" без аккаунта — это регистрация через форму восстановления.
func TestResetPassword_CreatesMissingAccount(t *testing.T) {
	svc, repo, _ := userFixture(t, "042913")
	ctx := context.Background()

	user, err := svc.ResetPassword(ctx, validRegisterReq())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	stored, err := repo.GetByMobile(testMobile)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestResetPassword_WrongSmsCode(t *testing.T) {
	svc, repo, _ := userFixture(t, "042913")
	req := validRegisterReq()
	req.SmsCode = "000001"
	_, err := svc.ResetPassword(context.Background(), req)
	assert.ErrorIs(t, err, ErrSmsCodeMismatch)
	assert.Zero(t, repo.writes)
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	svc, _, _ := userFixture(t, "042913")
	ctx := context.Background()
	user, err := svc.Register(ctx, validRegisterReq())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(user.ID, "alice", "обо мне", "", "avatar/a.png")
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "обо мне", updated.UserDesc)
	assert.Equal(t, "avatar/a.png", updated.Avatar)

	// пустые поля не затирают прежние значения
	updated, err = svc.UpdateProfile(user.ID, "", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "avatar/a.png", updated.Avatar)
}

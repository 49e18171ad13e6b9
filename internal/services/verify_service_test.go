package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goblog/internal/models"
	"goblog/internal/repositories"
)

// fakeStore — CodeStore в памяти, TTL не тикает (истечение имитируем
// удалением ключа).
type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) Put(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", repositories.ErrCodeNotFound
	}
	return v, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

type fakeCaptcha struct {
	text string
}

func (f *fakeCaptcha) Generate() (string, []byte, error) {
	return f.text, []byte("png-bytes"), nil
}

type fakeSms struct {
	mu    sync.Mutex
	sent  []string // номера
	codes []string
	fail  bool
}

func (f *fakeSms) SendSMS(to, code string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("provider down")
	}
	f.sent = append(f.sent, to)
	f.codes = append(f.codes, code)
	return nil
}

func newVerifyFixture(text string) (*VerifyService, *fakeStore, *fakeSms) {
	store := newFakeStore()
	sms := &fakeSms{}
	svc := NewVerifyService(store, &fakeCaptcha{text: text}, sms)
	return svc, store, sms
}

const testMobile = "13800000000"

func TestRequestImageChallenge(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newVerifyFixture("X7K2")

	image, err := svc.RequestImageChallenge(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), image)

	stored, err := store.Get(ctx, repositories.ImageKey("s1"))
	require.NoError(t, err)
	assert.Equal(t, "X7K2", stored)
}

func TestRequestImageChallenge_MissingUUID(t *testing.T) {
	svc, _, _ := newVerifyFixture("X7K2")
	_, err := svc.RequestImageChallenge(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingParam)
}

func TestRequestSmsCode_SucceedsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	svc, store, sms := newVerifyFixture("X7K2")

	_, err := svc.RequestImageChallenge(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, svc.RequestSmsCode(ctx, "s1", testMobile, "X7K2"))
	assert.Equal(t, []string{testMobile}, sms.sent)
	assert.True(t, store.has(repositories.SmsKey(testMobile)))

	// код картинки одноразовый: повторная попытка видит отсутствие ключа
	err = svc.RequestSmsCode(ctx, "s1", testMobile, "X7K2")
	assert.ErrorIs(t, err, ErrImageCodeExpired)
}

func TestRequestSmsCode_CaseInsensitiveCompare(t *testing.T) {
	ctx := context.Background()
	svc, _, sms := newVerifyFixture("AB3D")

	_, err := svc.RequestImageChallenge(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, svc.RequestSmsCode(ctx, "s1", testMobile, "ab3d"))
	assert.Len(t, sms.sent, 1)
}

func TestRequestSmsCode_MismatchConsumesChallenge(t *testing.T) {
	ctx := context.Background()
	svc, store, sms := newVerifyFixture("X7K2")

	_, err := svc.RequestImageChallenge(ctx, "s1")
	require.NoError(t, err)

	err = svc.RequestSmsCode(ctx, "s1", testMobile, "WRONG")
	assert.ErrorIs(t, err, ErrImageCodeMismatch)
	assert.Empty(t, sms.sent)
	// запись удалена до сравнения: второй заход уже "истекло"
	assert.False(t, store.has(repositories.ImageKey("s1")))
	err = svc.RequestSmsCode(ctx, "s1", testMobile, "X7K2")
	assert.ErrorIs(t, err, ErrImageCodeExpired)
}

func TestRequestSmsCode_ExpiredChallenge(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newVerifyFixture("X7K2")

	_, err := svc.RequestImageChallenge(ctx, "s1")
	require.NoError(t, err)
	// имитируем истечение TTL
	require.NoError(t, store.Delete(ctx, repositories.ImageKey("s1")))

	err = svc.RequestSmsCode(ctx, "s1", testMobile, "X7K2")
	assert.ErrorIs(t, err, ErrImageCodeExpired)
}

func TestRequestSmsCode_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newVerifyFixture("X7K2")

	assert.ErrorIs(t, svc.RequestSmsCode(ctx, "", testMobile, "X7K2"), ErrMissingParam)
	assert.ErrorIs(t, svc.RequestSmsCode(ctx, "s1", "", "X7K2"), ErrMissingParam)
	assert.ErrorIs(t, svc.RequestSmsCode(ctx, "s1", testMobile, ""), ErrMissingParam)
	assert.ErrorIs(t, svc.RequestSmsCode(ctx, "s1", "12345", "X7K2"), ErrMobileFormat)
	assert.ErrorIs(t, svc.RequestSmsCode(ctx, "s1", "23800000000", "X7K2"), ErrMobileFormat)
}

func TestRequestSmsCode_DispatchFailureKeepsCode(t *testing.T) {
	ctx := context.Background()
	svc, store, sms := newVerifyFixture("X7K2")
	sms.fail = true

	_, err := svc.RequestImageChallenge(ctx, "s1")
	require.NoError(t, err)

	err = svc.RequestSmsCode(ctx, "s1", testMobile, "X7K2")
	assert.ErrorIs(t, err, ErrSmsDispatch)

	// порядок "сохранить, потом отправить": код остаётся валидным
	code, err := store.Get(ctx, repositories.SmsKey(testMobile))
	require.NoError(t, err)
	ok, err := svc.ConfirmSmsCode(ctx, testMobile, code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirmSmsCode_RepeatableUntilExpiry(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newVerifyFixture("X7K2")

	require.NoError(t, store.Put(ctx, repositories.SmsKey(testMobile), "042913", time.Minute))

	for i := 0; i < 3; i++ {
		ok, err := svc.ConfirmSmsCode(ctx, testMobile, "042913")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	// несовпадение — не ошибка, решает вызывающий
	ok, err := svc.ConfirmSmsCode(ctx, testMobile, "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	// после истечения — ErrSmsCodeExpired
	require.NoError(t, store.Delete(ctx, repositories.SmsKey(testMobile)))
	_, err = svc.ConfirmSmsCode(ctx, testMobile, "042913")
	assert.ErrorIs(t, err, ErrSmsCodeExpired)
}

func TestConfirmSmsCode_MissingParams(t *testing.T) {
	svc, _, _ := newVerifyFixture("X7K2")
	_, err := svc.ConfirmSmsCode(context.Background(), "", "042913")
	assert.ErrorIs(t, err, ErrMissingParam)
	_, err = svc.ConfirmSmsCode(context.Background(), testMobile, "")
	assert.ErrorIs(t, err, ErrMissingParam)
}

func TestGenerateSmsCode_Format(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := generateSmsCode()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

// Сквозной сценарий на живом захвате и miniredis-хранилище.
func TestVerifyFlow_EndToEnd(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := repositories.NewCodeRepository(rdb)
	sms := &fakeSms{}
	svc := NewVerifyService(store, NewCaptchaService(), sms)

	image, err := svc.RequestImageChallenge(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, image)

	// текст подсматриваем прямо в хранилище, как сделал бы человек с картинки
	text, err := store.Get(ctx, repositories.ImageKey("s1"))
	require.NoError(t, err)

	require.NoError(t, svc.RequestSmsCode(ctx, "s1", testMobile, text))
	require.Len(t, sms.codes, 1)

	ok, err := svc.ConfirmSmsCode(ctx, testMobile, sms.codes[0])
	require.NoError(t, err)
	assert.True(t, ok)

	// и сразу регистрация на этом коде
	users := NewUserService(newFakeUserRepo(), svc)
	user, err := users.Register(ctx, models.RegisterRequest{
		Mobile:    testMobile,
		Password:  "Passw0rd123",
		Password2: "Passw0rd123",
		SmsCode:   sms.codes[0],
	})
	require.NoError(t, err)
	assert.Equal(t, testMobile, user.Mobile)
}

package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptchaService_Generate(t *testing.T) {
	svc := NewCaptchaService()

	text, image, err := svc.Generate()
	require.NoError(t, err)

	assert.Len(t, text, 4)
	for _, r := range text {
		assert.True(t, strings.ContainsRune(captchaSource, r), "unexpected rune %q", r)
	}
	assert.NotEmpty(t, image)
	// PNG-сигнатура
	assert.Equal(t, byte(0x89), image[0])
}

func TestCaptchaService_GenerateVaries(t *testing.T) {
	svc := NewCaptchaService()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		text, _, err := svc.Generate()
		require.NoError(t, err)
		seen[text] = true
	}
	assert.Greater(t, len(seen), 1, "10 подряд одинаковых текстов — генератор сломан")
}

package credentials_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/mergington/internal/domain/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	set, err := credentials.Parse(strings.NewReader(`{
		"teachers": [
			{"username": "mrodriguez", "password": "art123"},
			{"username": "mchen", "password": "chess456"}
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	assert.True(t, set.Verify("mrodriguez", "art123"))
	assert.False(t, set.Verify("mrodriguez", "art1234"))
	assert.False(t, set.Verify("mrodriguez", ""))
	assert.False(t, set.Verify("nobody", "art123"))
}

func TestParseRejectsBadDocuments(t *testing.T) {
	_, err := credentials.Parse(strings.NewReader(`{"teachers": [`))
	require.ErrorIs(t, err, credentials.ErrLoad)

	_, err = credentials.Parse(strings.NewReader(`{"teachers": [{"username": " ", "password": "x"}]}`))
	require.ErrorIs(t, err, credentials.ErrLoad)
}

func TestParseWithoutTeachersKey(t *testing.T) {
	set, err := credentials.Parse(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file yields an empty set", func(t *testing.T) {
		set, err := credentials.Load(ctx, filepath.Join(t.TempDir(), "teachers.json"))
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
		assert.False(t, set.Verify("mrodriguez", "art123"))
	})

	t.Run("file on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "teachers.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"teachers":[{"username":"mchen","password":"chess456"}]}`), 0o600))

		set, err := credentials.Load(ctx, path)
		require.NoError(t, err)
		assert.True(t, set.Verify("mchen", "chess456"))
	})

	t.Run("directory instead of file", func(t *testing.T) {
		_, err := credentials.Load(ctx, t.TempDir())
		require.ErrorIs(t, err, credentials.ErrLoad)
	})
}

func TestBcryptSecrets(t *testing.T) {
	hash, err := credentials.Hash("chess456")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2a$"))

	set := credentials.New(credentials.Teacher{Username: "mchen", Password: hash})
	assert.True(t, set.Verify("mchen", "chess456"))
	assert.False(t, set.Verify("mchen", hash), "the hash itself must not authenticate")

	_, err = credentials.Hash("")
	require.ErrorIs(t, err, credentials.ErrHash)
}

func TestUnknownUserCostsAsMuchAsWrongPassword(t *testing.T) {
	hash, err := credentials.Hash("chess456")
	require.NoError(t, err)
	set := credentials.New(credentials.Teacher{Username: "mchen", Password: hash})

	// first miss builds the comparison hash
	require.False(t, set.Verify("nobody", "chess456"))

	start := time.Now()
	require.False(t, set.Verify("mchen", "wrong"))
	wrongPassword := time.Since(start)

	start = time.Now()
	require.False(t, set.Verify("nobody", "wrong"))
	unknownUser := time.Since(start)

	assert.Greater(t, unknownUser, wrongPassword/4)
}

func TestUnknownUserPlaintext(t *testing.T) {
	set := credentials.New(credentials.Teacher{Username: "mrodriguez", Password: "art2024"})
	assert.False(t, set.Verify("nobody", "art2024"))
	assert.False(t, set.Verify("", ""))
}

package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := Open("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "chirp", "session.toml"), s.Path())

	_, ok := s.Get(KeyToken)
	assert.False(t, ok, "missing file behaves like an empty store")
}

func TestStore_SetCreatesFileAndDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.toml")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyToken, "abc"))
	require.NoError(t, s.Set(KeyTheme, "Slate"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := Open(path)
	require.NoError(t, err)
	token, ok := reopened.Get(KeyToken)
	require.True(t, ok)
	assert.Equal(t, "abc", token)
	theme, _ := reopened.Get(KeyTheme)
	assert.Equal(t, "Slate", theme)
}

func TestStore_GetSeesExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("token = \"from-elsewhere\"\n"), 0o600))
	token, ok := s.Get(KeyToken)
	require.True(t, ok)
	assert.Equal(t, "from-elsewhere", token)
}

func TestStore_DeleteMissingKeyIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Delete(KeyToken))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "delete of a missing key should not create the file")

	require.NoError(t, s.Set(KeyToken, "abc"))
	require.NoError(t, s.Delete(KeyToken))
	_, ok := s.Get(KeyToken)
	assert.False(t, ok)
}

func TestStore_InvalidTOMLReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	_, ok := s.Get(KeyToken)
	assert.False(t, ok)
}

func TestMemory_BlankValuesAreMissing(t *testing.T) {
	t.Parallel()

	m := NewMemory(map[string]string{KeyToken: "  "})
	_, ok := m.Get(KeyToken)
	assert.False(t, ok)

	require.NoError(t, m.Set(KeyToken, "abc"))
	v, ok := m.Get(KeyToken)
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, m.Delete(KeyToken))
	_, ok = m.Get(KeyToken)
	assert.False(t, ok)
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestCredentials_Token(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	fresh := signed(t, now.Add(time.Hour))
	stale := signed(t, now.Add(-time.Minute))

	tests := []struct {
		name    string
		values  map[string]string
		want    string
		wantErr error
	}{
		{name: "missing", values: nil, wantErr: ErrNoToken},
		{name: "opaque", values: map[string]string{KeyToken: " AQEBAQ "}, want: "AQEBAQ"},
		{name: "fresh jwt", values: map[string]string{KeyToken: fresh}, want: fresh},
		{name: "expired jwt", values: map[string]string{KeyToken: stale}, wantErr: ErrTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCredentials(NewMemory(tt.values))
			c.Now = func() time.Time { return now }

			got, err := c.Token()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCredentials_SaveAndClear(t *testing.T) {
	t.Parallel()

	c := NewCredentials(NewMemory(nil))
	require.NoError(t, c.Save(" tok\n"))
	got, err := c.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, c.Clear())
	_, err = c.Token()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestCredentials_NilIsNoToken(t *testing.T) {
	t.Parallel()

	var c *Credentials
	_, err := c.Token()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Unix(1_900_000_000, 0)
	got, ok := Expiry(signed(t, exp))
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = Expiry("opaque")
	assert.False(t, ok)
}

package descriptors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestClassInitStrings(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c := &Config{}
		err := configClass.InitStrings(c, map[string]string{
			"host":      "localhost",
			"port":      "8080",
			"debug":     "yes",
			"tags":      "a, b",
			"ratio":     "0.75",
			"requestID": "550e8400-e29b-41d4-a716-446655440000",
			"started":   "2023-01-01",
		})
		require.NoError(t, err)
		assert.Equal(t, 8080, configPort.MustGet(c))
		assert.True(t, configDebug.MustGet(c))
		assert.Equal(t, []string{"a", "b"}, configTags.MustGet(c))
		assert.Equal(t, 0.75, configRatio.MustGet(c))
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", configID.MustGet(c).String())
		assert.Equal(t, 2023, configStarted.MustGet(c).Year())
	})

	t.Run("ParseFailure", func(t *testing.T) {
		err := configClass.InitStrings(&Config{}, map[string]string{"port": "http"})
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		err := configClass.InitStrings(&Config{}, map[string]string{"extra": "a=1"})
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("Validated", func(t *testing.T) {
		err := graphClass.InitStrings(&Graph{}, map[string]string{"n": "-2"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestClassInitEnv(t *testing.T) {
	t.Run("ProcessEnvironment", func(t *testing.T) {
		t.Setenv("APP_HOST", "db.internal")
		t.Setenv("APP_PORT", "5432")
		t.Setenv("APP_REQUEST_ID", "550e8400-e29b-41d4-a716-446655440000")

		c := &Config{}
		require.NoError(t, configClass.InitEnv(c, EnvOpts{Prefix: "APP_"}))
		assert.Equal(t, "db.internal:5432", configAddress.MustGet(c))
		assert.True(t, configID.IsSetOn(c))
		assert.False(t, configDebug.IsSetOn(c), "missing variables leave attributes unset")
	})

	t.Run("DotenvFiles", func(t *testing.T) {
		base := writeEnvFile(t, "SVC_HOST=file-host\nSVC_PORT=80\nSVC_TAGS=x,y\n")
		override := writeEnvFile(t, "SVC_PORT=81\n")
		t.Setenv("SVC_HOST", "env-host")

		c := &Config{}
		require.NoError(t, configClass.InitEnv(c, EnvOpts{Prefix: "SVC_", Files: []string{base, override}}))
		assert.Equal(t, "env-host", configHost.MustGet(c), "process environment wins")
		assert.Equal(t, 81, configPort.MustGet(c), "later files win")
		assert.Equal(t, []string{"x", "y"}, configTags.MustGet(c))
	})

	t.Run("MissingFile", func(t *testing.T) {
		err := configClass.InitEnv(&Config{}, EnvOpts{Files: []string{filepath.Join(t.TempDir(), "missing.env")}})
		assert.ErrorContains(t, err, "error reading env files")
	})

	t.Run("InvalidValue", func(t *testing.T) {
		t.Setenv("BAD_PORT", "99999")
		err := configClass.InitEnv(&Config{}, EnvOpts{Prefix: "BAD_"})
		assert.EqualError(t, err, "port 99999 out of range")
	})
}

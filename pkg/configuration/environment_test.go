package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_MissingFilesAreNotAnError(t *testing.T) {
	n, err := LoadEnv([]string{filepath.Join(t.TempDir(), ".env")})
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestLoadEnv_LoadsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TREELINE_TEST_SENTINEL=from-env-file\n"), 0o644))
	t.Setenv("TREELINE_TEST_SENTINEL", "")
	require.NoError(t, os.Unsetenv("TREELINE_TEST_SENTINEL"))

	n, err := LoadEnv([]string{path, filepath.Join(dir, ".env.local")})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "from-env-file", os.Getenv("TREELINE_TEST_SENTINEL"))
}

func TestConfiguration_LoadFromEnvironment(t *testing.T) {
	t.Setenv("GO_APP_ENV", Production)
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_PATH", "")
	t.Setenv("ORG_IMPORT_MAX_ROWS", "10")

	c := &Configuration{}
	require.NoError(t, c.load(nil))
	defer c.Unload()

	require.Equal(t, Production, c.GoAppEnvironment)
	require.Equal(t, 10, c.OrgImportMaxRows)
	require.Equal(t, logrus.InfoLevel, c.LogrusLogLevel())
	require.NotNil(t, c.Logger())
}

func TestConfiguration_FileLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "app.log")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PATH", logPath)

	c := &Configuration{}
	require.NoError(t, c.load(nil))
	defer c.Unload()

	c.Logger().Debug("boot")
	require.FileExists(t, logPath)
}

func TestLogrusLogLevel(t *testing.T) {
	for level, want := range map[string]logrus.Level{
		"silent":  logrus.PanicLevel,
		"error":   logrus.ErrorLevel,
		"warn":    logrus.WarnLevel,
		"info":    logrus.InfoLevel,
		"debug":   logrus.DebugLevel,
		"unknown": logrus.ErrorLevel,
	} {
		c := &Configuration{LogLevel: level}
		require.Equal(t, want, c.LogrusLogLevel(), level)
	}
}

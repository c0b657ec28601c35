package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestConsoleLogger(t *testing.T) {
	log := ConsoleLogger(logrus.WarnLevel)
	require.Equal(t, logrus.WarnLevel, log.GetLevel())
}

func TestFileLogger_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	f, log, err := FileLogger(logrus.DebugLevel, path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	log.Debug("hello")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "hello")
}

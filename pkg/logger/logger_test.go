package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelAndFormat(t *testing.T) {
	var out bytes.Buffer
	log, err := newLogger("debug", "", &out)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("op", "list_articles").Debug("query")
	line := out.String()
	assert.Contains(t, line, "[DEBU]")
	assert.Contains(t, line, "logger_test.go:")
	assert.Contains(t, line, "query op=list_articles")
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	log, err := newLogger("shouting", "", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "news.log")
	log, err := newLogger("info", path, &bytes.Buffer{})
	require.NoError(t, err)

	log.Info("started")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO]")
}

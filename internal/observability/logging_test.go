package observability

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	l := NewLogger()
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestNewLoggerHonorsLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	l := NewLogger()
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	t.Setenv("LOG_LEVEL", "nonsense")
	l = NewLogger()
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestNewLoggerWithComponent(t *testing.T) {
	entry := NewLoggerWithComponent("publisher")
	require.NotNil(t, entry)
	assert.Equal(t, "publisher", entry.Data["component"])
}

package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewConsoleFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsole(&buf, zap.ErrorLevel)

	log.Info("Loaded state")
	log.Error("Failed to load persisted state", zap.Error(errors.New("bad line")))
	_ = log.Sync()

	out := buf.String()
	assert.NotContains(t, out, "Loaded state")
	assert.Contains(t, out, "Failed to load persisted state")
	assert.Contains(t, out, "bad line")
}

func TestGetFallsBackToNop(t *testing.T) {
	saved := Logger
	t.Cleanup(func() { Logger = saved })

	Logger = nil
	assert.NotNil(t, Get())
	assert.NotNil(t, Named("storage"))
}

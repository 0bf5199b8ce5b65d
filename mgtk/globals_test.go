package internal

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, NewLogger("debug").GetLevel())
	assert.Equal(t, zerolog.WarnLevel, NewLogger(" WARN ").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger("").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger("loud").GetLevel())
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "mgtk", DefaultAppName)
	assert.Contains(t, DefaultVocabularyFile, DefaultAppName)
}

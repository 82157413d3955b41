package utils

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitLoggerLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	InitLogger("debug", "json")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	InitLogger("nonsense", "console")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "***", MaskSecret("short"))
	assert.Equal(t, "sk-p***wxyz", MaskSecret("sk-proj-abcdefwxyz"))
}

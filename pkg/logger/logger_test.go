package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Distribuidora-api/pkg/logger"
)

func TestNew_NivelConfigurado(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "warning"})
	assert.Equal(t, zerolog.WarnLevel, l.Zerolog().GetLevel())
}

func TestNew_NivelDesconocidoCaeEnInfo(t *testing.T) {
	l := logger.New(logger.Config{Env: "development", Level: "ruido"})
	assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel())
}

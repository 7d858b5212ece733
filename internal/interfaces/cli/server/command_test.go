package server

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMapEnvToGinMode(t *testing.T) {
	tests := map[string]string{
		"production":  gin.ReleaseMode,
		"prod":        gin.ReleaseMode,
		"release":     gin.ReleaseMode,
		"test":        gin.TestMode,
		"testing":     gin.TestMode,
		"development": gin.DebugMode,
		"dev":         gin.DebugMode,
		"":            gin.DebugMode,
	}

	for env, want := range tests {
		assert.Equal(t, want, mapEnvToGinMode(env), "env %q", env)
	}
}

func TestNewCommand_Flags(t *testing.T) {
	cmd := NewCommand()

	envFlag := cmd.Flags().Lookup("env")
	if assert.NotNil(t, envFlag) {
		assert.Equal(t, "e", envFlag.Shorthand)
		assert.Equal(t, "development", envFlag.DefValue)
	}
	assert.NotNil(t, cmd.Flags().Lookup("config"))
}

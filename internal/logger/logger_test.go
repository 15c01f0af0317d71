package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() { Setup(false) })

	t.Run("default level is warn", func(t *testing.T) {
		Setup(false)
		assert.Equal(t, zerolog.WarnLevel, Get().GetLevel())
	})

	t.Run("verbose lowers to debug", func(t *testing.T) {
		Setup(true)
		assert.Equal(t, zerolog.DebugLevel, Get().GetLevel())
	})

	t.Run("level methods chain off Get", func(t *testing.T) {
		Setup(false)
		Get().Debug().Str("key", "value").Msg("suppressed at warn level")
	})
}

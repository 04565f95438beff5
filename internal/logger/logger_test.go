package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// bufferLogger builds a logger from the production config writing into buf
func bufferLogger(t *testing.T, buf *bytes.Buffer) *zap.Logger {
	t.Helper()
	config, err := Config("production", "debug")
	require.NoError(t, err)

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config.EncoderConfig),
		zapcore.AddSync(buf),
		config.Level,
	)
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)).With(zap.String("service", ServiceName))
}

func TestProperty_ProductionLogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every production entry is a JSON object with level, time and message", prop.ForAll(
		func(message string, level string) bool {
			var buf bytes.Buffer
			logger := bufferLogger(t, &buf)

			switch level {
			case "debug":
				logger.Debug(message)
			case "info":
				logger.Info(message)
			case "warn":
				logger.Warn(message)
			default:
				logger.Error(message, zap.String("session_id", "s-1"))
			}

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				return false
			}

			return logEntry["level"] == level &&
				logEntry["msg"] == message &&
				logEntry["timestamp"] != nil &&
				logEntry["service"] == ServiceName
		},
		gen.AnyString(),
		gen.OneConstOf("debug", "info", "warn", "error"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestConfig_Environments(t *testing.T) {
	prod, err := Config("production", "")
	require.NoError(t, err)
	assert.Equal(t, "json", prod.Encoding)
	assert.Equal(t, []string{"stdout"}, prod.OutputPaths)
	assert.Equal(t, []string{"stderr"}, prod.ErrorOutputPaths)
	assert.Equal(t, zapcore.InfoLevel, prod.Level.Level())
	assert.Equal(t, ServiceName, prod.InitialFields["service"])

	dev, err := Config("development", "warn")
	require.NoError(t, err)
	assert.Equal(t, "console", dev.Encoding)
	assert.Equal(t, zapcore.WarnLevel, dev.Level.Level())
}

func TestConfig_InvalidLevel(t *testing.T) {
	_, err := Config("production", "loud")
	assert.Error(t, err)

	_, err = New("production", "loud")
	assert.Error(t, err)
}

func TestNew_BuildsLogger(t *testing.T) {
	logger, err := New("production", "")
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

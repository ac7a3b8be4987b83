package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painelhub/accesskit/pkg/catalog"
	"github.com/painelhub/accesskit/pkg/logger"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestNew(t *testing.T) {
	t.Run("json output with service attribute", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithService("accesskit"),
		)

		log.Info("ready")

		record := logLine(t, &buf)
		assert.Equal(t, "ready", record["msg"])
		assert.Equal(t, "accesskit", record["service"])
	})

	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))

		log.Debug("hidden")
		assert.Zero(t, buf.Len())

		log = logger.New(
			logger.WithOutput(&buf),
			logger.WithLevel(slog.LevelDebug),
		)
		log.Debug("visible")
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithText())

		log.Info("ready")
		assert.Contains(t, buf.String(), "msg=ready")
	})

	t.Run("static attributes", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithAttr(slog.String("version", "1.2.3")),
		)

		log.Info("ready")
		record := logLine(t, &buf)
		assert.Equal(t, "1.2.3", record["version"])
	})
}

func TestAttrs(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Info("decision",
		logger.UserID(userID),
		logger.TenantID(&tenantID),
		logger.Scope(catalog.ScopePortal),
		logger.Permission("PORTAL.PEDIDOS.VIEW"),
		logger.Route("/portal/pedidos"),
	)

	record := logLine(t, &buf)
	assert.Equal(t, userID.String(), record["user_id"])
	assert.Equal(t, tenantID.String(), record["tenant_id"])
	assert.Equal(t, "PORTAL", record["scope"])
	assert.Equal(t, "PORTAL.PEDIDOS.VIEW", record["permission"])
	assert.Equal(t, "/portal/pedidos", record["route"])
}

func TestAttrs_EmptyCases(t *testing.T) {
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.True(t, logger.TenantID(nil).Equal(slog.Attr{}))
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.Discard().Info("dropped")
	})
}

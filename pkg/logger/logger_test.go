package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastEvent(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var ev map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &ev))
	return ev
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verboso"))
}

func TestNew_EtiquetaServicioYRespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "warn", Service: "api", Out: &buf})

	log.Info().Msg("descartado")
	assert.Empty(t, buf.String())

	log.Warn().Msg("stock bajo")
	ev := lastEvent(t, &buf)
	assert.Equal(t, "api", ev["service"])
	assert.Equal(t, "warn", ev["level"])
	assert.Equal(t, "stock bajo", ev["message"])
}

func TestForUser_AgregaOperador(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "test", Out: &buf}).Component("movements")

	log.ForUser("u-1", "bodeguero").Info().Str("type", "salida").Msg("movimiento registrado")
	ev := lastEvent(t, &buf)
	assert.Equal(t, "movements", ev["component"])
	assert.Equal(t, "u-1", ev["user_id"])
	assert.Equal(t, "bodeguero", ev["role"])
	assert.NotContains(t, ev, "service")
}

func TestNewNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() { NewNop().Component("x").ForUser("u", "admin").Error().Msg("nada") })
}

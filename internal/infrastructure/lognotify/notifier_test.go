package lognotify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/repairshop-api/internal/application/ports"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/lognotify"
)

func TestNotify_EscribeLaSenal(t *testing.T) {
	var buf bytes.Buffer
	n := lognotify.New(zerolog.New(&buf))

	err := n.Notify(context.Background(), ports.Notification{
		Kind: ports.SignalSideEffectFailed, EntityType: "sale", EntityID: "v-1",
		Payload: map[string]any{"hook": "audit"},
	})
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, ports.SignalSideEffectFailed, line["kind"])
	assert.Equal(t, "v-1", line["entity_id"])
}

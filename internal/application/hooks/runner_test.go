package hooks_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/repairshop-api/internal/application/hooks"
	"github.com/jhoicas/repairshop-api/internal/application/ports"
)

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (r *recordingNotifier) Notify(_ context.Context, n ports.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, n.Kind)
	return nil
}

func TestRunner_AislaFallasYContinua(t *testing.T) {
	notifier := &recordingNotifier{}
	runner := hooks.NewRunner(zerolog.Nop(), notifier)

	var ran []string
	failed := runner.Run(context.Background(), "sales", "s-1",
		hooks.Hook{Name: "primero", Run: func(context.Context) error { ran = append(ran, "primero"); return errors.New("boom") }},
		hooks.Hook{Name: "segundo", Run: func(context.Context) error { ran = append(ran, "segundo"); panic("explota") }},
		hooks.Hook{Name: "tercero", Run: func(context.Context) error { ran = append(ran, "tercero"); return nil }},
	)

	assert.Equal(t, 2, failed)
	assert.Equal(t, []string{"primero", "segundo", "tercero"}, ran, "una falla no detiene los hooks siguientes")
	assert.Equal(t, []string{ports.SignalSideEffectFailed, ports.SignalSideEffectFailed}, notifier.kinds,
		"cada falla se alarma")
}

func TestRunner_FallaDeStockSeAlarmaComoStockUpdateFailed(t *testing.T) {
	alarms := &recordingNotifier{}
	runner := hooks.NewRunner(zerolog.Nop(), alarms)

	failing := failingNotifier{}
	failed := runner.Run(context.Background(), "sales", "s-1",
		hooks.StockUpdated(failing, ports.Notification{Kind: ports.SignalStockUpdated}))

	require.Equal(t, 1, failed)
	assert.Equal(t, []string{ports.SignalStockUpdateFailed}, alarms.kinds)
}

func TestRunner_SinSinkNiNotifierNoFalla(t *testing.T) {
	runner := hooks.NewRunner(zerolog.Nop(), nil)
	failed := runner.Run(context.Background(), "sales", "s-1",
		hooks.Audit(nil, ports.AuditEntry{Action: ports.AuditActionSaleCreate}),
		hooks.Notify(nil, ports.Notification{Kind: ports.SignalSaleRegistered}),
		hooks.Hook{Name: "x", Run: func(context.Context) error { return errors.New("sin alarma") }},
	)
	assert.Equal(t, 1, failed)
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, ports.Notification) error {
	return errors.New("cola caída")
}

package worker_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcredit "github.com/jhoicas/repairshop-api/internal/application/credit"
	"github.com/jhoicas/repairshop-api/internal/application/hooks"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/repairshop-api/internal/worker"
)

type fakeSweeper struct {
	calls  atomic.Int32
	report appcredit.SweepReport
	err    error
}

func (f *fakeSweeper) Sweep(context.Context) (appcredit.SweepReport, error) {
	f.calls.Add(1)
	return f.report, f.err
}

func TestStartCreditSweepCron_EjecutaHastaCancelar(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &fakeSweeper{report: appcredit.SweepReport{Evaluated: 2}}

	done := worker.StartCreditSweepCron(ctx, s, 5*time.Millisecond, zerolog.Nop())
	require.Eventually(t, func() bool { return s.calls.Load() >= 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("el cron no terminó al cancelar el contexto")
	}
}

func TestStartCreditSweepCron_IntervaloCeroDeshabilita(t *testing.T) {
	s := &fakeSweeper{}
	done := worker.StartCreditSweepCron(context.Background(), s, 0, zerolog.Nop())

	_, open := <-done
	assert.False(t, open)
	assert.Zero(t, s.calls.Load())
}

func TestRunSweep_PropagaError(t *testing.T) {
	s := &fakeSweeper{err: errors.New("db caída")}
	_, err := worker.RunSweep(context.Background(), s, zerolog.Nop())
	assert.Error(t, err)
}

func TestRunSweep_UnSoloResumenPorPasada(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	store := memory.NewSeeded()
	notifier := memory.NewNotifier()
	reconciler := appcredit.NewReconciler(memory.NewTxRunner(store), store.Repos().CreditAccounts,
		memory.NewSettings(nil), memory.NewAuditLog(), notifier, hooks.NewRunner(log, notifier), log)

	report, err := worker.RunSweep(context.Background(), reconciler, log)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Evaluated)
	assert.Equal(t, 1, strings.Count(buf.String(), "pasada completa"), buf.String())
}

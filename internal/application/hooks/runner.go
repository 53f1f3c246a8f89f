package hooks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/repairshop-api/internal/application/ports"
)

// Hook es un efecto secundario posterior al commit (auditoría, notificación).
type Hook struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runner ejecuta hooks post-commit en orden, de forma secuencial y aislada: la falla de uno
// se registra en el log y se alarma, pero no detiene a los siguientes ni se propaga al caller.
type Runner struct {
	log      zerolog.Logger
	notifier ports.Notifier
}

// NewRunner construye el runner. notifier puede ser nil (sin alarma, solo log).
func NewRunner(log zerolog.Logger, notifier ports.Notifier) *Runner {
	return &Runner{log: log, notifier: notifier}
}

// Run ejecuta los hooks y devuelve cuántos fallaron.
func (r *Runner) Run(ctx context.Context, entityType, entityID string, hooks ...Hook) int {
	failed := 0
	for _, h := range hooks {
		if err := r.runOne(ctx, h); err != nil {
			failed++
			r.log.Error().
				Err(err).
				Str("hook", h.Name).
				Str("entity_type", entityType).
				Str("entity_id", entityID).
				Msg("efecto post-commit falló; la operación confirmada no se revierte, requiere conciliación manual")
			r.alarm(ctx, h.Name, entityType, entityID, err)
		}
	}
	return failed
}

func (r *Runner) runOne(ctx context.Context, h Hook) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic en hook %s: %v", h.Name, rec)
		}
	}()
	return h.Run(ctx)
}

func (r *Runner) alarm(ctx context.Context, hook, entityType, entityID string, cause error) {
	if r.notifier == nil {
		return
	}
	kind := ports.SignalSideEffectFailed
	if hook == HookStockUpdated {
		kind = ports.SignalStockUpdateFailed
	}
	err := r.notifier.Notify(ctx, ports.Notification{
		Kind:       kind,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    map[string]any{"hook": hook, "error": cause.Error()},
		OccurredAt: time.Now(),
	})
	if err != nil {
		r.log.Error().Err(err).Str("hook", hook).Str("entity_id", entityID).
			Msg("no se pudo emitir la alarma de efecto post-commit fallido")
	}
}

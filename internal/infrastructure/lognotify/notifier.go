// Package lognotify es el notificador de respaldo cuando no hay Redis configurado:
// cada señal queda solo en el log estructurado.
package lognotify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/repairshop-api/internal/application/ports"
)

var _ ports.Notifier = (*Notifier)(nil)

type Notifier struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Notifier {
	return &Notifier{log: log}
}

func (n *Notifier) Notify(_ context.Context, sig ports.Notification) error {
	ev := n.log.Info()
	if sig.Kind == ports.SignalSideEffectFailed || sig.Kind == ports.SignalStockUpdateFailed {
		ev = n.log.Error()
	}
	ev.Str("kind", sig.Kind).
		Str("entity_type", sig.EntityType).
		Str("entity_id", sig.EntityID).
		Interface("payload", sig.Payload).
		Msg("señal")
	return nil
}

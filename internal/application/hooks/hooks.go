package hooks

import (
	"context"

	"github.com/jhoicas/repairshop-api/internal/application/ports"
)

// Nombres de hooks (aparecen en logs y alarmas).
const (
	HookAudit        = "audit"
	HookNotify       = "notify"
	HookStockUpdated = "stock_updated"
)

// Audit construye el hook que registra entry en la auditoría.
func Audit(sink ports.AuditSink, entry ports.AuditEntry) Hook {
	return Hook{Name: HookAudit, Run: func(ctx context.Context) error {
		if sink == nil {
			return nil
		}
		return sink.Record(ctx, entry)
	}}
}

// Notify construye el hook que emite n.
func Notify(notifier ports.Notifier, n ports.Notification) Hook {
	return Hook{Name: HookNotify + ":" + n.Kind, Run: func(ctx context.Context) error {
		if notifier == nil {
			return nil
		}
		return notifier.Notify(ctx, n)
	}}
}

// StockUpdated construye el hook que avisa el cambio de stock; su falla se alarma como
// stock.update_failed.
func StockUpdated(notifier ports.Notifier, n ports.Notification) Hook {
	h := Notify(notifier, n)
	h.Name = HookStockUpdated
	return h
}

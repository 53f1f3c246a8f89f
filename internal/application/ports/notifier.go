package ports

import (
	"context"
	"time"
)

// Tipos de señal emitidas hacia los despachadores de notificaciones (email, WhatsApp, badge interno).
const (
	SignalSaleRegistered        = "sale.registered"
	SignalSaleVoided            = "sale.voided"
	SignalStockUpdated          = "stock.updated"
	SignalStockUpdateFailed     = "stock.update_failed"
	SignalPaymentRegistered     = "payment.registered"
	SignalCreditBlocked         = "credit_account.blocked"
	SignalCreditPendingApproval = "credit_account.pending_approval"
	SignalCreditNormalized      = "credit_account.normalized"
	SignalCreditReminder        = "credit_account.reminder"
	SignalSideEffectFailed      = "side_effect.failed"
)

// Notification es una señal fire-and-forget; Payload se serializa a JSON.
type Notification struct {
	Kind       string         `json:"kind"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Notifier define el puerto de salida de notificaciones. Los consumidores son asíncronos;
// un error solo significa que la señal no pudo encolarse.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

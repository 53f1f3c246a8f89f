package ports

import "context"

// Acciones de auditoría registradas por el núcleo de ventas.
const (
	AuditActionSaleCreate      = "sale.create"
	AuditActionSaleVoid        = "sale.void"
	AuditActionPaymentRegister = "payment.register"
	AuditActionCreditStatus    = "credit_account.status"
	AuditActionCreditOpen      = "credit_account.open"
	AuditActionStockMovement   = "stock.movement"
)

// AuditEntry es un registro de auditoría: quién hizo qué sobre qué entidad, con la foto
// antes/después (serializable a JSON).
type AuditEntry struct {
	Action      string
	EntityTable string
	EntityID    string
	Before      any
	After       any
	Reason      string
	ActorID     string
}

// AuditSink define el puerto de salida de auditoría. Se invoca después del commit:
// un error aquí nunca revierte la operación de negocio.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}

package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/repairshop-api/internal/application/ports"
)

// AuditLog guarda las entradas de auditoría en memoria.
type AuditLog struct {
	mu      sync.Mutex
	entries []ports.AuditEntry
}

var _ ports.AuditSink = (*AuditLog)(nil)

func NewAuditLog() *AuditLog { return &AuditLog{} }

func (a *AuditLog) Record(_ context.Context, e ports.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
	return nil
}

// Entries devuelve una copia de lo registrado.
func (a *AuditLog) Entries() []ports.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ports.AuditEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// ByAction filtra por acción.
func (a *AuditLog) ByAction(action string) []ports.AuditEntry {
	var out []ports.AuditEntry
	for _, e := range a.Entries() {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// Notifier registra las señales emitidas. FailOn permite simular un despachador caído
// para un tipo de señal.
type Notifier struct {
	mu     sync.Mutex
	sent   []ports.Notification
	failOn map[string]error
}

var _ ports.Notifier = (*Notifier)(nil)

func NewNotifier() *Notifier { return &Notifier{failOn: map[string]error{}} }

// FailOn hace que Notify devuelva err para las señales de tipo kind.
func (n *Notifier) FailOn(kind string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failOn[kind] = err
}

func (n *Notifier) Notify(_ context.Context, msg ports.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.failOn[msg.Kind]; err != nil {
		return err
	}
	n.sent = append(n.sent, msg)
	return nil
}

// Sent devuelve una copia de las señales aceptadas.
func (n *Notifier) Sent() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]ports.Notification, len(n.sent))
	copy(out, n.sent)
	return out
}

// Count cuenta las señales de un tipo.
func (n *Notifier) Count(kind string) int {
	c := 0
	for _, msg := range n.Sent() {
		if msg.Kind == kind {
			c++
		}
	}
	return c
}

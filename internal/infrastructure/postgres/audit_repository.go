package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/repairshop-api/internal/application/ports"
)

var _ ports.AuditSink = (*AuditRepo)(nil)

// AuditRepo persiste la auditoría en audit_logs con las fotos antes/después como JSONB.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Se usa fuera de la transacción de negocio.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

func (r *AuditRepo) Record(ctx context.Context, e ports.AuditEntry) error {
	before, err := jsonOrNil(e.Before)
	if err != nil {
		return fmt.Errorf("audit before: %w", err)
	}
	after, err := jsonOrNil(e.After)
	if err != nil {
		return fmt.Errorf("audit after: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO audit_logs (action, entity_table, entity_id, before_data, after_data, reason, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.Action, e.EntityTable, e.EntityID, before, after, e.Reason, nullIfEmpty(e.ActorID),
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// jsonOrNil serializa v; nil se guarda como NULL.
func jsonOrNil(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Package redisq publica las señales de negocio en listas de Redis para que los
// despachadores externos (email, WhatsApp, badge interno) las consuman con BRPOP.
package redisq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/repairshop-api/internal/application/ports"
)

var _ ports.Notifier = (*Dispatcher)(nil)

// Dispatcher encola cada notificación en la lista "<prefix>:<kind>".
type Dispatcher struct {
	rdb    *redis.Client
	prefix string
}

// NewClient crea y valida la conexión a Redis.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewDispatcher(rdb *redis.Client, prefix string) *Dispatcher {
	if prefix == "" {
		prefix = "signals"
	}
	return &Dispatcher{rdb: rdb, prefix: prefix}
}

// Queue devuelve la lista donde se encolan las señales de kind.
func (d *Dispatcher) Queue(kind string) string {
	return d.prefix + ":" + kind
}

func (d *Dispatcher) Notify(ctx context.Context, n ports.Notification) error {
	if n.OccurredAt.IsZero() {
		n.OccurredAt = time.Now().UTC()
	}
	encoded, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := d.rdb.LPush(ctx, d.Queue(n.Kind), encoded).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", n.Kind, err)
	}
	return nil
}

// Pop extrae la señal más antigua de kind, esperando hasta timeout. Devuelve (nil, nil) si no hay.
func (d *Dispatcher) Pop(ctx context.Context, kind string, timeout time.Duration) (*ports.Notification, error) {
	res, err := d.rdb.BRPop(ctx, timeout, d.Queue(kind)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(res) < 2 {
		return nil, nil
	}
	var n ports.Notification
	if err := json.Unmarshal([]byte(res[1]), &n); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	return &n, nil
}

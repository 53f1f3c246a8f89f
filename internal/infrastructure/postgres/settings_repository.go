package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/application/ports"
)

var _ ports.Settings = (*SettingsRepo)(nil)

// SettingsRepo lee la configuración global de la tabla settings. Si la clave no está en la
// tabla (o la consulta falla) delega en fallback, típicamente config.Settings (variables de entorno).
type SettingsRepo struct {
	q        Querier
	fallback ports.Settings
	log      zerolog.Logger
	timeout  time.Duration
}

// NewSettingsRepository construye el proveedor. fallback puede ser nil.
func NewSettingsRepository(q Querier, fallback ports.Settings, log zerolog.Logger) *SettingsRepo {
	return &SettingsRepo{q: q, fallback: fallback, log: log, timeout: 2 * time.Second}
}

// Set crea o reemplaza el valor de una clave.
func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, key, value)
	return err
}

func (r *SettingsRepo) lookup(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var raw string
	err := r.q.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&raw)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Warn().Err(err).Str("key", key).Msg("settings: lectura fallida, se usa el valor por defecto")
		}
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func (r *SettingsRepo) Bool(key string, def bool) bool {
	if raw, ok := r.lookup(key); ok {
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	if r.fallback != nil {
		return r.fallback.Bool(key, def)
	}
	return def
}

func (r *SettingsRepo) Int(key string, def int) int {
	if raw, ok := r.lookup(key); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	if r.fallback != nil {
		return r.fallback.Int(key, def)
	}
	return def
}

func (r *SettingsRepo) Decimal(key string, def decimal.Decimal) decimal.Decimal {
	if raw, ok := r.lookup(key); ok {
		if d, err := decimal.NewFromString(raw); err == nil {
			return d
		}
	}
	if r.fallback != nil {
		return r.fallback.Decimal(key, def)
	}
	return def
}

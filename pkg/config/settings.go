package config

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Settings expone la configuración global de negocio (claves camelCase como
// "creditAutoBlockEnabled") leyéndola de variables de entorno en UPPER_SNAKE
// (CREDIT_AUTO_BLOCK_ENABLED). Es la última capa de fallback de la tabla settings.
type Settings struct {
	v *viper.Viper
}

// NewSettings construye el proveedor con la misma fuente que Load.
func NewSettings() *Settings {
	return &Settings{v: newViper()}
}

// NewSettingsFrom permite inyectar valores fijos (tests, valores por defecto de despliegue).
func NewSettingsFrom(values map[string]string) *Settings {
	v := viper.New()
	for k, val := range values {
		v.Set(EnvKey(k), val)
	}
	return &Settings{v: v}
}

// EnvKey convierte una clave camelCase a UPPER_SNAKE.
func EnvKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Lookup devuelve el valor crudo de la clave, si está definido y no vacío.
func (s *Settings) Lookup(key string) (string, bool) {
	k := EnvKey(key)
	if !s.v.IsSet(k) {
		return "", false
	}
	raw := strings.TrimSpace(s.v.GetString(k))
	return raw, raw != ""
}

func (s *Settings) Bool(key string, def bool) bool {
	raw, ok := s.Lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

func (s *Settings) Int(key string, def int) int {
	raw, ok := s.Lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func (s *Settings) Decimal(key string, def decimal.Decimal) decimal.Decimal {
	raw, ok := s.Lookup(key)
	if !ok {
		return def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return def
	}
	return d
}

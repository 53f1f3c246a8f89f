package memory

import (
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/application/ports"
)

// Settings es un proveedor de configuración global en memoria. Los valores se guardan
// como texto, igual que en la tabla settings.
type Settings struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ ports.Settings = (*Settings)(nil)

// NewSettings crea el proveedor con valores iniciales opcionales.
func NewSettings(initial map[string]string) *Settings {
	s := &Settings{values: map[string]string{}}
	for k, v := range initial {
		s.values[k] = v
	}
	return s
}

// Set fija una clave.
func (s *Settings) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *Settings) get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
}

func (s *Settings) Bool(key string, def bool) bool {
	v, ok := s.get(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func (s *Settings) Int(key string, def int) int {
	v, ok := s.get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *Settings) Decimal(key string, def decimal.Decimal) decimal.Decimal {
	v, ok := s.get(key)
	if !ok {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return def
	}
	return d
}

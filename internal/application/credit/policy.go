package credit

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/application/ports"
	domaincredit "github.com/jhoicas/repairshop-api/internal/domain/credit"
)

// Valores por defecto cuando la configuración global no define la clave.
// Límite global cero: solo operan a crédito las cuentas con límite propio.
var DefaultGlobalCreditLimit = decimal.Zero

const (
	DefaultGracePeriodDays  = 30
	DefaultAutoBlockEnabled = true
)

// PolicyFromSettings lee la política de evaluación desde la configuración global.
func PolicyFromSettings(s ports.Settings) domaincredit.Policy {
	return domaincredit.Policy{
		GlobalLimit:      s.Decimal(ports.SettingGlobalCreditLimit, DefaultGlobalCreditLimit),
		AutoBlockEnabled: s.Bool(ports.SettingCreditAutoBlockEnabled, DefaultAutoBlockEnabled),
	}
}

// GracePeriodDays devuelve los días de gracia globales para cuentas nuevas.
func GracePeriodDays(s ports.Settings) int {
	return s.Int(ports.SettingGlobalGracePeriodDays, DefaultGracePeriodDays)
}

// RemindersEnabled indica si se emiten recordatorios para cuentas que siguen en infracción.
// Con la clave activa cada pasada del barrido emite un credit_account.reminder por cuenta
// bloqueada o pendiente que siga en infracción; es la única señal que se repite entre pasadas
// y la frecuencia la limita el consumidor de la cola.
func RemindersEnabled(s ports.Settings) bool {
	return s.Bool(ports.SettingCreditRemindersEnabled, false)
}

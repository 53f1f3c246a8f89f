package ports

import "github.com/shopspring/decimal"

// Claves de configuración global.
const (
	SettingCreditAutoBlockEnabled = "creditAutoBlockEnabled"
	SettingGlobalCreditLimit      = "globalCreditLimit"
	SettingGlobalGracePeriodDays  = "globalGracePeriodDays"
	SettingCreditRemindersEnabled = "creditRemindersEnabled"
)

// Settings es el proveedor de configuración global de solo lectura, con getters tipados
// y valor por defecto cuando la clave no existe o no se puede interpretar.
type Settings interface {
	Bool(key string, def bool) bool
	Int(key string, def int) int
	Decimal(key string, def decimal.Decimal) decimal.Decimal
}

package entity

import "time"

// Tipos de cliente. El precio se resuelve por (producto, tipo de cliente).
const (
	CustomerTierRetail    = "RETAIL"    // minorista
	CustomerTierWholesale = "WHOLESALE" // mayorista: habilitado para cuenta corriente
)

// Customer representa un cliente del taller/comercio.
type Customer struct {
	ID        string
	Name      string
	TaxID     string // NIT, CUIT o documento
	Email     string
	Phone     string
	Tier      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCreditEligible indica si el cliente puede operar con cuenta corriente.
func (c *Customer) IsCreditEligible() bool {
	return c.Tier == CustomerTierWholesale
}

// ValidCustomerTier indica si el tipo de cliente es uno de los conocidos.
func ValidCustomerTier(tier string) bool {
	return tier == CustomerTierRetail || tier == CustomerTierWholesale
}

package entity

import "time"

// Customer representa un cliente del taller.
type Customer struct {
	ID         string
	WorkshopID string
	Name       string
	TaxID      string // CPF o CNPJ
	Phone      string
	Email      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

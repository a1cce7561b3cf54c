package entity

import "time"

// Workshop representa un taller mecánico, el tenant del sistema.
// Todas las entidades de negocio cuelgan de un WorkshopID explícito:
// ninguna capa del core asume un tenant por defecto.
type Workshop struct {
	ID        string
	LegalName string
	TradeName string
	CNPJ      string // CNPJ brasileño del taller
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

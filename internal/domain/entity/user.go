package entity

import "time"

// Roles de usuario del taller.
const (
	RoleAdmin      = "admin"
	RoleAtendente  = "atendente"
	RoleMecanico   = "mecanico"
	RoleFinanceiro = "financeiro"
)

// User representa un usuario del taller (auth + auditoría de movimientos).
type User struct {
	ID           string
	WorkshopID   string
	Email        string
	PasswordHash string
	Name         string
	Role         string // ver constantes Role*
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package dto

import "time"

// RegisterRequest alta de usuario en un taller existente.
type RegisterRequest struct {
	WorkshopID string `json:"workshop_id" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse representación HTTP de un usuario (sin hash).
type UserResponse struct {
	ID         string    `json:"id"`
	WorkshopID string    `json:"workshop_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LoginResponse token más datos del usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateWorkshopRequest alta de un taller (tenant).
type CreateWorkshopRequest struct {
	LegalName string `json:"legal_name" validate:"required"`
	TradeName string `json:"trade_name"`
	CNPJ      string `json:"cnpj" validate:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// WorkshopResponse representación HTTP de un taller.
type WorkshopResponse struct {
	ID        string    `json:"id"`
	LegalName string    `json:"legal_name"`
	TradeName string    `json:"trade_name,omitempty"`
	CNPJ      string    `json:"cnpj"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

package entity

import "time"

// Vehicle representa un vehículo de un cliente.
type Vehicle struct {
	ID         string
	WorkshopID string
	CustomerID string
	Plate      string
	Make       string
	Model      string
	ModelYear  int
	Odometer   int64 // km actual conocido
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// OrderItemRequest línea de una OS o de un presupuesto.
type OrderItemRequest struct {
	Type        string          `json:"type" validate:"required,oneof=product labor"`
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest alta manual de una orden de servicio.
type CreateOrderRequest struct {
	CustomerID    string             `json:"customer_id" validate:"required"`
	VehicleID     string             `json:"vehicle_id" validate:"required"`
	MechanicID    string             `json:"mechanic_id"`
	OdometerIn    int64              `json:"odometer_in"`
	Diagnosis     string             `json:"diagnosis"`
	Notes         string             `json:"notes"`
	DiscountTotal decimal.Decimal    `json:"discount_total"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TransitionRequest evento del ciclo de vida de una OS.
type TransitionRequest struct {
	Event string `json:"event" validate:"required"`
}

// CreateBudgetRequest alta de un presupuesto.
type CreateBudgetRequest struct {
	CustomerID    string             `json:"customer_id" validate:"required"`
	VehicleID     string             `json:"vehicle_id" validate:"required"`
	ValidityDays  int                `json:"validity_days"`
	Notes         string             `json:"notes"`
	DiscountTotal decimal.Decimal    `json:"discount_total"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemResponse línea de OS.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse representación HTTP de una orden de servicio.
type OrderResponse struct {
	ID            string              `json:"id"`
	Number        int64               `json:"number"`
	BudgetID      string              `json:"budget_id,omitempty"`
	CustomerID    string              `json:"customer_id"`
	VehicleID     string              `json:"vehicle_id"`
	MechanicID    string              `json:"mechanic_id,omitempty"`
	OdometerIn    int64               `json:"odometer_in"`
	Diagnosis     string              `json:"diagnosis,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	PartsTotal    decimal.Decimal     `json:"parts_total"`
	LaborTotal    decimal.Decimal     `json:"labor_total"`
	DiscountTotal decimal.Decimal     `json:"discount_total"`
	GrandTotal    decimal.Decimal     `json:"grand_total"`
	Status        string              `json:"status"`
	OpenedAt      time.Time           `json:"opened_at"`
	ClosedAt      *time.Time          `json:"closed_at,omitempty"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}

// BudgetResponse representación HTTP de un presupuesto.
type BudgetResponse struct {
	ID            string              `json:"id"`
	Number        int64               `json:"number"`
	CustomerID    string              `json:"customer_id"`
	VehicleID     string              `json:"vehicle_id"`
	ValidityDays  int                 `json:"validity_days"`
	PartsTotal    decimal.Decimal     `json:"parts_total"`
	LaborTotal    decimal.Decimal     `json:"labor_total"`
	DiscountTotal decimal.Decimal     `json:"discount_total"`
	GrandTotal    decimal.Decimal     `json:"grand_total"`
	Status        string              `json:"status"`
	Notes         string              `json:"notes,omitempty"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}

// ToOrderResponse mapea la entidad (y sus ítems) al DTO.
func ToOrderResponse(o *entity.ServiceOrder, items []*entity.ServiceOrderItem) *OrderResponse {
	if o == nil {
		return nil
	}
	resp := &OrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		BudgetID:      o.BudgetID,
		CustomerID:    o.CustomerID,
		VehicleID:     o.VehicleID,
		MechanicID:    o.MechanicID,
		OdometerIn:    o.OdometerIn,
		Diagnosis:     o.Diagnosis,
		Notes:         o.Notes,
		PartsTotal:    o.PartsTotal,
		LaborTotal:    o.LaborTotal,
		DiscountTotal: o.DiscountTotal,
		GrandTotal:    o.GrandTotal,
		Status:        o.Status,
		OpenedAt:      o.OpenedAt,
		ClosedAt:      o.ClosedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:          it.ID,
			Type:        it.Type,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return resp
}

// ToBudgetResponse mapea la entidad (y sus ítems) al DTO.
func ToBudgetResponse(b *entity.Budget, items []*entity.BudgetItem) *BudgetResponse {
	if b == nil {
		return nil
	}
	resp := &BudgetResponse{
		ID:            b.ID,
		Number:        b.Number,
		CustomerID:    b.CustomerID,
		VehicleID:     b.VehicleID,
		ValidityDays:  b.ValidityDays,
		PartsTotal:    b.PartsTotal,
		LaborTotal:    b.LaborTotal,
		DiscountTotal: b.DiscountTotal,
		GrandTotal:    b.GrandTotal,
		Status:        b.Status,
		Notes:         b.Notes,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:          it.ID,
			Type:        it.Type,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return resp
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// CreateProductRequest alta manual de un producto del catálogo.
type CreateProductRequest struct {
	Code        string          `json:"code" validate:"required"`
	Barcode     string          `json:"barcode"`
	Description string          `json:"description" validate:"required"`
	Unit        string          `json:"unit"`
	NCM         string          `json:"ncm"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	MinStock    decimal.Decimal `json:"min_stock"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Barcode      string          `json:"barcode,omitempty"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	NCM          string          `json:"ncm,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToProductResponse mapea la entidad al DTO.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Barcode:      p.Barcode,
		Description:  p.Description,
		Unit:         p.Unit,
		NCM:          p.NCM,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		CurrentStock: p.CurrentStock,
		MinStock:     p.MinStock,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

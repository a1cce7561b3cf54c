package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pacoficinas/oficina-api/internal/application/importing"
	"github.com/pacoficinas/oficina-api/internal/application/inventory"
	"github.com/pacoficinas/oficina-api/internal/application/orders"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

// El runner satisface los puertos transaccionales de los tres módulos.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ importing.TxRunner = (*TxRunner)(nil)
var _ orders.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con repos de inventario y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunImport inicia una transacción con los repos de la importación de NF-e:
// documento, stock y cuenta por pagar quedan atados al mismo commit.
func (r *TxRunner) RunImport(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	docRepo repository.ImportedDocumentRepository,
	obligRepo repository.ObligationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewProductRepository(tx),
		NewStockMovementRepository(tx),
		NewImportedDocumentRepository(tx),
		NewObligationRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOrders inicia una transacción con los repos de órdenes, presupuestos,
// obligaciones y comisiones (transiciones, conversión y facturado).
func (r *TxRunner) RunOrders(ctx context.Context, fn func(
	orderRepo repository.ServiceOrderRepository,
	budgetRepo repository.BudgetRepository,
	obligRepo repository.ObligationRepository,
	commissionRepo repository.CommissionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewServiceOrderRepository(tx),
		NewBudgetRepository(tx),
		NewObligationRepository(tx),
		NewCommissionRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

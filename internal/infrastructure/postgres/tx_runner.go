package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koffiyao/freelance-api/internal/application/billing"
	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
)

// Ensure TxRunner implements billing.ConversionTxRunner.
var _ billing.ConversionTxRunner = (*TxRunner)(nil)

// TxRunner exécute des callbacks dans une transaction PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construit le runner avec le pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunConversion démarre une transaction, exécute fn avec un repo de
// facturation lié à la tx et fait Commit ou Rollback. Un échec de
// sérialisation ou un deadlock remonte en domain.ErrConcurrentWrite pour que
// l'appelant rejoue la séquence valider-puis-écrire.
func (r *TxRunner) RunConversion(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoiceRepo := NewInvoiceRepository(tx)

	if err := fn(invoiceRepo); err != nil {
		if isConcurrencyFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrentWrite, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isConcurrencyFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrentWrite, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

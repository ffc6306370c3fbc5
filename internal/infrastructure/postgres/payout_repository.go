package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
)

var _ repository.PayoutRepository = (*PayoutRepo)(nil)

// PayoutRepo implémentation de PayoutRepository.
type PayoutRepo struct {
	q Querier
}

func NewPayoutRepository(q Querier) *PayoutRepo {
	return &PayoutRepo{q: q}
}

const payoutColumns = `id, COALESCE(gateway_id, ''), amount, mobile, COALESCE(reason, ''),
		status, COALESCE(transaction_id, ''), created_at, updated_at`

func (r *PayoutRepo) Create(p *entity.Payout) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO payouts (id, gateway_id, amount, mobile, reason, status, transaction_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, nullIfEmpty(p.GatewayID), p.Amount, p.Mobile, nullIfEmpty(p.Reason),
		p.Status, nullIfEmpty(p.TransactionID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payout: %w", err)
	}
	return nil
}

func (r *PayoutRepo) GetByID(id string) (*entity.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`
	return r.scanOne(query, id)
}

func (r *PayoutRepo) GetByGatewayID(gatewayID string) (*entity.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE gateway_id = $1`
	return r.scanOne(query, gatewayID)
}

func (r *PayoutRepo) GetByTransactionID(transactionID string) (*entity.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE transaction_id = $1`
	return r.scanOne(query, transactionID)
}

func (r *PayoutRepo) ListUnlinked() ([]*entity.Payout, error) {
	query := `SELECT ` + payoutColumns + `
		FROM payouts
		WHERE transaction_id IS NULL AND status NOT IN ($1, $2)
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query,
		entity.PayoutStatusFailed, entity.PayoutStatusCancelled,
	)
	if err != nil {
		return nil, fmt.Errorf("list unlinked payouts: %w", err)
	}
	defer rows.Close()

	var out []*entity.Payout
	for rows.Next() {
		var p entity.Payout
		if err := rows.Scan(
			&p.ID, &p.GatewayID, &p.Amount, &p.Mobile, &p.Reason,
			&p.Status, &p.TransactionID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payout: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *PayoutRepo) scanOne(query string, args ...any) (*entity.Payout, error) {
	var p entity.Payout
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&p.ID, &p.GatewayID, &p.Amount, &p.Mobile, &p.Reason,
		&p.Status, &p.TransactionID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payout: %w", err)
	}
	return &p, nil
}

func (r *PayoutRepo) UpdateStatus(id, status string) error {
	query := `UPDATE payouts SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update payout status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PayoutRepo) SetTransactionID(id, transactionID string) error {
	query := `UPDATE payouts SET transaction_id = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, nullIfEmpty(transactionID))
	if err != nil {
		return fmt.Errorf("set payout transaction: %w", err)
	}
	return nil
}

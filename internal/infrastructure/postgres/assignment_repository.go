package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
)

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

// AssignmentRepo implémentation de AssignmentRepository. L'ensemble des
// candidats est stocké en jsonb (codec JSON de pgx).
type AssignmentRepo struct {
	q Querier
}

func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

const assignmentColumns = `id, transaction_id, type, COALESCE(description, ''), COALESCE(notes, ''),
		COALESCE(project_id, ''), COALESCE(client_id, ''), COALESCE(provider_id, ''), COALESCE(invoice_id, ''),
		candidates, resolved, created_at, updated_at`

// Upsert écrit l'affectation entière ; une ré-affectation remplace tous les
// champs de l'enregistrement existant (transaction_id est unique).
func (r *AssignmentRepo) Upsert(a *entity.Assignment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	candidates := a.Candidates
	if candidates == nil {
		candidates = []entity.Candidate{}
	}
	query := `
		INSERT INTO assignments (id, transaction_id, type, description, notes,
			project_id, client_id, provider_id, invoice_id, candidates, resolved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		ON CONFLICT (transaction_id)
		DO UPDATE SET type = EXCLUDED.type, description = EXCLUDED.description,
			notes = EXCLUDED.notes, project_id = EXCLUDED.project_id,
			client_id = EXCLUDED.client_id, provider_id = EXCLUDED.provider_id,
			invoice_id = EXCLUDED.invoice_id, candidates = EXCLUDED.candidates,
			resolved = EXCLUDED.resolved, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.TransactionID, a.Type, nullIfEmpty(a.Description), nullIfEmpty(a.Notes),
		nullIfEmpty(a.ProjectID), nullIfEmpty(a.ClientID), nullIfEmpty(a.ProviderID), nullIfEmpty(a.InvoiceID),
		candidates, a.Resolved,
	)
	if err != nil {
		return fmt.Errorf("upsert assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepo) GetByID(id string) (*entity.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`
	return r.scanOne(query, id)
}

func (r *AssignmentRepo) GetByTransactionID(transactionID string) (*entity.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE transaction_id = $1`
	return r.scanOne(query, transactionID)
}

func (r *AssignmentRepo) scanOne(query string, args ...any) (*entity.Assignment, error) {
	var a entity.Assignment
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&a.ID, &a.TransactionID, &a.Type, &a.Description, &a.Notes,
		&a.ProjectID, &a.ClientID, &a.ProviderID, &a.InvoiceID,
		&a.Candidates, &a.Resolved, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return &a, nil
}

// ListByTransactionIDs charge les affectations d'une page de transactions en
// une seule requête, indexées par transaction.
func (r *AssignmentRepo) ListByTransactionIDs(transactionIDs []string) (map[string]*entity.Assignment, error) {
	result := make(map[string]*entity.Assignment)
	if len(transactionIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE transaction_id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a entity.Assignment
		if err := rows.Scan(
			&a.ID, &a.TransactionID, &a.Type, &a.Description, &a.Notes,
			&a.ProjectID, &a.ClientID, &a.ProviderID, &a.InvoiceID,
			&a.Candidates, &a.Resolved, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		result[a.TransactionID] = &a
	}
	return result, rows.Err()
}

func (r *AssignmentRepo) Update(a *entity.Assignment) error {
	candidates := a.Candidates
	if candidates == nil {
		candidates = []entity.Candidate{}
	}
	query := `
		UPDATE assignments
		SET type = $2, description = $3, notes = $4, project_id = $5, client_id = $6,
			provider_id = $7, invoice_id = $8, candidates = $9, resolved = $10, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		a.ID, a.Type, nullIfEmpty(a.Description), nullIfEmpty(a.Notes),
		nullIfEmpty(a.ProjectID), nullIfEmpty(a.ClientID), nullIfEmpty(a.ProviderID), nullIfEmpty(a.InvoiceID),
		candidates, a.Resolved,
	)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update assignment: aucune ligne affectée")
	}
	return nil
}

func (r *AssignmentRepo) DeleteByTransactionID(transactionID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM assignments WHERE transaction_id = $1`, transactionID)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

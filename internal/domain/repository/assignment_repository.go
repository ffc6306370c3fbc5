package repository

import "github.com/koffiyao/freelance-api/internal/domain/entity"

// AssignmentRepository affectations comptables des transactions mobile money.
// Une affectation par transaction ; la ré-affectation écrase l'enregistrement
// entier (pas de fusion partielle de champs).
type AssignmentRepository interface {
	Upsert(a *entity.Assignment) error
	GetByID(id string) (*entity.Assignment, error)
	GetByTransactionID(transactionID string) (*entity.Assignment, error)
	ListByTransactionIDs(transactionIDs []string) (map[string]*entity.Assignment, error)
	Update(a *entity.Assignment) error
	DeleteByTransactionID(transactionID string) error
}

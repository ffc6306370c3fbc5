package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
)

var _ repository.ProviderRepository = (*ProviderRepo)(nil)

// ProviderRepo implémentation de ProviderRepository.
type ProviderRepo struct {
	q Querier
}

func NewProviderRepository(q Querier) *ProviderRepo {
	return &ProviderRepo{q: q}
}

const providerColumns = `id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(service, ''), created_at, updated_at`

func (r *ProviderRepo) GetByID(id string) (*entity.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE id = $1`
	var p entity.Provider
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Service, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return &p, nil
}

func (r *ProviderRepo) List() ([]*entity.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers ORDER BY name`
	return r.scanMany(query)
}

// FindByPhoneSuffix même logique de rapprochement que pour les clients : un
// numéro partagé entre un client et un prestataire produit un conflit côté
// moteur, jamais un choix silencieux.
func (r *ProviderRepo) FindByPhoneSuffix(suffix string) ([]*entity.Provider, error) {
	if suffix == "" {
		return nil, nil
	}
	query := `SELECT ` + providerColumns + `
		FROM providers
		WHERE regexp_replace(COALESCE(phone, ''), '\D', '', 'g') LIKE '%' || $1`
	return r.scanMany(query, suffix)
}

func (r *ProviderRepo) scanMany(query string, args ...any) ([]*entity.Provider, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	var providers []*entity.Provider
	for rows.Next() {
		var p entity.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Service, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, &p)
	}
	return providers, rows.Err()
}

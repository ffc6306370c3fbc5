package repository

import "github.com/koffiyao/freelance-api/internal/domain/entity"

// ProviderRepository accès en lecture aux prestataires.
type ProviderRepository interface {
	GetByID(id string) (*entity.Provider, error)
	List() ([]*entity.Provider, error)
	FindByPhoneSuffix(suffix string) ([]*entity.Provider, error)
}

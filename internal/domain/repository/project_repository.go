package repository

import "github.com/koffiyao/freelance-api/internal/domain/entity"

// ProjectRepository accès en lecture aux projets.
type ProjectRepository interface {
	GetByID(id string) (*entity.Project, error)
}

package repository

import "github.com/koffiyao/freelance-api/internal/domain/entity"

// ClientRepository accès en lecture aux clients (photographies et rapprochement).
type ClientRepository interface {
	GetByID(id string) (*entity.Client, error)
	List() ([]*entity.Client, error)

	// FindByPhoneSuffix renvoie les clients dont le numéro normalisé se termine
	// par le suffixe donné (tolère les variantes d'indicatif +225).
	FindByPhoneSuffix(suffix string) ([]*entity.Client, error)
}

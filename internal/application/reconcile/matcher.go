package reconcile

import (
	"context"

	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
	"github.com/koffiyao/freelance-api/pkg/phone"
)

// MatchResult ensembles complets de candidats pour un numéro mobile.
// Le rapprochement ne décide jamais : zéro candidat = affectation libre,
// un seul = suggestion automatique possible, plusieurs = conflit.
type MatchResult struct {
	Clients   []*entity.Client
	Providers []*entity.Provider
}

// Total nombre total de candidats, tous genres confondus.
func (m *MatchResult) Total() int { return len(m.Clients) + len(m.Providers) }

// Candidates aplatit le résultat en candidats d'affectation.
func (m *MatchResult) Candidates() []entity.Candidate {
	out := make([]entity.Candidate, 0, m.Total())
	for _, c := range m.Clients {
		out = append(out, entity.Candidate{Kind: entity.CandidateKindClient, ID: c.ID, Name: c.Name})
	}
	for _, p := range m.Providers {
		out = append(out, entity.Candidate{Kind: entity.CandidateKindProvider, ID: p.ID, Name: p.Name})
	}
	return out
}

// Matcher rapproche le numéro mobile d'une transaction des clients et
// prestataires internes. La comparaison porte sur un suffixe de longueur
// configurable pour tolérer les variantes d'indicatif (+225, 00225, rien).
type Matcher struct {
	clientRepo   repository.ClientRepository
	providerRepo repository.ProviderRepository
	suffixLen    int
}

// NewMatcher construit le rapprocheur. suffixLen <= 0 prend la valeur par défaut.
func NewMatcher(clientRepo repository.ClientRepository, providerRepo repository.ProviderRepository, suffixLen int) *Matcher {
	if suffixLen <= 0 {
		suffixLen = phone.DefaultSuffixLen
	}
	return &Matcher{clientRepo: clientRepo, providerRepo: providerRepo, suffixLen: suffixLen}
}

// Match renvoie tous les clients et prestataires partageant le numéro mobile
// de la contrepartie. Un numéro vide ne rapproche personne.
func (m *Matcher) Match(_ context.Context, mobile string) (*MatchResult, error) {
	suffix := phone.Suffix(mobile, m.suffixLen)
	if suffix == "" {
		return &MatchResult{}, nil
	}
	clients, err := m.clientRepo.FindByPhoneSuffix(suffix)
	if err != nil {
		return nil, err
	}
	providers, err := m.providerRepo.FindByPhoneSuffix(suffix)
	if err != nil {
		return nil, err
	}
	return &MatchResult{Clients: clients, Providers: providers}, nil
}

package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koffiyao/freelance-api/internal/domain/entity"
)

func TestMatch_SharedNumberYieldsBothKinds(t *testing.T) {
	dir := &fakeDirectory{
		clients: []*entity.Client{
			{ID: "cli-1", Name: "Aminata Kouassi", Phone: "+225 07 00 00 00 00"},
			{ID: "cli-2", Name: "Moussa Diabaté", Phone: "+225 05 11 22 33 44"},
		},
		providers: []*entity.Provider{
			{ID: "prov-1", Name: "Ibrahim Traoré", Phone: "0700000000"},
		},
	}
	m := NewMatcher(dir, providerView{d: dir}, 10)

	// Le client 1 et le prestataire 1 partagent le numéro, indicatif mis à part
	res, err := m.Match(context.Background(), "+2250700000000")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total())
	require.Len(t, res.Clients, 1)
	require.Len(t, res.Providers, 1)
	assert.Equal(t, "cli-1", res.Clients[0].ID)
	assert.Equal(t, "prov-1", res.Providers[0].ID)

	candidates := res.Candidates()
	require.Len(t, candidates, 2)
	assert.Equal(t, entity.CandidateKindClient, candidates[0].Kind)
	assert.Equal(t, entity.CandidateKindProvider, candidates[1].Kind)
}

func TestMatch_SingleAndNone(t *testing.T) {
	dir := &fakeDirectory{
		clients: []*entity.Client{
			{ID: "cli-2", Name: "Moussa Diabaté", Phone: "+225 05 11 22 33 44"},
		},
	}
	m := NewMatcher(dir, providerView{d: dir}, 10)

	res, err := m.Match(context.Background(), "0511223344")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total())

	res, err = m.Match(context.Background(), "0999999999")
	require.NoError(t, err)
	assert.Zero(t, res.Total())
}

func TestMatch_EmptyMobileMatchesNobody(t *testing.T) {
	dir := &fakeDirectory{
		clients: []*entity.Client{{ID: "cli-1", Name: "Aminata", Phone: ""}},
	}
	m := NewMatcher(dir, providerView{d: dir}, 10)

	// Ni un numéro vide côté transaction, ni un client sans numéro ne
	// rapprochent quoi que ce soit
	res, err := m.Match(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, res.Total())
}

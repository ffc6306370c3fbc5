package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/pkg/logger"
	"github.com/koffiyao/freelance-api/pkg/phone"
)

// ──────────────────────────────────────────────────────────────────────────────
// Doublures en mémoire
// ──────────────────────────────────────────────────────────────────────────────

// fakeGateway doublure de la passerelle. Enregistre les commandes émises pour
// vérifier qu'un rejet local n'appelle jamais la passerelle.
type fakeGateway struct {
	occurrences  map[string][]*entity.Transaction
	balance      Balance
	page         *TransactionPage
	payoutStatus map[string]*PayoutResult
	statusErr    error

	reverseCalls []string
	refundCalls  []string
	cancelCalls  []string
	sendResult   *PayoutResult
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		occurrences:  make(map[string][]*entity.Transaction),
		payoutStatus: make(map[string]*PayoutResult),
	}
}

func (g *fakeGateway) Balance(context.Context) (*Balance, error) { return &g.balance, nil }

func (g *fakeGateway) ListTransactions(_ context.Context, date time.Time, _ string) (*TransactionPage, error) {
	if g.page != nil {
		return g.page, nil
	}
	return &TransactionPage{Date: date}, nil
}

func (g *fakeGateway) FindTransaction(_ context.Context, id string) ([]*entity.Transaction, error) {
	return g.occurrences[id], nil
}

func (g *fakeGateway) SendPayout(_ context.Context, amount decimal.Decimal, _, mobile, _ string) (*PayoutResult, error) {
	if g.sendResult != nil {
		return g.sendResult, nil
	}
	return &PayoutResult{GatewayID: "wav-" + mobile, Status: entity.PayoutStatusProcessing}, nil
}

func (g *fakeGateway) PayoutStatus(_ context.Context, gatewayID string) (*PayoutResult, error) {
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	if res, ok := g.payoutStatus[gatewayID]; ok {
		return res, nil
	}
	return nil, domain.NewGatewayError("not-found", "ordre inconnu")
}

func (g *fakeGateway) ReversePayout(_ context.Context, gatewayID string) error {
	g.reverseCalls = append(g.reverseCalls, gatewayID)
	return nil
}

func (g *fakeGateway) CancelPayout(_ context.Context, gatewayID string) error {
	g.cancelCalls = append(g.cancelCalls, gatewayID)
	return nil
}

func (g *fakeGateway) RefundTransaction(_ context.Context, transactionID string) error {
	g.refundCalls = append(g.refundCalls, transactionID)
	return nil
}

// fakeAssignmentStore implémentation mémoire de repository.AssignmentRepository.
type fakeAssignmentStore struct {
	byTx map[string]*entity.Assignment
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{byTx: make(map[string]*entity.Assignment)}
}

func (s *fakeAssignmentStore) Upsert(a *entity.Assignment) error {
	cp := *a
	s.byTx[a.TransactionID] = &cp
	return nil
}

func (s *fakeAssignmentStore) GetByID(id string) (*entity.Assignment, error) {
	for _, a := range s.byTx {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeAssignmentStore) GetByTransactionID(txID string) (*entity.Assignment, error) {
	a, ok := s.byTx[txID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *fakeAssignmentStore) ListByTransactionIDs(ids []string) (map[string]*entity.Assignment, error) {
	out := make(map[string]*entity.Assignment)
	for _, id := range ids {
		if a, ok := s.byTx[id]; ok {
			cp := *a
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *fakeAssignmentStore) Update(a *entity.Assignment) error {
	for txID, existing := range s.byTx {
		if existing.ID == a.ID {
			cp := *a
			s.byTx[txID] = &cp
			return nil
		}
	}
	return fmt.Errorf("affectation inconnue %s", a.ID)
}

func (s *fakeAssignmentStore) DeleteByTransactionID(txID string) error {
	delete(s.byTx, txID)
	return nil
}

// fakePayoutStore implémentation mémoire de repository.PayoutRepository.
type fakePayoutStore struct {
	byID       map[string]*entity.Payout
	getByTxErr error
}

func newFakePayoutStore() *fakePayoutStore {
	return &fakePayoutStore{byID: make(map[string]*entity.Payout)}
}

func (s *fakePayoutStore) Create(p *entity.Payout) error {
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

func (s *fakePayoutStore) GetByID(id string) (*entity.Payout, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakePayoutStore) GetByGatewayID(gatewayID string) (*entity.Payout, error) {
	for _, p := range s.byID {
		if p.GatewayID == gatewayID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakePayoutStore) GetByTransactionID(txID string) (*entity.Payout, error) {
	if s.getByTxErr != nil {
		return nil, s.getByTxErr
	}
	for _, p := range s.byID {
		if p.TransactionID == txID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakePayoutStore) ListUnlinked() ([]*entity.Payout, error) {
	var out []*entity.Payout
	for _, p := range s.byID {
		if p.TransactionID != "" {
			continue
		}
		if p.Status == entity.PayoutStatusFailed || p.Status == entity.PayoutStatusCancelled {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakePayoutStore) UpdateStatus(id, status string) error {
	p, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

func (s *fakePayoutStore) SetTransactionID(id, txID string) error {
	p, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.TransactionID = txID
	return nil
}

// fakeDirectory annuaire mémoire, rapproché par suffixe comme en SQL.
type fakeDirectory struct {
	clients   []*entity.Client
	providers []*entity.Provider
}

func (d *fakeDirectory) GetByID(id string) (*entity.Client, error) {
	for _, c := range d.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (d *fakeDirectory) List() ([]*entity.Client, error) { return d.clients, nil }

func (d *fakeDirectory) FindByPhoneSuffix(suffix string) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range d.clients {
		if strings.HasSuffix(phone.Normalize(c.Phone), suffix) {
			out = append(out, c)
		}
	}
	return out, nil
}

// providerView expose le même annuaire côté prestataires.
type providerView struct {
	d *fakeDirectory
}

func (v providerView) GetByID(id string) (*entity.Provider, error) {
	for _, p := range v.d.providers {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (v providerView) List() ([]*entity.Provider, error) { return v.d.providers, nil }

func (v providerView) FindByPhoneSuffix(suffix string) ([]*entity.Provider, error) {
	var out []*entity.Provider
	for _, p := range v.d.providers {
		if strings.HasSuffix(phone.Normalize(p.Phone), suffix) {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeInvoiceStore le minimum de repository.InvoiceRepository utilisé par
// l'affectation : lecture et passage à PAID.
type fakeInvoiceStore struct {
	byID map[string]*entity.Invoice
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{byID: make(map[string]*entity.Invoice)}
}

func (s *fakeInvoiceStore) Create(inv *entity.Invoice) error {
	cp := *inv
	s.byID[inv.ID] = &cp
	return nil
}

func (s *fakeInvoiceStore) CreateItem(*entity.InvoiceItem) error { return nil }

func (s *fakeInvoiceStore) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (s *fakeInvoiceStore) GetForUpdate(id string) (*entity.Invoice, error) { return s.GetByID(id) }

func (s *fakeInvoiceStore) GetItems(string) ([]*entity.InvoiceItem, error) { return nil, nil }

func (s *fakeInvoiceStore) SumConvertedQuantities(string) (map[string]decimal.Decimal, error) {
	return map[string]decimal.Decimal{}, nil
}

func (s *fakeInvoiceStore) NextNumber(string) (int64, error) { return 1, nil }

func (s *fakeInvoiceStore) UpdateStatus(id, status string) error {
	inv, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	return nil
}

func (s *fakeInvoiceStore) MarkPaid(id string, paidDate time.Time) error {
	inv, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = entity.InvoiceStatusPaid
	inv.PaidDate = &paidDate
	return nil
}

func (s *fakeInvoiceStore) SetPaymentLink(id, link, linkID string) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Montage
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

func testLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		ReversalWindow: 72 * time.Hour,
		PendingWindow:  30 * time.Minute,
		Currency:       "XOF",
	}
}

func inboundTx(id string, amount int64, mobile string, age time.Duration, now time.Time) *entity.Transaction {
	return &entity.Transaction{
		ID:                 id,
		Amount:             decimal.NewFromInt(amount),
		Currency:           "XOF",
		Timestamp:          now.Add(-age),
		CounterpartyMobile: mobile,
	}
}

func outboundTx(id string, amount int64, mobile string, age time.Duration, now time.Time) *entity.Transaction {
	return &entity.Transaction{
		ID:                 id,
		Amount:             decimal.NewFromInt(-amount),
		Currency:           "XOF",
		Timestamp:          now.Add(-age),
		CounterpartyMobile: mobile,
	}
}

// compensatingOf fabrique la ligne compensatoire d'une transaction : même ID,
// montant opposé, marquée is_reversal.
func compensatingOf(tx *entity.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:                 tx.ID,
		Amount:             tx.Amount.Neg(),
		Currency:           tx.Currency,
		Timestamp:          tx.Timestamp.Add(time.Minute),
		CounterpartyMobile: tx.CounterpartyMobile,
		IsReversal:         true,
	}
}

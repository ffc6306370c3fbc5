package billing_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/koffiyao/freelance-api/internal/application/billing"
	"github.com/koffiyao/freelance-api/internal/domain"
	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
	"github.com/koffiyao/freelance-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Doublures en mémoire
// ──────────────────────────────────────────────────────────────────────────────

// fakeInvoiceRepo implémentation mémoire de repository.InvoiceRepository.
// L'agrégat des quantités converties est recalculé à chaque appel, comme en
// SQL.
type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	items    map[string][]*entity.InvoiceItem
	seq      map[string]int64
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		items:    make(map[string][]*entity.InvoiceItem),
		seq:      make(map[string]int64),
	}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	cp := *item
	r.items[item.InvoiceID] = append(r.items[item.InvoiceID], &cp)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetForUpdate(id string) (*entity.Invoice, error) {
	return r.GetByID(id)
}

func (r *fakeInvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	return r.items[invoiceID], nil
}

func (r *fakeInvoiceRepo) SumConvertedQuantities(quoteID string) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, inv := range r.invoices {
		if inv.SourceQuoteID != quoteID || !inv.CountsTowardConversion() {
			continue
		}
		for _, it := range r.items[inv.ID] {
			if it.SourceServiceLineID == "" {
				continue
			}
			sums[it.SourceServiceLineID] = sums[it.SourceServiceLineID].Add(it.Quantity)
		}
	}
	return sums, nil
}

func (r *fakeInvoiceRepo) NextNumber(prefix string) (int64, error) {
	r.seq[prefix]++
	return r.seq[prefix], nil
}

func (r *fakeInvoiceRepo) UpdateStatus(id, status string) error {
	inv, ok := r.invoices[id]
	if !ok {
		return fmt.Errorf("facture inconnue %s", id)
	}
	inv.Status = status
	return nil
}

func (r *fakeInvoiceRepo) MarkPaid(id string, paidDate time.Time) error {
	inv, ok := r.invoices[id]
	if !ok {
		return fmt.Errorf("facture inconnue %s", id)
	}
	inv.Status = entity.InvoiceStatusPaid
	inv.PaidDate = &paidDate
	return nil
}

func (r *fakeInvoiceRepo) SetPaymentLink(id, link, linkID string) error {
	inv, ok := r.invoices[id]
	if !ok {
		return fmt.Errorf("facture inconnue %s", id)
	}
	inv.PaymentLink = link
	inv.PaymentLinkID = linkID
	return nil
}

// invoicesOf renvoie les factures issues du proforma, annulées comprises.
func (r *fakeInvoiceRepo) invoicesOf(quoteID string) []*entity.Invoice {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.SourceQuoteID == quoteID {
			out = append(out, inv)
		}
	}
	return out
}

// fakeTxRunner exécute la fonction directement sur le repo mémoire, sans
// transaction réelle.
type fakeTxRunner struct {
	repo *fakeInvoiceRepo
}

func (t *fakeTxRunner) RunConversion(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	return fn(t.repo)
}

// flakyTxRunner simule des écritures concurrentes : les premiers passages
// échouent en ErrConcurrentWrite, les suivants aboutissent.
type flakyTxRunner struct {
	repo     *fakeInvoiceRepo
	failures int
	calls    int
}

func (t *flakyTxRunner) RunConversion(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	t.calls++
	if t.calls <= t.failures {
		return domain.ErrConcurrentWrite
	}
	return fn(t.repo)
}

type fakeProjectRepo struct{}

func (fakeProjectRepo) GetByID(string) (*entity.Project, error) { return nil, nil }

type fakeClientRepo struct{}

func (fakeClientRepo) GetByID(string) (*entity.Client, error)            { return nil, nil }
func (fakeClientRepo) List() ([]*entity.Client, error)                   { return nil, nil }
func (fakeClientRepo) FindByPhoneSuffix(string) ([]*entity.Client, error) { return nil, nil }

// ──────────────────────────────────────────────────────────────────────────────
// Montage
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

// seedQuote insère un proforma de 20 000 XOF avec deux lignes :
// dev (10 jours x 1 000) et maquettes (5 x 2 000).
func seedQuote(repo *fakeInvoiceRepo) (quoteID, lineDevID, lineMaqID string) {
	quoteID, lineDevID, lineMaqID = "quote-1", "line-dev", "line-maq"
	repo.invoices[quoteID] = &entity.Invoice{
		ID:          quoteID,
		Type:        entity.InvoiceTypeProforma,
		Number:      "PRO-000001",
		Amount:      decimal.NewFromInt(20000),
		Status:      entity.InvoiceStatusPending,
		ClientName:  "Aminata Kouassi",
		ClientEmail: "aminata@exemple.ci",
		CreatedAt:   time.Now(),
	}
	repo.items[quoteID] = []*entity.InvoiceItem{
		{
			ID:        lineDevID,
			InvoiceID: quoteID,
			Name:      "Développement",
			Unit:      "jour",
			Quantity:  decimal.NewFromInt(10),
			UnitPrice: decimal.NewFromInt(1000),
			Total:     decimal.NewFromInt(10000),
		},
		{
			ID:        lineMaqID,
			InvoiceID: quoteID,
			Name:      "Maquettes",
			Unit:      "unité",
			Quantity:  decimal.NewFromInt(5),
			UnitPrice: decimal.NewFromInt(2000),
			Total:     decimal.NewFromInt(10000),
		},
	}
	return quoteID, lineDevID, lineMaqID
}

func newConvertUC(repo *fakeInvoiceRepo) *billing.ConvertQuoteUseCase {
	return newConvertUCWithRunner(&fakeTxRunner{repo: repo}, repo)
}

func newConvertUCWithRunner(runner billing.ConversionTxRunner, repo *fakeInvoiceRepo) *billing.ConvertQuoteUseCase {
	return billing.NewConvertQuoteUseCase(
		runner, repo, fakeProjectRepo{}, fakeClientRepo{},
		nil, nil, testLogger(),
		billing.ConvertConfig{InvoicePrefix: "FAC", Currency: "XOF"},
	)
}

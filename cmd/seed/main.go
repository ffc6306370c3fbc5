// seed insère un jeu de données de démonstration : clients, prestataires, un
// projet et un proforma avec ses lignes de prestation.
//
// Usage : go run ./cmd/seed
// Nécessite les mêmes variables d'environnement que l'API (DATABASE_URL…).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/koffiyao/freelance-api/internal/domain/entity"
	"github.com/koffiyao/freelance-api/internal/infrastructure/postgres"
	"github.com/koffiyao/freelance-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("chargement de la configuration", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("connexion à PostgreSQL", err)
	}
	defer pool.Close()

	clientID := uuid.New().String()
	providerID := uuid.New().String()
	projectID := uuid.New().String()

	_, err = pool.Exec(ctx, `
		INSERT INTO clients (id, name, email, phone, address)
		VALUES ($1, 'Aminata Kouassi', 'aminata@exemple.ci', '+225 07 09 55 44 33', 'Cocody, Abidjan')`,
		clientID)
	if err != nil {
		fail("insertion client", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO providers (id, name, email, phone, service)
		VALUES ($1, 'Ibrahim Traoré', 'ibrahim@exemple.ci', '+225 05 44 22 11 00', 'Hébergement web')`,
		providerID)
	if err != nil {
		fail("insertion prestataire", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO projects (id, client_id, name, status)
		VALUES ($1, $2, 'Refonte du site vitrine', 'ACTIVE')`,
		projectID, clientID)
	if err != nil {
		fail("insertion projet", err)
	}

	// Proforma de démonstration : 10 jours de développement + 5 maquettes.
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	n, err := invoiceRepo.NextNumber(cfg.Recon.QuotePrefix)
	if err != nil {
		fail("numérotation", err)
	}
	now := time.Now()
	quote := &entity.Invoice{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		Type:          entity.InvoiceTypeProforma,
		Number:        fmt.Sprintf("%s-%06d", cfg.Recon.QuotePrefix, n),
		Amount:        decimal.NewFromInt(20000),
		Status:        entity.InvoiceStatusPending,
		ClientName:    "Aminata Kouassi",
		ClientEmail:   "aminata@exemple.ci",
		ClientPhone:   "+225 07 09 55 44 33",
		ClientAddress: "Cocody, Abidjan",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := invoiceRepo.Create(quote); err != nil {
		fail("insertion proforma", err)
	}

	lines := []*entity.InvoiceItem{
		{
			InvoiceID: quote.ID,
			Name:      "Développement",
			Unit:      "jour",
			Quantity:  decimal.NewFromInt(10),
			UnitPrice: decimal.NewFromInt(1000),
			Total:     decimal.NewFromInt(10000),
		},
		{
			InvoiceID: quote.ID,
			Name:      "Maquettes",
			Unit:      "unité",
			Quantity:  decimal.NewFromInt(5),
			UnitPrice: decimal.NewFromInt(2000),
			Total:     decimal.NewFromInt(10000),
		},
	}
	for _, line := range lines {
		if err := invoiceRepo.CreateItem(line); err != nil {
			fail("insertion ligne de prestation", err)
		}
	}

	fmt.Printf("Jeu de démonstration inséré.\n  client     %s\n  prestataire %s\n  projet     %s\n  proforma   %s (%s)\n",
		clientID, providerID, projectID, quote.ID, quote.Number)
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}

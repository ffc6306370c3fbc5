package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/koffiyao/freelance-api/internal/application/billing"
	"github.com/koffiyao/freelance-api/internal/application/reconcile"
	"github.com/koffiyao/freelance-api/internal/domain/repository"
)

// RouterDeps dépendances du router.
type RouterDeps struct {
	ConvertQuote *billing.ConvertQuoteUseCase
	Ledger       *billing.ConversionLedger
	InvoiceUC    *billing.InvoiceUseCase
	Transactions *reconcile.TransactionsUseCase
	AssignUC     *reconcile.AssignUseCase
	LifecycleUC  *reconcile.LifecycleUseCase
	ClientRepo   repository.ClientRepository
	ProviderRepo repository.ProviderRepository
}

// Router enregistre les routes de l'API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Facturation : conversion proforma → facture
	billingHandler := NewBillingHandler(deps.ConvertQuote, deps.Ledger, deps.InvoiceUC)
	quotes := api.Group("/quotes")
	quotes.Get("/:id/remaining", billingHandler.GetRemaining)
	quotes.Post("/:id/convert", billingHandler.ConvertQuote)

	invoices := api.Group("/invoices")
	invoices.Get("/:id", billingHandler.GetInvoice)
	invoices.Get("/:id/pdf", billingHandler.DownloadPDF)
	invoices.Post("/:id/cancel", billingHandler.CancelInvoice)

	// Réconciliation : transactions, affectations, cycle de vie
	reconcileHandler := NewReconcileHandler(deps.Transactions, deps.AssignUC, deps.LifecycleUC)
	api.Get("/balance", reconcileHandler.Balance)

	transactions := api.Group("/transactions")
	transactions.Get("/", reconcileHandler.ListTransactions)
	transactions.Put("/:id/assignment", reconcileHandler.Assign)
	transactions.Delete("/:id/assignment", reconcileHandler.Unassign)
	transactions.Post("/:id/refund", reconcileHandler.Refund)
	transactions.Post("/:id/reverse", reconcileHandler.Reverse)

	assignments := api.Group("/assignments")
	assignments.Post("/:id/resolve", reconcileHandler.ResolveConflict)

	payouts := api.Group("/payouts")
	payouts.Post("/", reconcileHandler.SendPayout)
	payouts.Post("/:id/cancel", reconcileHandler.CancelPending)

	// Annuaire
	directoryHandler := NewDirectoryHandler(deps.ClientRepo, deps.ProviderRepo)
	api.Get("/clients", directoryHandler.ListClients)
	api.Get("/providers", directoryHandler.ListProviders)
}

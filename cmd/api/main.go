package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/koffiyao/freelance-api/internal/application/billing"
	"github.com/koffiyao/freelance-api/internal/application/reconcile"
	infmail "github.com/koffiyao/freelance-api/internal/infrastructure/mail"
	infpdf "github.com/koffiyao/freelance-api/internal/infrastructure/pdf"
	"github.com/koffiyao/freelance-api/internal/infrastructure/postgres"
	"github.com/koffiyao/freelance-api/internal/infrastructure/wave"
	httpRouter "github.com/koffiyao/freelance-api/internal/interfaces/http"
	"github.com/koffiyao/freelance-api/pkg/config"
	"github.com/koffiyao/freelance-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("chargement de la configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("démarrage de l'application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à PostgreSQL")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	providerRepo := postgres.NewProviderRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	assignmentRepo := postgres.NewAssignmentRepository(pool)
	payoutRepo := postgres.NewPayoutRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	waveClient := wave.NewClient(cfg.Wave, log)
	notifier := infmail.NewSendGridNotifier(cfg.Mail, log)
	pdfGenerator := infpdf.NewMarotoInvoiceGenerator(infpdf.Issuer{
		Name:  cfg.Mail.FromName,
		Email: cfg.Mail.FromEmail,
	})

	tolerance, err := decimal.NewFromString(cfg.Recon.AmountTolerance)
	if err != nil {
		log.Fatal().Err(err).Str("valeur", cfg.Recon.AmountTolerance).Msg("tolérance de montant invalide")
	}

	// Facturation
	convertUC := billing.NewConvertQuoteUseCase(
		txRunner, invoiceRepo, projectRepo, clientRepo,
		waveClient, notifier, log,
		billing.ConvertConfig{
			InvoicePrefix: cfg.Recon.InvoicePrefix,
			Currency:      cfg.Wave.Currency,
			SuccessURL:    cfg.Wave.SuccessURL,
			ErrorURL:      cfg.Wave.ErrorURL,
		},
	)
	ledger := billing.NewConversionLedger(invoiceRepo)
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, pdfGenerator)

	// Réconciliation
	lifecycleCfg := reconcile.LifecycleConfig{
		ReversalWindow: time.Duration(cfg.Recon.ReversalWindowHours) * time.Hour,
		PendingWindow:  time.Duration(cfg.Recon.PendingWindowMinutes) * time.Minute,
		Currency:       cfg.Wave.Currency,
	}
	matcher := reconcile.NewMatcher(clientRepo, providerRepo, cfg.Recon.PhoneSuffixLen)
	assignUC := reconcile.NewAssignUseCase(
		waveClient, matcher, assignmentRepo, invoiceRepo, clientRepo, providerRepo, log, tolerance,
	)
	lifecycleUC := reconcile.NewLifecycleUseCase(waveClient, payoutRepo, log, lifecycleCfg)
	transactionsUC := reconcile.NewTransactionsUseCase(waveClient, assignmentRepo, payoutRepo, log, lifecycleCfg)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ConvertQuote: convertUC,
		Ledger:       ledger,
		InvoiceUC:    invoiceUC,
		Transactions: transactionsUC,
		AssignUC:     assignUC,
		LifecycleUC:  lifecycleUC,
		ClientRepo:   clientRepo,
		ProviderRepo: providerRepo,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP terminé")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("arrêt en cours")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur HTTP")
	}
	log.Info().Msg("arrêt terminé")
}

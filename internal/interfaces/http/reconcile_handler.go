package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/koffiyao/freelance-api/internal/application/dto"
	"github.com/koffiyao/freelance-api/internal/application/reconcile"
)

// ReconcileHandler requêtes HTTP du moteur de réconciliation : flux de
// transactions, affectations, conflits et cycle de vie des paiements.
type ReconcileHandler struct {
	transactionsUC *reconcile.TransactionsUseCase
	assignUC       *reconcile.AssignUseCase
	lifecycleUC    *reconcile.LifecycleUseCase
}

// NewReconcileHandler construit le handler.
func NewReconcileHandler(
	transactionsUC *reconcile.TransactionsUseCase,
	assignUC *reconcile.AssignUseCase,
	lifecycleUC *reconcile.LifecycleUseCase,
) *ReconcileHandler {
	return &ReconcileHandler{transactionsUC: transactionsUC, assignUC: assignUC, lifecycleUC: lifecycleUC}
}

// ListTransactions liste les transactions d'une journée avec leurs
// affectations et les actions possibles.
// GET /api/transactions?date=2006-01-02&cursor=...
func (h *ReconcileHandler) ListTransactions(c *fiber.Ctx) error {
	resp, err := h.transactionsUC.List(c.Context(), c.Query("date"), c.Query("cursor"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Balance renvoie le solde du compte mobile money.
// GET /api/balance
func (h *ReconcileHandler) Balance(c *fiber.Ctx) error {
	resp, err := h.lifecycleUC.Balance(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Assign affecte une transaction à la comptabilité interne. Une ré-affectation
// écrase l'affectation existante.
// PUT /api/transactions/:id/assignment
func (h *ReconcileHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	resp, err := h.assignUC.Assign(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// ResolveConflict tranche un conflit en choisissant l'un des candidats
// proposés lors de l'affectation.
// POST /api/assignments/:id/resolve
func (h *ReconcileHandler) ResolveConflict(c *fiber.Ctx) error {
	var in dto.ResolveConflictRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	resp, err := h.assignUC.ResolveConflict(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Unassign supprime l'affectation d'une transaction. La transaction elle-même
// et une éventuelle facture déjà payée restent intactes.
// DELETE /api/transactions/:id/assignment
func (h *ReconcileHandler) Unassign(c *fiber.Ctx) error {
	if err := h.assignUC.Unassign(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Refund rembourse un encaissement.
// POST /api/transactions/:id/refund
func (h *ReconcileHandler) Refund(c *fiber.Ctx) error {
	resp, err := h.lifecycleUC.Refund(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Reverse annule un paiement sortant réglé, dans la fenêtre de 72 h.
// POST /api/transactions/:id/reverse
func (h *ReconcileHandler) Reverse(c *fiber.Ctx) error {
	resp, err := h.lifecycleUC.Reverse(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// SendPayout passe un ordre d'envoi d'argent.
// POST /api/payouts
func (h *ReconcileHandler) SendPayout(c *fiber.Ctx) error {
	var in dto.SendPayoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	resp, err := h.lifecycleUC.SendPayout(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// CancelPending interrompt un paiement encore en traitement.
// POST /api/payouts/:id/cancel
func (h *ReconcileHandler) CancelPending(c *fiber.Ctx) error {
	resp, err := h.lifecycleUC.CancelPending(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/koffiyao/freelance-api/internal/application/dto"
	"github.com/koffiyao/freelance-api/internal/domain"
)

// writeError traduit une erreur applicative en réponse HTTP. Les erreurs
// passerelle conservent leur code Wave d'origine dans gateway_code.
func writeError(c *fiber.Ctx, err error) error {
	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Code: "GATEWAY", Message: gwErr.Message, GatewayCode: gwErr.Code,
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status(c, fiber.StatusNotFound, "NOT_FOUND", "ressource introuvable")
	case errors.Is(err, domain.ErrTransactionNotFound):
		return status(c, fiber.StatusNotFound, "TRANSACTION_NOT_FOUND", "transaction introuvable à la passerelle")
	case errors.Is(err, domain.ErrEmptySelection):
		return status(c, fiber.StatusBadRequest, "EMPTY_SELECTION", "aucune ligne sélectionnée")
	case errors.Is(err, domain.ErrInvalidSelection):
		return status(c, fiber.StatusUnprocessableEntity, "INVALID_SELECTION", "sélection au-delà du restant facturable")
	case errors.Is(err, domain.ErrQuoteConverted):
		return status(c, fiber.StatusConflict, "QUOTE_CONVERTED", "proforma déjà entièrement converti")
	case errors.Is(err, domain.ErrConcurrentWrite):
		return status(c, fiber.StatusConflict, "CONCURRENT_WRITE", "conversion concurrente, réessayez")
	case errors.Is(err, domain.ErrAmbiguousAssignment):
		return status(c, fiber.StatusConflict, "AMBIGUOUS_ASSIGNMENT", "affectation ambiguë")
	case errors.Is(err, domain.ErrNotInConflict):
		return status(c, fiber.StatusConflict, "NOT_IN_CONFLICT", "l'affectation n'est pas en conflit")
	case errors.Is(err, domain.ErrCandidateNotOffered):
		return status(c, fiber.StatusUnprocessableEntity, "CANDIDATE_NOT_OFFERED", "candidat hors de l'ensemble proposé")
	case errors.Is(err, domain.ErrInvalidAssignmentTx):
		return status(c, fiber.StatusUnprocessableEntity, "INVALID_TRANSACTION", "transaction non affectable")
	case errors.Is(err, domain.ErrReversalWindowExpired):
		return status(c, fiber.StatusUnprocessableEntity, "WINDOW_EXPIRED", "fenêtre d'annulation dépassée")
	case errors.Is(err, domain.ErrNotReversible):
		return status(c, fiber.StatusUnprocessableEntity, "NOT_REVERSIBLE", "transaction non annulable")
	case errors.Is(err, domain.ErrNotRefundable):
		return status(c, fiber.StatusUnprocessableEntity, "NOT_REFUNDABLE", "transaction non remboursable")
	case errors.Is(err, domain.ErrAlreadyRefunded):
		return status(c, fiber.StatusConflict, "ALREADY_REFUNDED", "transaction déjà compensée")
	case errors.Is(err, domain.ErrPayoutNotCancellable):
		return status(c, fiber.StatusConflict, "NOT_CANCELLABLE", "le paiement n'est plus en traitement")
	case errors.Is(err, domain.ErrDuplicate):
		return status(c, fiber.StatusConflict, "DUPLICATE", "ressource déjà existante")
	case errors.Is(err, domain.ErrInvalidInput):
		return status(c, fiber.StatusBadRequest, "VALIDATION", "données invalides")
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func status(c *fiber.Ctx, code int, appCode, message string) error {
	return c.Status(code).JSON(dto.ErrorResponse{Code: appCode, Message: message})
}

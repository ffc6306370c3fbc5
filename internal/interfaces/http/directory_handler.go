package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/koffiyao/freelance-api/internal/domain/repository"
)

// DirectoryHandler consultation de l'annuaire (clients et prestataires).
type DirectoryHandler struct {
	clientRepo   repository.ClientRepository
	providerRepo repository.ProviderRepository
}

func NewDirectoryHandler(clientRepo repository.ClientRepository, providerRepo repository.ProviderRepository) *DirectoryHandler {
	return &DirectoryHandler{clientRepo: clientRepo, providerRepo: providerRepo}
}

type contactResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Service string `json:"service,omitempty"`
}

// ListClients liste les clients.
// GET /api/clients
func (h *DirectoryHandler) ListClients(c *fiber.Ctx) error {
	clients, err := h.clientRepo.List()
	if err != nil {
		return writeError(c, err)
	}
	out := make([]contactResponse, 0, len(clients))
	for _, cl := range clients {
		out = append(out, contactResponse{ID: cl.ID, Name: cl.Name, Email: cl.Email, Phone: cl.Phone, Address: cl.Address})
	}
	return c.JSON(out)
}

// ListProviders liste les prestataires.
// GET /api/providers
func (h *DirectoryHandler) ListProviders(c *fiber.Ctx) error {
	providers, err := h.providerRepo.List()
	if err != nil {
		return writeError(c, err)
	}
	out := make([]contactResponse, 0, len(providers))
	for _, p := range providers {
		out = append(out, contactResponse{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone, Service: p.Service})
	}
	return c.JSON(out)
}

package http

import (
	"cah-online/internal/cards/domain/model"

	"github.com/gofiber/fiber/v2"
)

// CardsHTTPHandler serves the card sets loaded at startup.
type CardsHTTPHandler struct {
	sets []model.CardSet
}

func NewCardsHTTPHandler(sets []model.CardSet) *CardsHTTPHandler {
	if sets == nil {
		sets = []model.CardSet{}
	}
	return &CardsHTTPHandler{sets: sets}
}

// SetupRoutes registers the card routes on router.
func (h *CardsHTTPHandler) SetupRoutes(router fiber.Router) {
	router.Get("/", h.ListCardSets)
}

// ListCardSets handles GET /
func (h *CardsHTTPHandler) ListCardSets(c *fiber.Ctx) error {
	return c.JSON(h.sets)
}

package cards

import (
	"cah-online/internal/cards/adapter/file"
	cardshttp "cah-online/internal/cards/adapter/http"
	"cah-online/internal/cards/domain/model"
	"cah-online/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// CardsModule owns the immutable card data for the lifetime of the process.
type CardsModule struct {
	sets    []model.CardSet
	handler *cardshttp.CardsHTTPHandler
}

// NewCardsModule loads the card data file at path.
func NewCardsModule(path string, log logger.Logger) (*CardsModule, error) {
	sets, err := file.LoadCardSets(path)
	if err != nil {
		return nil, err
	}
	if log != nil {
		white, black := model.Counts(sets)
		log.WithComponent("cards").Infof("Loaded %d card sets (%d white, %d black) from %s", len(sets), white, black, path)
	}
	return NewCardsModuleFromSets(sets), nil
}

// NewCardsModuleFromSets wraps already loaded card sets.
func NewCardsModuleFromSets(sets []model.CardSet) *CardsModule {
	return &CardsModule{
		sets:    sets,
		handler: cardshttp.NewCardsHTTPHandler(sets),
	}
}

// CardSets returns the loaded sets.
func (m *CardsModule) CardSets() []model.CardSet {
	return m.sets
}

// RegisterRoutes registers card routes with the provided router
func (m *CardsModule) RegisterRoutes(router fiber.Router) {
	m.handler.SetupRoutes(router)
}

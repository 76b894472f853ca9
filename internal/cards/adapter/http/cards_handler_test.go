package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	cardshttp "cah-online/internal/cards/adapter/http"
	"cah-online/internal/cards/domain/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCardSets(t *testing.T) {
	desc := "test pack"
	sets := []model.CardSet{{
		Name:        "Test",
		Description: &desc,
		Official:    true,
		White:       []model.WhiteCard{{Text: "Bees?", Pack: 0}},
		Black:       []model.BlackCard{{Text: "What's that smell?", Pick: 1, Pack: 0}},
	}}

	app := fiber.New()
	cardshttp.NewCardsHTTPHandler(sets).SetupRoutes(app.Group("/api/cards"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/cards", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var got []model.CardSet
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, sets, got)
}

func TestListCardSets_EmptyIsArray(t *testing.T) {
	app := fiber.New()
	cardshttp.NewCardsHTTPHandler(nil).SetupRoutes(app.Group("/api/cards"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/cards", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

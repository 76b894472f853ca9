package file

import (
	"encoding/json"
	"fmt"
	"os"

	"cah-online/internal/cards/domain/model"
)

// LoadCardSets reads the JSON array of card sets at path.
func LoadCardSets(path string) ([]model.CardSet, error) {
	if path == "" {
		return nil, fmt.Errorf("card data path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card data %s: %w", path, err)
	}

	var sets []model.CardSet
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("failed to parse card data %s: %w", path, err)
	}
	return sets, nil
}

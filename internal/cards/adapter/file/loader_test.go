package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[
  {
    "name": "Base Set",
    "description": null,
    "official": true,
    "white": [{"text": "A lifetime of sadness.", "pack": 0}, {"text": "Puppies!", "pack": 0}],
    "black": [{"text": "Why can't I sleep at night?", "pick": 1, "pack": 0}]
  },
  {
    "name": "Homebrew",
    "description": "House rules",
    "official": false,
    "white": [],
    "black": [{"text": "_ + _ = _.", "pick": 2, "pack": 1}]
  }
]`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCardSets(t *testing.T) {
	sets, err := LoadCardSets(writeFile(t, sample))
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, "Base Set", sets[0].Name)
	assert.Nil(t, sets[0].Description)
	assert.True(t, sets[0].Official)
	assert.Len(t, sets[0].White, 2)

	require.NotNil(t, sets[1].Description)
	assert.Equal(t, "House rules", *sets[1].Description)
	assert.Equal(t, 2, sets[1].Black[0].Pick)
	assert.Equal(t, 1, sets[1].Black[0].Pack)
}

func TestLoadCardSets_Errors(t *testing.T) {
	_, err := LoadCardSets("")
	assert.Error(t, err)

	_, err = LoadCardSets(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadCardSets(writeFile(t, `{"not": "an array"}`))
	assert.ErrorContains(t, err, "failed to parse")
}

func TestLoadCardSets_ContentIsNotValidated(t *testing.T) {
	sets, err := LoadCardSets(writeFile(t, `[{"name":"x","description":null,"official":false,"white":[],"black":[{"text":"_","pick":0,"pack":0}]}]`))
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, 0, sets[0].Black[0].Pick)
}

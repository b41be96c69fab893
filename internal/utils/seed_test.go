package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/FlagBrew/local-pokedex/internal/catalog"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/FlagBrew/local-pokedex/internal/testing/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

const seedJSON = `{
  "regions": [{"name": "Kanto"}, {"name": "Johto"}],
  "pokemon": [
    {"name": "Bulbasaur", "region": "Kanto", "attack": 49, "health": 45, "defense": 49, "speed": 45, "image": "images/bulbasaur.png"},
    {"name": "Charmander", "region": "Kanto", "attack": 52, "health": 39, "defense": 43, "speed": 65},
    {"name": "Chikorita", "region": "Johto", "attack": 49, "health": 45, "defense": 65, "speed": 45}
  ],
  "packs": [
    {
      "name": "Starter Pack",
      "price": "4.99",
      "bronze_chance": 0.6,
      "silver_chance": 0.25,
      "gold_chance": 0.1,
      "platinum_chance": 0.04,
      "diamond_chance": 0.01,
      "image": "images/bulbasaur.png",
      "pokemon": ["Bulbasaur", "Charmander", "Charmander"]
    }
  ]
}`

func writeSeed(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "bulbasaur.png"), pngHeader, 0o600))

	path := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSeed(t *testing.T) {
	svc := catalog.New(testdb.New(t))
	ctx := context.Background()
	path := writeSeed(t, seedJSON)

	report, err := Seed(ctx, svc, path)
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{Regions: 2, Pokemon: 3, Packs: 1}, report)

	packs, err := svc.ListPacks(ctx)
	require.NoError(t, err)
	require.Len(t, packs, 1)
	assert.Equal(t, models.Price(499), packs[0].Price)
	assert.True(t, packs[0].HasImage)
	assert.Equal(t, SeedActor, packs[0].CreatedByUserID)

	detail, err := svc.GetPackDetail(ctx, packs[0].ID)
	require.NoError(t, err)
	require.Len(t, detail.Pokemon, 2)
	assert.Equal(t, "Bulbasaur", detail.Pokemon[0].Name)
	assert.Equal(t, "Charmander", detail.Pokemon[1].Name)

	image, err := svc.PokemonImage(ctx, detail.Pokemon[0].ID)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, image)

	// A second run finds everything by name and creates nothing.
	report, err = Seed(ctx, svc, path)
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{Skipped: 6}, report)
}

func TestSeedErrors(t *testing.T) {
	svc := catalog.New(testdb.New(t))
	ctx := context.Background()

	_, err := Seed(ctx, svc, writeSeed(t, `{"regions": [], "bogus": true}`))
	assert.Error(t, err)

	_, err = Seed(ctx, svc, writeSeed(t, `{"pokemon": [{"name": "Mew", "region": "Nowhere"}]}`))
	assert.ErrorContains(t, err, "unknown region")

	_, err = Seed(ctx, svc, writeSeed(t, `{"pokemon": [{"name": "Mew", "region": "Kanto", "image": "missing.png"}]}`))
	assert.ErrorContains(t, err, "reading image")

	_, err = Seed(ctx, svc, writeSeed(t, `{"packs": [{"name": "Empty", "pokemon": ["Missingno"]}]}`))
	assert.ErrorContains(t, err, "unknown pokemon")
}

func TestSeedOnStartClearsFlag(t *testing.T) {
	svc := catalog.New(testdb.New(t))
	ctx := catalog.NewContext(context.Background(), svc)

	configPath := filepath.Join(t.TempDir(), "config.json")
	cfg := validConfig()
	cfg.Misc.SeedFile = writeSeed(t, seedJSON)
	cfg.Misc.SeedOnStart = true

	SeedOnStart(ctx, cfg, configPath, false)
	assert.False(t, cfg.Misc.SeedOnStart)

	saved, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.False(t, saved.Misc.SeedOnStart)
	assert.Equal(t, cfg.Misc.SeedFile, saved.Misc.SeedFile)

	regions, err := svc.ListRegions(ctx)
	require.NoError(t, err)
	assert.Len(t, regions, 2)
}

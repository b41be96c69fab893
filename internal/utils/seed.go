package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FlagBrew/local-pokedex/internal/catalog"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
)

// SeedActor is recorded as the creating user of seeded rows.
const SeedActor = "system:seed"

// SeedFile is the on-disk format of a catalog import. Pokémon refer to
// their region by name and packs to their Pokémon by name. Image paths are
// relative to the seed file.
type SeedFile struct {
	Regions []SeedRegion  `json:"regions"`
	Pokemon []SeedPokemon `json:"pokemon"`
	Packs   []SeedPack    `json:"packs"`
}

type SeedRegion struct {
	Name string `json:"name"`
}

type SeedPokemon struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Attack  int    `json:"attack"`
	Health  int    `json:"health"`
	Defense int    `json:"defense"`
	Speed   int    `json:"speed"`
	Image   string `json:"image,omitempty"`
}

type SeedPack struct {
	Name           string       `json:"name"`
	Price          models.Price `json:"price"`
	BronzeChance   float64      `json:"bronze_chance"`
	SilverChance   float64      `json:"silver_chance"`
	GoldChance     float64      `json:"gold_chance"`
	PlatinumChance float64      `json:"platinum_chance"`
	DiamondChance  float64      `json:"diamond_chance"`
	Image          string       `json:"image,omitempty"`
	Pokemon        []string     `json:"pokemon"`
}

// SeedReport counts what an import created and what already existed.
type SeedReport struct {
	Regions, Pokemon, Packs int
	Skipped                 int
}

// LoadSeedFile decodes path, rejecting unknown keys.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var seed SeedFile
	if err = dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &seed, nil
}

// loadImages reads every referenced image concurrently, keyed by the path
// as written in the seed file.
func loadImages(ctx context.Context, dir string, seed *SeedFile) (map[string][]byte, error) {
	paths := map[string]struct{}{}
	for _, p := range seed.Pokemon {
		if p.Image != "" {
			paths[p.Image] = struct{}{}
		}
	}
	for _, p := range seed.Packs {
		if p.Image != "" {
			paths[p.Image] = struct{}{}
		}
	}

	images := make(map[string][]byte, len(paths))
	results := make(chan struct {
		path string
		data []byte
	}, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			full := path
			if !filepath.IsAbs(full) {
				full = filepath.Join(dir, path)
			}
			data, err := os.ReadFile(full)
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}

			results <- struct {
				path string
				data []byte
			}{path, data}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	close(results)

	for r := range results {
		images[r.path] = r.data
	}
	return images, nil
}

// Seed imports the catalog described by the file at path. Entries whose
// name already exists are skipped, so running it twice is harmless.
func Seed(ctx context.Context, svc *catalog.Service, path string) (*SeedReport, error) {
	logger := log.FromContext(ctx).WithField("seed_file", path)

	seed, err := LoadSeedFile(path)
	if err != nil {
		return nil, err
	}

	images, err := loadImages(ctx, filepath.Dir(path), seed)
	if err != nil {
		return nil, err
	}

	report := &SeedReport{}

	regions, err := svc.ListRegions(ctx)
	if err != nil {
		return nil, err
	}
	regionIDs := make(map[string]int, len(regions))
	for _, r := range regions {
		regionIDs[r.Name] = r.ID
	}

	logger.Info("importing regions")
	for _, r := range seed.Regions {
		if _, ok := regionIDs[r.Name]; ok {
			report.Skipped++
			continue
		}

		created, err := svc.CreateRegion(ctx, SeedActor, catalog.RegionInput{Name: r.Name})
		if err != nil {
			return report, fmt.Errorf("region %q: %w", r.Name, err)
		}
		regionIDs[r.Name] = created.ID
		report.Regions++
	}

	pokemon, err := svc.ListPokemon(ctx)
	if err != nil {
		return report, err
	}
	pokemonIDs := make(map[string]int, len(pokemon))
	for _, p := range pokemon {
		pokemonIDs[p.Name] = p.ID
	}

	logger.Info("importing pokemon")
	for _, p := range seed.Pokemon {
		if _, ok := pokemonIDs[p.Name]; ok {
			report.Skipped++
			continue
		}

		regionID, ok := regionIDs[p.Region]
		if !ok {
			return report, fmt.Errorf("pokemon %q: unknown region %q", p.Name, p.Region)
		}

		created, err := svc.CreatePokemon(ctx, SeedActor, catalog.PokemonInput{
			Name:     p.Name,
			RegionID: regionID,
			Attack:   &p.Attack,
			Health:   &p.Health,
			Defense:  &p.Defense,
			Speed:    &p.Speed,
			Image:    images[p.Image],
		})
		if err != nil {
			return report, fmt.Errorf("pokemon %q: %w", p.Name, err)
		}
		pokemonIDs[p.Name] = created.ID
		report.Pokemon++
	}

	packs, err := svc.ListPacks(ctx)
	if err != nil {
		return report, err
	}
	packNames := make(map[string]bool, len(packs))
	for _, p := range packs {
		packNames[p.Name] = true
	}

	logger.Info("importing packs")
	for _, p := range seed.Packs {
		if packNames[p.Name] {
			report.Skipped++
			continue
		}

		ids := make([]int, 0, len(p.Pokemon))
		for _, name := range p.Pokemon {
			id, ok := pokemonIDs[name]
			if !ok {
				return report, fmt.Errorf("pack %q: unknown pokemon %q", p.Name, name)
			}
			ids = append(ids, id)
		}

		_, err := svc.CreatePack(ctx, SeedActor, catalog.PackInput{
			Name:           p.Name,
			Price:          &p.Price,
			BronzeChance:   &p.BronzeChance,
			SilverChance:   &p.SilverChance,
			GoldChance:     &p.GoldChance,
			PlatinumChance: &p.PlatinumChance,
			DiamondChance:  &p.DiamondChance,
			Image:          images[p.Image],
		}, ids)
		if err != nil {
			return report, fmt.Errorf("pack %q: %w", p.Name, err)
		}
		packNames[p.Name] = true
		report.Packs++
	}

	logger.WithFields(log.Fields{
		"regions": report.Regions,
		"pokemon": report.Pokemon,
		"packs":   report.Packs,
		"skipped": report.Skipped,
	}).Info("seed import complete")

	return report, nil
}

// SeedOnStart runs the configured import when requested by flag or config.
// A successful config-driven import clears SeedOnStart and saves the config
// so the next start does not repeat it.
func SeedOnStart(ctx context.Context, cfg *models.Config, configPath string, force bool) {
	logger := log.FromContext(ctx)
	if !force && !cfg.Misc.SeedOnStart {
		return
	}
	if cfg.Misc.SeedFile == "" {
		logger.Warn("seeding requested but misc.seed_file is empty")
		return
	}

	svc := catalog.FromContext(ctx)
	if svc == nil {
		logger.Error("catalog service missing from context")
		return
	}

	if _, err := Seed(ctx, svc, cfg.Misc.SeedFile); err != nil {
		logger.WithError(err).Error("failed to import seed file")
		return
	}

	if cfg.Misc.SeedOnStart {
		cfg.Misc.SeedOnStart = false
		SetConfig(ctx, configPath, cfg)
	}
}

package packs

import (
	"github.com/FlagBrew/local-pokedex/internal/catalog"
	"github.com/FlagBrew/local-pokedex/internal/handlers"
	"github.com/FlagBrew/local-pokedex/internal/models"
)

// packRequest mirrors the pack form. Every field arrives as text so that a
// blank value can be told apart from zero.
type packRequest struct {
	Name               string `json:"name" form:"name"`
	Price              string `json:"price" form:"price"`
	BronzeChance       string `json:"bronze_chance" form:"bronze_chance"`
	SilverChance       string `json:"silver_chance" form:"silver_chance"`
	GoldChance         string `json:"gold_chance" form:"gold_chance"`
	PlatinumChance     string `json:"platinum_chance" form:"platinum_chance"`
	DiamondChance      string `json:"diamond_chance" form:"diamond_chance"`
	Version            string `json:"version" form:"version"`
	SelectedPokemonIDs string `json:"selected_pokemon_ids" form:"selected_pokemon_ids"`
}

// input converts the form into service input. Conversion problems are
// reported per field, the same way the service reports its own checks.
func (p *packRequest) input(image []byte) (catalog.PackInput, []int, error) {
	in := catalog.PackInput{Name: p.Name, Image: image}
	var errs handlers.FieldErrors

	if p.Price != "" {
		price, err := models.ParsePrice(p.Price)
		errs.Add("price", err)
		if err == nil {
			in.Price = &price
		}
	}

	var err error
	in.BronzeChance, err = handlers.OptionalFloat(p.BronzeChance)
	errs.Add("bronze_chance", err)
	in.SilverChance, err = handlers.OptionalFloat(p.SilverChance)
	errs.Add("silver_chance", err)
	in.GoldChance, err = handlers.OptionalFloat(p.GoldChance)
	errs.Add("gold_chance", err)
	in.PlatinumChance, err = handlers.OptionalFloat(p.PlatinumChance)
	errs.Add("platinum_chance", err)
	in.DiamondChance, err = handlers.OptionalFloat(p.DiamondChance)
	errs.Add("diamond_chance", err)

	version, err := handlers.OptionalInt(p.Version)
	errs.Add("version", err)
	if version != nil {
		in.Version = *version
	}

	ids, err := catalog.ParseIDList(p.SelectedPokemonIDs)
	errs.Merge("selected_pokemon_ids", err)

	if verr := errs.Err(); verr != nil {
		return in, nil, verr
	}
	return in, ids, nil
}

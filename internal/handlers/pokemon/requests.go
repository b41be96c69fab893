package pokemon

import (
	"github.com/FlagBrew/local-pokedex/internal/catalog"
	"github.com/FlagBrew/local-pokedex/internal/handlers"
)

type pokemonRequest struct {
	Name     string `json:"name" form:"name"`
	RegionID string `json:"region_id" form:"region_id"`
	Attack   string `json:"attack" form:"attack"`
	Health   string `json:"health" form:"health"`
	Defense  string `json:"defense" form:"defense"`
	Speed    string `json:"speed" form:"speed"`
	Version  string `json:"version" form:"version"`
}

func (p *pokemonRequest) input(image []byte) (catalog.PokemonInput, error) {
	in := catalog.PokemonInput{Name: p.Name, Image: image}
	var errs handlers.FieldErrors

	regionID, err := handlers.OptionalInt(p.RegionID)
	errs.Add("region_id", err)
	if regionID != nil {
		in.RegionID = *regionID
	}

	in.Attack, err = handlers.OptionalInt(p.Attack)
	errs.Add("attack", err)
	in.Health, err = handlers.OptionalInt(p.Health)
	errs.Add("health", err)
	in.Defense, err = handlers.OptionalInt(p.Defense)
	errs.Add("defense", err)
	in.Speed, err = handlers.OptionalInt(p.Speed)
	errs.Add("speed", err)

	version, err := handlers.OptionalInt(p.Version)
	errs.Add("version", err)
	if version != nil {
		in.Version = *version
	}

	if verr := errs.Err(); verr != nil {
		return in, verr
	}
	return in, nil
}

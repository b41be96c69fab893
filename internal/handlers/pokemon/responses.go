package pokemon

import "github.com/FlagBrew/local-pokedex/internal/models"

type pokemonListResponse struct {
	Total   int               `json:"total"`
	Pokemon []*models.Pokemon `json:"pokemon"`
}

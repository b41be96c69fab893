package packs

import "github.com/FlagBrew/local-pokedex/internal/models"

type packListResponse struct {
	Total int            `json:"total"`
	Packs []*models.Pack `json:"packs"`
}

type optionsResponse struct {
	Available []models.PokemonRef `json:"available_pokemon"`
}

type membershipsResponse struct {
	PackID      int                      `json:"pack_id"`
	Memberships []*models.PackMembership `json:"memberships"`
}

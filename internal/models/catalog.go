package models

import "time"

// Audit carries the who/when stamps shared by every catalog entity. The
// created half is written once; the updated half stays nil until the first
// edit.
type Audit struct {
	CreatedOn       time.Time  `json:"created_on"`
	CreatedByUserID string     `json:"created_by_user_id"`
	UpdatedOn       *time.Time `json:"updated_on,omitempty"`
	UpdatedByUserID *string    `json:"updated_by_user_id,omitempty"`
}

type Region struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Version int    `json:"version"`
	Audit
}

type Pokemon struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RegionID int    `json:"region_id"`
	Attack   int    `json:"attack"`
	Health   int    `json:"health"`
	Defense  int    `json:"defense"`
	Speed    int    `json:"speed"`
	Image    []byte `json:"-"`
	HasImage bool   `json:"has_image"`
	Version  int    `json:"version"`
	Audit
}

type Pack struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Price          Price   `json:"price"`
	Image          []byte  `json:"-"`
	HasImage       bool    `json:"has_image"`
	BronzeChance   float64 `json:"bronze_chance"`
	SilverChance   float64 `json:"silver_chance"`
	GoldChance     float64 `json:"gold_chance"`
	PlatinumChance float64 `json:"platinum_chance"`
	DiamondChance  float64 `json:"diamond_chance"`
	TotalBought    int     `json:"total_bought"`
	Version        int     `json:"version"`
	Audit
}

type PackMembership struct {
	ID        int        `json:"id"`
	PackID    int        `json:"pack_id"`
	PokemonID int        `json:"pokemon_id"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn *time.Time `json:"updated_on,omitempty"`
}

// PokemonRef is the (id, name) projection used by pack listings and
// selection lists.
type PokemonRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type PackDetail struct {
	Pack    *Pack        `json:"pack"`
	Pokemon []PokemonRef `json:"pokemon"`
}

// PackEditor is what an edit form needs: the pack, the Pokémon currently in
// it, and every other Pokémon that could be added.
type PackEditor struct {
	Pack      *Pack        `json:"pack"`
	Selected  []PokemonRef `json:"selected_pokemon"`
	Available []PokemonRef `json:"available_pokemon"`
}

type RegionDetail struct {
	Region  *Region      `json:"region"`
	Pokemon []PokemonRef `json:"pokemon"`
}

type PokemonDetail struct {
	Pokemon *Pokemon  `json:"pokemon"`
	Region  *Region   `json:"region"`
	Packs   []PackRef `json:"packs"`
}

type PackRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

package pokemon

import (
	"net/http"

	"github.com/FlagBrew/local-pokedex/internal/catalog"
	"github.com/FlagBrew/local-pokedex/internal/handlers"
	"github.com/FlagBrew/local-pokedex/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/lrstanley/chix"
)

type Handler struct {
	maxUpload int64
}

func NewHandler(maxUpload int64) *Handler {
	return &Handler{maxUpload: maxUpload}
}

func (h *Handler) Route(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.detail)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/image", h.image)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	pokemon, err := svc.ListPokemon(r.Context())
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusOK, pokemonListResponse{Total: len(pokemon), Pokemon: pokemon})
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.ID(w, r)
	if !ok {
		return
	}
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	detail, err := svc.GetPokemonDetail(r.Context(), id)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusOK, detail)
}

func (h *Handler) image(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.ID(w, r)
	if !ok {
		return
	}
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	data, err := svc.PokemonImage(r.Context(), id)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	handlers.WriteImage(w, r, data)
}

func (h *Handler) bind(w http.ResponseWriter, r *http.Request) (catalog.PokemonInput, error) {
	if err := handlers.ParseUpload(w, r, h.maxUpload); err != nil {
		return catalog.PokemonInput{}, err
	}

	var payload pokemonRequest
	if err := handlers.Bind(r, &payload); err != nil {
		return catalog.PokemonInput{}, err
	}

	image, err := handlers.Image(r, "image")
	if err != nil {
		return catalog.PokemonInput{}, err
	}

	return payload.input(image)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	in, err := h.bind(w, r)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	pokemon, err := svc.CreatePokemon(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusCreated, pokemon)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.ID(w, r)
	if !ok {
		return
	}
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	in, err := h.bind(w, r)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	pokemon, err := svc.UpdatePokemon(r.Context(), middleware.UserID(r.Context()), id, in)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusOK, pokemon)
}

// delete refuses with 409 while any pack still contains the Pokémon.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.ID(w, r)
	if !ok {
		return
	}
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	if err := svc.DeletePokemon(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		handlers.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

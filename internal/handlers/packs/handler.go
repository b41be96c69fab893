package packs

import (
	"errors"
	"net/http"

	"github.com/FlagBrew/local-pokedex/internal/catalog"
	"github.com/FlagBrew/local-pokedex/internal/handlers"
	"github.com/FlagBrew/local-pokedex/internal/middleware"
	"github.com/FlagBrew/local-pokedex/internal/models"
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
	r.Get("/options", h.options)
	r.Get("/{id}", h.detail)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/edit", h.editor)
	r.Get("/{id}/memberships", h.memberships)
	r.Get("/{id}/image", h.image)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	packs, err := svc.ListPacks(r.Context())
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusOK, packListResponse{Total: len(packs), Packs: packs})
}

// options lists every Pokémon a new pack could contain.
func (h *Handler) options(w http.ResponseWriter, r *http.Request) {
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	refs, err := svc.PokemonOptions(r.Context())
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusOK, optionsResponse{Available: refs})
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

	detail, err := svc.GetPackDetail(r.Context(), id)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusOK, detail)
}

func (h *Handler) editor(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.ID(w, r)
	if !ok {
		return
	}
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	editor, err := svc.PackEditor(r.Context(), id)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusOK, editor)
}

func (h *Handler) memberships(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.ID(w, r)
	if !ok {
		return
	}
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	rows, err := svc.PackMemberships(r.Context(), id)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusOK, membershipsResponse{PackID: id, Memberships: rows})
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

	data, err := svc.PackImage(r.Context(), id)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	handlers.WriteImage(w, r, data)
}

// bind reads the pack form, including an optional "image" file. When some
// fields cannot be converted, the remaining ones are still checked so that
// every problem is reported at once.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, svc *catalog.Service) (catalog.PackInput, []int, error) {
	if err := handlers.ParseUpload(w, r, h.maxUpload); err != nil {
		return catalog.PackInput{}, nil, err
	}

	var payload packRequest
	if err := handlers.Bind(r, &payload); err != nil {
		return catalog.PackInput{}, nil, err
	}

	image, err := handlers.Image(r, "image")
	if err != nil {
		return catalog.PackInput{}, nil, err
	}

	in, ids, err := payload.input(image)
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		verr.Extend(svc.CheckPack(in))
	}
	return in, ids, err
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	in, ids, err := h.bind(w, r, svc)
	if verr, ok := err.(*catalog.ValidationError); ok {
		verr.Available, err = svc.PokemonOptions(r.Context())
		if err == nil {
			err = verr
		}
	}
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	detail, err := svc.CreatePack(r.Context(), middleware.UserID(r.Context()), in, ids)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusCreated, detail)
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

	in, ids, err := h.bind(w, r, svc)
	if verr, ok := err.(*catalog.ValidationError); ok {
		// Offer the form again with the selection as currently stored.
		var editor *models.PackEditor
		if editor, err = svc.PackEditor(r.Context(), id); err == nil {
			verr.Selected, verr.Available = editor.Selected, editor.Available
			err = verr
		}
	}
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	detail, err := svc.UpdatePack(r.Context(), middleware.UserID(r.Context()), id, in, ids)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusOK, detail)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.ID(w, r)
	if !ok {
		return
	}
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	if err := svc.DeletePack(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		handlers.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

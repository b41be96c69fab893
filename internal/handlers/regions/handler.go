package regions

import (
	"net/http"

	"github.com/FlagBrew/local-pokedex/internal/catalog"
	"github.com/FlagBrew/local-pokedex/internal/handlers"
	"github.com/FlagBrew/local-pokedex/internal/middleware"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/lrstanley/chix"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Route(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.detail)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type regionRequest struct {
	Name    string `json:"name" form:"name"`
	Version string `json:"version" form:"version"`
}

type regionListResponse struct {
	Total   int              `json:"total"`
	Regions []*models.Region `json:"regions"`
}

func bind(r *http.Request) (catalog.RegionInput, error) {
	var payload regionRequest
	if err := handlers.Bind(r, &payload); err != nil {
		return catalog.RegionInput{}, err
	}

	in := catalog.RegionInput{Name: payload.Name}
	version, err := handlers.OptionalInt(payload.Version)
	if err != nil {
		var errs handlers.FieldErrors
		errs.Add("version", err)
		return in, errs.Err()
	}
	if version != nil {
		in.Version = *version
	}
	return in, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	regions, err := svc.ListRegions(r.Context())
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusOK, regionListResponse{Total: len(regions), Regions: regions})
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

	detail, err := svc.GetRegionDetail(r.Context(), id)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusOK, detail)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	svc := handlers.ServiceFromRequest(w, r)
	if svc == nil {
		return
	}

	in, err := bind(r)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	region, err := svc.CreateRegion(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusCreated, region)
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

	in, err := bind(r)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	region, err := svc.UpdateRegion(r.Context(), middleware.UserID(r.Context()), id, in)
	if err != nil {
		handlers.Error(w, r, err)
		return
	}

	chix.JSON(w, r, http.StatusOK, region)
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

	if err := svc.DeleteRegion(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		handlers.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package catalog

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

// PackInput holds the caller-editable fields of a pack. Audit stamps and
// the purchase counter are not part of it.
type PackInput struct {
	Name           string        `json:"name" validate:"required,max=100"`
	Price          *models.Price `json:"price" validate:"required,gte=0"`
	BronzeChance   *float64      `json:"bronze_chance" validate:"required,finite"`
	SilverChance   *float64      `json:"silver_chance" validate:"required,finite"`
	GoldChance     *float64      `json:"gold_chance" validate:"required,finite"`
	PlatinumChance *float64      `json:"platinum_chance" validate:"required,finite"`
	DiamondChance  *float64      `json:"diamond_chance" validate:"required,finite"`
	// Image replaces the stored image when non-empty.
	Image []byte `json:"-"`
	// Version, when non-zero, must match the stored version on update.
	Version int `json:"version" validate:"gte=0"`
}

type PokemonInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	RegionID int    `json:"region_id" validate:"required,gt=0"`
	Attack   *int   `json:"attack" validate:"required,gte=0"`
	Health   *int   `json:"health" validate:"required,gte=0"`
	Defense  *int   `json:"defense" validate:"required,gte=0"`
	Speed    *int   `json:"speed" validate:"required,gte=0"`
	Image    []byte `json:"-"`
	Version  int    `json:"version" validate:"gte=0"`
}

type RegionInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Version int    `json:"version" validate:"gte=0"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("finite", finite); err != nil {
		panic(err)
	}
	return v
}

// finite rejects NaN and the infinities.
func finite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return true
}

// CheckPack runs the pack field checks without touching the database.
func (s *Service) CheckPack(in PackInput) *ValidationError {
	return s.check(in, in.Image)
}

// check validates in and, when image is non-empty, that it is an image.
func (s *Service) check(in any, image []byte) *ValidationError {
	verr := &ValidationError{}

	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			verr.Fields = append(verr.Fields, FieldError{Field: "input", Message: err.Error()})
			return verr
		}
		for _, fe := range fieldErrs {
			verr.Fields = append(verr.Fields, FieldError{Field: fe.Field(), Message: describe(fe)})
		}
	}

	if len(image) > 0 {
		if mtype := mimetype.Detect(image); !strings.HasPrefix(mtype.String(), "image/") {
			verr.Fields = append(verr.Fields, FieldError{
				Field:   "image",
				Message: fmt.Sprintf("must be an image, got %s", mtype.String()),
			})
		}
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "finite":
		return "must be a finite number"
	}
	return fmt.Sprintf("failed the %q check", fe.Tag())
}

func checkActor(actor string) *ValidationError {
	if strings.TrimSpace(actor) == "" {
		return invalid("user_id", "an acting user is required")
	}
	return nil
}

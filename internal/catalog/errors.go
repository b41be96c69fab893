package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/FlagBrew/local-pokedex/internal/models"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrConcurrencyConflict  = errors.New("concurrency conflict")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError lists every rejected input field. Pack operations also
// carry the Pokémon selection lists so that a form can be offered again
// exactly as before.
type ValidationError struct {
	Fields    []FieldError        `json:"fields"`
	Selected  []models.PokemonRef `json:"selected_pokemon,omitempty"`
	Available []models.PokemonRef `json:"available_pokemon,omitempty"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.String())
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Extend appends the fields of other that e does not already report.
func (e *ValidationError) Extend(other *ValidationError) {
	if other == nil {
		return
	}
	seen := make(map[string]bool, len(e.Fields))
	for _, f := range e.Fields {
		seen[f.Field] = true
	}
	for _, f := range other.Fields {
		if !seen[f.Field] {
			e.Fields = append(e.Fields, f)
		}
	}
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, ErrNotFound)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConcurrencyConflictError means the row changed between read and write but
// still exists. Callers should re-read before resubmitting.
type ConcurrencyConflictError struct {
	Entity string
	ID     int
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s %d was modified by another request: %s", e.Entity, e.ID, ErrConcurrencyConflict)
}

func (e *ConcurrencyConflictError) Is(target error) bool {
	return target == ErrConcurrencyConflict
}

type ReferentialIntegrityError struct {
	Entity     string
	ID         int
	Dependents string
	Count      int
}

func (e *ReferentialIntegrityError) Error() string {
	if e.Count > 0 {
		return fmt.Sprintf("%s %d still has %d %s: %s", e.Entity, e.ID, e.Count, e.Dependents, ErrReferentialIntegrity)
	}
	return fmt.Sprintf("%s %d still has %s: %s", e.Entity, e.ID, e.Dependents, ErrReferentialIntegrity)
}

func (e *ReferentialIntegrityError) Is(target error) bool {
	return target == ErrReferentialIntegrity
}

// Package catalog implements the back-office operations on regions, Pokémon
// and packs. Every mutating call takes the acting user id explicitly and runs
// in a single transaction.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/FlagBrew/local-pokedex/internal/database"
	"github.com/go-playground/validator/v10"
)

type Service struct {
	db       *database.Client
	validate *validator.Validate
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for audit stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(db *database.Client, opts ...Option) *Service {
	s := &Service{
		db:       db,
		validate: newValidator(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type serviceCtxKey struct{}

func NewContext(ctx context.Context, s *Service) context.Context {
	return context.WithValue(ctx, serviceCtxKey{}, s)
}

func FromContext(ctx context.Context) *Service {
	s, _ := ctx.Value(serviceCtxKey{}).(*Service)
	return s
}

// stamp returns the current time in UTC, truncated to what every supported
// database can store.
func (s *Service) stamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// errStale aborts a transaction whose optimistic version check failed.
var errStale = errors.New("stale version")

// conflictOrMissing decides between ConcurrencyConflict and NotFound once a
// write found its row changed.
func (s *Service) conflictOrMissing(ctx context.Context, entity string, id int, exists func(context.Context, int) (bool, error)) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return &ConcurrencyConflictError{Entity: entity, ID: id}
}

func notFound(err error, entity string, id int) error {
	if errors.Is(err, database.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

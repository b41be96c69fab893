package catalog

import (
	"context"
	"errors"

	"github.com/FlagBrew/local-pokedex/internal/database"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/apex/log"
)

const entityPokemon = "pokemon"

func (s *Service) ListPokemon(ctx context.Context) ([]*models.Pokemon, error) {
	return s.db.ListPokemon(ctx)
}

func (s *Service) GetPokemonDetail(ctx context.Context, id int) (*models.PokemonDetail, error) {
	p, err := s.db.GetPokemon(ctx, id)
	if err != nil {
		return nil, notFound(err, entityPokemon, id)
	}

	region, err := s.db.GetRegion(ctx, p.RegionID)
	if err != nil {
		return nil, err
	}

	packs, err := s.db.PokemonPackRefs(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.PokemonDetail{Pokemon: p, Region: region, Packs: packs}, nil
}

func (s *Service) PokemonImage(ctx context.Context, id int) ([]byte, error) {
	image, err := s.db.PokemonImage(ctx, id)
	return image, notFound(err, entityPokemon, id)
}

func applyPokemonInput(p *models.Pokemon, in PokemonInput) {
	p.Name = in.Name
	p.RegionID = in.RegionID
	p.Attack = *in.Attack
	p.Health = *in.Health
	p.Defense = *in.Defense
	p.Speed = *in.Speed
}

func (s *Service) requireRegion(ctx context.Context, id int) error {
	ok, err := s.db.RegionExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{Entity: entityRegion, ID: id}
	}
	return nil
}

func (s *Service) CreatePokemon(ctx context.Context, actor string, in PokemonInput) (*models.Pokemon, error) {
	if verr := checkActor(actor); verr != nil {
		return nil, verr
	}
	if verr := s.check(in, in.Image); verr != nil {
		return nil, verr
	}
	if err := s.requireRegion(ctx, in.RegionID); err != nil {
		return nil, err
	}

	p := &models.Pokemon{
		Image: in.Image,
		Audit: models.Audit{CreatedOn: s.stamp(), CreatedByUserID: actor},
	}
	applyPokemonInput(p, in)

	var id int
	err := s.db.WithTx(ctx, func(tx *database.Queries) error {
		var err error
		id, err = tx.CreatePokemon(ctx, p)
		return err
	})
	if errors.Is(err, database.ErrForeignKey) {
		return nil, &NotFoundError{Entity: entityRegion, ID: in.RegionID}
	}
	if err != nil {
		return nil, err
	}

	log.FromContext(ctx).WithFields(log.Fields{
		"pokemon_id": id,
		"region_id":  in.RegionID,
		"user_id":    actor,
	}).Info("pokemon created")

	return s.db.GetPokemon(ctx, id)
}

func (s *Service) UpdatePokemon(ctx context.Context, actor string, id int, in PokemonInput) (*models.Pokemon, error) {
	if verr := checkActor(actor); verr != nil {
		return nil, verr
	}

	p, err := s.db.GetPokemon(ctx, id)
	if err != nil {
		return nil, notFound(err, entityPokemon, id)
	}

	if verr := s.check(in, in.Image); verr != nil {
		return nil, verr
	}
	if in.Version != 0 && in.Version != p.Version {
		return nil, &ConcurrencyConflictError{Entity: entityPokemon, ID: id}
	}
	if err = s.requireRegion(ctx, in.RegionID); err != nil {
		return nil, err
	}

	now := s.stamp()
	applyPokemonInput(p, in)
	keepImage := len(in.Image) == 0
	if !keepImage {
		p.Image = in.Image
	}
	p.UpdatedOn = &now
	p.UpdatedByUserID = &actor

	err = s.db.WithTx(ctx, func(tx *database.Queries) error {
		ok, err := tx.UpdatePokemon(ctx, p, keepImage)
		if err != nil {
			return err
		}
		if !ok {
			return errStale
		}
		return nil
	})

	switch {
	case errors.Is(err, errStale):
		return nil, s.conflictOrMissing(ctx, entityPokemon, id, s.db.PokemonExists)
	case errors.Is(err, database.ErrForeignKey):
		return nil, &NotFoundError{Entity: entityRegion, ID: in.RegionID}
	case err != nil:
		return nil, err
	}

	log.FromContext(ctx).WithFields(log.Fields{
		"pokemon_id": id,
		"user_id":    actor,
	}).Info("pokemon updated")

	return s.db.GetPokemon(ctx, id)
}

// DeletePokemon refuses to remove a Pokémon that still belongs to a pack.
func (s *Service) DeletePokemon(ctx context.Context, actor string, id int) error {
	if verr := checkActor(actor); verr != nil {
		return verr
	}

	err := s.db.WithTx(ctx, func(tx *database.Queries) error {
		n, err := tx.CountPokemonMemberships(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return &ReferentialIntegrityError{Entity: entityPokemon, ID: id, Dependents: "pack memberships", Count: n}
		}

		deleted, err := tx.DeletePokemon(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return &NotFoundError{Entity: entityPokemon, ID: id}
		}
		return nil
	})
	if errors.Is(err, database.ErrForeignKey) {
		return &ReferentialIntegrityError{Entity: entityPokemon, ID: id, Dependents: "pack memberships"}
	}
	if err != nil {
		return err
	}

	log.FromContext(ctx).WithFields(log.Fields{
		"pokemon_id": id,
		"user_id":    actor,
	}).Info("pokemon deleted")
	return nil
}

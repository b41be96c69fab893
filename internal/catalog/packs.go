package catalog

import (
	"context"
	"errors"
	"slices"

	"github.com/FlagBrew/local-pokedex/internal/database"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/apex/log"
)

const entityPack = "pack"

func (s *Service) ListPacks(ctx context.Context) ([]*models.Pack, error) {
	return s.db.ListPacks(ctx)
}

// PokemonOptions lists every Pokémon that can be put in a new pack.
func (s *Service) PokemonOptions(ctx context.Context) ([]models.PokemonRef, error) {
	return s.db.PokemonRefs(ctx)
}

// GetPackDetail returns the pack and the (id, name) of its Pokémon. The list
// is derived from the membership rows only.
func (s *Service) GetPackDetail(ctx context.Context, id int) (*models.PackDetail, error) {
	pack, err := s.db.GetPack(ctx, id)
	if err != nil {
		return nil, notFound(err, entityPack, id)
	}

	refs, err := s.db.PackPokemonRefs(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.PackDetail{Pack: pack, Pokemon: refs}, nil
}

// PackEditor returns the pack with its selected Pokémon and every Pokémon
// not yet in it.
func (s *Service) PackEditor(ctx context.Context, id int) (*models.PackEditor, error) {
	pack, err := s.db.GetPack(ctx, id)
	if err != nil {
		return nil, notFound(err, entityPack, id)
	}

	selected, available, err := s.packSelection(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.PackEditor{Pack: pack, Selected: selected, Available: available}, nil
}

func (s *Service) packSelection(ctx context.Context, id int) (selected, available []models.PokemonRef, err error) {
	selected, err = s.db.PackPokemonRefs(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	all, err := s.db.PokemonRefs(ctx)
	if err != nil {
		return nil, nil, err
	}

	available = slices.DeleteFunc(all, func(ref models.PokemonRef) bool {
		return slices.Contains(selected, ref)
	})
	return selected, available, nil
}

func (s *Service) PackMemberships(ctx context.Context, id int) ([]*models.PackMembership, error) {
	ok, err := s.db.PackExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: entityPack, ID: id}
	}
	return s.db.PackMemberships(ctx, id)
}

func (s *Service) PackImage(ctx context.Context, id int) ([]byte, error) {
	image, err := s.db.PackImage(ctx, id)
	return image, notFound(err, entityPack, id)
}

// requirePokemon fails with NotFoundError for the first id that has no
// Pokémon row.
func (s *Service) requirePokemon(ctx context.Context, q *database.Queries, ids []int) error {
	found, err := q.ExistingPokemonIDs(ctx, ids)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if !found[id] {
			return &NotFoundError{Entity: entityPokemon, ID: id}
		}
	}
	return nil
}

func applyPackInput(p *models.Pack, in PackInput) {
	p.Name = in.Name
	p.Price = *in.Price
	p.BronzeChance = *in.BronzeChance
	p.SilverChance = *in.SilverChance
	p.GoldChance = *in.GoldChance
	p.PlatinumChance = *in.PlatinumChance
	p.DiamondChance = *in.DiamondChance
}

// CreatePack stores a new pack and one membership row per distinct id in
// pokemonIDs. Nothing is written unless all of it succeeds.
func (s *Service) CreatePack(ctx context.Context, actor string, in PackInput, pokemonIDs []int) (*models.PackDetail, error) {
	logger := log.FromContext(ctx)

	if verr := checkActor(actor); verr != nil {
		return nil, verr
	}
	if verr := s.check(in, in.Image); verr != nil {
		available, err := s.db.PokemonRefs(ctx)
		if err != nil {
			return nil, err
		}
		verr.Available = available
		return nil, verr
	}

	ids := uniqueIDs(pokemonIDs)
	if err := s.requirePokemon(ctx, s.db.Queries, ids); err != nil {
		return nil, err
	}

	now := s.stamp()
	pack := &models.Pack{
		Image: in.Image,
		Audit: models.Audit{CreatedOn: now, CreatedByUserID: actor},
	}
	applyPackInput(pack, in)

	var id int
	err := s.db.WithTx(ctx, func(tx *database.Queries) error {
		var err error
		if id, err = tx.CreatePack(ctx, pack); err != nil {
			return err
		}
		return tx.AddMemberships(ctx, id, ids, now)
	})
	if errors.Is(err, database.ErrForeignKey) {
		// A selected Pokémon was deleted after the existence check.
		if nerr := s.requirePokemon(ctx, s.db.Queries, ids); nerr != nil {
			return nil, nerr
		}
	}
	if err != nil {
		return nil, err
	}

	logger.WithFields(log.Fields{
		"pack_id": id,
		"pokemon": len(ids),
		"user_id": actor,
	}).Info("pack created")

	return s.GetPackDetail(ctx, id)
}

// UpdatePack replaces the editable fields of a pack and reconciles its
// membership with pokemonIDs. Rows for ids kept in both sets are not
// touched, so they keep their original creation time. The stored image is
// kept when in.Image is empty.
func (s *Service) UpdatePack(ctx context.Context, actor string, id int, in PackInput, pokemonIDs []int) (*models.PackDetail, error) {
	logger := log.FromContext(ctx)

	if verr := checkActor(actor); verr != nil {
		return nil, verr
	}

	pack, err := s.db.GetPack(ctx, id)
	if err != nil {
		return nil, notFound(err, entityPack, id)
	}

	if verr := s.check(in, in.Image); verr != nil {
		if verr.Selected, verr.Available, err = s.packSelection(ctx, id); err != nil {
			return nil, err
		}
		return nil, verr
	}

	if in.Version != 0 && in.Version != pack.Version {
		return nil, &ConcurrencyConflictError{Entity: entityPack, ID: id}
	}

	ids := uniqueIDs(pokemonIDs)
	if err = s.requirePokemon(ctx, s.db.Queries, ids); err != nil {
		return nil, err
	}

	now := s.stamp()
	applyPackInput(pack, in)
	keepImage := len(in.Image) == 0
	if !keepImage {
		pack.Image = in.Image
	}
	pack.UpdatedOn = &now
	pack.UpdatedByUserID = &actor

	var added, removed []int
	err = s.db.WithTx(ctx, func(tx *database.Queries) error {
		ok, err := tx.UpdatePack(ctx, pack, keepImage)
		if err != nil {
			return err
		}
		if !ok {
			return errStale
		}

		current, err := tx.PackPokemonIDs(ctx, id)
		if err != nil {
			return err
		}

		added, removed = reconcile(current, ids)
		if _, err = tx.RemoveMemberships(ctx, id, removed); err != nil {
			return err
		}
		return tx.AddMemberships(ctx, id, added, now)
	})

	switch {
	case errors.Is(err, errStale), errors.Is(err, database.ErrDuplicate):
		return nil, s.conflictOrMissing(ctx, entityPack, id, s.db.PackExists)
	case errors.Is(err, database.ErrForeignKey):
		if nerr := s.requirePokemon(ctx, s.db.Queries, ids); nerr != nil {
			return nil, nerr
		}
		return nil, s.conflictOrMissing(ctx, entityPack, id, s.db.PackExists)
	case err != nil:
		return nil, err
	}

	logger.WithFields(log.Fields{
		"pack_id": id,
		"added":   len(added),
		"removed": len(removed),
		"user_id": actor,
	}).Info("pack updated")

	return s.GetPackDetail(ctx, id)
}

// DeletePack removes the pack's memberships and then the pack itself in one
// transaction.
func (s *Service) DeletePack(ctx context.Context, actor string, id int) error {
	if verr := checkActor(actor); verr != nil {
		return verr
	}

	var removed int64
	err := s.db.WithTx(ctx, func(tx *database.Queries) error {
		var err error
		if removed, err = tx.ClearMemberships(ctx, id); err != nil {
			return err
		}

		deleted, err := tx.DeletePack(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return &NotFoundError{Entity: entityPack, ID: id}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.FromContext(ctx).WithFields(log.Fields{
		"pack_id":     id,
		"memberships": removed,
		"user_id":     actor,
	}).Info("pack deleted")
	return nil
}

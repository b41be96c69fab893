package catalog

import (
	"context"
	"errors"

	"github.com/FlagBrew/local-pokedex/internal/database"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/apex/log"
)

const entityRegion = "region"

func (s *Service) ListRegions(ctx context.Context) ([]*models.Region, error) {
	return s.db.ListRegions(ctx)
}

func (s *Service) GetRegionDetail(ctx context.Context, id int) (*models.RegionDetail, error) {
	region, err := s.db.GetRegion(ctx, id)
	if err != nil {
		return nil, notFound(err, entityRegion, id)
	}

	refs, err := s.db.RegionPokemonRefs(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.RegionDetail{Region: region, Pokemon: refs}, nil
}

func (s *Service) CreateRegion(ctx context.Context, actor string, in RegionInput) (*models.Region, error) {
	if verr := checkActor(actor); verr != nil {
		return nil, verr
	}
	if verr := s.check(in, nil); verr != nil {
		return nil, verr
	}

	region := &models.Region{
		Name:  in.Name,
		Audit: models.Audit{CreatedOn: s.stamp(), CreatedByUserID: actor},
	}

	var id int
	err := s.db.WithTx(ctx, func(tx *database.Queries) error {
		var err error
		id, err = tx.CreateRegion(ctx, region)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.FromContext(ctx).WithFields(log.Fields{
		"region_id": id,
		"user_id":   actor,
	}).Info("region created")

	return s.db.GetRegion(ctx, id)
}

func (s *Service) UpdateRegion(ctx context.Context, actor string, id int, in RegionInput) (*models.Region, error) {
	if verr := checkActor(actor); verr != nil {
		return nil, verr
	}

	region, err := s.db.GetRegion(ctx, id)
	if err != nil {
		return nil, notFound(err, entityRegion, id)
	}

	if verr := s.check(in, nil); verr != nil {
		return nil, verr
	}
	if in.Version != 0 && in.Version != region.Version {
		return nil, &ConcurrencyConflictError{Entity: entityRegion, ID: id}
	}

	now := s.stamp()
	region.Name = in.Name
	region.UpdatedOn = &now
	region.UpdatedByUserID = &actor

	err = s.db.WithTx(ctx, func(tx *database.Queries) error {
		ok, err := tx.UpdateRegion(ctx, region)
		if err != nil {
			return err
		}
		if !ok {
			return errStale
		}
		return nil
	})
	if errors.Is(err, errStale) {
		return nil, s.conflictOrMissing(ctx, entityRegion, id, s.db.RegionExists)
	}
	if err != nil {
		return nil, err
	}

	log.FromContext(ctx).WithFields(log.Fields{
		"region_id": id,
		"user_id":   actor,
	}).Info("region updated")

	return s.db.GetRegion(ctx, id)
}

// DeleteRegion refuses to remove a region that still has Pokémon.
func (s *Service) DeleteRegion(ctx context.Context, actor string, id int) error {
	if verr := checkActor(actor); verr != nil {
		return verr
	}

	err := s.db.WithTx(ctx, func(tx *database.Queries) error {
		n, err := tx.CountRegionPokemon(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return &ReferentialIntegrityError{Entity: entityRegion, ID: id, Dependents: "pokemon", Count: n}
		}

		deleted, err := tx.DeleteRegion(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return &NotFoundError{Entity: entityRegion, ID: id}
		}
		return nil
	})
	if errors.Is(err, database.ErrForeignKey) {
		return &ReferentialIntegrityError{Entity: entityRegion, ID: id, Dependents: "pokemon"}
	}
	if err != nil {
		return err
	}

	log.FromContext(ctx).WithFields(log.Fields{
		"region_id": id,
		"user_id":   actor,
	}).Info("region deleted")
	return nil
}

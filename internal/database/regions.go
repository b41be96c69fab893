package database

import (
	"context"
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/FlagBrew/local-pokedex/internal/models"
)

var regionColumns = []string{
	"id", "name", "version",
	"created_on", "created_by_user_id", "updated_on", "updated_by_user_id",
}

func scanRegion(rows *entsql.Rows) (*models.Region, error) {
	var (
		r         models.Region
		updatedOn sql.NullTime
		updatedBy sql.NullString
	)

	if err := rows.Scan(
		&r.ID, &r.Name, &r.Version,
		&r.CreatedOn, &r.CreatedByUserID, &updatedOn, &updatedBy,
	); err != nil {
		return nil, err
	}

	r.CreatedOn = r.CreatedOn.UTC()
	r.UpdatedOn = timePtr(updatedOn)
	r.UpdatedByUserID = stringPtr(updatedBy)
	return &r, nil
}

func (q *Queries) ListRegions(ctx context.Context) ([]*models.Region, error) {
	var regions []*models.Region

	stmt := q.b.Select(regionColumns...).From(q.b.Table(TableRegions)).OrderBy("name", "id")
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		r, err := scanRegion(rows)
		if err != nil {
			return err
		}
		regions = append(regions, r)
		return nil
	})
	return regions, err
}

func (q *Queries) GetRegion(ctx context.Context, id int) (*models.Region, error) {
	var region *models.Region

	stmt := q.b.Select(regionColumns...).From(q.b.Table(TableRegions)).Where(entsql.EQ("id", id))
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		var err error
		region, err = scanRegion(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	if region == nil {
		return nil, ErrNotFound
	}
	return region, nil
}

func (q *Queries) RegionExists(ctx context.Context, id int) (bool, error) {
	return q.exists(ctx, TableRegions, id)
}

func (q *Queries) CreateRegion(ctx context.Context, r *models.Region) (int, error) {
	return q.insert(ctx, q.b.Insert(TableRegions).
		Columns("name", "version", "created_on", "created_by_user_id").
		Values(r.Name, 1, r.CreatedOn, r.CreatedByUserID),
	)
}

// UpdateRegion writes r if its stored version still equals r.Version and
// bumps the version. It reports whether a row was written.
func (q *Queries) UpdateRegion(ctx context.Context, r *models.Region) (bool, error) {
	n, err := q.exec(ctx, q.b.Update(TableRegions).
		Set("name", r.Name).
		Set("updated_on", nullTime(r.UpdatedOn)).
		Set("updated_by_user_id", nullString(r.UpdatedByUserID)).
		Add("version", 1).
		Where(entsql.And(entsql.EQ("id", r.ID), entsql.EQ("version", r.Version))),
	)
	return n > 0, err
}

func (q *Queries) DeleteRegion(ctx context.Context, id int) (bool, error) {
	n, err := q.exec(ctx, q.b.Delete(TableRegions).Where(entsql.EQ("id", id)))
	return n > 0, err
}

func (q *Queries) CountRegionPokemon(ctx context.Context, regionID int) (int, error) {
	return q.count(ctx, TablePokemon, entsql.EQ("region_id", regionID))
}

package database

import (
	"context"
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/FlagBrew/local-pokedex/internal/models"
)

// hasImageColumn reports image presence without pulling the blob.
const hasImageColumn = "CASE WHEN image IS NULL THEN 0 ELSE 1 END AS has_image"

var pokemonColumns = []string{
	"id", "name", "region_id", "attack", "health", "defense", "speed", "version",
	"created_on", "created_by_user_id", "updated_on", "updated_by_user_id",
	hasImageColumn,
}

func scanPokemon(rows *entsql.Rows, extra ...any) (*models.Pokemon, error) {
	var (
		p         models.Pokemon
		updatedOn sql.NullTime
		updatedBy sql.NullString
		hasImage  int
	)

	dest := []any{
		&p.ID, &p.Name, &p.RegionID, &p.Attack, &p.Health, &p.Defense, &p.Speed, &p.Version,
		&p.CreatedOn, &p.CreatedByUserID, &updatedOn, &updatedBy,
		&hasImage,
	}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	p.CreatedOn = p.CreatedOn.UTC()
	p.UpdatedOn = timePtr(updatedOn)
	p.UpdatedByUserID = stringPtr(updatedBy)
	p.HasImage = hasImage != 0
	return &p, nil
}

// ListPokemon returns every Pokémon without image data, ordered by id.
func (q *Queries) ListPokemon(ctx context.Context) ([]*models.Pokemon, error) {
	var list []*models.Pokemon

	stmt := q.b.Select(pokemonColumns...).From(q.b.Table(TablePokemon)).OrderBy("id")
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		p, err := scanPokemon(rows)
		if err != nil {
			return err
		}
		list = append(list, p)
		return nil
	})
	return list, err
}

// GetPokemon returns the Pokémon including its image.
func (q *Queries) GetPokemon(ctx context.Context, id int) (*models.Pokemon, error) {
	var p *models.Pokemon

	stmt := q.b.Select(append(pokemonColumns, "image")...).
		From(q.b.Table(TablePokemon)).
		Where(entsql.EQ("id", id))
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		var (
			image []byte
			err   error
		)
		p, err = scanPokemon(rows, &image)
		if p != nil {
			p.Image = image
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// PokemonRefs returns (id, name) for every Pokémon ordered by id.
func (q *Queries) PokemonRefs(ctx context.Context) ([]models.PokemonRef, error) {
	var refs []models.PokemonRef

	stmt := q.b.Select("id", "name").From(q.b.Table(TablePokemon)).OrderBy("id")
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		var ref models.PokemonRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return err
		}
		refs = append(refs, ref)
		return nil
	})
	return refs, err
}

// RegionPokemonRefs returns (id, name) of the Pokémon in a region.
func (q *Queries) RegionPokemonRefs(ctx context.Context, regionID int) ([]models.PokemonRef, error) {
	var refs []models.PokemonRef

	stmt := q.b.Select("id", "name").
		From(q.b.Table(TablePokemon)).
		Where(entsql.EQ("region_id", regionID)).
		OrderBy("id")
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		var ref models.PokemonRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return err
		}
		refs = append(refs, ref)
		return nil
	})
	return refs, err
}

// ExistingPokemonIDs returns the subset of ids that exist.
func (q *Queries) ExistingPokemonIDs(ctx context.Context, ids []int) (map[int]bool, error) {
	found := make(map[int]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	stmt := q.b.Select("id").From(q.b.Table(TablePokemon)).Where(entsql.InInts("id", ids...))
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		var id int
		if err := rows.Scan(&id); err != nil {
			return err
		}
		found[id] = true
		return nil
	})
	return found, err
}

func (q *Queries) PokemonExists(ctx context.Context, id int) (bool, error) {
	return q.exists(ctx, TablePokemon, id)
}

func (q *Queries) CreatePokemon(ctx context.Context, p *models.Pokemon) (int, error) {
	return q.insert(ctx, q.b.Insert(TablePokemon).
		Columns(
			"name", "region_id", "attack", "health", "defense", "speed", "image", "version",
			"created_on", "created_by_user_id",
		).
		Values(
			p.Name, p.RegionID, p.Attack, p.Health, p.Defense, p.Speed, nullBytes(p.Image), 1,
			p.CreatedOn, p.CreatedByUserID,
		),
	)
}

// UpdatePokemon writes p when the stored version still equals p.Version. The
// image column is left alone when keepImage is set.
func (q *Queries) UpdatePokemon(ctx context.Context, p *models.Pokemon, keepImage bool) (bool, error) {
	stmt := q.b.Update(TablePokemon).
		Set("name", p.Name).
		Set("region_id", p.RegionID).
		Set("attack", p.Attack).
		Set("health", p.Health).
		Set("defense", p.Defense).
		Set("speed", p.Speed).
		Set("updated_on", nullTime(p.UpdatedOn)).
		Set("updated_by_user_id", nullString(p.UpdatedByUserID))
	if !keepImage {
		stmt.Set("image", nullBytes(p.Image))
	}

	n, err := q.exec(ctx, stmt.
		Add("version", 1).
		Where(entsql.And(entsql.EQ("id", p.ID), entsql.EQ("version", p.Version))),
	)
	return n > 0, err
}

func (q *Queries) DeletePokemon(ctx context.Context, id int) (bool, error) {
	n, err := q.exec(ctx, q.b.Delete(TablePokemon).Where(entsql.EQ("id", id)))
	return n > 0, err
}

func (q *Queries) PokemonImage(ctx context.Context, id int) ([]byte, error) {
	var (
		image []byte
		found bool
	)

	stmt := q.b.Select("image").From(q.b.Table(TablePokemon)).Where(entsql.EQ("id", id))
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		found = true
		return rows.Scan(&image)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return image, nil
}

package database

import (
	"context"
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/FlagBrew/local-pokedex/internal/models"
)

// PackMemberships returns the membership rows of a pack ordered by Pokémon id.
func (q *Queries) PackMemberships(ctx context.Context, packID int) ([]*models.PackMembership, error) {
	var list []*models.PackMembership

	stmt := q.b.Select("id", "pack_id", "pokemon_id", "created_on", "updated_on").
		From(q.b.Table(TableMemberships)).
		Where(entsql.EQ("pack_id", packID)).
		OrderBy("pokemon_id")
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		var (
			m         models.PackMembership
			updatedOn sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.PackID, &m.PokemonID, &m.CreatedOn, &updatedOn); err != nil {
			return err
		}
		m.CreatedOn = m.CreatedOn.UTC()
		m.UpdatedOn = timePtr(updatedOn)
		list = append(list, &m)
		return nil
	})
	return list, err
}

// PackPokemonIDs returns the ids of the Pokémon currently in a pack.
func (q *Queries) PackPokemonIDs(ctx context.Context, packID int) ([]int, error) {
	var ids []int

	stmt := q.b.Select("pokemon_id").
		From(q.b.Table(TableMemberships)).
		Where(entsql.EQ("pack_id", packID)).
		OrderBy("pokemon_id")
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		var id int
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

// PackPokemonRefs joins a pack's memberships to the Pokémon table.
func (q *Queries) PackPokemonRefs(ctx context.Context, packID int) ([]models.PokemonRef, error) {
	var refs []models.PokemonRef

	p := q.b.Table(TablePokemon)
	m := q.b.Table(TableMemberships)
	stmt := q.b.Select(p.C("id"), p.C("name")).
		From(p).
		Join(m).On(p.C("id"), m.C("pokemon_id")).
		Where(entsql.EQ(m.C("pack_id"), packID)).
		OrderBy(p.C("id"))
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

// PokemonPackRefs lists the packs a Pokémon belongs to.
func (q *Queries) PokemonPackRefs(ctx context.Context, pokemonID int) ([]models.PackRef, error) {
	var refs []models.PackRef

	p := q.b.Table(TablePacks)
	m := q.b.Table(TableMemberships)
	stmt := q.b.Select(p.C("id"), p.C("name")).
		From(p).
		Join(m).On(p.C("id"), m.C("pack_id")).
		Where(entsql.EQ(m.C("pokemon_id"), pokemonID)).
		OrderBy(p.C("id"))
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		var ref models.PackRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return err
		}
		refs = append(refs, ref)
		return nil
	})
	return refs, err
}

func (q *Queries) CountPokemonMemberships(ctx context.Context, pokemonID int) (int, error) {
	return q.count(ctx, TableMemberships, entsql.EQ("pokemon_id", pokemonID))
}

// AddMemberships inserts one row per Pokémon id, all stamped with createdOn.
func (q *Queries) AddMemberships(ctx context.Context, packID int, pokemonIDs []int, createdOn time.Time) error {
	if len(pokemonIDs) == 0 {
		return nil
	}

	stmt := q.b.Insert(TableMemberships).Columns("pack_id", "pokemon_id", "created_on")
	for _, id := range pokemonIDs {
		stmt.Values(packID, id, createdOn)
	}

	_, err := q.exec(ctx, stmt)
	return err
}

// RemoveMemberships deletes the rows linking packID to the given Pokémon.
func (q *Queries) RemoveMemberships(ctx context.Context, packID int, pokemonIDs []int) (int64, error) {
	if len(pokemonIDs) == 0 {
		return 0, nil
	}

	return q.exec(ctx, q.b.Delete(TableMemberships).Where(entsql.And(
		entsql.EQ("pack_id", packID),
		entsql.InInts("pokemon_id", pokemonIDs...),
	)))
}

// ClearMemberships deletes every membership row of a pack.
func (q *Queries) ClearMemberships(ctx context.Context, packID int) (int64, error) {
	return q.exec(ctx, q.b.Delete(TableMemberships).Where(entsql.EQ("pack_id", packID)))
}

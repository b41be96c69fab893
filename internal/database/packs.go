package database

import (
	"context"
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/FlagBrew/local-pokedex/internal/models"
)

var packColumns = []string{
	"id", "name", "price_cents",
	"bronze_chance", "silver_chance", "gold_chance", "platinum_chance", "diamond_chance",
	"total_bought", "version",
	"created_on", "created_by_user_id", "updated_on", "updated_by_user_id",
	hasImageColumn,
}

func scanPack(rows *entsql.Rows, extra ...any) (*models.Pack, error) {
	var (
		p         models.Pack
		cents     int64
		updatedOn sql.NullTime
		updatedBy sql.NullString
		hasImage  int
	)

	dest := []any{
		&p.ID, &p.Name, &cents,
		&p.BronzeChance, &p.SilverChance, &p.GoldChance, &p.PlatinumChance, &p.DiamondChance,
		&p.TotalBought, &p.Version,
		&p.CreatedOn, &p.CreatedByUserID, &updatedOn, &updatedBy,
		&hasImage,
	}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	p.Price = models.Price(cents)
	p.CreatedOn = p.CreatedOn.UTC()
	p.UpdatedOn = timePtr(updatedOn)
	p.UpdatedByUserID = stringPtr(updatedBy)
	p.HasImage = hasImage != 0
	return &p, nil
}

// ListPacks returns every pack without image data, ordered by id.
func (q *Queries) ListPacks(ctx context.Context) ([]*models.Pack, error) {
	var packs []*models.Pack

	stmt := q.b.Select(packColumns...).From(q.b.Table(TablePacks)).OrderBy("id")
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		p, err := scanPack(rows)
		if err != nil {
			return err
		}
		packs = append(packs, p)
		return nil
	})
	return packs, err
}

// GetPack returns the pack including its image.
func (q *Queries) GetPack(ctx context.Context, id int) (*models.Pack, error) {
	var pack *models.Pack

	stmt := q.b.Select(append(packColumns, "image")...).
		From(q.b.Table(TablePacks)).
		Where(entsql.EQ("id", id))
	err := q.query(ctx, stmt, func(rows *entsql.Rows) error {
		var (
			image []byte
			err   error
		)
		pack, err = scanPack(rows, &image)
		if pack != nil {
			pack.Image = image
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if pack == nil {
		return nil, ErrNotFound
	}
	return pack, nil
}

func (q *Queries) PackExists(ctx context.Context, id int) (bool, error) {
	return q.exists(ctx, TablePacks, id)
}

// CreatePack inserts p. TotalBought always starts at zero.
func (q *Queries) CreatePack(ctx context.Context, p *models.Pack) (int, error) {
	return q.insert(ctx, q.b.Insert(TablePacks).
		Columns(
			"name", "price_cents", "image",
			"bronze_chance", "silver_chance", "gold_chance", "platinum_chance", "diamond_chance",
			"total_bought", "version", "created_on", "created_by_user_id",
		).
		Values(
			p.Name, p.Price.Cents(), nullBytes(p.Image),
			p.BronzeChance, p.SilverChance, p.GoldChance, p.PlatinumChance, p.DiamondChance,
			0, 1, p.CreatedOn, p.CreatedByUserID,
		),
	)
}

// UpdatePack writes the editable fields of p when the stored version still
// equals p.Version. Created stamps and TotalBought are never written here.
// The image column is left alone when keepImage is set.
func (q *Queries) UpdatePack(ctx context.Context, p *models.Pack, keepImage bool) (bool, error) {
	stmt := q.b.Update(TablePacks).
		Set("name", p.Name).
		Set("price_cents", p.Price.Cents()).
		Set("bronze_chance", p.BronzeChance).
		Set("silver_chance", p.SilverChance).
		Set("gold_chance", p.GoldChance).
		Set("platinum_chance", p.PlatinumChance).
		Set("diamond_chance", p.DiamondChance).
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

func (q *Queries) DeletePack(ctx context.Context, id int) (bool, error) {
	n, err := q.exec(ctx, q.b.Delete(TablePacks).Where(entsql.EQ("id", id)))
	return n > 0, err
}

func (q *Queries) PackImage(ctx context.Context, id int) ([]byte, error) {
	var (
		image []byte
		found bool
	)

	stmt := q.b.Select("image").From(q.b.Table(TablePacks)).Where(entsql.EQ("id", id))
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

package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FlagBrew/local-pokedex/internal/database"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/FlagBrew/local-pokedex/internal/testing/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stamp = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func seedRegion(t *testing.T, q *database.Queries, name string) int {
	t.Helper()

	id, err := q.CreateRegion(context.Background(), &models.Region{
		Name:  name,
		Audit: models.Audit{CreatedOn: stamp, CreatedByUserID: "admin"},
	})
	require.NoError(t, err)
	return id
}

func seedPokemon(t *testing.T, q *database.Queries, regionID int, name string) int {
	t.Helper()

	id, err := q.CreatePokemon(context.Background(), &models.Pokemon{
		Name:     name,
		RegionID: regionID,
		Attack:   10,
		Health:   20,
		Defense:  30,
		Speed:    40,
		Audit:    models.Audit{CreatedOn: stamp, CreatedByUserID: "admin"},
	})
	require.NoError(t, err)
	return id
}

func seedPack(t *testing.T, q *database.Queries, name string) int {
	t.Helper()

	id, err := q.CreatePack(context.Background(), &models.Pack{
		Name:         name,
		Price:        999,
		BronzeChance: 0.5,
		SilverChance: 0.3,
		Audit:        models.Audit{CreatedOn: stamp, CreatedByUserID: "admin"},
	})
	require.NoError(t, err)
	return id
}

func TestPackRoundTrip(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	id := seedPack(t, db.Queries, "Starter Pack")

	pack, err := db.GetPack(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Starter Pack", pack.Name)
	assert.Equal(t, models.Price(999), pack.Price)
	assert.Equal(t, 0.5, pack.BronzeChance)
	assert.Equal(t, 0, pack.TotalBought)
	assert.Equal(t, 1, pack.Version)
	assert.True(t, stamp.Equal(pack.CreatedOn))
	assert.Nil(t, pack.UpdatedOn)
	assert.Nil(t, pack.UpdatedByUserID)
	assert.False(t, pack.HasImage)
	assert.Empty(t, pack.Image)

	_, err = db.GetPack(ctx, id+100)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUpdatePackChecksVersion(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	id := seedPack(t, db.Queries, "Starter Pack")
	pack, err := db.GetPack(ctx, id)
	require.NoError(t, err)

	updated := stamp.Add(time.Hour)
	user := "editor"
	pack.Name = "Renamed"
	pack.Image = []byte{1, 2, 3}
	pack.UpdatedOn = &updated
	pack.UpdatedByUserID = &user

	ok, err := db.UpdatePack(ctx, pack, false)
	require.NoError(t, err)
	assert.True(t, ok)

	// The same version again is now stale.
	ok, err = db.UpdatePack(ctx, pack, false)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := db.GetPack(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Name)
	assert.Equal(t, 2, stored.Version)
	assert.True(t, stored.HasImage)
	assert.Equal(t, []byte{1, 2, 3}, stored.Image)
	require.NotNil(t, stored.UpdatedOn)
	assert.True(t, updated.Equal(*stored.UpdatedOn))
	assert.Equal(t, "editor", *stored.UpdatedByUserID)

	stored.Image = nil
	ok, err = db.UpdatePack(ctx, stored, true)
	require.NoError(t, err)
	assert.True(t, ok)

	image, err := db.PackImage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, image)
}

func TestMembershipConstraints(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	region := seedRegion(t, db.Queries, "Kanto")
	bulbasaur := seedPokemon(t, db.Queries, region, "Bulbasaur")
	charmander := seedPokemon(t, db.Queries, region, "Charmander")
	pack := seedPack(t, db.Queries, "Starter Pack")

	require.NoError(t, db.AddMemberships(ctx, pack, []int{charmander, bulbasaur}, stamp))

	err := db.AddMemberships(ctx, pack, []int{bulbasaur}, stamp)
	assert.ErrorIs(t, err, database.ErrDuplicate)

	err = db.AddMemberships(ctx, pack, []int{bulbasaur + 100}, stamp)
	assert.ErrorIs(t, err, database.ErrForeignKey)

	refs, err := db.PackPokemonRefs(ctx, pack)
	require.NoError(t, err)
	assert.Equal(t, []models.PokemonRef{
		{ID: bulbasaur, Name: "Bulbasaur"},
		{ID: charmander, Name: "Charmander"},
	}, refs)

	_, err = db.DeletePokemon(ctx, bulbasaur)
	assert.ErrorIs(t, err, database.ErrForeignKey)

	_, err = db.DeletePack(ctx, pack)
	assert.ErrorIs(t, err, database.ErrForeignKey)

	_, err = db.DeleteRegion(ctx, region)
	assert.ErrorIs(t, err, database.ErrForeignKey)

	removed, err := db.RemoveMemberships(ctx, pack, []int{bulbasaur})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	ids, err := db.PackPokemonIDs(ctx, pack)
	require.NoError(t, err)
	assert.Equal(t, []int{charmander}, ids)

	packs, err := db.PokemonPackRefs(ctx, charmander)
	require.NoError(t, err)
	assert.Equal(t, []models.PackRef{{ID: pack, Name: "Starter Pack"}}, packs)

	deleted, err := db.DeletePokemon(ctx, bulbasaur)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestWithTxRollsBack(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.WithTx(ctx, func(tx *database.Queries) error {
		seedPack(t, tx, "Doomed")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	packs, err := db.ListPacks(ctx)
	require.NoError(t, err)
	assert.Empty(t, packs)

	err = db.WithTx(ctx, func(tx *database.Queries) error {
		seedPack(t, tx, "Kept")
		return nil
	})
	require.NoError(t, err)

	packs, err = db.ListPacks(ctx)
	require.NoError(t, err)
	require.Len(t, packs, 1)
	assert.Equal(t, "Kept", packs[0].Name)
}

func TestExistingPokemonIDs(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	region := seedRegion(t, db.Queries, "Johto")
	chikorita := seedPokemon(t, db.Queries, region, "Chikorita")

	found, err := db.ExistingPokemonIDs(ctx, []int{chikorita, chikorita + 1})
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{chikorita: true}, found)

	count, err := db.CountRegionPokemon(ctx, region)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

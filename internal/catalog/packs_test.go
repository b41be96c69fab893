package catalog

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/FlagBrew/local-pokedex/internal/database"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/FlagBrew/local-pokedex/internal/testing/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const admin = "admin-user"

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// testClock advances one minute per reading. before, when set, runs once
// on the next reading, which lets a test change rows between the read and
// the write of an update.
type testClock struct {
	now    time.Time
	before func()
}

func (c *testClock) Now() time.Time {
	if hook := c.before; hook != nil {
		c.before = nil
		hook()
	}
	c.now = c.now.Add(time.Minute)
	return c.now
}

type fixture struct {
	db      *database.Client
	svc     *Service
	clock   *testClock
	pokemon []int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.New(t)
	clock := &testClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	f := &fixture{
		db:    db,
		svc:   New(db, WithClock(clock.Now)),
		clock: clock,
	}

	ctx := context.Background()
	region, err := f.svc.CreateRegion(ctx, admin, RegionInput{Name: "Kanto"})
	require.NoError(t, err)

	for _, name := range []string{"Bulbasaur", "Charmander", "Squirtle", "Pikachu"} {
		p, err := f.svc.CreatePokemon(ctx, admin, PokemonInput{
			Name:     name,
			RegionID: region.ID,
			Attack:   ptr(49),
			Health:   ptr(45),
			Defense:  ptr(49),
			Speed:    ptr(45),
		})
		require.NoError(t, err)
		f.pokemon = append(f.pokemon, p.ID)
	}

	return f
}

func ptr[T any](v T) *T {
	return &v
}

func starterPack() PackInput {
	price := models.Price(999)
	return PackInput{
		Name:           "Starter Pack",
		Price:          &price,
		BronzeChance:   ptr(0.5),
		SilverChance:   ptr(0.3),
		GoldChance:     ptr(0.15),
		PlatinumChance: ptr(0.04),
		DiamondChance:  ptr(0.01),
	}
}

func refIDs(refs []models.PokemonRef) []int {
	ids := make([]int, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}

func membershipTimes(t *testing.T, f *fixture, packID int) map[int]time.Time {
	t.Helper()

	rows, err := f.svc.PackMemberships(context.Background(), packID)
	require.NoError(t, err)

	out := make(map[int]time.Time, len(rows))
	for _, m := range rows {
		out[m.PokemonID] = m.CreatedOn
	}
	return out
}

func TestCreateAndUpdateStarterPack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1, p2, p3, p4 := f.pokemon[0], f.pokemon[1], f.pokemon[2], f.pokemon[3]

	ids, err := ParseIDList("1,2,2,3")
	require.NoError(t, err)
	require.Equal(t, []int{p1, p2, p2, p3}, ids)

	created, err := f.svc.CreatePack(ctx, admin, starterPack(), ids)
	require.NoError(t, err)
	assert.Equal(t, []int{p1, p2, p3}, refIDs(created.Pokemon))
	assert.Equal(t, 0, created.Pack.TotalBought)
	assert.Equal(t, models.Price(999), created.Pack.Price)
	assert.Equal(t, admin, created.Pack.CreatedByUserID)
	assert.Nil(t, created.Pack.UpdatedOn)
	assert.Nil(t, created.Pack.UpdatedByUserID)

	before := membershipTimes(t, f, created.Pack.ID)
	require.Len(t, before, 3)

	ids, err = ParseIDList("2,3,4")
	require.NoError(t, err)

	updated, err := f.svc.UpdatePack(ctx, "editor", created.Pack.ID, starterPack(), ids)
	require.NoError(t, err)
	assert.Equal(t, []int{p2, p3, p4}, refIDs(updated.Pokemon))

	after := membershipTimes(t, f, created.Pack.ID)
	require.Len(t, after, 3)
	assert.NotContains(t, after, p1)
	assert.True(t, before[p2].Equal(after[p2]))
	assert.True(t, before[p3].Equal(after[p3]))
	assert.True(t, after[p4].After(before[p3]))

	assert.True(t, created.Pack.CreatedOn.Equal(updated.Pack.CreatedOn))
	assert.Equal(t, admin, updated.Pack.CreatedByUserID)
	require.NotNil(t, updated.Pack.UpdatedOn)
	assert.True(t, updated.Pack.UpdatedOn.After(updated.Pack.CreatedOn))
	require.NotNil(t, updated.Pack.UpdatedByUserID)
	assert.Equal(t, "editor", *updated.Pack.UpdatedByUserID)
}

func TestSuccessiveUpdatesEndOnLastSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1, p2, p3, p4 := f.pokemon[0], f.pokemon[1], f.pokemon[2], f.pokemon[3]

	created, err := f.svc.CreatePack(ctx, admin, starterPack(), nil)
	require.NoError(t, err)
	assert.Empty(t, created.Pokemon)

	for _, step := range [][]int{{p1, p2}, {p3, p4, p4}, {p4, p1}, {}, {p2}} {
		_, err := f.svc.UpdatePack(ctx, admin, created.Pack.ID, starterPack(), step)
		require.NoError(t, err)

		detail, err := f.svc.GetPackDetail(ctx, created.Pack.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, uniqueIDs(step), refIDs(detail.Pokemon))
	}
}

func TestCreatePackValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	options, err := f.svc.PokemonOptions(ctx)
	require.NoError(t, err)

	in := starterPack()
	in.Name = ""
	in.Price = ptr(models.Price(-1))
	in.DiamondChance = nil

	_, err = f.svc.CreatePack(ctx, admin, in, []int{f.pokemon[0]})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Fields))
	for _, fe := range verr.Fields {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "price", "diamond_chance"}, fields)
	assert.Equal(t, options, verr.Available)

	packs, err := f.svc.ListPacks(ctx)
	require.NoError(t, err)
	assert.Empty(t, packs)
}

func TestCreatePackRejectsLongNameAndNonImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := starterPack()
	in.Name = string(make([]rune, 101))
	in.Image = []byte("definitely not a picture")

	_, err := f.svc.CreatePack(ctx, admin, in, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "name", verr.Fields[0].Field)
	assert.Equal(t, "image", verr.Fields[1].Field)
}

func TestCreatePackAcceptsZeroPriceAndChances(t *testing.T) {
	f := newFixture(t)

	price := models.Price(0)
	in := PackInput{
		Name:           "Free",
		Price:          &price,
		BronzeChance:   ptr(0.0),
		SilverChance:   ptr(0.0),
		GoldChance:     ptr(0.0),
		PlatinumChance: ptr(0.0),
		DiamondChance:  ptr(2.5),
	}

	detail, err := f.svc.CreatePack(context.Background(), admin, in, nil)
	require.NoError(t, err)
	assert.Equal(t, models.Price(0), detail.Pack.Price)
	assert.Equal(t, 2.5, detail.Pack.DiamondChance)
}

func TestPackRejectsNonFiniteChances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePack(ctx, admin, starterPack(), nil)
	require.NoError(t, err)

	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		in := starterPack()
		in.Name = "Odd"
		in.BronzeChance = ptr(v)
		in.DiamondChance = ptr(v)

		_, err := f.svc.CreatePack(ctx, admin, in, []int{f.pokemon[0]})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 2)
		assert.Equal(t, "bronze_chance", verr.Fields[0].Field)
		assert.Equal(t, "must be a finite number", verr.Fields[0].Message)
		assert.Equal(t, "diamond_chance", verr.Fields[1].Field)

		_, err = f.svc.UpdatePack(ctx, admin, created.Pack.ID, in, nil)
		require.ErrorIs(t, err, ErrValidation)
	}

	packs, err := f.svc.ListPacks(ctx)
	require.NoError(t, err)
	require.Len(t, packs, 1)
	assert.Equal(t, "Starter Pack", packs[0].Name)
}

func TestCheckPack(t *testing.T) {
	f := newFixture(t)

	assert.Nil(t, f.svc.CheckPack(starterPack()))

	in := starterPack()
	in.Name = ""
	in.GoldChance = ptr(math.NaN())
	verr := f.svc.CheckPack(in)
	require.NotNil(t, verr)
	assert.Len(t, verr.Fields, 2)
}

func TestCreatePackRequiresActor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreatePack(context.Background(), " ", starterPack(), nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreatePackUnknownPokemonWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePack(ctx, admin, starterPack(), []int{f.pokemon[0], 999})
	require.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "pokemon", nf.Entity)
	assert.Equal(t, 999, nf.ID)

	packs, err := f.svc.ListPacks(ctx)
	require.NoError(t, err)
	assert.Empty(t, packs)
}

func TestUpdatePackImageHandling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := starterPack()
	in.Image = pngHeader
	created, err := f.svc.CreatePack(ctx, admin, in, nil)
	require.NoError(t, err)
	assert.True(t, created.Pack.HasImage)

	in.Image = nil
	in.Name = "Renamed"
	_, err = f.svc.UpdatePack(ctx, admin, created.Pack.ID, in, nil)
	require.NoError(t, err)

	image, err := f.svc.PackImage(ctx, created.Pack.ID)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, image)

	replacement := append([]byte{}, pngHeader...)
	replacement = append(replacement, 1, 2, 3)
	in.Image = replacement
	_, err = f.svc.UpdatePack(ctx, admin, created.Pack.ID, in, nil)
	require.NoError(t, err)

	image, err = f.svc.PackImage(ctx, created.Pack.ID)
	require.NoError(t, err)
	assert.Equal(t, replacement, image)
}

func TestUpdatePackValidationReoffersSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePack(ctx, admin, starterPack(), []int{f.pokemon[0], f.pokemon[1]})
	require.NoError(t, err)

	in := starterPack()
	in.SilverChance = nil
	_, err = f.svc.UpdatePack(ctx, admin, created.Pack.ID, in, []int{f.pokemon[3]})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []int{f.pokemon[0], f.pokemon[1]}, refIDs(verr.Selected))
	assert.Equal(t, []int{f.pokemon[2], f.pokemon[3]}, refIDs(verr.Available))

	detail, err := f.svc.GetPackDetail(ctx, created.Pack.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{f.pokemon[0], f.pokemon[1]}, refIDs(detail.Pokemon))
	assert.Nil(t, detail.Pack.UpdatedOn)
}

func TestUpdatePackMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdatePack(context.Background(), admin, 42, starterPack(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePackStaleVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePack(ctx, admin, starterPack(), nil)
	require.NoError(t, err)

	in := starterPack()
	in.Version = created.Pack.Version
	_, err = f.svc.UpdatePack(ctx, admin, created.Pack.ID, in, nil)
	require.NoError(t, err)

	// Resubmitting against the version that was read first must fail.
	_, err = f.svc.UpdatePack(ctx, admin, created.Pack.ID, in, []int{f.pokemon[0]})
	require.ErrorIs(t, err, ErrConcurrencyConflict)

	detail, err := f.svc.GetPackDetail(ctx, created.Pack.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Pokemon)
}

func TestUpdatePackConcurrentEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePack(ctx, admin, starterPack(), []int{f.pokemon[0]})
	require.NoError(t, err)

	f.clock.before = func() {
		other := New(f.db)
		_, err := other.UpdatePack(ctx, "someone-else", created.Pack.ID, starterPack(), []int{f.pokemon[1]})
		require.NoError(t, err)
	}

	_, err = f.svc.UpdatePack(ctx, admin, created.Pack.ID, starterPack(), []int{f.pokemon[2]})
	require.ErrorIs(t, err, ErrConcurrencyConflict)

	detail, err := f.svc.GetPackDetail(ctx, created.Pack.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{f.pokemon[1]}, refIDs(detail.Pokemon))
	assert.Equal(t, "someone-else", *detail.Pack.UpdatedByUserID)
}

func TestUpdatePackConcurrentDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePack(ctx, admin, starterPack(), []int{f.pokemon[0]})
	require.NoError(t, err)

	f.clock.before = func() {
		require.NoError(t, New(f.db).DeletePack(ctx, admin, created.Pack.ID))
	}

	_, err = f.svc.UpdatePack(ctx, admin, created.Pack.ID, starterPack(), []int{f.pokemon[2]})
	require.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "pack", nf.Entity)
}

func TestDeletePack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePack(ctx, admin, starterPack(), f.pokemon)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePack(ctx, admin, created.Pack.ID))

	_, err = f.svc.GetPackDetail(ctx, created.Pack.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	ids, err := f.db.PackPokemonIDs(ctx, created.Pack.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	err = f.svc.DeletePack(ctx, admin, created.Pack.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPackEditor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePack(ctx, admin, starterPack(), []int{f.pokemon[3], f.pokemon[1]})
	require.NoError(t, err)

	editor, err := f.svc.PackEditor(ctx, created.Pack.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{f.pokemon[1], f.pokemon[3]}, refIDs(editor.Selected))
	assert.Equal(t, []int{f.pokemon[0], f.pokemon[2]}, refIDs(editor.Available))

	_, err = f.svc.PackEditor(ctx, 1234)
	assert.ErrorIs(t, err, ErrNotFound)
}

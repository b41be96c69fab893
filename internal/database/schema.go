package database

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	maxNameLength  = 100
	maxUserIDSize  = 255
	maxImageLength = 16 << 20
)

const (
	TableRegions     = "regions"
	TablePokemon     = "pokemon"
	TablePacks       = "packs"
	TableMemberships = "pack_memberships"
)

func auditColumns() []*schema.Column {
	return []*schema.Column{
		{Name: "created_on", Type: field.TypeTime},
		{Name: "created_by_user_id", Type: field.TypeString, Size: maxUserIDSize},
		{Name: "updated_on", Type: field.TypeTime, Nullable: true},
		{Name: "updated_by_user_id", Type: field.TypeString, Size: maxUserIDSize, Nullable: true},
	}
}

var (
	RegionsColumns = append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Size: maxNameLength},
		{Name: "version", Type: field.TypeInt, Default: 1},
	}, auditColumns()...)
	RegionsTable = &schema.Table{
		Name:       TableRegions,
		Columns:    RegionsColumns,
		PrimaryKey: []*schema.Column{RegionsColumns[0]},
	}

	PokemonColumns = append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Size: maxNameLength},
		{Name: "region_id", Type: field.TypeInt},
		{Name: "attack", Type: field.TypeInt},
		{Name: "health", Type: field.TypeInt},
		{Name: "defense", Type: field.TypeInt},
		{Name: "speed", Type: field.TypeInt},
		{Name: "image", Type: field.TypeBytes, Size: maxImageLength, Nullable: true},
		{Name: "version", Type: field.TypeInt, Default: 1},
	}, auditColumns()...)
	PokemonTable = &schema.Table{
		Name:       TablePokemon,
		Columns:    PokemonColumns,
		PrimaryKey: []*schema.Column{PokemonColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "pokemon_regions_region",
				Columns:    []*schema.Column{PokemonColumns[2]},
				RefColumns: []*schema.Column{RegionsColumns[0]},
				OnDelete:   schema.Restrict,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "pokemon_region_id",
				Columns: []*schema.Column{PokemonColumns[2]},
			},
		},
	}

	PacksColumns = append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Size: maxNameLength},
		{Name: "price_cents", Type: field.TypeInt64},
		{Name: "image", Type: field.TypeBytes, Size: maxImageLength, Nullable: true},
		{Name: "bronze_chance", Type: field.TypeFloat64},
		{Name: "silver_chance", Type: field.TypeFloat64},
		{Name: "gold_chance", Type: field.TypeFloat64},
		{Name: "platinum_chance", Type: field.TypeFloat64},
		{Name: "diamond_chance", Type: field.TypeFloat64},
		{Name: "total_bought", Type: field.TypeInt, Default: 0},
		{Name: "version", Type: field.TypeInt, Default: 1},
	}, auditColumns()...)
	PacksTable = &schema.Table{
		Name:       TablePacks,
		Columns:    PacksColumns,
		PrimaryKey: []*schema.Column{PacksColumns[0]},
	}

	MembershipsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "pack_id", Type: field.TypeInt},
		{Name: "pokemon_id", Type: field.TypeInt},
		{Name: "created_on", Type: field.TypeTime},
		{Name: "updated_on", Type: field.TypeTime, Nullable: true},
	}
	MembershipsTable = &schema.Table{
		Name:       TableMemberships,
		Columns:    MembershipsColumns,
		PrimaryKey: []*schema.Column{MembershipsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "pack_memberships_packs_pack",
				Columns:    []*schema.Column{MembershipsColumns[1]},
				RefColumns: []*schema.Column{PacksColumns[0]},
				OnDelete:   schema.Restrict,
			},
			{
				Symbol:     "pack_memberships_pokemon_pokemon",
				Columns:    []*schema.Column{MembershipsColumns[2]},
				RefColumns: []*schema.Column{PokemonColumns[0]},
				OnDelete:   schema.Restrict,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "pack_memberships_pack_id_pokemon_id",
				Unique:  true,
				Columns: []*schema.Column{MembershipsColumns[1], MembershipsColumns[2]},
			},
			{
				Name:    "pack_memberships_pokemon_id",
				Columns: []*schema.Column{MembershipsColumns[2]},
			},
		},
	}

	// Tables lists the catalog tables in dependency order.
	Tables = []*schema.Table{
		RegionsTable,
		PokemonTable,
		PacksTable,
		MembershipsTable,
	}
)

func init() {
	PokemonTable.ForeignKeys[0].RefTable = RegionsTable
	MembershipsTable.ForeignKeys[0].RefTable = PacksTable
	MembershipsTable.ForeignKeys[1].RefTable = PokemonTable
}

package storage

import "github.com/OCharnyshevich/arcticgen/pkg/world/gen"

// Meta identifies the world a data directory belongs to.
type Meta struct {
	WorldID   string `toml:"world_id"`
	Seed      int64  `toml:"seed"`
	Generator string `toml:"generator"`
}

// ReservesFile is the on-disk form of a reserve registry.
type ReservesFile struct {
	Reserves []gen.Reserve `toml:"reserve"`
	Sites    []gen.Reserve `toml:"site"`
}

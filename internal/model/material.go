package model

import "time"

// Material is one entry of the print material catalog as stored in the
// `materials` table.  The per-gram rate is kept in currency minor units
// so that price arithmetic stays integral.  Colors are stored in the
// database as a comma separated list; the repository converts them to
// and from a slice.
//
// Fields:
//  ID                – primary key identifier.
//  Name              – material name (e.g. PLA, ABS, PETG).  Used as the
//                      lookup key during pricing after case folding; the
//                      table does not enforce name uniqueness.
//  PricePerGramCents – flat per-gram rate in minor units.
//  Colors            – colors available for this material.
//  CreatedAt         – timestamp of creation.
type Material struct {
	ID                uint64    // materials.id
	Name              string    // materials.name
	PricePerGramCents int64     // materials.price_per_gram_cents
	Colors            []string  // materials.colors (comma separated in DB)
	CreatedAt         time.Time // materials.created_at
}

// Package domain contains core business entities and rules.
package domain

// Summary is the compact list representation of one creature.
// This is a domain entity - it has no knowledge of external systems.
type Summary struct {
	// Name is the upstream canonical (lowercase) name.
	Name string

	// Types are the type names ordered by upstream slot.
	Types []string

	// Image is the first present sprite in the fallback chain, nil if none.
	Image *string
}

// Detail is the full representation of one creature.
type Detail struct {
	ID             int
	Name           string
	Height         int
	Weight         int
	BaseExperience int

	// Abilities are ability names in upstream order.
	Abilities []string

	// Types are type names ordered by upstream slot.
	Types []string

	// Images holds the non-null artwork sprites in a fixed order.
	Images []string

	Stats Stats
}

// Stats is the fixed-shape base stat record. Missing stats are zero.
type Stats struct {
	HP             int
	Attack         int
	Defense        int
	SpecialAttack  int
	SpecialDefense int
	Speed          int
}

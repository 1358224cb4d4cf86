package acl

import (
	"errors"

	"github.com/jsamuelsen/pokedex-service/internal/domain"
)

var errMissingName = errors.New("payload has no name")

// External DTOs from the catalog API. Internal types, never exposed outside the ACL.
// Any sprite may be null or missing, so every sprite level is a pointer.

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type listResponse struct {
	Count   int             `json:"count"`
	Results []namedResource `json:"results"`
}

type typeSlot struct {
	Slot int           `json:"slot"`
	Type namedResource `json:"type"`
}

type abilitySlot struct {
	Ability  namedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

type statEntry struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     namedResource `json:"stat"`
}

type frontSprite struct {
	FrontDefault *string `json:"front_default"`
}

type otherSprites struct {
	DreamWorld      *frontSprite `json:"dream_world"`
	Home            *frontSprite `json:"home"`
	OfficialArtwork *frontSprite `json:"official-artwork"`
}

type spriteSet struct {
	FrontDefault *string       `json:"front_default"`
	Other        *otherSprites `json:"other"`
}

// rawDetail covers both the summary and the full-detail reads of one record.
type rawDetail struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Height         int           `json:"height"`
	Weight         int           `json:"weight"`
	BaseExperience *int          `json:"base_experience"`
	Types          []typeSlot    `json:"types"`
	Abilities      []abilitySlot `json:"abilities"`
	Stats          []statEntry   `json:"stats"`
	Sprites        spriteSet     `json:"sprites"`
}

func (f *frontSprite) value() *string {
	if f == nil {
		return nil
	}

	return f.FrontDefault
}

// otherChain is dream world, home, official artwork. The order is part of the contract.
func (s *spriteSet) otherChain() []*string {
	if s.Other == nil {
		return []*string{nil, nil, nil}
	}

	return []*string{
		s.Other.DreamWorld.value(),
		s.Other.Home.value(),
		s.Other.OfficialArtwork.value(),
	}
}

// resolveImage returns the first present sprite: dream world, home,
// official artwork, then the top-level default. Nil when all are absent.
func resolveImage(s *spriteSet) *string {
	for _, candidate := range append(s.otherChain(), s.FrontDefault) {
		if candidate != nil {
			return candidate
		}
	}

	return nil
}

// resolveImages collects the non-null artwork sprites in chain order. No deduplication.
func resolveImages(s *spriteSet) []string {
	images := make([]string, 0, 3)
	for _, candidate := range s.otherChain() {
		if candidate != nil {
			images = append(images, *candidate)
		}
	}

	return images
}

// resolveTypes keeps type names in the order given.
func resolveTypes(slots []typeSlot) []string {
	types := make([]string, 0, len(slots))
	for _, slot := range slots {
		types = append(types, slot.Type.Name)
	}

	return types
}

func resolveAbilities(slots []abilitySlot) []string {
	abilities := make([]string, 0, len(slots))
	for _, slot := range slots {
		abilities = append(abilities, slot.Ability.Name)
	}

	return abilities
}

// resolveStats takes the first entry matching each canonical stat name; missing stats stay 0.
func resolveStats(entries []statEntry) domain.Stats {
	lookup := func(name string) int {
		for _, entry := range entries {
			if entry.Stat.Name == name {
				return entry.BaseStat
			}
		}

		return 0
	}

	return domain.Stats{
		HP:             lookup("hp"),
		Attack:         lookup("attack"),
		Defense:        lookup("defense"),
		SpecialAttack:  lookup("special-attack"),
		SpecialDefense: lookup("special-defense"),
		Speed:          lookup("speed"),
	}
}

// translateSummary converts the external record to a domain Summary.
func translateSummary(ext *rawDetail) (*domain.Summary, error) {
	if ext.Name == "" {
		return nil, errMissingName
	}

	return &domain.Summary{
		Name:  ext.Name,
		Types: resolveTypes(ext.Types),
		Image: resolveImage(&ext.Sprites),
	}, nil
}

// translateDetail converts the external record to a domain Detail.
func translateDetail(ext *rawDetail) (*domain.Detail, error) {
	if ext.Name == "" {
		return nil, errMissingName
	}

	detail := &domain.Detail{
		ID:        ext.ID,
		Name:      ext.Name,
		Height:    ext.Height,
		Weight:    ext.Weight,
		Abilities: resolveAbilities(ext.Abilities),
		Types:     resolveTypes(ext.Types),
		Images:    resolveImages(&ext.Sprites),
		Stats:     resolveStats(ext.Stats),
	}

	if ext.BaseExperience != nil {
		detail.BaseExperience = *ext.BaseExperience
	}

	return detail, nil
}

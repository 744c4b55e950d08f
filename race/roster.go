package race

import (
	"fmt"
	"math/rand"
)

type identity struct {
	name  string
	color string
}

// Fixed identity table, indexed by competitor id. Pools larger than the table
// get synthesized fallback identities.
var identities = []identity{
	{"Thunderbolt", "#e6194b"},
	{"Silver Arrow", "#3cb44b"},
	{"Midnight Star", "#ffe119"},
	{"Copper Canyon", "#4363d8"},
	{"Wildfire", "#f58231"},
	{"Northern Gale", "#911eb4"},
	{"Sea Breeze", "#46f0f0"},
	{"Iron Duke", "#f032e6"},
	{"Golden Mane", "#bcf60c"},
	{"Shadow Dancer", "#fabebe"},
	{"Red Comet", "#008080"},
	{"Prairie King", "#e6beff"},
	{"Stormline", "#9a6324"},
	{"Blue Ember", "#fffac8"},
	{"Quicksilver", "#800000"},
	{"Dawn Runner", "#aaffc3"},
	{"Night Harbor", "#808000"},
	{"Amber Flash", "#ffd8b1"},
	{"Granite Peak", "#000075"},
	{"Last Waltz", "#808080"},
}

// GenerateRoster builds the competitor pool with ids 1..poolSize. Identity
// fields come from the fixed table; fitness is rolled fresh per competitor.
func GenerateRoster(rng *rand.Rand, poolSize int) map[int]Competitor {
	roster := make(map[int]Competitor, poolSize)
	for id := 1; id <= poolSize; id++ {
		ident := fallbackIdentity(id)
		if id <= len(identities) {
			ident = identities[id-1]
		}
		roster[id] = Competitor{
			ID:      id,
			Name:    ident.name,
			Color:   ident.color,
			Fitness: MinFitness + rng.Intn(MaxFitness-MinFitness+1),
		}
	}
	return roster
}

func fallbackIdentity(id int) identity {
	return identity{
		name:  fmt.Sprintf("Competitor %d", id),
		color: fmt.Sprintf("#%06x", (id*0x9e3779)&0xffffff),
	}
}

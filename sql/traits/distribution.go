package traits

import (
	"fmt"
	"strings"
)

// DistributionKind classifies how rows of a relation are spread across the
// backends that might participate in executing it. The core only needs this
// trait to reason about whether a convention-conversion rule may legally
// merge two sub-trees; it never performs the distribution itself (spec §1
// non-goals: "distributed consensus, replication").
type DistributionKind int

const (
	DistAny DistributionKind = iota
	DistSingleton
	DistHash
	DistBroadcast
	DistRandom
)

type Distribution struct {
	Kind DistributionKind
	Keys []int
}

var AnyDistribution = &Distribution{Kind: DistAny}
var SingletonDistribution = &Distribution{Kind: DistSingleton}

func NewHashDistribution(keys ...int) *Distribution {
	return &Distribution{Kind: DistHash, Keys: keys}
}

func (d *Distribution) Def() TraitDef { return DistributionTraitDef }

func (d *Distribution) String() string {
	switch d.Kind {
	case DistSingleton:
		return "SINGLETON"
	case DistHash:
		parts := make([]string, len(d.Keys))
		for i, k := range d.Keys {
			parts[i] = fmt.Sprintf("%d", k)
		}
		return "HASH[" + strings.Join(parts, ",") + "]"
	case DistBroadcast:
		return "BROADCAST"
	case DistRandom:
		return "RANDOM"
	default:
		return "ANY"
	}
}

func (d *Distribution) Satisfies(other Trait) bool {
	req, ok := other.(*Distribution)
	if !ok {
		return false
	}
	if req.Kind == DistAny {
		return true
	}
	if d.Kind != req.Kind {
		return false
	}
	if d.Kind == DistHash {
		if len(d.Keys) != len(req.Keys) {
			return false
		}
		for i := range d.Keys {
			if d.Keys[i] != req.Keys[i] {
				return false
			}
		}
	}
	return true
}

type distributionTraitDef struct{}

func (distributionTraitDef) Name() string   { return "DISTRIBUTION" }
func (distributionTraitDef) Default() Trait { return AnyDistribution }

func (distributionTraitDef) Join(a, b Trait) Trait {
	da, aok := a.(*Distribution)
	db, bok := b.(*Distribution)
	if !aok || !bok {
		return AnyDistribution
	}
	if da.String() == db.String() {
		return da
	}
	return AnyDistribution
}

var DistributionTraitDef TraitDef = distributionTraitDef{}

package gen

import (
	"slices"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
)

// Capabilities is a capability map partitioned into the sets the emitters
// work with. Each set is sorted by component id.
type Capabilities struct {
	Readonly  []ecsact.ID
	Readwrite []ecsact.ID
	Writeonly []ecsact.ID
	Optional  []ecsact.ID
	Include   []ecsact.ID
	Exclude   []ecsact.ID
	Adds      []ecsact.ID
	Removes   []ecsact.ID
	Stream    []ecsact.ID
}

type capabilityRule struct {
	bit ecsact.Capability
	set func(*Capabilities) *[]ecsact.ID
}

// primaryRules are evaluated in order and the first match wins. READWRITE
// must come before its halves.
var primaryRules = []capabilityRule{
	{ecsact.CapReadwrite, func(c *Capabilities) *[]ecsact.ID { return &c.Readwrite }},
	{ecsact.CapReadonly, func(c *Capabilities) *[]ecsact.ID { return &c.Readonly }},
	{ecsact.CapWriteonly, func(c *Capabilities) *[]ecsact.ID { return &c.Writeonly }},
}

// secondaryRules are each checked independently.
var secondaryRules = []capabilityRule{
	{ecsact.CapOptional, func(c *Capabilities) *[]ecsact.ID { return &c.Optional }},
	{ecsact.CapInclude, func(c *Capabilities) *[]ecsact.ID { return &c.Include }},
	{ecsact.CapExclude, func(c *Capabilities) *[]ecsact.ID { return &c.Exclude }},
	{ecsact.CapAdds, func(c *Capabilities) *[]ecsact.ID { return &c.Adds }},
	{ecsact.CapRemoves, func(c *Capabilities) *[]ecsact.ID { return &c.Removes }},
	{ecsact.CapStreamToggle, func(c *Capabilities) *[]ecsact.ID { return &c.Stream }},
}

// Classify partitions a capability map. Every entry lands in at most one
// of Readwrite, Readonly and Writeonly, and in any number of the other
// sets.
func Classify(entries []meta.CapabilityEntry) *Capabilities {
	c := &Capabilities{}
	for _, e := range entries {
		for _, r := range primaryRules {
			if e.Flags.Has(r.bit) {
				set := r.set(c)
				*set = append(*set, e.Component)
				break
			}
		}
		for _, r := range secondaryRules {
			if e.Flags.Has(r.bit) {
				set := r.set(c)
				*set = append(*set, e.Component)
			}
		}
	}
	for _, r := range slices.Concat(primaryRules, secondaryRules) {
		slices.Sort(*r.set(c))
	}
	return c
}

// Readable returns the components get<T>() is allowed for.
func (c *Capabilities) Readable() []ecsact.ID {
	return sortedUnion(c.Readonly, c.Readwrite)
}

// Writable returns the components update<T>() is allowed for.
func (c *Capabilities) Writable() []ecsact.ID {
	return sortedUnion(c.Writeonly, c.Readwrite)
}

// All returns every component mentioned by any set.
func (c *Capabilities) All() []ecsact.ID {
	return sortedUnion(
		c.Readonly, c.Readwrite, c.Writeonly, c.Optional, c.Include,
		c.Exclude, c.Adds, c.Removes, c.Stream,
	)
}

func sortedUnion(sets ...[]ecsact.ID) []ecsact.ID {
	out := slices.Concat(sets...)
	slices.Sort(out)
	return slices.Compact(out)
}

// AssociationCapabilities is the classification of one association.
type AssociationCapabilities struct {
	Index       int
	Association meta.Association
	*Capabilities
}

// SystemCapabilities holds the classification of a system-like's own
// capability map and of each of its associations, by index.
type SystemCapabilities struct {
	*Capabilities
	Associations []*AssociationCapabilities
}

// ClassifySystem classifies a system-like and its associations.
func ClassifySystem(acc meta.Accessor, id ecsact.ID) *SystemCapabilities {
	sc := &SystemCapabilities{Capabilities: Classify(acc.Capabilities(id))}
	for i := range acc.AssociationCount(id) {
		a := acc.Association(id, i)
		sc.Associations = append(sc.Associations, &AssociationCapabilities{
			Index:        i,
			Association:  a,
			Capabilities: Classify(a.Capabilities),
		})
	}
	return sc
}

package abc

import "fmt"

// TraitKind distinguishes the two trait shapes this assembler synthesizes
// (§3 "Instance traits table").
type TraitKind byte

const (
	TraitSlot TraitKind = iota + 1
	TraitMethod
)

// SlotType names the AVM2 type of a Slot trait.
type SlotType byte

const (
	SlotInt SlotType = iota + 1
	SlotNumber
	SlotObject  // Object, Array, ByteArray, Function — Name carries the concrete type
	SlotFunction
)

// Trait is one entry of the synthesized class's instance traits table.
type Trait struct {
	Name string
	Kind TraitKind

	// Slot traits:
	SlotType    SlotType
	SlotTypeName string // concrete AVM2 type name when SlotType == SlotObject/SlotFunction

	// Method traits:
	Method *MethodBuilder
	Params []SlotType
	Result SlotType
	Final  bool
}

// InstanceTraits is the ordered, name-unique trait table of the synthesized
// ABC class (§3 "Instance traits table", invariant "Each trait name is
// unique within the class").
type InstanceTraits struct {
	traits []Trait
	names  map[string]bool
}

// NewInstanceTraits returns an empty trait table.
func NewInstanceTraits() *InstanceTraits {
	return &InstanceTraits{names: make(map[string]bool)}
}

// AddSlot registers a Slot trait. It panics on a name collision, surfacing
// the §7 "trait name collision" internal invariant violation.
func (t *InstanceTraits) AddSlot(name string, typ SlotType, typeName string) {
	t.reserve(name)
	t.traits = append(t.traits, Trait{Name: name, Kind: TraitSlot, SlotType: typ, SlotTypeName: typeName})
}

// AddMethod registers a final Method trait backed by a MethodBuilder.
func (t *InstanceTraits) AddMethod(name string, m *MethodBuilder, params []SlotType, result SlotType) {
	t.reserve(name)
	t.traits = append(t.traits, Trait{Name: name, Kind: TraitMethod, Method: m, Params: params, Result: result, Final: true})
}

// Has reports whether a trait with this name is already registered — used
// by the assembler's lazy global registration (§9 "Globals discovered
// lazily").
func (t *InstanceTraits) Has(name string) bool {
	return t.names[name]
}

func (t *InstanceTraits) reserve(name string) {
	if t.names[name] {
		panic(fmt.Sprintf("abc: trait name collision: %q", name))
	}
	t.names[name] = true
}

// All returns the traits in registration order.
func (t *InstanceTraits) All() []Trait {
	return t.traits
}

package container

import (
	"fmt"

	"github.com/brion/wasm2swf/internal/abc"
)

// methodRecord is one encoded method, carrying both the method_info fields
// (signature) and the method_body fields (code + register/stack
// high-watermarks) the ABC file needs in its two separate, index-parallel
// tables.
type methodRecord struct {
	name       string
	paramTypes []abc.SlotType
	returnType abc.SlotType // 0 means void
	code       []byte
	maxStack   int
	maxLocal   int
}

// traitMethodBinding pairs a Method trait with the method_info/method_body
// index BuildABCFile assigned its MethodBuilder.
type traitMethodBinding struct {
	trait     abc.Trait
	methodIdx int
}

// BuildABCFile serializes className's synthesized traits table, plus its
// instance and class initializers, into a complete abc_file byte stream
// (§3 "Instance traits table" -> §6 "Output" ABC blob). When wrapperClassName
// is non-empty, a second, minimal class extending flash.display.Sprite is
// also emitted (§4.3 "optionally define a thin Wrapper extends Sprite class
// for Flash loader compatibility"); BuildSWF's SymbolClass tag then binds to
// whichever of the two names the caller asked for.
func BuildABCFile(className string, trts *abc.InstanceTraits, iinit, cinit *abc.MethodBuilder, wrapperClassName string) ([]byte, error) {
	pool := newConstantPool()
	enc := newMethodCodeEncoder(pool)

	var methods []methodRecord
	addMethod := func(name string, mb *abc.MethodBuilder, params []abc.SlotType, result abc.SlotType) (int, error) {
		code, err := enc.encode(mb)
		if err != nil {
			return 0, fmt.Errorf("container: method %q: %w", name, err)
		}
		methods = append(methods, methodRecord{
			name: name, paramTypes: params, returnType: result,
			code: code, maxStack: mb.MaxStack, maxLocal: mb.MaxLocal + 1,
		})
		return len(methods) - 1, nil
	}

	iinitIdx, err := addMethod(className+"$iinit", iinit, nil, 0)
	if err != nil {
		return nil, err
	}
	cinitIdx, err := addMethod(className+"$cinit", cinit, nil, 0)
	if err != nil {
		return nil, err
	}
	sinitIdx, err := addMethod(className+"$sinit", synthesizeScriptInit(className, wrapperClassName), nil, 0)
	if err != nil {
		return nil, err
	}

	hasWrapper := wrapperClassName != ""
	var wrapperIinitIdx, wrapperCinitIdx int
	if hasWrapper {
		wrapperIinitIdx, err = addMethod(wrapperClassName+"$iinit", synthesizeWrapperIinit(), nil, 0)
		if err != nil {
			return nil, err
		}
		wrapperCinitIdx, err = addMethod(wrapperClassName+"$cinit", synthesizeClassInit(), nil, 0)
		if err != nil {
			return nil, err
		}
	}

	var slotTraits []abc.Trait
	var methodTraits []traitMethodBinding
	for _, t := range trts.All() {
		if t.Kind == abc.TraitSlot {
			slotTraits = append(slotTraits, t)
			continue
		}
		idx, err := addMethod(t.Name, t.Method, t.Params, t.Result)
		if err != nil {
			return nil, err
		}
		methodTraits = append(methodTraits, traitMethodBinding{trait: t, methodIdx: idx})
	}

	// Every qname/string this file will reference must be registered before
	// the constant pool is serialized below: encoding the method bodies
	// above already populated the pool's int/double/string entries used by
	// instructions, but the structural names used by method_info,
	// instance_info and script_info (signature types, the class name, trait
	// names) are only discovered here, so they must be pre-registered now
	// rather than interleaved with pool.write's own output.
	instanceQName := pool.qname(className)
	objectQName := pool.qname("Object")
	var wrapperQName, spriteQName uint32
	if hasWrapper {
		wrapperQName = pool.qname(wrapperClassName)
		spriteQName = pool.qname("flash.display.Sprite")
	}
	for _, m := range methods {
		for _, p := range m.paramTypes {
			pool.qname(slotTypeName(p))
		}
		pool.qname(slotTypeName(m.returnType))
		pool.addString(m.name)
	}
	for _, t := range slotTraits {
		pool.qname(t.Name)
		pool.qname(traitSlotTypeName(t))
	}
	for _, m := range methodTraits {
		pool.qname(m.trait.Name)
	}

	w := &byteWriter{}

	// abc_file header: minor_version, major_version (Tamarin's well-known
	// compatible values).
	w.u16le(16)
	w.u16le(46)

	pool.write(w)

	// method_info: one entry per methodRecord, in the order methods were
	// added above (iinit, cinit, sinit, then every trait method).
	w.u30(uint32(len(methods)))
	for _, m := range methods {
		w.u30(uint32(len(m.paramTypes)))
		for _, p := range m.paramTypes {
			w.u30(pool.qname(slotTypeName(p)))
		}
		w.u30(pool.qname(slotTypeName(m.returnType)))
		w.u30(pool.addString(m.name))
		w.byte(0) // flags: none of NEED_ARGUMENTS/NEED_REST/HAS_OPTIONAL/etc apply
	}

	// metadata_info: none.
	w.u30(0)

	// class_count is implied by instance_info/class_info below: this compiler
	// always synthesizes the one module class, plus an optional thin Wrapper
	// extends Sprite class when requested (§4.3).
	classCount := uint32(1)
	if hasWrapper {
		classCount = 2
	}
	w.u30(classCount)
	w.u30(instanceQName)
	w.u30(objectQName)
	w.byte(0) // flags: no ClassSealed/ClassFinal/ClassInterface/ProtectedNs
	w.u30(0)  // interface_count
	w.u30(uint32(iinitIdx))
	writeTraits(w, pool, slotTraits, methodTraits)
	if hasWrapper {
		w.u30(wrapperQName)
		w.u30(spriteQName)
		w.byte(0) // flags: none
		w.u30(0)  // interface_count
		w.u30(uint32(wrapperIinitIdx))
		writeTraits(w, pool, nil, nil)
	}

	w.u30(classCount) // class_info count, parallel to instance_info above
	w.u30(uint32(cinitIdx))
	w.u30(0) // no static traits on the class object itself
	if hasWrapper {
		w.u30(uint32(wrapperCinitIdx))
		w.u30(0)
	}

	// script_info: one script installing the synthesized class(es) into
	// global scope, per §4.3's "Script initializer: install the synthesized
	// class into the script's scope chain".
	w.u30(1)
	w.u30(uint32(sinitIdx))
	scriptTraitCount := uint32(1)
	if hasWrapper {
		scriptTraitCount = 2
	}
	w.u30(scriptTraitCount)
	writeClassTrait(w, pool, instanceQName, 0)
	if hasWrapper {
		writeClassTrait(w, pool, wrapperQName, 1)
	}

	// method_body_info: one per methodRecord, same order/index as method_info.
	w.u30(uint32(len(methods)))
	for i, m := range methods {
		w.u30(uint32(i))
		w.u30(uint32(m.maxStack))
		w.u30(uint32(m.maxLocal))
		w.u30(2) // scope_depth: this plus one class-scope slot
		w.u30(9) // max_scope_depth: generous fixed budget, never executed
		w.u30(uint32(len(m.code)))
		w.bytes(m.code)
		w.u30(0) // exception_count
		w.u30(0) // trait_count (method-local traits, unused)
	}

	return w.buf, nil
}

// synthesizeScriptInit builds the script-level initializer that installs the
// synthesized class(es) into global scope (§4.3 "Script initializer"): enter
// global scope, construct each class object from its base class, and bind it
// to its name as a property of the global object. When wrapperClassName is
// non-empty, the thin Sprite subclass is installed as the script's second
// class, at class_info index 1.
func synthesizeScriptInit(className, wrapperClassName string) *abc.MethodBuilder {
	b := abc.NewMethodBuilder(0)
	b.EmitGetLocal(0)
	b.EmitPushScope()
	b.EmitGetLocal(0)      // initproperty's target object
	b.EmitGetLex("Object") // newclass's required base-class reference
	b.EmitNewClass(0)
	b.EmitInitProperty(className)
	if wrapperClassName != "" {
		b.EmitGetLocal(0)
		b.EmitGetLex("flash.display.Sprite")
		b.EmitNewClass(1)
		b.EmitInitProperty(wrapperClassName)
	}
	b.EmitReturnVoid()
	return b
}

// synthesizeWrapperIinit builds the trivial instance constructor for the
// --sprite Wrapper class: just chains up to Sprite's own constructor.
func synthesizeWrapperIinit() *abc.MethodBuilder {
	b := abc.NewMethodBuilder(0)
	b.EmitGetLocal(0)
	b.EmitPushScope()
	b.EmitGetLocal(0)
	b.EmitConstructSuper(0)
	b.EmitReturnVoid()
	return b
}

// slotTypeName maps a Slot/param type back to the AVM2 type name its QName
// multiname needs (§3 "Slot traits"). Concrete Object subtypes (ByteArray,
// ByteArray, Array, ...) are carried on the Trait itself via SlotTypeName and
// are handled by writeTraits, not here; slotTypeName only covers the few
// types a bare SlotType enum value can name unambiguously.
func slotTypeName(t abc.SlotType) string {
	switch t {
	case abc.SlotInt:
		return "int"
	case abc.SlotNumber:
		return "Number"
	case abc.SlotFunction:
		return "Function"
	default:
		return "*" // void return / untyped Object param
	}
}

// traitSlotTypeName resolves a Slot trait's AVM2 type name, preferring the
// concrete SlotTypeName (ByteArray, Array, Object, ...) a SlotObject trait
// carries over the generic slotTypeName fallback.
func traitSlotTypeName(t abc.Trait) string {
	if t.SlotType == abc.SlotObject && t.SlotTypeName != "" {
		return t.SlotTypeName
	}
	return slotTypeName(t.SlotType)
}

// writeTraits serializes the instance_info trait_count and trait entries:
// slot traits first, then method traits, matching registration order.
func writeTraits(w *byteWriter, pool *constantPool, slots []abc.Trait, methods []traitMethodBinding) {
	w.u30(uint32(len(slots) + len(methods)))
	slotID := uint32(1)
	for _, t := range slots {
		const traitKindSlot = 0
		w.u30(pool.qname(t.Name))
		w.byte(traitKindSlot)
		w.u30(slotID)
		w.u30(pool.qname(traitSlotTypeName(t)))
		w.u30(0) // vindex: no default value
		slotID++
	}
	for _, m := range methods {
		const traitKindMethod = 1
		const traitFlagFinal = 1 << 4
		w.u30(pool.qname(m.trait.Name))
		w.byte(traitKindMethod | traitFlagFinal)
		w.u30(0) // disp_id: let the VM assign one
		w.u30(uint32(m.methodIdx))
	}
}

// writeClassTrait serializes the single script-level trait that exposes
// the synthesized class globally (§4.3 "Script initializer"). classIndex is
// the 0-based position of the class in the instance_info/class_info tables,
// distinct from classQName, which only names the trait itself.
func writeClassTrait(w *byteWriter, pool *constantPool, classQName uint32, classIndex uint32) {
	const traitKindClass = 4
	w.u30(classQName)
	w.byte(traitKindClass)
	w.u30(1) // slot_id
	w.u30(classIndex)
}

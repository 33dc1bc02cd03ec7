// Package descriptors provides typed attributes and cached properties for Go
// structs, declared once per owner type and enforced on every access.
//
// An owner type embeds Slots and declares its descriptors on a Class:
//
//	type Graph struct{ descriptors.Slots }
//
//	var (
//		graphClass = descriptors.Register[*Graph](descriptors.NewClass("Graph"))
//		graphN     = descriptors.Define(graphClass, "n", descriptors.NewAttr(descriptors.Int,
//			descriptors.AttrOpts[*Graph, int]{
//				Validator: func(_ *Graph, n int) bool { return n >= 0 },
//				Readonly:  true,
//			}))
//		graphEdges = descriptors.Define(graphClass, "edges", descriptors.NewProp(nil,
//			func(g *Graph) ([][2]int, error) { ... }))
//	)
//
// There are two kinds of descriptors:
//   - Attr: a typed attribute. Set checks the value against the declared
//     Type, then runs the validator with the instance in scope, then stores
//     it. Readonly attributes can be set once and never deleted.
//   - Prop: a lazily computed property. The first Get calls the value
//     function and caches the result; Invalidate drops the cache unless the
//     property is immutable.
//
// Types describe the accepted shape of a value structurally: scalars
// (Int, String, ...), Go types (Of[T]), sequences, tuples, mappings, unions,
// optionals and literals. Nested mismatches report the path of the
// offending element, e.g. "Graph.labels[2]: expected String, got int (5)".
//
// Values live in the instance's Slots, either in a map keyed by backing name
// or, for instances created with Class.NewSlots, in a fixed array of cells
// indexed by declaration order.
//
// Instances can be initialized in bulk from a map (Class.Init), a JSON or
// YAML document (Class.InitJSON, Class.InitYAML) or the environment
// (Class.InitEnv). Types registered with Register can use the package-level
// Init functions without naming their class.
//
// Nothing in this package locks. Slots must not be written concurrently,
// and two goroutines reading an uncomputed Prop may both compute it.
package descriptors

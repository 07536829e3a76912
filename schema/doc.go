// Package schema describes a resolved Ecsact package snapshot: the enums,
// components, transients, actions and systems of one package, together with
// field layouts and the capabilities each system-like declares.
//
// Snapshots are produced by the Ecsact parser (or written by hand for tests)
// and decoded by [github.com/ecsact-dev/ecsact-lang-cpp/compiler/load]. The
// generator treats them as immutable for the duration of a generation pass.
//
// # Quick Start
//
//	pkg := &schema.Package{
//	    Name: "game",
//	    Components: []*schema.Composite{{
//	        ID:     1,
//	        Name:   "Position",
//	        Fields: []*schema.Field{schema.Builtin("x", ecsact.I32), schema.Builtin("y", ecsact.I32)},
//	    }},
//	    Systems: []*schema.System{{
//	        ID:   5,
//	        Name: "Move",
//	        SystemLike: schema.SystemLike{
//	            Capabilities: []*schema.Capability{schema.Cap(1, ecsact.CapReadwrite)},
//	        },
//	    }},
//	}
//
// The same package as YAML:
//
//	name: game
//	components:
//	  - id: 1
//	    name: Position
//	    fields:
//	      - {name: x, type: i32}
//	      - {name: y, type: i32}
//	systems:
//	  - id: 5
//	    name: Move
//	    capabilities:
//	      - {component: 1, flags: readwrite}
package schema

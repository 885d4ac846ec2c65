// Package signature discovers the dependencies of a callable from the text
// of its signature.
//
// Go cannot report parameter names at runtime, so callables registered with
// the container carry their parameter list as text. The grammar is the
// narrow one needed to find a parameter list in function, arrow and class
// notation:
//
//	signature.ParseParameterList("(db, logger, cache = nil)")
//	// [{db false} {logger false} {cache true}]
//
//	signature.ParseParameterList("class Repo { constructor(db) {} }")
//	// [{db false}]
//
//	signature.ParseParameterList("class Repo extends Base {}")
//	// nil: no own constructor, see ParseDependencies
//
// Default-value expressions are skipped with their nested calls, brackets,
// strings and template interpolations, so they never leak parameter names:
//
//	signature.ParseParameterList("(a = fn(1, [2, 3]), b = `x${y, z}`)")
//	// [{a true} {b true}]
//
// # Inheritance
//
// A class without its own constructor inherits the parameter list of its
// parent. Sources implementing [Inherited] are walked by [ParseDependencies]
// until a constructor is found.
package signature

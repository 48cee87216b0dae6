// Package mson resolves declarative model description files into trees of
// parts and geometry.
//
// A description file declares a texture, a dilation, a block of locals and
// a data object of named components. Files may inherit from a parent file,
// and components may link to each other by name, import the single root of
// another file, or fill a slot with an implementation built from another
// file.
//
// # Loading
//
// A [Foundry] reads files through a [Fetcher]. Loading happens in two
// phases: [Foundry.Load] parses a file and its parents and requests every
// file its slots and imports refer to, then [Foundry.Wait] fetches the
// requested files concurrently and parses them in turn:
//
//	foundry := mson.NewFoundry(fetcher)
//	root, err := foundry.Build(ctx, ident.MustParse("mson:steve"))
//
// [Foundry.Build] does both and then exports the tree.
//
// # Building
//
// Each build walks the components of a file with a [Context]. The context
// carries the evaluated locals and a memo cache, so a component exported
// twice by name in one build yields the same node.
//
// # Custom types
//
// A [Registry] maps component types to their factories. Types outside the
// reserved namespaces may be added with [Registry.RegisterComponent].
package mson

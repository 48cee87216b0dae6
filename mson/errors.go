package mson

import (
	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/pkg"
)

var (
	// ErrUnknownComponent is returned for a node type that is not registered.
	ErrUnknownComponent = pkg.NewError("unknown component type")
	// ErrMissingMember is returned when a required member is absent or null.
	ErrMissingMember = pkg.NewError("missing required member")
	// ErrMalformedComponent is returned for members of the wrong shape.
	ErrMalformedComponent = pkg.NewError("malformed component")
	// ErrDuplicateRegistration is returned when an id is registered twice.
	ErrDuplicateRegistration = pkg.NewError("duplicate registration")
	// ErrReservedNamespace is returned when registering into a namespace
	// owned by the resolver.
	ErrReservedNamespace = pkg.NewError("reserved namespace")
	// ErrCyclicalReference is returned when a local refers to itself,
	// directly or through other locals.
	ErrCyclicalReference = pkg.NewError("cyclical reference")
	// ErrCyclicalComponent is returned when a named lookup re-enters itself.
	ErrCyclicalComponent = pkg.NewError("cyclical component reference")
	// ErrCyclicalParent is returned when files inherit from each other.
	ErrCyclicalParent = pkg.NewError("cyclical parent")
	// ErrUnresolvedData is returned when a slot or import is exported before
	// its data file has loaded.
	ErrUnresolvedData = pkg.NewError("data is not resolved yet")
	// ErrNestedData is returned for inline data that declares its own data
	// block.
	ErrNestedData = pkg.NewError("nested data block")
	// ErrLinkNotFound is returned when a named lookup exhausts every file.
	ErrLinkNotFound = pkg.NewError("key not found")
	// ErrImportArity is returned when an imported file does not define
	// exactly one root.
	ErrImportArity = pkg.NewError("imported file must define exactly one part")
	// ErrExtraContext is returned when geometry is exported outside a part.
	ErrExtraContext = pkg.NewError("got extra context different from part builder")
	// ErrNotLoaded is returned when building a file that failed to load.
	ErrNotLoaded = pkg.NewError("model file was not loaded")

	ErrUnsupportedFace = geom.ErrUnsupportedFace
)

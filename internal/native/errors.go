package native

import "errors"

var (
	// ErrUnknownAlgorithm is returned by a Factory for names it does not provide.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrUnknownSlot is returned when an algorithm has no input or output of the
	// requested name.
	ErrUnknownSlot = errors.New("unknown slot")

	// ErrSlotType is returned when a slot is bound to storage of the wrong type.
	ErrSlotType = errors.New("slot type mismatch")

	// ErrUnboundSlot is returned by Compute when a declared slot has no storage.
	ErrUnboundSlot = errors.New("slot not bound")

	// ErrUnknownParameter is returned by Configure for undeclared parameter names.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrParameterKind is returned when a parameter payload does not match its kind.
	ErrParameterKind = errors.New("parameter kind mismatch")

	// ErrNotStringable is returned by Parameter.ToString for kinds without a
	// textual rendering.
	ErrNotStringable = errors.New("parameter cannot be rendered as a string")

	// ErrDescriptorType is returned by Pool when a descriptor already exists
	// with a different type.
	ErrDescriptorType = errors.New("descriptor exists with a different type")

	// ErrMergeConflict is returned by Pool.Merge under MergeStrict when both pools
	// hold the same descriptor.
	ErrMergeConflict = errors.New("descriptor exists in both pools")

	// ErrNotInitialized is returned by backends used outside Init/Shutdown.
	ErrNotInitialized = errors.New("library not initialized")
)

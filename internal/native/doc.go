// Package native is the contract of the signal-processing library that sigbind
// drives.
//
// Everything here describes the library at its interface: the element types its
// algorithms consume and produce, the accumulating descriptor Pool, the
// Parameter/ParameterMap configuration model, typed input/output slots, the
// algorithm Factory and the process-wide Backend lifecycle. The algorithms'
// internal computation is not part of this package.
//
// Backends implement Algorithm by embedding Base and declaring their parameters
// and slots in a constructor:
//
//	type mean struct {
//	    native.Base
//	    array native.Input[[]native.Real]
//	    mean  native.Output[native.Real]
//	}
//
//	func newMean() native.Algorithm {
//	    a := &mean{Base: native.NewBase("Mean")}
//	    a.array = native.DeclareInput[[]native.Real](&a.Base, "array", "the input array")
//	    a.mean = native.DeclareOutput[native.Real](&a.Base, "mean", "the mean of the array")
//	    return a
//	}
//
// Slots hold pointers to caller-owned storage. Binding an output and calling
// Compute mutates that storage in place.
package native

// Package harness runs algorithm scenarios against a registry and checks
// their outputs.
//
// A scenario names an algorithm, the parameters to configure it with, the
// inputs to bind and the outputs to set up. The harness computes, then
// compares every output listed under expect against the actual value with a
// float tolerance. Scenarios can instead expect a failure by error code.
//
// Scenario files are YAML:
//
//	name: mean-ramp
//	description: mean of a short ramp
//	algorithm: Mean
//	inputs:
//	  array:
//	    value: [1, 2, 3, 4]
//	outputs:
//	  mean: Float
//	expect:
//	  mean: 2.5
//
// Parameter and input values without an explicit type are decoded as the
// shape the algorithm declares for them. Outputs left empty are all set up
// with their declared types.
//
// RunWithGolden additionally snapshots every output in canonical JSON under
// testdata/golden, so a change in any output shows up as a golden diff.
package harness

// Package algorithms is the root of the generated typed bindings, one
// subpackage per algorithm category.
package algorithms

//go:generate go run ../../cmd/sigbind-gen --out .

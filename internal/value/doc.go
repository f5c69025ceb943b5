// Package value implements the boundary value: a closed tagged union over
// every data shape the native library's algorithms consume or produce.
//
// A Value owns its payload in native layout, so algorithm slots can be bound
// directly to its storage. Constructors copy caller memory; accessors come in
// two flavors, zero-copy views (AsX) valid while the Value is alive and
// unmodified, and owned copies (CopyX).
//
// Every consumer of a Value's shape dispatches through Visitor. Adding a shape
// means adding a Visitor method, which breaks compilation of every consumer
// until it handles the new shape.
//
// Store is the named-value store ("pool"), either owning its native pool or
// viewing one held elsewhere, e.g. inside a Pool-tagged Value.
package value

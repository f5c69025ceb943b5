package value

import (
	"fmt"
	"reflect"

	"github.com/roach88/sigbind/internal/native"
)

// Value holds exactly one datum of one shape.
//
// The payload lives behind a pointer to native storage, so its address is
// stable for the lifetime of the Value and output slots can write into it.
// A Value is not safe for concurrent use. Only the constructors, Zero and
// Decode produce valid Values; the zero Value panics on use.
type Value struct {
	data any // pointer to the tag's native storage type

	// store is the lazily built view of a Pool payload.
	store *Store
}

func newValue[T any](v T) *Value {
	return &Value{data: &v}
}

// Zero returns a Value of the given shape in its default state.
func Zero(t Tag) (*Value, error) {
	typ, err := NativeTypeForTag(t)
	if err != nil {
		return nil, err
	}
	return &Value{data: reflect.New(typ).Interface()}, nil
}

// DataType returns the active shape.
func (v *Value) DataType() Tag {
	if v.data == nil {
		panic("value: corrupt payload: zero Value, use a constructor")
	}
	t, err := TagForNativeType(reflect.TypeOf(v.data).Elem())
	if err != nil {
		// Every constructor stores a registered type.
		panic(fmt.Sprintf("value: corrupt payload: %v", err))
	}
	return t
}

// Storage returns the pointer to the payload's native storage. Algorithm slots
// are bound to it.
func (v *Value) Storage() any {
	return v.data
}

// Clone returns a deep copy. The copy has no cached store view.
func (v *Value) Clone() *Value {
	c, err := Accept[*Value](v, cloner{})
	if err != nil {
		panic(fmt.Sprintf("value: clone %s: %v", v.DataType(), err))
	}
	return c
}

// Assign replaces v's payload with a deep copy of other's. When both hold the
// same shape the copy is written into v's existing storage, so slots bound to
// v observe it. Any cached store view is dropped.
func (v *Value) Assign(other *Value) {
	c := other.Clone()
	v.store = nil
	if reflect.TypeOf(v.data) == reflect.TypeOf(c.data) {
		reflect.ValueOf(v.data).Elem().Set(reflect.ValueOf(c.data).Elem())
		return
	}
	v.data = c.data
}

func (v *Value) String() string {
	return fmt.Sprintf("%s(%v)", v.DataType(), reflect.ValueOf(v.data).Elem().Interface())
}

// pool returns the Pool payload. Only valid after a TagPool check.
func (v *Value) pool() *native.Pool {
	return v.data.(*native.Pool)
}

func (v *Value) check(want Tag) error {
	if got := v.DataType(); got != want {
		return mismatch(want, got)
	}
	return nil
}

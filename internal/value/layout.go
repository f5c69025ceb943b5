package value

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/roach88/sigbind/internal/native"
)

// StereoSample is the boundary form of one left/right frame. It shares its
// memory layout with native.StereoSample.
type StereoSample struct {
	Left  float32
	Right float32
}

// Complex is the boundary form of a single precision complex number. It
// shares its memory layout with complex64.
type Complex struct {
	Real float32
	Imag float32
}

// Size, alignment and field offsets must agree on both sides of every
// reinterpretation below. A disagreement makes one of these array lengths a
// negative constant and fails compilation.
var (
	_ [unsafe.Sizeof(StereoSample{}) - unsafe.Sizeof(native.StereoSample{})]struct{}
	_ [unsafe.Sizeof(native.StereoSample{}) - unsafe.Sizeof(StereoSample{})]struct{}
	_ [unsafe.Alignof(StereoSample{}) - unsafe.Alignof(native.StereoSample{})]struct{}
	_ [unsafe.Alignof(native.StereoSample{}) - unsafe.Alignof(StereoSample{})]struct{}
	_ [unsafe.Offsetof(StereoSample{}.Right) - unsafe.Offsetof(native.StereoSample{}.Right)]struct{}
	_ [unsafe.Offsetof(native.StereoSample{}.Right) - unsafe.Offsetof(StereoSample{}.Right)]struct{}

	_ [unsafe.Sizeof(Complex{}) - unsafe.Sizeof(complex64(0))]struct{}
	_ [unsafe.Sizeof(complex64(0)) - unsafe.Sizeof(Complex{})]struct{}
	_ [unsafe.Alignof(Complex{}) - unsafe.Alignof(complex64(0))]struct{}
	_ [unsafe.Alignof(complex64(0)) - unsafe.Alignof(Complex{})]struct{}
	_ [unsafe.Offsetof(Complex{}.Imag) - unsafe.Sizeof(float32(0))]struct{}
	_ [unsafe.Sizeof(float32(0)) - unsafe.Offsetof(Complex{}.Imag)]struct{}
)

func init() {
	if err := checkLayout(); err != nil {
		panic(err)
	}
}

// checkLayout verifies that the composite records hold only plain float32
// fields, so a bulk byte copy between the two forms is a valid copy.
func checkLayout() error {
	for _, typ := range []reflect.Type{
		reflect.TypeFor[StereoSample](),
		reflect.TypeFor[native.StereoSample](),
		reflect.TypeFor[Complex](),
	} {
		if typ.NumField() != 2 {
			return fmt.Errorf("value: %s has %d fields, want 2", typ, typ.NumField())
		}
		for i := range typ.NumField() {
			if k := typ.Field(i).Type.Kind(); k != reflect.Float32 {
				return fmt.Errorf("value: %s.%s is %s, want float32", typ, typ.Field(i).Name, k)
			}
		}
	}
	if k := reflect.TypeFor[complex64]().Kind(); k != reflect.Complex64 {
		return fmt.Errorf("value: complex64 has kind %s", k)
	}
	return nil
}

func stereoView(s []native.StereoSample) []StereoSample {
	return unsafe.Slice((*StereoSample)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}

func complexView(s []complex64) []Complex {
	return unsafe.Slice((*Complex)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}

func stereoToNative(s []StereoSample) []native.StereoSample {
	out := make([]native.StereoSample, len(s))
	copy(stereoView(out), s)
	return out
}

func complexToNative(s []Complex) []complex64 {
	out := make([]complex64, len(s))
	copy(complexView(out), s)
	return out
}

package codegen

import (
	"go/token"
	"go/types"
	"strings"
	"unicode"
)

// words splits a native name on every character that cannot appear in a Go
// identifier.
func words(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// exported turns a native name into an exported identifier:
// "maxAbsValue" becomes MaxAbsValue, "hop-size" becomes HopSize.
func exported(name string) string {
	var b strings.Builder
	for _, w := range words(name) {
		r := []rune(w)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(string(r[1:]))
	}
	s := b.String()
	if s == "" || unicode.IsDigit([]rune(s)[0]) {
		s = "X" + s
	}
	return s
}

// reserved names would shadow an identifier the generated code uses.
var reserved = map[string]bool{
	"a":         true,
	"err":       true,
	"algorithm": true,
	"registry":  true,
	"value":     true,
}

// argument turns a native input name into a Compute parameter name.
func argument(name string) string {
	r := []rune(exported(name))
	r[0] = unicode.ToLower(r[0])
	s := string(r)
	if token.IsKeyword(s) || types.Universe.Lookup(s) != nil || reserved[s] {
		s += "Value"
	}
	return s
}

// fileName turns an algorithm name into a snake_case Go file name:
// FrameCutter becomes frame_cutter.go, RMS becomes rms.go.
func fileName(name string) string {
	var b strings.Builder
	for _, w := range words(name) {
		r := []rune(w)
		for i, c := range r {
			boundary := i > 0 && unicode.IsUpper(c) &&
				(unicode.IsLower(r[i-1]) || unicode.IsDigit(r[i-1]) ||
					(i+1 < len(r) && unicode.IsLower(r[i+1])))
			if (boundary || i == 0) && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(c))
		}
	}
	s := b.String()
	if s == "" {
		s = "algorithm"
	}
	// A _test suffix would hide the file from the package.
	if strings.HasSuffix(s, "_test") {
		s += "_binding"
	}
	return s + ".go"
}

// packageName turns a category into a package name.
func packageName(category string) string {
	var b strings.Builder
	for _, c := range category {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			b.WriteRune(unicode.ToLower(c))
		}
	}
	s := b.String()
	if s == "" || !unicode.IsLetter([]rune(s)[0]) || token.IsKeyword(s) {
		s = "category" + s
	}
	return s
}

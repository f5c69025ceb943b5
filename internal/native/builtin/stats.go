package builtin

import (
	"errors"
	"maps"
	"math"
	"slices"

	"github.com/roach88/sigbind/internal/native"
)

var errEmptyInput = errors.New("cannot operate on an empty array")

type mean struct {
	native.Base
	array native.Input[[]native.Real]
	mean  native.Output[native.Real]
}

func newMean() native.Algorithm {
	a := &mean{Base: native.NewBase("Mean")}
	a.array = native.DeclareInput[[]native.Real](&a.Base, "array", "the input array")
	a.mean = native.DeclareOutput[native.Real](&a.Base, "mean", "the mean of the input array")
	return a
}

func (a *mean) Compute() error {
	if err := a.CheckBound(); err != nil {
		return err
	}
	x := a.array.Get()
	if len(x) == 0 {
		return errEmptyInput
	}
	a.mean.Set(native.Real(sum(x) / float64(len(x))))
	return nil
}

type energy struct {
	native.Base
	array  native.Input[[]native.Real]
	energy native.Output[native.Real]
}

func newEnergy() native.Algorithm {
	a := &energy{Base: native.NewBase("Energy")}
	a.array = native.DeclareInput[[]native.Real](&a.Base, "array", "the input array")
	a.energy = native.DeclareOutput[native.Real](&a.Base, "energy", "the energy of the input array")
	return a
}

func (a *energy) Compute() error {
	if err := a.CheckBound(); err != nil {
		return err
	}
	a.energy.Set(native.Real(sumSquares(a.array.Get())))
	return nil
}

type rms struct {
	native.Base
	array native.Input[[]native.Real]
	rms   native.Output[native.Real]
}

func newRMS() native.Algorithm {
	a := &rms{Base: native.NewBase("RMS")}
	a.array = native.DeclareInput[[]native.Real](&a.Base, "array", "the input array")
	a.rms = native.DeclareOutput[native.Real](&a.Base, "rms", "the root mean square of the input array")
	return a
}

func (a *rms) Compute() error {
	if err := a.CheckBound(); err != nil {
		return err
	}
	x := a.array.Get()
	if len(x) == 0 {
		return errEmptyInput
	}
	a.rms.Set(native.Real(math.Sqrt(sumSquares(x) / float64(len(x)))))
	return nil
}

// summary keeps the mean of every computed array until Reset.
type summary struct {
	native.Base
	array   native.Input[[]native.Real]
	pool    native.Output[native.Pool]
	history []native.Real
}

func newSummary() native.Algorithm {
	a := &summary{Base: native.NewBase("Summary")}
	a.DeclareParameter("namespace", "the prefix of every descriptor name", "",
		native.MustParameter(native.ParamString, "summary"))
	a.DeclareParameter("extra", "constant descriptors added to every summary", "",
		native.MustParameter(native.ParamMapReal, map[string]native.Real{}))
	a.array = native.DeclareInput[[]native.Real](&a.Base, "array", "the input array")
	a.pool = native.DeclareOutput[native.Pool](&a.Base, "pool", "the summary descriptors")
	return a
}

func (a *summary) Compute() error {
	if err := a.CheckBound(); err != nil {
		return err
	}
	x := a.array.Get()
	if len(x) == 0 {
		return errEmptyInput
	}
	ns, err := native.ParamAs[string](a.Param("namespace"))
	if err != nil {
		return err
	}
	extra, err := native.ParamAs[map[string]native.Real](a.Param("extra"))
	if err != nil {
		return err
	}

	lo, hi := x[0], x[0]
	for _, v := range x[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	m := native.Real(sum(x) / float64(len(x)))
	a.history = append(a.history, m)

	var p native.Pool
	steps := []error{
		p.SetReal(ns+".mean", m),
		p.SetReal(ns+".length", native.Real(len(x))),
		p.SetVectorReal(ns+".range", []native.Real{lo, hi}),
		p.SetString(ns+".algorithm", a.Name()),
	}
	for _, v := range a.history {
		steps = append(steps, p.AddReal(ns+".history", v))
	}
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		steps = append(steps, p.SetReal(ns+"."+k, extra[k]))
	}
	if err := errors.Join(steps...); err != nil {
		return err
	}
	a.pool.Set(p)
	return nil
}

func (a *summary) Reset() {
	a.history = nil
}

func sum(x []native.Real) float64 {
	var s float64
	for _, v := range x {
		s += float64(v)
	}
	return s
}

func sumSquares(x []native.Real) float64 {
	var s float64
	for _, v := range x {
		s += float64(v) * float64(v)
	}
	return s
}

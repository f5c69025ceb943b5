package builtin

import (
	"fmt"
	"math/cmplx"

	"github.com/roach88/sigbind/internal/native"
)

type scale struct {
	native.Base
	in  native.Input[[]native.Real]
	out native.Output[[]native.Real]
}

func newScale() native.Algorithm {
	a := &scale{Base: native.NewBase("Scale")}
	a.DeclareParameter("factor", "the multiplication factor by which the audio will be scaled", "[0,inf)",
		native.MustParameter(native.ParamReal, native.Real(10)))
	a.DeclareParameter("clipping", "boolean flag whether to apply clipping or not", "{true,false}",
		native.MustParameter(native.ParamBool, true))
	a.DeclareParameter("maxAbsValue", "the maximum value above which to apply clipping", "[0,inf)",
		native.MustParameter(native.ParamReal, native.Real(1)))
	a.in = native.DeclareInput[[]native.Real](&a.Base, "signal", "the input audio signal")
	a.out = native.DeclareOutput[[]native.Real](&a.Base, "signal", "the output audio signal")
	return a
}

func (a *scale) Configure(params *native.ParameterMap) error {
	return a.ApplyParameters(params, func(next *native.ParameterMap) error {
		p, _ := next.Get("factor")
		factor, _ := native.ParamAs[native.Real](p)
		if factor < 0 {
			return fmt.Errorf("scale: factor %v out of range [0,inf)", factor)
		}
		return nil
	})
}

func (a *scale) Compute() error {
	if err := a.CheckBound(); err != nil {
		return err
	}
	factor, _ := native.ParamAs[native.Real](a.Param("factor"))
	clipping, _ := native.ParamAs[bool](a.Param("clipping"))
	limit, _ := native.ParamAs[native.Real](a.Param("maxAbsValue"))

	in := a.in.Get()
	out := make([]native.Real, len(in))
	for i, v := range in {
		v *= factor
		if clipping {
			v = max(-limit, min(limit, v))
		}
		out[i] = v
	}
	a.out.Set(out)
	return nil
}

type stereoDemuxer struct {
	native.Base
	audio native.Input[[]native.StereoSample]
	left  native.Output[[]native.Real]
	right native.Output[[]native.Real]
}

func newStereoDemuxer() native.Algorithm {
	a := &stereoDemuxer{Base: native.NewBase("StereoDemuxer")}
	a.audio = native.DeclareInput[[]native.StereoSample](&a.Base, "audio", "the audio signal")
	a.left = native.DeclareOutput[[]native.Real](&a.Base, "left", "the left channel of the audio signal")
	a.right = native.DeclareOutput[[]native.Real](&a.Base, "right", "the right channel of the audio signal")
	return a
}

func (a *stereoDemuxer) Compute() error {
	if err := a.CheckBound(); err != nil {
		return err
	}
	audio := a.audio.Get()
	left := make([]native.Real, len(audio))
	right := make([]native.Real, len(audio))
	for i, s := range audio {
		left[i], right[i] = s.Left, s.Right
	}
	a.left.Set(left)
	a.right.Set(right)
	return nil
}

type frameCutter struct {
	native.Base
	signal native.Input[[]native.Real]
	frames native.Output[[][]native.Real]
}

func newFrameCutter() native.Algorithm {
	a := &frameCutter{Base: native.NewBase("FrameCutter")}
	a.DeclareParameter("frameSize", "the output frame size", "[1,inf)",
		native.MustParameter(native.ParamInt, int32(1024)))
	a.DeclareParameter("hopSize", "the hop size between frames", "[1,inf)",
		native.MustParameter(native.ParamInt, int32(512)))
	a.signal = native.DeclareInput[[]native.Real](&a.Base, "signal", "the input signal")
	a.frames = native.DeclareOutput[[][]native.Real](&a.Base, "frames", "the frames of the signal")
	return a
}

func (a *frameCutter) Configure(params *native.ParameterMap) error {
	return a.ApplyParameters(params, func(next *native.ParameterMap) error {
		for _, name := range []string{"frameSize", "hopSize"} {
			p, _ := next.Get(name)
			v, _ := native.ParamAs[int32](p)
			if v < 1 {
				return fmt.Errorf("frame cutter: %s %d out of range [1,inf)", name, v)
			}
		}
		return nil
	})
}

func (a *frameCutter) Compute() error {
	if err := a.CheckBound(); err != nil {
		return err
	}
	frameSize, _ := native.ParamAs[int32](a.Param("frameSize"))
	hopSize, _ := native.ParamAs[int32](a.Param("hopSize"))
	signal := a.signal.Get()

	var frames [][]native.Real
	for start := 0; start < len(signal); start += int(hopSize) {
		frame := make([]native.Real, frameSize)
		copy(frame, signal[start:])
		frames = append(frames, frame)
	}
	a.frames.Set(frames)
	return nil
}

type magnitude struct {
	native.Base
	complex   native.Input[[]complex64]
	magnitude native.Output[[]native.Real]
}

func newMagnitude() native.Algorithm {
	a := &magnitude{Base: native.NewBase("Magnitude")}
	a.complex = native.DeclareInput[[]complex64](&a.Base, "complex", "the input vector of complex numbers")
	a.magnitude = native.DeclareOutput[[]native.Real](&a.Base, "magnitude", "the magnitudes of the input vector")
	return a
}

func (a *magnitude) Compute() error {
	if err := a.CheckBound(); err != nil {
		return err
	}
	in := a.complex.Get()
	out := make([]native.Real, len(in))
	for i, c := range in {
		out[i] = native.Real(cmplx.Abs(complex128(c)))
	}
	a.magnitude.Set(out)
	return nil
}

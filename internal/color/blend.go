package color

import "math"

// BinaryOp combines two colors channel by channel.
type BinaryOp string

const (
	OpBlend      BinaryOp = "blend"
	OpMultiply   BinaryOp = "multiply"
	OpScreen     BinaryOp = "screen"
	OpOverlay    BinaryOp = "overlay"
	OpAdd        BinaryOp = "add"
	OpSubtract   BinaryOp = "subtract"
	OpDifference BinaryOp = "difference"
	OpDarken     BinaryOp = "darken"
	OpLighten    BinaryOp = "lighten"
)

// Valid reports whether op is known.
func (op BinaryOp) Valid() bool {
	switch op {
	case OpBlend, OpMultiply, OpScreen, OpOverlay, OpAdd, OpSubtract, OpDifference, OpDarken, OpLighten:
		return true
	}
	return false
}

func (op BinaryOp) apply(src, dst float64) float64 {
	switch op {
	case OpMultiply:
		return src * dst
	case OpScreen:
		return 1 - (1-src)*(1-dst)
	case OpOverlay:
		if dst < 0.5 {
			return 2 * src * dst
		}
		return 1 - 2*(1-src)*(1-dst)
	case OpAdd:
		return clamp(src + dst)
	case OpSubtract:
		return clamp(dst - src)
	case OpDifference:
		return math.Abs(dst - src)
	case OpDarken:
		return math.Min(src, dst)
	case OpLighten:
		return math.Max(src, dst)
	default:
		return src
	}
}

// UnaryOp copies one channel of the source onto the target.
type UnaryOp string

const (
	OpRed        UnaryOp = "red"
	OpGreen      UnaryOp = "green"
	OpBlue       UnaryOp = "blue"
	OpHue        UnaryOp = "hue"
	OpSaturation UnaryOp = "saturation"
	OpValue      UnaryOp = "value"
	OpLightness  UnaryOp = "lightness"
)

// Valid reports whether op is known.
func (op UnaryOp) Valid() bool {
	_, _, ok := op.channel()
	return ok
}

func (op UnaryOp) channel() (Space, int, bool) {
	switch op {
	case OpRed:
		return SpaceRGB, 0, true
	case OpGreen:
		return SpaceRGB, 1, true
	case OpBlue:
		return SpaceRGB, 2, true
	case OpHue:
		return SpaceHSV, 0, true
	case OpSaturation:
		return SpaceHSV, 1, true
	case OpValue:
		return SpaceHSV, 2, true
	case OpLightness:
		return SpaceHSL, 2, true
	}
	return "", 0, false
}

// InterpolateFunc shapes how far a blend moves the target toward the result.
type InterpolateFunc string

const (
	Linear InterpolateFunc = "linear"
	Smooth InterpolateFunc = "smooth"
	Step   InterpolateFunc = "step"
)

// Interpolate mixes the unblended target with the blended result.
//
// Amount is clamped to [0, 1]; 1 keeps the blended result, 0 keeps the
// target. The zero value behaves like a full linear blend.
type Interpolate struct {
	Func   InterpolateFunc `json:"func,omitempty"`
	Amount float64         `json:"amount,omitempty"`
}

func (in Interpolate) weight() float64 {
	if in == (Interpolate{}) {
		return 1
	}
	t := clamp(in.Amount)
	switch in.Func {
	case Smooth:
		return t * t * (3 - 2*t)
	case Step:
		if t < 0.5 {
			return 0
		}
		return 1
	default:
		return t
	}
}

// Mix interpolates between a and b in RGB.
func (in Interpolate) Mix(a, b Color) Color {
	w := in.weight()
	ca, cb := SpaceRGB.channels(a), SpaceRGB.channels(b)
	var out [3]float64
	for i := range out {
		out[i] = ca[i] + (cb[i]-ca[i])*w
	}
	return SpaceRGB.compose(out)
}

// Binary blends src over dst with op in space, then interpolates from dst.
func Binary(op BinaryOp, space Space, src, dst Color, in Interpolate) Color {
	cs, cd := space.channels(src), space.channels(dst)
	var out [3]float64
	for i := range out {
		out[i] = op.apply(cs[i], cd[i])
	}
	return in.Mix(dst, space.compose(out))
}

// Unary copies the channel selected by op from src into dst, then
// interpolates from dst.
func Unary(op UnaryOp, src, dst Color, in Interpolate) Color {
	space, i, ok := op.channel()
	if !ok {
		return dst
	}
	cs, cd := space.channels(src), space.channels(dst)
	cd[i] = cs[i]
	return in.Mix(dst, space.compose(cd))
}

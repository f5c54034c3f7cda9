package blend

import "github.com/gogpu/gputypes"

// Pixel is a premultiplied RGBA pixel. Alpha-only formats use index 3.
type Pixel [4]byte

// Alpha returns the alpha channel.
func (p Pixel) Alpha() byte { return p[3] }

// Factors is a Porter-Duff operator: result = src*Src + dst*Dst.
type Factors struct {
	Src, Dst gputypes.BlendFactor
}

// IsClear reports whether the operator always produces transparency.
func (f Factors) IsClear() bool {
	return f.Src == gputypes.BlendFactorZero && f.Dst == gputypes.BlendFactorZero
}

// IsSource reports whether the operator replaces the destination.
func (f Factors) IsSource() bool {
	return f.Src == gputypes.BlendFactorOne && f.Dst == gputypes.BlendFactorZero
}

// BoundedBySource reports whether a transparent source leaves the
// destination untouched.
func (f Factors) BoundedBySource() bool {
	return f.Dst == gputypes.BlendFactorOne || f.Dst == gputypes.BlendFactorOneMinusSrcAlpha
}

// BoundedByMask reports whether pixels outside the mask are untouched.
// CLEAR and SOURCE are applied through the mask and so qualify.
func (f Factors) BoundedByMask() bool {
	return f.BoundedBySource() || f.IsClear() || f.IsSource()
}

// factor evaluates a blend factor for the given alphas.
func factor(bf gputypes.BlendFactor, sa, da byte) byte {
	switch bf {
	case gputypes.BlendFactorOne:
		return 255
	case gputypes.BlendFactorSrcAlpha:
		return sa
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return 255 - sa
	case gputypes.BlendFactorDstAlpha:
		return da
	case gputypes.BlendFactorOneMinusDstAlpha:
		return 255 - da
	default:
		return 0
	}
}

// Blend applies the operator to a source and destination pixel.
func (f Factors) Blend(s, d Pixel) Pixel {
	fs := factor(f.Src, s[3], d[3])
	fd := factor(f.Dst, s[3], d[3])
	var r Pixel
	for i := range r {
		r[i] = addClamp(mulDiv255(s[i], fs), mulDiv255(d[i], fd))
	}
	return r
}

// BlendMasked applies the operator with coverage m. CLEAR removes the
// covered fraction of the destination and SOURCE interpolates towards the
// source; every other operator blends the source scaled by m.
func (f Factors) BlendMasked(s, d Pixel, m byte) Pixel {
	switch {
	case f.IsClear():
		return Scale(d, 255-m)
	case f.IsSource():
		return Lerp(d, s, m)
	case m == 255:
		return f.Blend(s, d)
	}
	return f.Blend(Scale(s, m), d)
}

// Scale multiplies every channel by m/255.
func Scale(p Pixel, m byte) Pixel {
	if m == 255 {
		return p
	}
	return Pixel{mulDiv255(p[0], m), mulDiv255(p[1], m), mulDiv255(p[2], m), mulDiv255(p[3], m)}
}

// Lerp interpolates from d towards s by t/255.
func Lerp(d, s Pixel, t byte) Pixel {
	switch t {
	case 0:
		return d
	case 255:
		return s
	}
	var r Pixel
	for i := range r {
		r[i] = addClamp(mulDiv255(s[i], t), mulDiv255(d[i], 255-t))
	}
	return r
}

// In multiplies every channel of p by the alpha of mask.
func In(p Pixel, mask byte) Pixel {
	return Scale(p, mask)
}

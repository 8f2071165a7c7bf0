package value

import (
	"fmt"
	"math"
)

type colorSpace int

const (
	spaceRGB colorSpace = iota
	spaceHSL
	spaceHWB
)

// Color is a Sass color. It is stored in whichever of RGB, HSL, or HWB
// representation it was last constructed or converted in; the other two
// representations are computed lazily (and cached) on first access,
// preserving alpha across every conversion.
type Color struct {
	space colorSpace

	r, g, b float64 // [0,255]
	h       float64 // [0,360)
	s, l    float64 // [0,100]
	w, bl   float64 // [0,100]
	alpha   float64 // [0,1]

	rgbCached, hslCached, hwbCached bool
}

func clamp(v, lo, hi float64) (float64, bool) {
	if v < lo {
		return lo, true
	}
	if v > hi {
		return hi, true
	}
	return v, false
}

// NewRGBColor constructs an RGB color, clamping any out-of-range channel
// and reporting the first one found via a *ColorChannelError (the
// returned color is always valid and usable even when err != nil).
func NewRGBColor(r, g, b, alpha float64) (*Color, error) {
	var err error
	rr, bad := clamp(r, 0, 255)
	if bad && err == nil {
		err = &ColorChannelError{Channel: "red", Value: r}
	}
	gg, bad := clamp(g, 0, 255)
	if bad && err == nil {
		err = &ColorChannelError{Channel: "green", Value: g}
	}
	bbv, bad := clamp(b, 0, 255)
	if bad && err == nil {
		err = &ColorChannelError{Channel: "blue", Value: b}
	}
	aa, bad := clamp(alpha, 0, 1)
	if bad && err == nil {
		err = &ColorChannelError{Channel: "alpha", Value: alpha}
	}
	c := &Color{space: spaceRGB, r: rr, g: gg, b: bbv, alpha: aa, rgbCached: true}
	return c, err
}

// NewHSLColor constructs an HSL color with the same clamp-and-report
// behavior as NewRGBColor for saturation, lightness and alpha. The hue is
// wrapped into [0,360) and is never reported as out of range.
func NewHSLColor(h, s, l, alpha float64) (*Color, error) {
	var err error
	hh := math.Mod(math.Mod(h, 360)+360, 360)
	ss, bad := clamp(s, 0, 100)
	if bad && err == nil {
		err = &ColorChannelError{Channel: "saturation", Value: s}
	}
	ll, bad := clamp(l, 0, 100)
	if bad && err == nil {
		err = &ColorChannelError{Channel: "lightness", Value: l}
	}
	aa, bad := clamp(alpha, 0, 1)
	if bad && err == nil {
		err = &ColorChannelError{Channel: "alpha", Value: alpha}
	}
	c := &Color{space: spaceHSL, h: hh, s: ss, l: ll, alpha: aa, hslCached: true}
	return c, err
}

// NewHWBColor constructs an HWB color with the same clamp-and-report
// behavior as NewRGBColor for whiteness, blackness and alpha. The hue is
// wrapped into [0,360) and is never reported as out of range.
func NewHWBColor(h, w, bl, alpha float64) (*Color, error) {
	var err error
	hh := math.Mod(math.Mod(h, 360)+360, 360)
	ww, bad := clamp(w, 0, 100)
	if bad && err == nil {
		err = &ColorChannelError{Channel: "whiteness", Value: w}
	}
	bb, bad := clamp(bl, 0, 100)
	if bad && err == nil {
		err = &ColorChannelError{Channel: "blackness", Value: bl}
	}
	aa, bad := clamp(alpha, 0, 1)
	if bad && err == nil {
		err = &ColorChannelError{Channel: "alpha", Value: alpha}
	}
	c := &Color{space: spaceHWB, h: hh, w: ww, bl: bb, alpha: aa, hwbCached: true}
	return c, err
}

func (c *Color) sassValue() {}
func (c *Color) Len() int   { return 1 }

func (c *Color) Alpha() float64 { return c.alpha }

// RGB returns the color's red, green, blue channels in [0,255], converting
// from whichever representation the color currently holds and caching the
// result.
func (c *Color) RGB() (r, g, b float64) {
	c.ensureRGB()
	return c.r, c.g, c.b
}

// HSL returns the color's hue/saturation/lightness channels, converting
// and caching as needed.
func (c *Color) HSL() (h, s, l float64) {
	c.ensureHSL()
	return c.h, c.s, c.l
}

// HWB returns the color's hue/whiteness/blackness channels, converting and
// caching as needed.
func (c *Color) HWB() (h, w, bl float64) {
	c.ensureHWB()
	return c.h, c.w, c.bl
}

func (c *Color) ensureRGB() {
	if c.rgbCached {
		return
	}
	if c.hslCached {
		c.r, c.g, c.b = hslToRGB(c.h, c.s, c.l)
	} else {
		c.r, c.g, c.b = hwbToRGB(c.h, c.w, c.bl)
	}
	c.rgbCached = true
}

func (c *Color) ensureHSL() {
	if c.hslCached {
		return
	}
	c.ensureRGB()
	c.h, c.s, c.l = rgbToHSL(c.r, c.g, c.b)
	c.hslCached = true
}

func (c *Color) ensureHWB() {
	if c.hwbCached {
		return
	}
	c.ensureRGB()
	c.h, c.w, c.bl = rgbToHWB(c.r, c.g, c.b)
	c.hwbCached = true
}

func (c *Color) String() string {
	r, g, b := c.RGB()
	if c.alpha >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", int(r), int(g), int(b))
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %v)", int(r), int(g), int(b), c.alpha)
}

// Equal compares colors by canonical RGBA, per §4.1: "Colors compare by
// canonical RGBA after conversion".
func (c *Color) Equal(o Value) bool {
	oc, ok := o.(*Color)
	if !ok {
		return false
	}
	r1, g1, b1 := c.RGB()
	r2, g2, b2 := oc.RGB()
	return math.Abs(r1-r2) < numericTolerance &&
		math.Abs(g1-g2) < numericTolerance &&
		math.Abs(b1-b2) < numericTolerance &&
		math.Abs(c.alpha-oc.alpha) < numericTolerance
}

// AsColor downcasts v to *Color.
func AsColor(v Value) (*Color, error) {
	c, ok := v.(*Color)
	if !ok {
		return nil, &DowncastError{Want: "color", Got: v}
	}
	return c, nil
}

func rgbToHSL(r, g, b float64) (h, s, l float64) {
	r, g, b = r/255, g/255, b/255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	if max == min {
		return 0, 0, l * 100
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}
	h *= 60

	return h, s * 100, l * 100
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	h = h / 360
	s = s / 100
	l = l / 100

	if s == 0 {
		return l * 255, l * 255, l * 255
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r = hueToRGB(p, q, h+1.0/3.0) * 255
	g = hueToRGB(p, q, h) * 255
	b = hueToRGB(p, q, h-1.0/3.0) * 255
	return
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

func rgbToHWB(r, g, b float64) (h, w, bl float64) {
	h, _, _ = rgbToHSL(r, g, b)
	max := math.Max(r, math.Max(g, b)) / 255
	min := math.Min(r, math.Min(g, b)) / 255
	return h, min * 100, (1 - max) * 100
}

func hwbToRGB(h, w, bl float64) (r, g, b float64) {
	w /= 100
	bl /= 100
	if w+bl >= 1 {
		gray := w / (w + bl) * 255
		return gray, gray, gray
	}
	r, g, b = hslToRGB(h, 100, 50)
	scale := 1 - w - bl
	r = r*scale + w*255
	g = g*scale + w*255
	b = b*scale + w*255
	return
}

package colors

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var (
	ErrFactorRange = errors.New("lighten/darken factor must be between 0 and 100")
	ErrCoerce      = errors.New("unable to coerce value to a color")
)

// LIGHTNESS_THRESHOLD separates light from dark colors on the luminance scale
const LIGHTNESS_THRESHOLD = 0.5

// Color is an RGBA color with components in [0,1].
type Color struct {
	R, G, B, A float64
}

func NewColor(r, g, b float64) Color { return Color{R: r, G: g, B: b, A: 1} }

func Black() Color { return NewColor(0, 0, 0) }
func White() Color { return NewColor(1, 1, 1) }
func Grey() Color  { return NewColor(0.5, 0.5, 0.5) }
func Red() Color   { return NewColor(1, 0, 0) }
func Green() Color { return NewColor(0, 1, 0) }
func Blue() Color  { return NewColor(0, 0, 1) }

func FromRGB255(r, g, b int) Color {
	return NewColor(float64(r)/255, float64(g)/255, float64(b)/255)
}

func FromHex(hex string) (c Color, err error) {
	var cf colorful.Color
	if cf, err = colorful.Hex(hex); err != nil {
		err = fmt.Errorf("%w: %v", ErrCoerce, err)
		return
	}
	c = fromColorful(cf, 1)
	return
}

// FromName looks up a CSS/SVG color name such as "steelblue".
func FromName(name string) (c Color, err error) {
	rgba, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		err = fmt.Errorf("%w: unknown color name [%s]", ErrCoerce, name)
		return
	}
	c = FromRGB255(int(rgba.R), int(rgba.G), int(rgba.B))
	return
}

func fromColorful(cf colorful.Color, alpha float64) Color {
	cf = cf.Clamped()
	return Color{R: cf.R, G: cf.G, B: cf.B, A: alpha}
}

func (c Color) colorful() colorful.Color { return colorful.Color{R: c.R, G: c.G, B: c.B} }

// Luminance is the relative luminance of the (linear) components.
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

func (c Color) IsLight() bool { return c.Luminance() > LIGHTNESS_THRESHOLD }

// Lightened scales the HSL lightness up by factor percent, clamped at 1.
func (c Color) Lightened(factor float64) (Color, error) {
	if factor < 0 || factor > 100 {
		return c, ErrFactorRange
	}
	h, s, l := c.colorful().Hsl()
	l = math.Min(1, l*(1+factor/100))
	return fromColorful(colorful.Hsl(h, s, l), c.A), nil
}

// Darkened scales the HSL lightness down by factor percent, clamped at 0.
func (c Color) Darkened(factor float64) (Color, error) {
	if factor < 0 || factor > 100 {
		return c, ErrFactorRange
	}
	h, s, l := c.colorful().Hsl()
	l = math.Max(0, l*(1-factor/100))
	return fromColorful(colorful.Hsl(h, s, l), c.A), nil
}

// Contrast returns the color darkened by 50% when it is light, lightened by 50% otherwise.
func (c Color) Contrast() Color {
	var cc Color
	if c.IsLight() {
		cc, _ = c.Darkened(50)
	} else {
		cc, _ = c.Lightened(50)
	}
	return cc
}

func (c Color) Hex() string { return c.colorful().Clamped().Hex() }

func (c Color) RGB255() (r, g, b uint8) { return c.colorful().Clamped().RGB255() }

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{
		R: uint8(math.Round(clamp(c.R) * 255)),
		G: uint8(math.Round(clamp(c.G) * 255)),
		B: uint8(math.Round(clamp(c.B) * 255)),
		A: uint8(math.Round(clamp(c.A) * 255)),
	}.RGBA()
}

// ToRGBA converts to an 8 bit color as used by plotting hosts.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func (c Color) EqualApprox(o Color, tol float64) bool {
	return math.Abs(c.R-o.R) <= tol && math.Abs(c.G-o.G) <= tol &&
		math.Abs(c.B-o.B) <= tol && math.Abs(c.A-o.A) <= tol
}

func (c Color) String() string {
	return fmt.Sprintf("Color(%.3f, %.3f, %.3f, %.3f)", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{c.R, c.G, c.B, c.A})
}

// UnmarshalJSON accepts anything Coerce accepts: component arrays, hex strings and names.
func (c *Color) UnmarshalJSON(b []byte) (err error) {
	var v interface{}
	if err = json.Unmarshal(b, &v); err != nil {
		return
	}
	*c, err = Coerce(v)
	return
}

func clamp(f float64) float64 { return math.Max(0, math.Min(1, f)) }

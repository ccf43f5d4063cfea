package colors

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

/*
Coerce converts the common color representations into a Color:
  - Color and *Color
  - any image/color.Color
  - hex strings ("#ff0000", "#f00") and CSS/SVG color names
  - 3 or 4 component arrays and slices. Integer components are on the 0..255 scale, float
    components on 0..1 unless one of them exceeds 1, as happens with decoded YAML or JSON numbers.
*/
func Coerce(v interface{}) (c Color, err error) {
	switch val := v.(type) {
	case nil:
		err = fmt.Errorf("%w: nil value", ErrCoerce)
	case Color:
		c = val
	case *Color:
		if val == nil {
			err = fmt.Errorf("%w: nil value", ErrCoerce)
			return
		}
		c = *val
	case string:
		s := strings.TrimSpace(val)
		if strings.HasPrefix(s, "#") {
			return FromHex(s)
		}
		return FromName(s)
	case color.Color:
		nc := color.NRGBAModel.Convert(val).(color.NRGBA)
		c = Color{R: float64(nc.R) / 255, G: float64(nc.G) / 255, B: float64(nc.B) / 255, A: float64(nc.A) / 255}
	case [3]float64:
		return fromFloats(val[:])
	case [4]float64:
		return fromFloats(val[:])
	case []float64:
		return fromFloats(val)
	case [3]int:
		return fromInts(val[:])
	case [4]int:
		return fromInts(val[:])
	case []int:
		return fromInts(val)
	case []interface{}:
		f := make([]float64, len(val))
		allInt := true
		for i, x := range val {
			switch n := x.(type) {
			case float64:
				f[i] = n
				if n != math.Trunc(n) {
					allInt = false
				}
			case int:
				f[i] = float64(n)
			default:
				err = fmt.Errorf("%w: component %d has type %T", ErrCoerce, i, x)
				return
			}
		}
		if allInt && anyAbove(f, 1) {
			return scale255(f)
		}
		return fromFloats(f)
	default:
		err = fmt.Errorf("%w: unsupported type %T", ErrCoerce, v)
	}
	return
}

func fromFloats(f []float64) (c Color, err error) {
	if len(f) != 3 && len(f) != 4 {
		err = fmt.Errorf("%w: need 3 or 4 components, have %d", ErrCoerce, len(f))
		return
	}
	if anyAbove(f, 1) {
		return scale255(f)
	}
	c = Color{R: f[0], G: f[1], B: f[2], A: 1}
	if len(f) == 4 {
		c.A = f[3]
	}
	return
}

func fromInts(n []int) (c Color, err error) {
	f := make([]float64, len(n))
	for i, x := range n {
		f[i] = float64(x)
	}
	return scale255(f)
}

func scale255(f []float64) (c Color, err error) {
	if len(f) != 3 && len(f) != 4 {
		err = fmt.Errorf("%w: need 3 or 4 components, have %d", ErrCoerce, len(f))
		return
	}
	for i, x := range f {
		if x < 0 || x > 255 {
			err = fmt.Errorf("%w: component %d out of range [%v]", ErrCoerce, i, x)
			return
		}
	}
	c = Color{R: f[0] / 255, G: f[1] / 255, B: f[2] / 255, A: 1}
	if len(f) == 4 {
		c.A = f[3] / 255
	}
	return
}

func anyAbove(f []float64, limit float64) bool {
	for _, x := range f {
		if x > limit {
			return true
		}
	}
	return false
}

// MustCoerce is Coerce for values known to be valid, such as package level defaults.
func MustCoerce(v interface{}) Color {
	c, err := Coerce(v)
	if err != nil {
		panic(err)
	}
	return c
}

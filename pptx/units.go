package pptx

import (
	"fmt"
	"math"
)

// EMU is the DrawingML length unit: 360000 per centimeter, 12700 per point.
type EMU int64

const (
	emuPerCm    = 360000
	emuPerPoint = 12700
	emuPerInch  = 914400
)

// Cm converts centimeters to EMU.
func Cm(v float64) EMU { return EMU(math.Round(v * emuPerCm)) }

// Pt converts points to EMU.
func Pt(v float64) EMU { return EMU(math.Round(v * emuPerPoint)) }

// Points returns e in points.
func (e EMU) Points() float64 { return float64(e) / emuPerPoint }

// Centipoints returns e in hundredths of a point, the unit of font sizes
// and line spacing in DrawingML.
func (e EMU) Centipoints() int64 { return int64(e) * 100 / emuPerPoint }

// Color is a solid sRGB color.
type Color struct {
	R, G, B uint8
}

func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// Hex returns the color as "RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Frame is the position and size of a shape on the slide.
type Frame struct {
	X, Y   EMU
	CX, CY EMU
}

package models

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a 24-bit color as shown to the user
type RGB struct {
	R, G, B uint8
}

// White is used for lights that report no color at all
var White = RGB{R: 255, G: 255, B: 255}

// ParseHex converts a "#RRGGBB" (or "#RGB") string to RGB
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Hex returns the color as a hex string (e.g., "#FF0000")
func (c RGB) Hex() string {
	return "#" + hexByte(c.R) + hexByte(c.G) + hexByte(c.B)
}

func (c RGB) String() string {
	return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)
}

func hexByte(b uint8) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{hex[b>>4], hex[b&0x0F]})
}

// XY converts the color to CIE 1931 xy chromaticity, which is what the bridge accepts
func (c RGB) XY() (x, y float64) {
	rf := applyGamma(float64(c.R) / 255.0)
	gf := applyGamma(float64(c.G) / 255.0)
	bf := applyGamma(float64(c.B) / 255.0)

	// Wide RGB D65
	X := rf*0.664511 + gf*0.154324 + bf*0.162028
	Y := rf*0.283881 + gf*0.668433 + bf*0.047685
	Z := rf*0.000088 + gf*0.072310 + bf*0.986039

	sum := X + Y + Z
	if sum == 0 {
		return 0.3127, 0.3290 // D65 white point
	}
	return X / sum, Y / sum
}

// RGBFromXY converts xy chromaticity to RGB at full luminance.
// The result is scaled so the strongest channel is saturated.
func RGBFromXY(x, y float64) RGB {
	if y == 0 {
		return White
	}

	Y := 1.0
	X := (Y / y) * x
	Z := (Y / y) * (1 - x - y)

	rf := math.Max(0, X*1.656492-Y*0.354851-Z*0.255038)
	gf := math.Max(0, -X*0.707196+Y*1.655397+Z*0.036152)
	bf := math.Max(0, X*0.051713-Y*0.121364+Z*1.011530)

	if peak := math.Max(rf, math.Max(gf, bf)); peak > 1 {
		rf, gf, bf = rf/peak, gf/peak, bf/peak
	}

	return RGB{
		R: clampTo255(reverseGamma(rf)),
		G: clampTo255(reverseGamma(gf)),
		B: clampTo255(reverseGamma(bf)),
	}
}

// RGBFromMirek approximates the RGB of a white light at the given color temperature.
// Mirek range: 153 (cool/6500K) to 500 (warm/2000K)
func RGBFromMirek(mirek int) RGB {
	if mirek <= 0 {
		return White
	}

	// Tanner Helland's approximation
	// http://www.tannerhelland.com/4435/convert-temperature-rgb-algorithm-code/
	temp := 1000000.0 / float64(mirek) / 100.0

	var rf, gf, bf float64

	if temp <= 66 {
		rf = 255
		gf = clampFloat(99.4708025861*math.Log(temp)-161.1195681661, 0, 255)
	} else {
		rf = clampFloat(329.698727446*math.Pow(temp-60, -0.1332047592), 0, 255)
		gf = clampFloat(288.1221695283*math.Pow(temp-60, -0.0755148492), 0, 255)
	}

	switch {
	case temp >= 66:
		bf = 255
	case temp <= 19:
		bf = 0
	default:
		bf = clampFloat(138.5177312231*math.Log(temp-10)-305.0447927307, 0, 255)
	}

	return RGB{R: uint8(rf), G: uint8(gf), B: uint8(bf)}
}

// applyGamma applies gamma correction for sRGB
func applyGamma(value float64) float64 {
	if value > 0.04045 {
		return math.Pow((value+0.055)/1.055, 2.4)
	}
	return value / 12.92
}

// reverseGamma applies reverse gamma correction for sRGB
func reverseGamma(value float64) float64 {
	if value <= 0.0031308 {
		return 12.92 * value
	}
	return 1.055*math.Pow(value, 1.0/2.4) - 0.055
}

func clampTo255(value float64) uint8 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 255
	}
	return uint8(math.Round(value * 255))
}

func clampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

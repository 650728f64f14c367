package models

// Field identifies a piece of light state that can be pushed to the bridge
type Field uint8

const (
	FieldOn Field = 1 << iota
	FieldColor
	FieldColorTemperature
	FieldBrightness
)

// Light represents a Philips Hue light
type Light struct {
	// Unique identifier from the bridge
	ID string
	// User-friendly name
	Name string
	// Current on/off state
	On bool
	// Displayed color
	Color RGB
	// Brightness in percent (0-100)
	Brightness float64
	// Lowest brightness the light accepts
	MinBrightness float64
	// Color temperature in mirek
	ColorTemperature int
	// Supported mirek range
	MinColorTemperature int
	MaxColorTemperature int

	SupportsColor     bool
	SupportsColorTemp bool
	SupportsDimming   bool

	// Fields changed since the light was read from the bridge
	dirty Field
}

// SetOn turns the light on or off
func (l *Light) SetOn(on bool) {
	l.On = on
	l.dirty |= FieldOn
}

// SetColorRGB sets the color from RGB values
func (l *Light) SetColorRGB(r, g, b uint8) {
	l.Color = RGB{R: r, G: g, B: b}
	l.dirty |= FieldColor
}

// SetColorTemperature sets the color temperature in mirek
func (l *Light) SetColorTemperature(mirek int) {
	l.ColorTemperature = mirek
	l.dirty |= FieldColorTemperature
}

// SetBrightness sets the brightness percentage
func (l *Light) SetBrightness(brightness float64) {
	l.Brightness = brightness
	l.dirty |= FieldBrightness
}

// Changed reports whether f was modified through a setter
func (l *Light) Changed(f Field) bool {
	return l.dirty&f != 0
}

// HasChanges reports whether any field was modified through a setter
func (l *Light) HasChanges() bool {
	return l.dirty != 0
}

// ClearChanges forgets pending modifications, typically after a successful push
func (l *Light) ClearChanges() {
	l.dirty = 0
}

// Clone creates a copy of the light
func (l *Light) Clone() *Light {
	clone := *l
	return &clone
}

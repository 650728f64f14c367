// Package planner decides which state changes an Intent makes to a light.
package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/angristan/hue-control/internal/argparse"
	"github.com/angristan/hue-control/internal/models"
)

// Mutation is a single change to a light's state
type Mutation interface {
	Apply(l *models.Light)
}

// SetOn switches the light on or off
type SetOn struct {
	On bool
}

func (m SetOn) Apply(l *models.Light) { l.SetOn(m.On) }

// SetColor sets the light's color
type SetColor struct {
	R, G, B uint8
}

func (m SetColor) Apply(l *models.Light) { l.SetColorRGB(m.R, m.G, m.B) }

// SetColorTemperature sets the color temperature in mirek
type SetColorTemperature struct {
	Mirek int
}

func (m SetColorTemperature) Apply(l *models.Light) { l.SetColorTemperature(m.Mirek) }

// SetBrightness sets the brightness percentage
type SetBrightness struct {
	Brightness float64
}

func (m SetBrightness) Apply(l *models.Light) { l.SetBrightness(m.Brightness) }

// Matches reports whether the intent targets the light, ignoring case
func Matches(intent argparse.Intent, light models.Light) bool {
	return intent.TargetName != "" && strings.EqualFold(intent.TargetName, light.Name)
}

// Plan returns the ordered mutations for light and a status line for each.
// Lights the intent does not target get no mutations.
func Plan(intent argparse.Intent, light models.Light) ([]Mutation, []string) {
	if !Matches(intent, light) {
		return nil, nil
	}

	if !intent.HasStateChange() {
		on := !light.On
		if intent.OnOff != nil {
			on = *intent.OnOff
		}
		state := "off"
		if on {
			state = "on"
		}
		return []Mutation{SetOn{On: on}},
			[]string{fmt.Sprintf("Turning light %s %s", intent.TargetName, state)}
	}

	// Color, temperature and brightness only make sense on a powered light
	if !light.On {
		return nil, nil
	}

	var (
		mutations []Mutation
		messages  []string
	)

	if intent.Color != "" {
		if rgb, err := models.ParseHex(intent.Color); err == nil {
			mutations = append(mutations, SetColor{R: rgb.R, G: rgb.G, B: rgb.B})
			messages = append(messages, fmt.Sprintf("Setting color to %s (%s)", intent.Color, rgb))
		}
	}

	if t := intent.Temperature; t != nil {
		if *t >= light.MinColorTemperature && *t <= light.MaxColorTemperature {
			mutations = append(mutations, SetColorTemperature{Mirek: *t})
			messages = append(messages, fmt.Sprintf("Setting color temperature to %d", *t))
		}
	}

	if b := intent.Brightness; b != nil {
		level := b.Value
		if b.Relative {
			level = light.Brightness + b.Value
		}
		if level >= light.MinBrightness {
			mutations = append(mutations, SetBrightness{Brightness: level})
			messages = append(messages, "Setting brightness: "+FormatNumber(level))
		}
	}

	return mutations, messages
}

// Apply applies mutations to light in order
func Apply(light *models.Light, mutations []Mutation) {
	for _, m := range mutations {
		m.Apply(light)
	}
}

// FormatNumber prints whole numbers without a fractional part
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

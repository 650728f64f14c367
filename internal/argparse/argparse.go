// Package argparse turns raw command-line tokens into an Intent.
//
// Parsing is permissive: unknown tokens are ignored and malformed values
// leave the corresponding field unset. Parse never fails.
package argparse

import (
	"math"
	"strconv"
	"strings"
)

// Brightness is a requested brightness change
type Brightness struct {
	// Relative is set when the value carried a leading sign
	Relative bool
	// Value is the delta when Relative, the target level otherwise
	Value float64
}

// Intent is what the user asked for in a single invocation
type Intent struct {
	// TargetName is the light name to act on; empty when not given
	TargetName string
	// OnOff is the explicit power state from --on/--off
	OnOff *bool
	// Color is the raw "#RRGGBB" token; empty when not given
	Color string
	// Temperature in mirek
	Temperature *int
	Brightness  *Brightness

	List bool
	Help bool
}

// HasStateChange reports whether color, temperature or brightness was requested
func (i Intent) HasStateChange() bool {
	return i.Color != "" || i.Temperature != nil || i.Brightness != nil
}

var (
	helpFlags        = []string{"-h", "--help"}
	listFlags        = []string{"--lights", "-l", "--list"}
	temperatureFlags = []string{"--temperature", "-t"}
	brightnessFlags  = []string{"--brightness", "-b"}
)

// IndexOf returns the index of the first candidate found in haystack.
// Candidates are tried in order, so an earlier candidate wins even when a
// later one appears first in haystack. Returns -1 when none is present.
func IndexOf[T comparable](haystack []T, candidates ...T) int {
	for _, c := range candidates {
		for i, v := range haystack {
			if v == c {
				return i
			}
		}
	}
	return -1
}

// Parse builds an Intent from tokens, where tokens[0] is the program name
func Parse(tokens []string) Intent {
	var intent Intent
	if len(tokens) < 2 {
		return intent
	}
	args := tokens[1:]

	intent.Help = IndexOf(args, helpFlags...) >= 0
	intent.List = IndexOf(args, listFlags...) >= 0

	if IndexOf(args, "--on") >= 0 {
		intent.OnOff = boolPtr(true)
	} else if IndexOf(args, "--off") >= 0 {
		intent.OnOff = boolPtr(false)
	}

	if v, ok := valueAfter(args, temperatureFlags); ok {
		if t, err := strconv.Atoi(v); err == nil {
			intent.Temperature = &t
		}
	}

	if v, ok := valueAfter(args, brightnessFlags); ok {
		intent.Brightness = parseBrightness(v)
	}

	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "-"):
			continue
		case strings.HasPrefix(arg, "#"):
			if intent.Color == "" {
				intent.Color = arg
			}
		case intent.TargetName == "":
			intent.TargetName = arg
		}
	}

	return intent
}

// valueAfter returns the token following the first matching flag
func valueAfter(args []string, flags []string) (string, bool) {
	idx := IndexOf(args, flags...)
	if idx < 0 || idx+1 >= len(args) {
		return "", false
	}
	return args[idx+1], true
}

func parseBrightness(s string) *Brightness {
	relative := strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	if relative {
		// Steps are whole numbers
		v = math.Trunc(v)
	}
	return &Brightness{Relative: relative, Value: v}
}

func boolPtr(b bool) *bool {
	return &b
}

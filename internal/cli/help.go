package cli

import (
	"fmt"
	"io"
)

const helpTemplate = `Usage: %s <name> <color> [--options]

<name>                 Required: The name of the light, use --list to get a list of all registered names
<color>                Optional: The hex value of the color, prefixed with #. Eg. #FF00FF

Options:
        --help         Display this help
            -h
          --on         Turn the light on
         --off         Turn the light off
      --lights         Print a list of all connected lights and their statuses
        --list
            -l
 --temperature <int>   Set the color temperature in mirek
            -t <int>
  --brightness <float> Set the brightness in percent. Prefix the number with +/- to step.
            -b <float> eg. +10 or -20. This will increase or decrease the brightness by that number

Environment:
  HUE_CONTROL_CONFIG   Path of the configuration file
  HUE_CONTROL_LOG      Log level on stderr: debug, info, warn, error (default warn)
  HUE_CONTROL_DEMO     Use built-in sample lights instead of a bridge
`

// PrintHelp writes the usage text for program
func PrintHelp(w io.Writer, program string) {
	_, _ = fmt.Fprintf(w, helpTemplate, program)
}

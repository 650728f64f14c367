package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/angristan/hue-control/internal/config"
)

// exitError carries a non-zero exit code out of cobra
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// NewRootCommand returns the hue-control command backed by driver.
// Cobra's flag parsing is disabled: every token reaches the permissive parser.
func NewRootCommand(driver *Driver) *cobra.Command {
	return &cobra.Command{
		Use:                "hue-control <name> <color> [--options]",
		Short:              "Control Philips Hue lights from the command line",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			argv := append([]string{cmd.Name()}, args...)
			if code := driver.Run(cmd.Context(), argv); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
}

// Execute runs hue-control with the process arguments and returns the exit code
func Execute() int {
	SetupLogging(os.Stderr, os.Getenv("HUE_CONTROL_LOG"))

	var driver *Driver
	if os.Getenv("HUE_CONTROL_DEMO") != "" {
		log.Info().Msg("Demo mode enabled")
		driver = NewDemoDriver(os.Stdout)
	} else {
		store, err := config.NewDefaultStore()
		if err != nil {
			fmt.Println(err)
			return 1
		}
		driver = NewDriver(store, os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCommand(driver)
	if err := cmd.ExecuteContext(ctx); err != nil {
		var e *exitError
		if errors.As(err, &e) {
			return e.code
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

package main

import (
	"os"

	"github.com/angristan/hue-control/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

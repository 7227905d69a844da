package main

import (
	"flag"
	"fmt"
	"igmond/internal/di"
	"igmond/internal/structures"
	"os"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the yaml config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "mirror logs to stderr and enable bot debug output")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "igmond: %s\n", err)
		os.Exit(1)
	}
}

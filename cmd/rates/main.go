package main

import (
	"fmt"
	"os"

	"github.com/damon-houk/cnb-exchange-rate-provider/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

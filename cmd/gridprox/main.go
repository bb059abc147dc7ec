package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"
)

// Options are shared by every command.
type Options struct {
	Env string `long:"env" env:"ENV" description:"Configuration environment (config/<env>.yaml)" default:"local"`
}

var opts Options

func main() {
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.AddCommand("query",
		"Measure distances from an address to nearby power lines",
		"Geocodes the address, loads power lines of the surrounding suburbs and prints the distance "+
			"to the nearest line of each voltage class.",
		&queryCommand{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("serve",
		"Start the HTTP API server",
		"Serves GET /proximity, /health and /metrics.",
		&serveCommand{}); err != nil {
		panic(err)
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

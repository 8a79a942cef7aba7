package main

import (
	"fmt"
	"os"

	"github.com/tphakala/pokedex-go/cmd"
	"github.com/tphakala/pokedex-go/internal/app"
	"github.com/tphakala/pokedex-go/internal/buildinfo"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   = "dev"
	buildDate = ""
	commit    = ""
)

func main() {
	ctx := app.NewContext(buildinfo.NewContext(version, buildDate, commit))
	root := cmd.RootCommand(ctx)

	err := root.Execute()
	if cerr := ctx.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "error closing logger: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

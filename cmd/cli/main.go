package main

import (
	"fmt"
	"os"

	"github.com/scribeapp/scribe/cmd/cli/root"

	// Subcommands register themselves on the root command.
	_ "github.com/scribeapp/scribe/cmd/cli/auth"
	_ "github.com/scribeapp/scribe/cmd/cli/posts"
	_ "github.com/scribeapp/scribe/cmd/cli/upload"
)

func main() {
	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

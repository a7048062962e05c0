package main

import (
	"context"
	"fmt"
	"os"

	"farmvibe/internal/cli"
)

// @title farmvibe API
// @version 1.0
// @description Describe a farm vibe, get an outfit, a place, some items and notes.
// @BasePath /
func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "farmvibe: %v\n", err)
		os.Exit(1)
	}
}

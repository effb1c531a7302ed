package main

import (
	"fmt"
	"os"

	"profview/internal/app"
)

func main() {
	if err := app.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "profview:", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	_ "time/tzdata"

	"interview-scheduler/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

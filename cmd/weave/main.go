package main

import (
	"context"
	"os"

	"github.com/weavetpl/weave/cmd/weave/cli"
	"github.com/weavetpl/weave/internal/wlog"
)

func main() {
	if err := cli.Run(context.Background(), os.Exit, os.Args[1:]...); err != nil {
		wlog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

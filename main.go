package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/finance-summary/cmd/categorize"
	"fjacquet/finance-summary/cmd/normalize"
	"fjacquet/finance-summary/cmd/root"
	"fjacquet/finance-summary/cmd/rules"
	"fjacquet/finance-summary/cmd/summarize"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(summarize.Cmd)
	root.Cmd.AddCommand(normalize.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

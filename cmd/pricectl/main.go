package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/simaogato/pricelist-backend/internal/cli"
)

func main() {
	env := cli.NewEnv()
	env.SetFlags(flag.CommandLine)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cli.Register(commander, env)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

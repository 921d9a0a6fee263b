package main

import (
	"context"

	"github.com/MotWakorb/guidearr/cmd/guidearr/cmds"
	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(cmds.NewRootCLI().ExecuteContext(context.Background()))
}

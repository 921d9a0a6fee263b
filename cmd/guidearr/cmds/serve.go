package cmds

import (
	"fmt"

	"github.com/MotWakorb/guidearr/internal/app/router"
	"github.com/spf13/cobra"
)

var port int

func NewServeCLI() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server that renders and serves the channel guide.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// create and start the HTTP service
			r, err := router.NewEngine(cmd.Context(), conf)
			if err != nil {
				return err
			}
			if err = r.Run(fmt.Sprintf(":%d", port)); err != nil {
				return err
			}

			return nil
		},
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port of the HTTP server")

	return serveCmd
}

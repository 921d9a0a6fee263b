package cmds

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/MotWakorb/guidearr/internal/app/dispatcharr"
	"github.com/spf13/cobra"
)

var output string

// NewSnapshotCLI fetches one upstream snapshot and dumps it as JSON, which is
// handy for checking credentials and inspecting what the guide would cache.
func NewSnapshotCLI() *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch channels, groups and logos from Dispatcharr and dump them as JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// validate the config file
			if err := conf.Validate(); err != nil {
				return err
			}

			client, err := dispatcharr.NewClient(&http.Client{
				Timeout: 30 * time.Second,
			}, conf.BaseURL, conf.Username, conf.Password, conf.Headers)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			token, err := client.Authenticate(ctx)
			if err != nil {
				return err
			}

			groups, err := client.GetChannelGroups(ctx, token)
			if err != nil {
				return err
			}
			logos, err := client.GetLogos(ctx, token)
			if err != nil {
				return err
			}
			channels, err := client.GetChannels(ctx, token)
			if err != nil {
				return err
			}

			if len(channels) == 0 {
				return errors.New("no channels found")
			}

			data, err := json.MarshalIndent(map[string]any{
				"groups":   groups,
				"logos":    logos,
				"channels": channels,
			}, "", "  ")
			if err != nil {
				return err
			}

			if output == "" {
				_, err = os.Stdout.Write(append(data, '\n'))
				return err
			}
			return os.WriteFile(output, data, 0644)
		},
	}

	snapshotCmd.Flags().StringVarP(&output, "output", "o", "", "write the snapshot to a file instead of stdout")

	return snapshotCmd
}

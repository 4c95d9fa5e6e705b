package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/upload"
)

// uploadCommand creates the upload command.
func (c *CLI) uploadCommand() *cobra.Command {
	var (
		apiKey string
		apiURL string
		public bool
	)

	cmd := &cobra.Command{
		Use:   "upload <design>",
		Short: "Publish a design to the harness service",
		Long: `Validate a design and upload its exchange document. Invalid designs are
never sent.

The API key comes from --api-key or the ` + apiKeyEnv + ` environment
variable, which may be set in a .env file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("public") {
				public = c.Config.Upload.Public
			}
			if apiURL == "" {
				apiURL = c.Config.Upload.APIURL
			}
			key := resolveAPIKey(apiKey)
			if key == "" {
				return errors.New(errors.ErrCodeUnauthorized, "no API key: pass --api-key or set %s", apiKeyEnv)
			}
			client, err := upload.NewClient(key, upload.WithBaseURL(apiURL))
			if err != nil {
				return err
			}

			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()
			h, err := runner.Load(ctx, args[0])
			if err != nil {
				return err
			}

			spinner := newSpinner(ctx, "Uploading "+h.Name()+"...")
			spinner.Start()
			created, err := client.Upload(ctx, h, public)
			if err != nil {
				spinner.StopWithError("Upload failed")
				return err
			}
			spinner.StopWithSuccess("Uploaded %s", created.Name)
			printDetail("id %s", created.ID)
			if created.CreatedAt != "" {
				printDetail("created %s", created.CreatedAt)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (default $"+apiKeyEnv+")")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "service base URL (default from config, else "+upload.DefaultBaseURL+")")
	cmd.Flags().BoolVar(&public, "public", false, "make the uploaded harness public")

	return cmd
}

// pull.go implements the "anvil pull" command.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anvil-labs/anvil/internal/docker"
)

// pullFlags holds the flag values for the pull command.
type pullFlags struct {
	image string // -i: backend image override
	tag   string // -t: backend tag override
}

// NewPullCommand creates the "pull" cobra command.
func NewPullCommand() *cobra.Command {
	flags := &pullFlags{}

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download or update the backend image",
		Long: `Pull the backend Docker image carrying the cross toolchain, QEMU and
LLDB. Run this once before first use and again to pick up backend
updates.

Examples:
  anvil pull
  anvil pull -t 2025.08`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPull(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.image, "image", "i", "", "Backend image repository (default from user config)")
	cmd.Flags().StringVarP(&flags.tag, "tag", "t", "", "Backend image tag (default from user config)")

	return cmd
}

// runPull resolves the image reference and streams the pull progress to
// the terminal.
func runPull(ctx context.Context, flags *pullFlags) error {
	userCfg, err := loadUserConfig()
	if err != nil {
		return err
	}
	image, tag := userCfg.ResolveImage(flags.image, flags.tag)

	cli, err := connectDocker(ctx, userCfg)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	VerboseLog("pulling %s:%s", image, tag)

	// Progress goes to stderr so stdout stays clean for --json output.
	if err := docker.Pull(ctx, cli, image, tag, os.Stderr); err != nil {
		return err
	}

	if IsJSONOutput() {
		out := map[string]string{"image": image, "tag": tag, "status": "pulled"}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Printf("Pulled %s:%s\n", image, tag)
	}
	return nil
}

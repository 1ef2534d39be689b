// backend.go holds helpers shared by the subcommands that talk to the
// Docker backend: user config loading, image reference resolution and
// daemon connection setup.
package cli

import (
	"context"

	"github.com/anvil-labs/anvil/internal/config"
	"github.com/anvil-labs/anvil/internal/docker"
	"github.com/anvil-labs/anvil/internal/model"
)

// loadUserConfig reads ~/.config/anvil/config.yaml. A missing file is
// fine; a malformed one is fatal, since silently ignoring it would send
// the user to the wrong backend image.
func loadUserConfig() (*config.UserConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitGeneralError,
			"user configuration is unreadable",
			err,
		)
	}
	return cfg, nil
}

// connectDocker creates a Docker client (honoring the user config's
// dockerHost override) and verifies the daemon responds. Callers must
// Close the returned client.
func connectDocker(ctx context.Context, userCfg *config.UserConfig) (*docker.Client, error) {
	host := ""
	if userCfg != nil {
		host = userCfg.DockerHost
	}

	cli, err := docker.NewClient(host)
	if err != nil {
		return nil, err
	}

	if err := cli.Ping(ctx); err != nil {
		_ = cli.Close()
		return nil, err
	}

	VerboseLog("connected to Docker daemon")
	return cli, nil
}

// run.go builds and executes `docker run`, `docker exec` and
// `docker attach` invocations for the backend container image.
//
// These paths deliberately use the docker CLI as a child process instead
// of the SDK: the SDK's ContainerCreate + ContainerStart + hijacked-stream
// workflow requires reimplementing TTY resize and signal plumbing that the
// docker CLI already does well, and the produced command lines match what
// users would type by hand when debugging anvil itself.
package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/anvil-labs/anvil/internal/model"
)

// ContainerWorkdir is where the project directory is bind-mounted inside
// the backend container. The backend image's Makefile include and QEMU
// wrappers assume this path.
const ContainerWorkdir = "/work"

// RunOptions describes a `docker run` invocation of the backend image.
type RunOptions struct {
	// Image is the backend image repository (e.g. "anvillabs/anvil-backend").
	Image string

	// Tag is the image tag (e.g. "latest").
	Tag string

	// Project is the absolute host path bind-mounted at ContainerWorkdir.
	Project string

	// Command is the argv executed inside the container.
	Command []string

	// Env are extra environment variables exported into the container
	// (e.g. OPTIMIZE=2, INTERLEAVE=1).
	Env map[string]string

	// Labels are Docker labels applied to the container. Empty for
	// one-shot make containers, populated for simulations.
	Labels map[string]string

	// Interactive allocates a TTY and keeps stdin open (-it). Required
	// for foreground QEMU so Ctrl-a x reaches the simulation.
	Interactive bool

	// AutoRemove adds --rm so the container vanishes on exit.
	AutoRemove bool

	// PublishPorts holds -p specifications ("1234:1234") for exposing
	// the in-container gdbserver to the host.
	PublishPorts []string
}

// args assembles the docker CLI argument list for this invocation,
// excluding the detach flag which RunDetached adds itself.
func (o *RunOptions) args() []string {
	args := []string{"run"}

	if o.AutoRemove {
		args = append(args, "--rm")
	}
	if o.Interactive {
		args = append(args, "-it")
	}

	args = append(args, "-v", o.Project+":"+ContainerWorkdir)
	args = append(args, "-w", ContainerWorkdir)

	// Sort env keys so the produced command line is deterministic, which
	// keeps verbose logs and tests stable.
	envKeys := make([]string, 0, len(o.Env))
	for k := range o.Env {
		envKeys = append(envKeys, k)
	}
	sort.Strings(envKeys)
	for _, k := range envKeys {
		args = append(args, "-e", k+"="+o.Env[k])
	}

	args = append(args, LabelArgs(o.Labels)...)

	for _, p := range o.PublishPorts {
		args = append(args, "-p", p)
	}

	args = append(args, o.Image+":"+o.Tag)
	args = append(args, o.Command...)
	return args
}

// CommandLine renders the docker invocation as a single string for
// verbose logging.
func (o *RunOptions) CommandLine() string {
	return "docker " + strings.Join(o.args(), " ")
}

// RunOneShot executes `docker run` in the foreground with the caller's
// stdio attached, and returns the container command's exit status.
//
// The exit status of the delegated tool (make, QEMU) is surfaced
// unchanged: a non-zero status is returned as (status, nil) rather than
// as an error, because the tool has already written its diagnostics to
// the user's terminal and anvil has nothing to add.
func RunOneShot(ctx context.Context, opts *RunOptions) (int, error) {
	cmd := exec.CommandContext(ctx, "docker", opts.args()...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		// Not an exit status: docker itself could not be started.
		return 0, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to invoke docker",
			err,
		)
	}
	return 0, nil
}

// RunDetached executes `docker run -d` and returns the full container ID
// printed by docker on success.
//
// The ID is read from stdout alone. Docker writes warnings to stderr on
// successful runs too (e.g. the platform-mismatch warning when an amd64
// backend image runs on an ARM host), and mixing the streams would
// corrupt the captured ID. Stderr is kept for the error message on
// failure, since with -d nothing was shown on the user's terminal yet.
func RunDetached(ctx context.Context, opts *RunOptions) (string, error) {
	args := append([]string{"run", "-d"}, opts.args()[1:]...)

	cmd := exec.CommandContext(ctx, "docker", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		return "", model.WrapCLIError(
			model.ExitSimulationFailed,
			fmt.Sprintf("docker run failed: %s", detail),
			err,
		)
	}

	// docker run -d prints exactly the 64-char container ID on stdout.
	return strings.TrimSpace(stdout.String()), nil
}

// AttachCommand builds the `docker attach` invocation for a simulation
// container. The command is run under a PTY by the console package so
// QEMU's Ctrl-a escape sequences work.
func AttachCommand(containerID string) *exec.Cmd {
	return exec.Command("docker", "attach", containerID)
}

// ExecCommand builds a `docker exec -it` invocation running argv inside
// an existing container. Used by the debug command to start LLDB next to
// the live QEMU process.
func ExecCommand(containerID string, argv []string) *exec.Cmd {
	args := append([]string{"exec", "-it", containerID}, argv...)
	return exec.Command("docker", args...)
}

package model

import (
	"fmt"
	"strings"
	"time"
)

// MakeTarget is a Makefile target understood by every anvil project.
// The backend image ships a common Makefile include that defines these
// targets for all training projects, so the set is closed and can be
// validated before we ever spawn a container.
type MakeTarget string

const (
	// TargetAll builds the project ELF. This is the default target.
	TargetAll MakeTarget = "all"

	// TargetClean removes the project's build directory.
	TargetClean MakeTarget = "clean"

	// TargetRebuild is clean followed by all. The run command always
	// rebuilds before booting QEMU so the simulation matches the sources.
	TargetRebuild MakeTarget = "rebuild"

	// TargetDis disassembles the built ELF. Supports source interleaving
	// via the INTERLEAVE=1 environment variable.
	TargetDis MakeTarget = "dis"

	// TargetSyms dumps the symbol table of the built ELF.
	TargetSyms MakeTarget = "syms"

	// TargetSects dumps the section headers of the built ELF.
	TargetSects MakeTarget = "sects"
)

// String returns the string representation of the MakeTarget,
// which is exactly the word passed to make on the command line.
func (t MakeTarget) String() string {
	return string(t)
}

// IsValid checks whether the MakeTarget is one of the targets defined
// by the backend's common Makefile include.
func (t MakeTarget) IsValid() bool {
	switch t {
	case TargetAll, TargetClean, TargetRebuild, TargetDis, TargetSyms, TargetSects:
		return true
	default:
		return false
	}
}

// SupportsInterleave reports whether the target honors the INTERLEAVE
// environment variable. Only the disassembly target does.
func (t MakeTarget) SupportsInterleave() bool {
	return t == TargetDis
}

// ParseMakeTarget converts a string to a MakeTarget.
// Returns an error naming the valid targets if the string does not match.
func ParseMakeTarget(s string) (MakeTarget, error) {
	target := MakeTarget(strings.ToLower(s))
	if !target.IsValid() {
		return "", fmt.Errorf("invalid Makefile target: %q (valid: all, clean, rebuild, dis, syms, sects)", s)
	}
	return target, nil
}

// ValidateOptLevel checks that a compiler optimization level override is
// in the range the backend toolchain accepts (-O0 through -O3).
func ValidateOptLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid optimization level %d: must be between 0 and 3", level)
	}
	return nil
}

// SimulationInfo holds runtime information about a Docker container that
// anvil started for a QEMU simulation. This data is fetched dynamically
// from the Docker API, not persisted anywhere.
type SimulationInfo struct {
	// ContainerID is the unique Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name.
	ContainerName string `json:"containerName"`

	// ProjectPath is the absolute host path of the project the simulation
	// was started from, recovered from the anvil.project label.
	ProjectPath string `json:"projectPath"`

	// GDBServer reports whether the simulation was started with a GDB
	// server attached (anvil run -s).
	GDBServer bool `json:"gdbServer"`

	// Status is the Docker container state (e.g. "running", "exited").
	Status string `json:"status"`

	// CreatedAt is when the simulation container was started.
	CreatedAt time.Time `json:"createdAt"`

	// Labels is the full set of Docker labels on the container,
	// including the anvil.* management labels.
	Labels map[string]string `json:"labels,omitempty"`
}

// ShortID returns the container ID truncated to 16 characters, the form
// shown to users and accepted back by `anvil debug`. Docker resolves any
// unambiguous ID prefix, so the short form is always usable.
func (s *SimulationInfo) ShortID() string {
	if len(s.ContainerID) > 16 {
		return s.ContainerID[:16]
	}
	return s.ContainerID
}

// ExitCode defines the CLI exit codes. These codes let scripts and CI
// systems distinguish failure classes programmatically. Exit statuses of
// delegated tools (make, QEMU, LLDB) are passed through verbatim and are
// therefore not part of this enumeration.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitProjectConfig indicates the project configuration (anvil.json
	// or the project directory itself) is missing or unusable.
	ExitProjectConfig ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitSimulationFailed indicates QEMU could not be started or the
	// detached simulation container died before it could be attached.
	ExitSimulationFailed ExitCode = 4

	// ExitContainerNotFound indicates the container named on the command
	// line does not exist or is not an anvil-managed simulation.
	ExitContainerNotFound ExitCode = 5

	// ExitDiagramSpec indicates an opcode/register diagram description
	// was malformed (bad field syntax, overlap, unknown name).
	ExitDiagramSpec ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// The CLI layer translates these into process exit codes in Execute.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// ExitStatusError carries the verbatim exit status of a delegated tool
// (make, QEMU, LLDB). The root command exits with this status without
// printing anything: the tool already wrote its diagnostics to the
// user's terminal, and anvil adds nothing by repeating them.
type ExitStatusError struct {
	// Status is the child process's exit status.
	Status int
}

// Error satisfies the error interface.
func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.Status)
}

// NewExitStatusError wraps a non-zero child exit status for passthrough.
func NewExitStatusError(status int) *ExitStatusError {
	return &ExitStatusError{Status: status}
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

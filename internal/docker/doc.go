// Package docker wraps the Docker Engine SDK client and the docker CLI
// for the anvil commands.
//
// The SDK is used for daemon-level operations (ping, image pull, container
// listing and removal) while flag-heavy or interactive invocations
// (one-shot make runs, foreground QEMU, attach, exec) go through the
// docker CLI as a child process, which handles TTY plumbing for us.
//
// Simulation containers are identified by the "anvil.managed-by" label so
// they can be discovered and cleaned up without any external state file.
package docker

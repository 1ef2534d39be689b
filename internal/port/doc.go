// Package port checks host TCP port availability for the run command's
// --publish-gdb option, which exposes the in-container gdbserver to
// native debuggers on the host.
package port

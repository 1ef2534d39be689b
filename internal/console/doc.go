// Package console owns anvil's terminal presentation and interactive
// subprocess handling.
//
// It renders the bordered hint panels shown around simulation hand-offs,
// and runs docker attach/exec child processes under a pseudo-terminal so
// that QEMU's Ctrl-a escape sequences and LLDB's line editing behave
// exactly as they would outside a container.
package console

// Package model defines the domain types shared across the anvil CLI.
//
// anvil keeps no state of its own: everything it knows about live
// simulations is reconstructed from Docker container labels at runtime,
// so the types here are transient representations of Docker API queries
// plus the small enums (Makefile targets, exit codes) the commands share.
package model

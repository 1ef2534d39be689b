// Package project loads per-project metadata from the anvil.json file
// found in a training project's root directory.
//
// anvil.json is optional and advisory: it declares the project's default
// optimization level and whether the project is expected to boot on the
// simulated Raspberry Pi 3b. Comments are tolerated (JSONC) because the
// training material annotates these files heavily.
package project

// Package diagram renders ASCII bit-field diagrams of A64 instruction
// opcode encodings and AArch64 system registers.
//
// Diagrams come from two sources: the built-in catalog of common
// encodings, or manual field descriptors in the form "{name}[hi{:lo}]{=value}"
// supplied with the --field flag. Either way the fields are normalized
// (sorted MSB-first, gaps filled with anonymous spacers) before rendering.
package diagram

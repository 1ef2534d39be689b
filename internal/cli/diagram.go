// diagram.go implements the "anvil opcode" and "anvil register" commands.
//
// Both draw bit-field breakdown diagrams: opcode for 32-bit A64
// instruction encodings, register for 64-bit system registers. They
// share flags and rendering; only the catalog and the default width
// differ.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anvil-labs/anvil/internal/console"
	"github.com/anvil-labs/anvil/internal/diagram"
	"github.com/anvil-labs/anvil/internal/model"
)

// diagramFlags holds the flag values shared by the opcode and register
// commands.
type diagramFlags struct {
	fields  []string // --field: custom field descriptors
	rowBits int      // -s: bits per drawn row
	value   string   // --value: whole-word value overlay
}

// registerDiagramFlags binds the shared diagram flags onto cmd.
func registerDiagramFlags(cmd *cobra.Command, flags *diagramFlags) {
	cmd.Flags().StringArrayVar(&flags.fields, "field", nil,
		"Custom field descriptor name[hi:lo]=value (repeatable; excludes NAME)")
	cmd.Flags().IntVarP(&flags.rowBits, "split", "s", 32,
		"Bits per diagram row: 8, 16, 32 or 64")
	cmd.Flags().StringVar(&flags.value, "value", "",
		"Overlay a whole-word value onto the fields (hex, binary or decimal)")
}

// NewOpcodeCommand creates the "opcode" cobra command.
func NewOpcodeCommand() *cobra.Command {
	flags := &diagramFlags{}

	cmd := &cobra.Command{
		Use:   "opcode [NAME]",
		Short: "Draw the bit-field diagram of an A64 instruction encoding",
		Long: `Draw the bit-field breakdown of a 32-bit A64 instruction encoding,
either from the built-in catalog (by mnemonic) or from custom --field
descriptors.

Field descriptor grammar: name[hi:lo]=value, where the name, the :lo
part and the =value part are each optional. Values accept 0x, 0b and
decimal notation.

Examples:
  anvil opcode add
  anvil opcode movz -s 16
  anvil opcode add --value 0x8B050041
  anvil opcode --field "sf[31]=1" --field "imm16[20:5]" --field "Rd[4:0]"`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagram(args, flags, diagram.LookupOpcode, 32)
		},
	}

	registerDiagramFlags(cmd, flags)
	return cmd
}

// NewRegisterCommand creates the "register" cobra command.
func NewRegisterCommand() *cobra.Command {
	flags := &diagramFlags{}

	cmd := &cobra.Command{
		Use:   "register [NAME]",
		Short: "Draw the bit-field diagram of a system register",
		Long: `Draw the bit-field breakdown of a 64-bit AArch64 system register,
either from the built-in catalog (by name) or from custom --field
descriptors. See "anvil opcode --help" for the descriptor grammar.

Examples:
  anvil register hcr_el2
  anvil register sctlr_el1 -s 16
  anvil register daif --value 0x3C0`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagram(args, flags, diagram.LookupRegister, 64)
		},
	}

	registerDiagramFlags(cmd, flags)
	return cmd
}

// runDiagram builds and prints the diagram. lookup resolves catalog
// names and defaultWidth is the encoding width for custom --field
// diagrams (32 for opcodes, 64 for registers).
func runDiagram(args []string, flags *diagramFlags, lookup func(string) (diagram.Encoding, error), defaultWidth int) error {
	title, fields, width, err := buildDiagram(args, flags, lookup, defaultWidth)
	if err != nil {
		return model.WrapCLIError(model.ExitDiagramSpec, "cannot draw diagram", err)
	}

	out, err := diagram.Render(fields, width, flags.rowBits)
	if err != nil {
		return model.WrapCLIError(model.ExitDiagramSpec, "cannot draw diagram", err)
	}

	if title != "" {
		fmt.Println(console.Title(title))
	}
	fmt.Print(out)
	return nil
}

// buildDiagram resolves the diagram's title, fields and width from
// either a catalog name or custom --field descriptors, and applies the
// --value overlay. Split from runDiagram so the resolution logic is
// testable without capturing stdout.
func buildDiagram(args []string, flags *diagramFlags, lookup func(string) (diagram.Encoding, error), defaultWidth int) (string, []diagram.Field, int, error) {
	var (
		title  string
		fields []diagram.Field
		width  int
	)

	switch {
	case len(args) == 1 && len(flags.fields) > 0:
		return "", nil, 0, fmt.Errorf("a catalog name and --field descriptors are mutually exclusive")

	case len(args) == 1:
		enc, err := lookup(args[0])
		if err != nil {
			return "", nil, 0, err
		}
		title = strings.ToUpper(enc.Name) + ": " + enc.Summary
		fields = enc.Fields
		width = enc.Width

	case len(flags.fields) > 0:
		parsed, err := diagram.ParseFields(flags.fields)
		if err != nil {
			return "", nil, 0, err
		}
		fields = parsed
		width = defaultWidth

	default:
		return "", nil, 0, fmt.Errorf("provide a catalog name or at least one --field descriptor")
	}

	if flags.value != "" {
		v, err := diagram.ParseValue(flags.value)
		if err != nil {
			return "", nil, 0, err
		}
		if width < 64 && v >= 1<<uint(width) {
			return "", nil, 0, fmt.Errorf("value %s does not fit in %d bits", flags.value, width)
		}

		// Normalize and gap-fill before overlaying so anonymous spacer
		// bits show their slice of the value too.
		normalized, err := diagram.Normalize(fields)
		if err != nil {
			return "", nil, 0, err
		}
		filled, err := diagram.FillGaps(normalized, width)
		if err != nil {
			return "", nil, 0, err
		}
		fields = diagram.Overlay(filled, v)
	}

	return title, fields, width, nil
}

// Package cli — diagram_test.go contains unit tests for the diagram
// resolution logic shared by the opcode and register commands.
package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-labs/anvil/internal/diagram"
)

// TestBuildDiagram_CatalogName verifies catalog resolution: the title
// carries the upper-cased mnemonic and the encoding's own width wins.
func TestBuildDiagram_CatalogName(t *testing.T) {
	flags := &diagramFlags{rowBits: 32}

	title, fields, width, err := buildDiagram([]string{"add"}, flags, diagram.LookupOpcode, 32)
	require.NoError(t, err)

	assert.Contains(t, title, "ADD")
	assert.Equal(t, 32, width)
	assert.NotEmpty(t, fields)

	// Registers resolve through their own catalog at 64 bits.
	_, _, width, err = buildDiagram([]string{"hcr_el2"}, flags, diagram.LookupRegister, 64)
	require.NoError(t, err)
	assert.Equal(t, 64, width)
}

// TestBuildDiagram_CustomFields verifies --field descriptors produce an
// untitled diagram at the command's default width.
func TestBuildDiagram_CustomFields(t *testing.T) {
	flags := &diagramFlags{
		fields:  []string{"sf[31]=1", "imm16[20:5]", "Rd[4:0]"},
		rowBits: 32,
	}

	title, fields, width, err := buildDiagram(nil, flags, diagram.LookupOpcode, 32)
	require.NoError(t, err)

	assert.Empty(t, title)
	assert.Equal(t, 32, width)
	require.Len(t, fields, 3)
	assert.Equal(t, "sf", fields[0].Name)
}

// TestBuildDiagram_MutualExclusion verifies that a catalog name and
// --field descriptors cannot be combined, and that at least one of the
// two must be given.
func TestBuildDiagram_MutualExclusion(t *testing.T) {
	flags := &diagramFlags{fields: []string{"sf[31]"}, rowBits: 32}
	_, _, _, err := buildDiagram([]string{"add"}, flags, diagram.LookupOpcode, 32)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	_, _, _, err = buildDiagram(nil, &diagramFlags{rowBits: 32}, diagram.LookupOpcode, 32)
	require.Error(t, err)
}

// TestBuildDiagram_ValueOverlay verifies that --value slices the word
// across the fields, including anonymous gap fields.
func TestBuildDiagram_ValueOverlay(t *testing.T) {
	flags := &diagramFlags{
		fields:  []string{"sf[31]", "Rd[4:0]"},
		rowBits: 32,
		value:   "0x80000001",
	}

	_, fields, _, err := buildDiagram(nil, flags, diagram.LookupOpcode, 32)
	require.NoError(t, err)

	// sf[31], gap[30:5], Rd[4:0] — all three carry a value slice.
	require.Len(t, fields, 3)
	for _, f := range fields {
		require.NotNil(t, f.Value, "field %s[%d:%d] missing value", f.Name, f.Hi, f.Lo)
	}
	assert.Equal(t, uint64(1), *fields[0].Value)
	assert.Equal(t, uint64(0), *fields[1].Value)
	assert.Equal(t, uint64(1), *fields[2].Value)
}

// TestBuildDiagram_ValueTooWide verifies that a value exceeding the
// encoding width is rejected instead of silently truncated.
func TestBuildDiagram_ValueTooWide(t *testing.T) {
	flags := &diagramFlags{
		fields:  []string{"x[31:0]"},
		rowBits: 32,
		value:   "0x1FFFFFFFF",
	}

	_, _, _, err := buildDiagram(nil, flags, diagram.LookupOpcode, 32)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not fit")
}

// TestBuildDiagram_UnknownName verifies catalog misses surface the
// lookup error.
func TestBuildDiagram_UnknownName(t *testing.T) {
	_, _, _, err := buildDiagram([]string{"frobnicate"}, &diagramFlags{rowBits: 32}, diagram.LookupOpcode, 32)
	require.Error(t, err)
}

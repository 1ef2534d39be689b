package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRender_SingleRow verifies the overall shape of a 32-bit diagram
// rendered at the default 32-bit row width: one box with every field
// name and bit label present.
func TestRender_SingleRow(t *testing.T) {
	enc, err := LookupOpcode("add")
	require.NoError(t, err)

	out, err := Render(enc.Fields, enc.Width, 32)
	require.NoError(t, err)

	// All named fields appear.
	for _, want := range []string{"sf", "shift", "Rm", "imm6", "Rn", "Rd"} {
		assert.Contains(t, out, want)
	}

	// Bit labels appear.
	assert.Contains(t, out, "31")
	assert.Contains(t, out, "23:22")
	assert.Contains(t, out, "4:0")

	// One row means exactly one top and one bottom border.
	assert.Equal(t, 1, strings.Count(out, "┌"))
	assert.Equal(t, 1, strings.Count(out, "└"))
}

// TestRender_ValueRow verifies that the value line is drawn when any
// field carries a value, and shows the fixed opcode bits.
func TestRender_ValueRow(t *testing.T) {
	enc, err := LookupOpcode("b")
	require.NoError(t, err)

	out, err := Render(enc.Fields, enc.Width, 32)
	require.NoError(t, err)

	// The B encoding fixes bits [31:26] to 0b000101 = 0x5.
	assert.Contains(t, out, "0x5")
	assert.Contains(t, out, "imm26")
}

// TestRender_RowSplitting verifies that a 32-bit encoding rendered at
// 8-bit row width produces four rows and splits wide fields across the
// row boundaries.
func TestRender_RowSplitting(t *testing.T) {
	enc, err := LookupOpcode("b")
	require.NoError(t, err)

	out, err := Render(enc.Fields, enc.Width, 8)
	require.NoError(t, err)

	assert.Equal(t, 4, strings.Count(out, "┌"), "32 bits at 8 bits per row is 4 rows")

	// imm26[25:0] crosses three row boundaries, so its name appears in
	// each of the four rows it touches.
	assert.GreaterOrEqual(t, strings.Count(out, "imm26"), 4)

	// Segment bit labels reflect the split points.
	assert.Contains(t, out, "25:24")
	assert.Contains(t, out, "23:16")
	assert.Contains(t, out, "7:0")
}

// TestRender_SplitValueSlicing verifies that a value overlay is sliced
// correctly when its field is split across rows. The 16-bit field
// xy[15:0]=0xABCD rendered at 8 bits per row must show 0xAB in the high
// row and 0xCD in the low row.
func TestRender_SplitValueSlicing(t *testing.T) {
	f, err := ParseField("xy[15:0]=0xABCD")
	require.NoError(t, err)

	out, err := Render([]Field{f}, 16, 8)
	require.NoError(t, err)

	rows := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Two boxes of five lines each: borders, name, bits, value.
	require.Len(t, rows, 10)

	top := strings.Join(rows[:5], "\n")
	bottom := strings.Join(rows[5:], "\n")
	assert.Contains(t, top, "0xAB")
	assert.Contains(t, bottom, "0xCD")
}

// TestRender_Register64 verifies a 64-bit register renders as two rows
// at the default 32-bit row width, with spacers filling unnamed bits.
func TestRender_Register64(t *testing.T) {
	enc, err := LookupRegister("daif")
	require.NoError(t, err)

	out, err := Render(enc.Fields, enc.Width, 32)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "┌"))
	for _, want := range []string{"D", "A", "I", "F"} {
		assert.Contains(t, out, want)
	}
	// The upper row is entirely an anonymous spacer: bits 63:32.
	assert.Contains(t, out, "63:32")
}

// TestRender_InvalidRowBits verifies the -s validation.
func TestRender_InvalidRowBits(t *testing.T) {
	_, err := Render([]Field{{Name: "x", Hi: 31, Lo: 0}}, 32, 12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row width")
}

// TestLookupOpcode_Unknown verifies the error lists known instructions.
func TestLookupOpcode_Unknown(t *testing.T) {
	_, err := LookupOpcode("frobnicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add")
	assert.Contains(t, err.Error(), "ret")
}

// TestLookupRegister_CaseInsensitive verifies the usual register name
// spellings (upper case in the ARM manuals) resolve.
func TestLookupRegister_CaseInsensitive(t *testing.T) {
	enc, err := LookupRegister("HCR_EL2")
	require.NoError(t, err)
	assert.Equal(t, "hcr_el2", enc.Name)
	assert.Equal(t, 64, enc.Width)
}

// TestCatalogEncodings_AreWellFormed normalizes and gap-fills every
// catalog entry to catch overlaps or out-of-range fields in the data.
func TestCatalogEncodings_AreWellFormed(t *testing.T) {
	check := func(t *testing.T, enc Encoding) {
		t.Helper()
		normalized, err := Normalize(enc.Fields)
		require.NoError(t, err, "encoding %s has overlapping fields", enc.Name)
		_, err = FillGaps(normalized, enc.Width)
		require.NoError(t, err, "encoding %s has fields beyond its width", enc.Name)
	}

	for name, enc := range opcodes {
		t.Run("opcode/"+name, func(t *testing.T) { check(t, enc) })
	}
	for name, enc := range registers {
		t.Run("register/"+name, func(t *testing.T) { check(t, enc) })
	}
}

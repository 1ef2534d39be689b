package diagram

import (
	"fmt"
	"strings"
)

// Render draws the bit-field grid for the given fields.
//
// width is the encoding width (32 for opcodes, 64 for registers) and
// rowBits is how many bits each drawn row covers (the -s flag; 8, 16,
// 32 or 64). Fields wider than a row are split across rows, with the
// value bits sliced to match each segment.
//
// The grid itself is plain text; callers add any styling around it.
// Layout for one row, with a value overlay present:
//
//	┌────┬───────┬────┐
//	│ sf │ shift │ Rm │
//	│ 31 │ 23:22 │ …  │
//	│    │ 0x1   │    │
//	└────┴───────┴────┘
func Render(fields []Field, width, rowBits int) (string, error) {
	switch rowBits {
	case 8, 16, 32, 64:
	default:
		return "", fmt.Errorf("invalid row width %d: must be 8, 16, 32 or 64 bits", rowBits)
	}

	// A row wider than the encoding collapses to a single full row.
	if rowBits > width {
		rowBits = width
	}

	normalized, err := Normalize(fields)
	if err != nil {
		return "", err
	}
	filled, err := FillGaps(normalized, width)
	if err != nil {
		return "", err
	}

	// The value line is drawn for the whole diagram or not at all, so
	// rows stay visually aligned.
	withValues := false
	for _, f := range filled {
		if f.Value != nil {
			withValues = true
			break
		}
	}

	rows := splitRows(filled, width, rowBits)

	var b strings.Builder
	for _, row := range rows {
		renderRow(&b, row, withValues)
	}
	return b.String(), nil
}

// splitRows distributes fields into drawing rows of rowBits each,
// MSB-first, splitting any field that crosses a row boundary.
func splitRows(fields []Field, width, rowBits int) [][]Field {
	nRows := width / rowBits
	rows := make([][]Field, nRows)

	// rowOf maps a bit position to its drawing row; row 0 holds the
	// most significant bits.
	rowOf := func(bit int) int {
		return (width - 1 - bit) / rowBits
	}

	for _, f := range fields {
		// Peel off one row-sized segment at a time while the field
		// still crosses a boundary. f is a copy, so mutating it here
		// does not touch the caller's slice.
		for rowOf(f.Hi) != rowOf(f.Lo) {
			r := rowOf(f.Hi)
			rowLowBit := width - (r+1)*rowBits

			seg := Field{Name: f.Name, Hi: f.Hi, Lo: rowLowBit}
			if f.Value != nil {
				v := *f.Value >> uint(rowLowBit-f.Lo)
				if seg.Width() < 64 {
					v &= (1 << uint(seg.Width())) - 1
				}
				seg.Value = &v
			}
			rows[r] = append(rows[r], seg)

			if f.Value != nil {
				remWidth := rowLowBit - f.Lo
				v := *f.Value
				if remWidth < 64 {
					v &= (1 << uint(remWidth)) - 1
				}
				f.Value = &v
			}
			f.Hi = rowLowBit - 1
		}
		rows[rowOf(f.Hi)] = append(rows[rowOf(f.Hi)], f)
	}

	return rows
}

// renderRow draws one grid row: border, name line, bit-position line,
// optional value line, border.
func renderRow(b *strings.Builder, cells []Field, withValues bool) {
	// Each cell is as wide as its longest label plus one space of
	// padding on each side.
	widths := make([]int, len(cells))
	for i, cell := range cells {
		w := len(cell.Name)
		if l := len(cell.BitsLabel()); l > w {
			w = l
		}
		if l := len(cell.ValueLabel()); l > w {
			w = l
		}
		widths[i] = w + 2
	}

	writeBorder(b, widths, "┌", "┬", "┐")

	writeTextLine(b, cells, widths, func(f Field) string { return f.Name })
	writeTextLine(b, cells, widths, func(f Field) string { return f.BitsLabel() })
	if withValues {
		writeTextLine(b, cells, widths, func(f Field) string { return f.ValueLabel() })
	}

	writeBorder(b, widths, "└", "┴", "┘")
}

// writeBorder draws a horizontal border line with the given corner and
// junction runes.
func writeBorder(b *strings.Builder, widths []int, left, mid, right string) {
	b.WriteString(left)
	for i, w := range widths {
		if i > 0 {
			b.WriteString(mid)
		}
		b.WriteString(strings.Repeat("─", w))
	}
	b.WriteString(right)
	b.WriteString("\n")
}

// writeTextLine draws one text line of the row, centering each cell's
// label within its column.
func writeTextLine(b *strings.Builder, cells []Field, widths []int, label func(Field) string) {
	b.WriteString("│")
	for i, cell := range cells {
		b.WriteString(center(label(cell), widths[i]))
		b.WriteString("│")
	}
	b.WriteString("\n")
}

// center pads s with spaces to the given width, biasing left when the
// padding is odd.
func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	total := width - len(s)
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

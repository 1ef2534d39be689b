package diagram

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Field describes one contiguous bit span in an encoding.
type Field struct {
	// Name is the field's display name. Empty for anonymous spans
	// ("[31:30]=0x3") and for the spacers inserted by FillGaps.
	Name string

	// Hi and Lo are the inclusive bit positions of the span, with
	// Hi >= Lo. A single-bit field has Hi == Lo.
	Hi int
	Lo int

	// Value is the field's value overlay, when one was given either in
	// the descriptor ("Rn[9:5]=0x5") or via --value. Nil means no value
	// row is drawn for this field.
	Value *uint64
}

// Width returns the field's width in bits.
func (f Field) Width() int {
	return f.Hi - f.Lo + 1
}

// BitsLabel returns the bit-position label drawn under the field name:
// "31" for a single bit, "30:29" for a range.
func (f Field) BitsLabel() string {
	if f.Hi == f.Lo {
		return strconv.Itoa(f.Hi)
	}
	return fmt.Sprintf("%d:%d", f.Hi, f.Lo)
}

// ValueLabel returns the hex rendering of the field's value, or the
// empty string when no value is set.
func (f Field) ValueLabel() string {
	if f.Value == nil {
		return ""
	}
	return fmt.Sprintf("0x%X", *f.Value)
}

// fieldRe matches the "{name}[hi{:lo}]{=value}" descriptor grammar.
// Examples: "sf[31]", "Rn[9:5]=0x5", "[31:30]=0x3", "[31]".
var fieldRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)?\[([0-9]+)(?::([0-9]+))?\](?:=(.+))?$`)

// MaxBit is the highest addressable bit position; diagrams cover at most
// 64-bit encodings (system registers).
const MaxBit = 63

// ParseField parses one --field descriptor.
//
// The name is optional ("[31]" is an anonymous bit), the :lo part is
// optional (defaults to hi), and the =value part is optional. Values
// accept the prefixes strconv understands with base 0: 0x hex, 0b
// binary, 0o octal, plain decimal.
func ParseField(s string) (Field, error) {
	m := fieldRe.FindStringSubmatch(s)
	if m == nil {
		return Field{}, fmt.Errorf("invalid field descriptor %q: expected the form {name}[hi{:lo}]{=value}, e.g. \"Rn[9:5]=0x5\"", s)
	}

	hi, err := strconv.Atoi(m[2])
	if err != nil || hi > MaxBit {
		return Field{}, fmt.Errorf("invalid field descriptor %q: bit position %s out of range 0-%d", s, m[2], MaxBit)
	}

	lo := hi
	if m[3] != "" {
		lo, err = strconv.Atoi(m[3])
		if err != nil || lo > MaxBit {
			return Field{}, fmt.Errorf("invalid field descriptor %q: bit position %s out of range 0-%d", s, m[3], MaxBit)
		}
	}

	if lo > hi {
		return Field{}, fmt.Errorf("invalid field descriptor %q: high bit %d is below low bit %d", s, hi, lo)
	}

	field := Field{Name: m[1], Hi: hi, Lo: lo}

	if m[4] != "" {
		value, err := strconv.ParseUint(m[4], 0, 64)
		if err != nil {
			return Field{}, fmt.Errorf("invalid field descriptor %q: bad value %q: %w", s, m[4], err)
		}
		if field.Width() < 64 && value >= 1<<uint(field.Width()) {
			return Field{}, fmt.Errorf("invalid field descriptor %q: value 0x%X does not fit in %d bit(s)", s, value, field.Width())
		}
		field.Value = &value
	}

	return field, nil
}

// ParseFields parses a list of --field descriptors and normalizes the
// result: sorted MSB-first with overlaps rejected.
func ParseFields(descriptors []string) ([]Field, error) {
	fields := make([]Field, 0, len(descriptors))
	for _, d := range descriptors {
		field, err := ParseField(d)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return Normalize(fields)
}

// Normalize sorts fields MSB-first and rejects overlapping spans.
// The input slice is not modified.
func Normalize(fields []Field) ([]Field, error) {
	sorted := make([]Field, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Hi > sorted[j].Hi
	})

	// After the MSB-first sort, an overlap shows up as a field whose Hi
	// reaches into its predecessor's span.
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Hi >= sorted[i-1].Lo {
			return nil, fmt.Errorf("fields %s[%s] and %s[%s] overlap",
				sorted[i-1].Name, sorted[i-1].BitsLabel(),
				sorted[i].Name, sorted[i].BitsLabel())
		}
	}

	return sorted, nil
}

// FillGaps inserts anonymous spacer fields so the returned slice covers
// every bit of [0, width-1] contiguously, MSB-first. The input must
// already be normalized and must fit inside the width.
func FillGaps(fields []Field, width int) ([]Field, error) {
	if len(fields) > 0 && fields[0].Hi >= width {
		return nil, fmt.Errorf("field %s[%s] does not fit in a %d-bit encoding",
			fields[0].Name, fields[0].BitsLabel(), width)
	}

	filled := make([]Field, 0, len(fields)*2+1)
	next := width - 1 // highest bit not yet covered

	for _, f := range fields {
		if f.Hi < next {
			filled = append(filled, Field{Hi: next, Lo: f.Hi + 1})
		}
		filled = append(filled, f)
		next = f.Lo - 1
	}

	if next >= 0 {
		filled = append(filled, Field{Hi: next, Lo: 0})
	}

	return filled, nil
}

// Overlay distributes a whole-word value across all fields, replacing
// any per-field values. Used by the --value flag to show a concrete
// instruction word or register value in the diagram.
func Overlay(fields []Field, value uint64) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		mask := ^uint64(0)
		if f.Width() < 64 {
			mask = (1 << uint(f.Width())) - 1
		}
		v := (value >> uint(f.Lo)) & mask
		f.Value = &v
		out[i] = f
	}
	return out
}

// ParseValue parses the --value flag, accepting the same base prefixes
// as field values (0x, 0b, 0o, decimal).
func ParseValue(s string) (uint64, error) {
	value, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return value, nil
}

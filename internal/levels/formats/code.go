package formats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/cellmachine/internal/machine"
)

// cellKey is the base-74 alphabet used by V3 level codes.
const cellKey = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ!$%&+-.=?^{}"

// V3 cell values: (2*type + 18*rotation) + placeable, with 72/73 meaning empty.
const (
	v3Empty      = 72
	v3MaxValue   = 73
	v3PerRotate  = 18
	maxCodeCells = machine.MaxCells
)

// ParseCode parses a "V1;..." or "V3;..." level code.
func ParseCode(code string) (Level, error) {
	switch {
	case strings.HasPrefix(code, "V1;"):
		return parseV1(code)
	case strings.HasPrefix(code, "V3;"):
		return parseV3(code)
	default:
		return Level{}, ErrUnknownFormat
	}
}

// decodeBase74 decodes a multi-digit base-74 number, most significant digit first.
func decodeBase74(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty number", ErrMalformedCode)
	}
	n := 0
	for _, r := range s {
		d := strings.IndexRune(cellKey, r)
		if d < 0 {
			return 0, fmt.Errorf("%w: invalid digit %q", ErrMalformedCode, r)
		}
		n = n*74 + d
		if n > maxCodeCells {
			return 0, fmt.Errorf("%w: number %q too large", ErrMalformedCode, s)
		}
	}
	return n, nil
}

// parseV3 decodes "V3;width;height;data;name;description" with base-74 numbers
// and run-length back references in the data section.
func parseV3(code string) (Level, error) {
	fields := strings.Split(code, ";")
	if len(fields) < 4 {
		return Level{}, fmt.Errorf("%w: V3 needs at least 4 fields, got %d", ErrMalformedCode, len(fields))
	}

	w, err := decodeBase74(fields[1])
	if err != nil {
		return Level{}, fmt.Errorf("width: %w", err)
	}
	h, err := decodeBase74(fields[2])
	if err != nil {
		return Level{}, fmt.Errorf("height: %w", err)
	}
	if !machine.ValidSize(w, h) {
		return Level{}, fmt.Errorf("%w: invalid size %dx%d", ErrMalformedCode, w, h)
	}

	values, err := expandV3(fields[3], w*h)
	if err != nil {
		return Level{}, err
	}

	level := Level{
		Format: "V3",
		Width:  w,
		Height: h,
	}
	if len(fields) > 4 {
		level.Name = fields[4]
	}
	if len(fields) > 5 {
		level.Description = fields[5]
	}

	for i, v := range values {
		if v >= v3Empty {
			continue
		}
		cell, err := codeCell((v/2)%9, v/v3PerRotate)
		if err != nil {
			return Level{}, err
		}
		level.Cells = append(level.Cells, Placement{X: i % w, Y: i / w, Cell: cell})
	}
	return level, nil
}

// expandV3 turns the data section into one value per grid slot.
//
// A plain digit is one cell value. ")" is followed by a one-digit offset and a
// one-digit length. "(" is followed by a multi-digit offset closed by ")" with a
// one-digit length, or closed by "(" with a multi-digit length ending in ")".
// A back reference copies length values starting offset+1 slots back.
func expandV3(data string, size int) ([]int, error) {
	values := make([]int, 0, size)
	i := 0

	digit := func(pos int) (int, error) {
		if pos >= len(data) {
			return 0, fmt.Errorf("%w: data ends inside a back reference", ErrMalformedCode)
		}
		d := strings.IndexByte(cellKey, data[pos])
		if d < 0 {
			return 0, fmt.Errorf("%w: invalid digit %q at %d", ErrMalformedCode, data[pos], pos)
		}
		return d, nil
	}

	for i < len(data) {
		var offset, length int
		switch data[i] {
		case ')':
			var err error
			if offset, err = digit(i + 1); err != nil {
				return nil, err
			}
			if length, err = digit(i + 2); err != nil {
				return nil, err
			}
			i += 3
		case '(':
			i++
			start := i
			for i < len(data) && data[i] != ')' && data[i] != '(' {
				i++
			}
			if i >= len(data) {
				return nil, fmt.Errorf("%w: unterminated back reference", ErrMalformedCode)
			}
			var err error
			if offset, err = decodeBase74(data[start:i]); err != nil {
				return nil, err
			}
			if data[i] == ')' {
				if length, err = digit(i + 1); err != nil {
					return nil, err
				}
				i += 2
			} else {
				i++
				start = i
				for i < len(data) && data[i] != ')' {
					i++
				}
				if i >= len(data) {
					return nil, fmt.Errorf("%w: unterminated run length", ErrMalformedCode)
				}
				if length, err = decodeBase74(data[start:i]); err != nil {
					return nil, err
				}
				i++
			}
		default:
			v, err := digit(i)
			if err != nil {
				return nil, err
			}
			if len(values) >= size {
				return nil, fmt.Errorf("%w: more cells than %d", ErrMalformedCode, size)
			}
			values = append(values, v)
			i++
			continue
		}

		from := len(values) - offset - 1
		if from < 0 {
			return nil, fmt.Errorf("%w: back reference before start of data", ErrMalformedCode)
		}
		if len(values)+length > size {
			return nil, fmt.Errorf("%w: run overflows %d cells", ErrMalformedCode, size)
		}
		for k := 0; k < length; k++ {
			values = append(values, values[from+k])
		}
	}

	if len(values) != size {
		return nil, fmt.Errorf("%w: expected %d cells, got %d", ErrMalformedCode, size, len(values))
	}
	for _, v := range values {
		if v > v3MaxValue {
			return nil, fmt.Errorf("%w: cell value %d", ErrMalformedCode, v)
		}
	}
	return values, nil
}

// parseV1 decodes "V1;width;height;placeables;cells;name" where cells are
// comma-separated "type.rotation.x.y" entries in decimal.
func parseV1(code string) (Level, error) {
	fields := strings.Split(code, ";")
	if len(fields) < 5 {
		return Level{}, fmt.Errorf("%w: V1 needs at least 5 fields, got %d", ErrMalformedCode, len(fields))
	}

	w, err := strconv.Atoi(fields[1])
	if err != nil {
		return Level{}, fmt.Errorf("%w: width %q", ErrMalformedCode, fields[1])
	}
	h, err := strconv.Atoi(fields[2])
	if err != nil {
		return Level{}, fmt.Errorf("%w: height %q", ErrMalformedCode, fields[2])
	}
	if !machine.ValidSize(w, h) {
		return Level{}, fmt.Errorf("%w: invalid size %dx%d", ErrMalformedCode, w, h)
	}

	level := Level{
		Format: "V1",
		Width:  w,
		Height: h,
	}
	if len(fields) > 5 {
		level.Name = fields[5]
	}

	if fields[4] == "" {
		return level, nil
	}
	for _, entry := range strings.Split(fields[4], ",") {
		parts := strings.Split(entry, ".")
		if len(parts) != 4 {
			return Level{}, fmt.Errorf("%w: cell entry %q", ErrMalformedCode, entry)
		}
		nums := make([]int, 4)
		for i, p := range parts {
			if nums[i], err = strconv.Atoi(p); err != nil {
				return Level{}, fmt.Errorf("%w: cell entry %q", ErrMalformedCode, entry)
			}
		}
		cell, err := codeCell(nums[0], nums[1])
		if err != nil {
			return Level{}, err
		}
		if nums[2] < 0 || nums[2] >= w || nums[3] < 0 || nums[3] >= h {
			return Level{}, fmt.Errorf("%w: cell %q outside %dx%d", ErrMalformedCode, entry, w, h)
		}
		level.Cells = append(level.Cells, Placement{X: nums[2], Y: nums[3], Cell: cell})
	}
	return level, nil
}

package formats

import (
	"errors"
	"testing"

	"github.com/vovakirdan/cellmachine/internal/machine"
)

func TestDecodeBase74(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"0", 0},
		{"9", 9},
		{"a", 10},
		{"Z", 61},
		{"}", 73},
		{"10", 74},
		{"1a", 84},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := decodeBase74(tc.input)
			if err != nil {
				t.Fatalf("decodeBase74(%q) error: %v", tc.input, err)
			}
			if got != tc.expected {
				t.Errorf("decodeBase74(%q) = %d, expected %d", tc.input, got, tc.expected)
			}
		})
	}

	if _, err := decodeBase74("a#"); !errors.Is(err, ErrMalformedCode) {
		t.Errorf("invalid digit error = %v, expected ErrMalformedCode", err)
	}
	if _, err := decodeBase74(""); !errors.Is(err, ErrMalformedCode) {
		t.Errorf("empty number error = %v, expected ErrMalformedCode", err)
	}
}

func TestParseV3Simple(t *testing.T) {
	lvl, err := ParseCode("V3;3;1;6{c;Test;A tiny level")
	if err != nil {
		t.Fatalf("ParseCode failed: %v", err)
	}

	if lvl.Format != "V3" {
		t.Errorf("Format = %q, expected V3", lvl.Format)
	}
	if lvl.Width != 3 || lvl.Height != 1 {
		t.Errorf("expected 3x1, got %dx%d", lvl.Width, lvl.Height)
	}
	if lvl.Name != "Test" || lvl.Description != "A tiny level" {
		t.Errorf("name/description = %q/%q", lvl.Name, lvl.Description)
	}
	if len(lvl.Cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(lvl.Cells))
	}

	first := lvl.Cells[0]
	if first.X != 0 || first.Y != 0 || !first.Cell.Same(machine.C(machine.Mover, machine.Right)) {
		t.Errorf("first cell = %+v, expected Mover>Right at (0,0)", first)
	}
	second := lvl.Cells[1]
	if second.X != 2 || second.Y != 0 || second.Cell.Type() != machine.Wall {
		t.Errorf("second cell = %+v, expected Wall at (2,0)", second)
	}
}

func TestParseV3Rotation(t *testing.T) {
	// 'Y' = 60 = mover (6) + 3 rotations (54)
	lvl, err := ParseCode("V3;1;1;Y;;")
	if err != nil {
		t.Fatalf("ParseCode failed: %v", err)
	}
	if len(lvl.Cells) != 1 || lvl.Cells[0].Cell.Direction() != machine.Up {
		t.Errorf("cells = %+v, expected one Mover>Up", lvl.Cells)
	}

	// Odd values mark placeable slots and decode to the same cell.
	lvl, err = ParseCode("V3;1;1;7;;")
	if err != nil {
		t.Fatalf("ParseCode failed: %v", err)
	}
	if len(lvl.Cells) != 1 || lvl.Cells[0].Cell.Type() != machine.Mover {
		t.Errorf("cells = %+v, expected one Mover", lvl.Cells)
	}
}

func TestParseV3Rows(t *testing.T) {
	// Index i maps to (i%w, i/w): the second row is y=1.
	lvl, err := ParseCode("V3;2;2;{{{c;;")
	if err != nil {
		t.Fatalf("ParseCode failed: %v", err)
	}
	if len(lvl.Cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(lvl.Cells))
	}
	if p := lvl.Cells[0]; p.X != 1 || p.Y != 1 {
		t.Errorf("wall at (%d,%d), expected (1,1)", p.X, p.Y)
	}
}

func TestParseV3BackReferences(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		walls int
	}{
		{"short run", "V3;4;1;c)02{;;", 3},
		{"long offset short length", "V3;5;1;c(0)3{;;", 4},
		{"long offset long length", "V3;4;1;c(0(3);;", 4},
		{"repeat pattern", "V3;6;1;c{)12)12;;", 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lvl, err := ParseCode(tc.code)
			if err != nil {
				t.Fatalf("ParseCode(%q) failed: %v", tc.code, err)
			}
			if len(lvl.Cells) != tc.walls {
				t.Errorf("expected %d walls, got %d", tc.walls, len(lvl.Cells))
			}
			for _, p := range lvl.Cells {
				if p.Cell.Type() != machine.Wall {
					t.Errorf("unexpected cell %v at (%d,%d)", p.Cell, p.X, p.Y)
				}
			}
		})
	}
}

func TestParseV3Wide(t *testing.T) {
	// Width 10 is the single digit 'a'; one back reference fills the row.
	lvl, err := ParseCode("V3;a;1;{(0(9);;")
	if err != nil {
		t.Fatalf("ParseCode failed: %v", err)
	}
	if lvl.Width != 10 || len(lvl.Cells) != 0 {
		t.Errorf("width = %d, cells = %d; expected 10 and 0", lvl.Width, len(lvl.Cells))
	}
}

func TestParseV3Malformed(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"too few fields", "V3;3;1"},
		{"zero width", "V3;0;1;;;"},
		{"too many cells", "V3;}};}};;;"},
		{"bad width digit", "V3;#;1;{;;"},
		{"short data", "V3;3;1;{{;;"},
		{"long data", "V3;1;1;{{;;"},
		{"bad cell digit", "V3;1;1;#;;"},
		{"reference before start", "V3;2;1;)01;;"},
		{"run overflows", "V3;2;1;{)05;;"},
		{"unterminated reference", "V3;2;1;{(0;;"},
		{"truncated reference", "V3;2;1;{)0;;"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseCode(tc.code); !errors.Is(err, ErrMalformedCode) {
				t.Errorf("ParseCode(%q) error = %v, expected ErrMalformedCode", tc.code, err)
			}
		})
	}
}

func TestParseV1(t *testing.T) {
	lvl, err := ParseCode("V1;3;2;0.0,1.0;3.0.0.0,6.0.2.1,1.2.1.1;Simple")
	if err != nil {
		t.Fatalf("ParseCode failed: %v", err)
	}
	if lvl.Format != "V1" || lvl.Name != "Simple" {
		t.Errorf("format/name = %q/%q", lvl.Format, lvl.Name)
	}
	if lvl.Width != 3 || lvl.Height != 2 {
		t.Errorf("expected 3x2, got %dx%d", lvl.Width, lvl.Height)
	}

	want := []Placement{
		{0, 0, machine.C(machine.Mover, machine.Right)},
		{2, 1, machine.C(machine.Wall, machine.Right)},
		{1, 1, machine.C(machine.RotatorCW, machine.Left)},
	}
	if len(lvl.Cells) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(lvl.Cells))
	}
	for i, p := range want {
		got := lvl.Cells[i]
		if got.X != p.X || got.Y != p.Y || !got.Cell.Same(p.Cell) {
			t.Errorf("cell %d = %+v, expected %+v", i, got, p)
		}
	}
}

func TestParseV1Empty(t *testing.T) {
	lvl, err := ParseCode("V1;4;4;;;")
	if err != nil {
		t.Fatalf("ParseCode failed: %v", err)
	}
	if len(lvl.Cells) != 0 {
		t.Errorf("expected no cells, got %d", len(lvl.Cells))
	}
}

func TestParseV1Malformed(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"too few fields", "V1;3;3;"},
		{"bad width", "V1;x;3;;;"},
		{"negative height", "V1;3;-3;;;"},
		{"too many cells", "V1;4096;4096;;;"},
		{"size wraps to zero", "V1;4294967296;4294967296;;0.0.1.1;x"},
		{"short entry", "V1;3;3;;3.0.0;"},
		{"bad number", "V1;3;3;;3.0.a.0;"},
		{"unknown type", "V1;3;3;;9.0.0.0;"},
		{"bad rotation", "V1;3;3;;3.4.0.0;"},
		{"outside grid", "V1;3;3;;3.0.3.0;"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseCode(tc.code); !errors.Is(err, ErrMalformedCode) {
				t.Errorf("ParseCode(%q) error = %v, expected ErrMalformedCode", tc.code, err)
			}
		})
	}
}

func TestParseCodeUnknownFormat(t *testing.T) {
	for _, code := range []string{"", "V2;1;1;;", "hello"} {
		if _, err := ParseCode(code); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseCode(%q) error = %v, expected ErrUnknownFormat", code, err)
		}
	}
}

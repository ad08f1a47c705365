package domain

import (
	"errors"
	"testing"
)

func TestFormID_Encodings(t *testing.T) {
	id := FormID(0x801)

	if got := id.String(); got != "00000801" {
		t.Errorf("String() = %q, want %q", got, "00000801")
	}
	if got := id.Hex(); got != "0x00000801" {
		t.Errorf("Hex() = %q, want %q", got, "0x00000801")
	}
	if got := id.Decimal(); got != "2049" {
		t.Errorf("Decimal() = %q, want %q", got, "2049")
	}
}

func TestParseFormID(t *testing.T) {
	tests := []struct {
		input   string
		want    FormID
		wantErr bool
	}{
		{"00000800", 0x800, false},
		{"0x00000800", 0x800, false},
		{"0X0000ABC", 0xABC, false},
		{"fff", 0xFFF, false},
		{" 0x801 ", 0x801, false},
		{"", 0, true},
		{"0x", 0, true},
		{"0xnothex", 0, true},
		{"100000000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrFormat) {
					t.Errorf("ParseFormID(%q) error = %v, want ErrFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormID(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormID(%q) = %s, want %s", tt.input, got.Hex(), tt.want.Hex())
			}
		})
	}
}

func TestParseDecimalFormID_SameSpaceAsHex(t *testing.T) {
	fromDecimal, err := ParseDecimalFormID("2049")
	if err != nil {
		t.Fatal(err)
	}
	fromHex, err := ParseFormID("0x00000801")
	if err != nil {
		t.Fatal(err)
	}
	if fromDecimal != fromHex {
		t.Errorf("decimal %s != hex %s", fromDecimal.Hex(), fromHex.Hex())
	}

	if _, err := ParseDecimalFormID("0x801"); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat for hex text in decimal field, got %v", err)
	}
}

func TestInESLRange(t *testing.T) {
	tests := []struct {
		id   FormID
		want bool
	}{
		{0x7FF, false},
		{0x800, true},
		{0xFFF, true},
		{0x1000, false},
	}
	for _, tt := range tests {
		if got := InESLRange(tt.id); got != tt.want {
			t.Errorf("InESLRange(%s) = %v, want %v", tt.id.Hex(), got, tt.want)
		}
	}
}

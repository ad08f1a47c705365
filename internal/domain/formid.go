package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FormID is a plugin-wide record or alias identifier
type FormID uint32

// Light plugins draw their new form ids from this closed range
const (
	ESLStart    FormID = 0x800
	ESLEnd      FormID = 0xFFF
	ESLCapacity        = int(ESLEnd-ESLStart) + 1
)

// String renders the id as used in record id attributes: 8 hex digits, no prefix
func (id FormID) String() string {
	return fmt.Sprintf("%08x", uint32(id))
}

// Hex renders the id as used in condition parameters: 0x-prefixed, 8 hex digits
func (id FormID) Hex() string {
	return fmt.Sprintf("0x%08x", uint32(id))
}

// Decimal renders the id as used in ALST text and QSTA alias attributes
func (id FormID) Decimal() string {
	return strconv.FormatUint(uint64(id), 10)
}

// InESLRange reports whether id may be used by a light plugin
func InESLRange(id FormID) bool {
	return id >= ESLStart && id <= ESLEnd
}

// ParseFormID parses a hexadecimal id with or without a 0x prefix
func ParseFormID(s string) (FormID, error) {
	trimmed := strings.TrimSpace(s)
	digits := strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if digits == "" {
		return 0, &FormatError{Tag: "form id", Value: s, Err: fmt.Errorf("empty hex value")}
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, &FormatError{Tag: "form id", Value: s, Err: err}
	}
	return FormID(v), nil
}

// ParseDecimalFormID parses a decimal id
func ParseDecimalFormID(s string) (FormID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, &FormatError{Tag: "form id", Value: s, Err: err}
	}
	return FormID(v), nil
}

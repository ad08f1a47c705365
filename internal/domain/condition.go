package domain

import (
	"strconv"
	"strings"
)

// DefaultFunctionIndex is the condition function the builder attaches to targets
// (the "is alias reference" check).
const DefaultFunctionIndex = 566

// Condition is the flat content of one CTDA element.
// Padding and unknown fields are kept verbatim.
type Condition struct {
	Operator        string
	Unknown0        string
	ComparisonValue float64
	FunctionIndex   int
	Padding         string
	Param1          string
	Param2          string
	RunOnType       string
	Reference       string
	Unknown1        string
}

// DefaultCondition returns the condition the builder pairs with every target
func DefaultCondition(aliasID FormID) Condition {
	return Condition{
		Operator:        "0x00",
		Unknown0:        "0x00,0x00,0x00",
		ComparisonValue: 1.0,
		FunctionIndex:   DefaultFunctionIndex,
		Padding:         "0x00,0x00",
		Param1:          aliasID.Hex(),
		Param2:          "0x00000000",
		RunOnType:       "0",
		Reference:       "00000000",
		Unknown1:        "0xffffffff",
	}
}

// Param1FormID interprets Param1 as a hex form id
func (c Condition) Param1FormID() (FormID, error) {
	return ParseFormID(c.Param1)
}

// Node builds the CTDA element with its ten fields in fixed order
func (c Condition) Node() *Node {
	ctda := NewNode(TagCTDA)
	ctda.Append(NewTextNode("operator", c.Operator))
	ctda.Append(NewTextNode("unknown0", c.Unknown0))
	ctda.Append(NewTextNode("comparisonValueFloat", FormatFloat(c.ComparisonValue)))
	ctda.Append(NewTextNode("functionIndex", strconv.Itoa(c.FunctionIndex)))
	ctda.Append(NewTextNode("padding", c.Padding))
	ctda.Append(NewTextNode("param1", c.Param1))
	ctda.Append(NewTextNode("param2", c.Param2))
	ctda.Append(NewTextNode("runOnType", c.RunOnType))
	ctda.Append(NewTextNode("reference", c.Reference))
	ctda.Append(NewTextNode("unknown1", c.Unknown1))
	return ctda
}

// FormatFloat renders a float the way the toolchain writes comparison values: 1.0, 0.5, 100.0
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

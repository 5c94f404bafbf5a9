package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Ошибки I/O
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Code generation
	GenInfo                       Code = 9000
	GenUnknownSymbol              Code = 9001
	GenUnreachableSymbol          Code = 9002 // found, but neither local to the frame nor global
	GenNotCallable                Code = 9003
	GenArityMismatch              Code = 9004
	GenArgumentTypeMismatch       Code = 9005
	GenUnsupportedType            Code = 9006
	GenMultipleReturnsUnsupported Code = 9007
	GenEmptyBlock                 Code = 9008
	GenUnsupportedNode            Code = 9009
	GenUnsupportedOperator        Code = 9010
	GenOperandTypeMismatch        Code = 9011
	GenAssignmentTypeMismatch     Code = 9012
	GenReturnTypeMismatch         Code = 9013
	GenInvalidLiteral             Code = 9014
	GenDuplicateExternal          Code = 9015
	GenLosslessCastAvailable      Code = 9016 // warning only
)

var codeDescription = map[Code]string{
	UnknownCode:                   "Unknown error",
	IOLoadFileError:               "I/O load file error",
	IODecodeError:                 "Malformed syntax tree input",
	ObsInfo:                       "Observability information",
	ObsTimings:                    "Pipeline timings",
	GenInfo:                       "Code generation information",
	GenUnknownSymbol:              "Unknown symbol",
	GenUnreachableSymbol:          "Symbol not reachable from this scope",
	GenNotCallable:                "Callee is not a function",
	GenArityMismatch:              "Incorrect number of arguments",
	GenArgumentTypeMismatch:       "Invalid argument type",
	GenUnsupportedType:            "Unsupported type",
	GenMultipleReturnsUnsupported: "Multiple return values are not supported",
	GenEmptyBlock:                 "Block produces no value",
	GenUnsupportedNode:            "Unable to generate code for node",
	GenUnsupportedOperator:        "Unsupported operator",
	GenOperandTypeMismatch:        "Operand types differ",
	GenAssignmentTypeMismatch:     "Assigned value does not match declared type",
	GenReturnTypeMismatch:         "Returned value does not match declared type",
	GenInvalidLiteral:             "Invalid literal",
	GenDuplicateExternal:          "Duplicate external declaration",
	GenLosslessCastAvailable:      "Lossless cast available but not applied",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

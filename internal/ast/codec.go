package ast

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"
)

// The parser hands trees to later stages as msgpack-encoded ".hast" files.

const (
	fileMagic         = "hast"
	fileSchemaVersion uint16 = 1
)

var (
	ErrBadMagic   = errors.New("not a hast file")
	ErrBadVersion = errors.New("unsupported hast schema version")
	ErrMalformed  = errors.New("malformed hast tree")
)

// File is a decoded tree together with the module name it was parsed as.
type File struct {
	Module string
	Root   *Function
}

type wireFile struct {
	Magic   string    `msgpack:"magic"`
	Version uint16    `msgpack:"version"`
	Module  string    `msgpack:"module"`
	Root    *wireNode `msgpack:"root"`
}

type wireType struct {
	Type TypeKind `msgpack:"t"`
	Name string   `msgpack:"n,omitempty"`
}

type wireVar struct {
	Name    string    `msgpack:"n"`
	Mutable bool      `msgpack:"m,omitempty"`
	Type    *wireType `msgpack:"t,omitempty"`
}

type wireNode struct {
	Kind    Kind        `msgpack:"k"`
	Text    string      `msgpack:"s,omitempty"`
	Radix   int         `msgpack:"r,omitempty"`
	Bool    bool        `msgpack:"b,omitempty"`
	Name    string      `msgpack:"n,omitempty"`
	Op      string      `msgpack:"o,omitempty"`
	LHS     *wireNode   `msgpack:"lhs,omitempty"`
	RHS     *wireNode   `msgpack:"rhs,omitempty"`
	Args    []*wireNode `msgpack:"a,omitempty"`
	Vars    []wireVar   `msgpack:"v,omitempty"`
	Returns []wireType  `msgpack:"ret,omitempty"`
	Body    []*wireNode `msgpack:"body,omitempty"`
	Type    *wireType   `msgpack:"t,omitempty"`
}

// Encode writes root as a hast file for module.
func Encode(w io.Writer, module string, root *Function) error {
	if root == nil {
		return fmt.Errorf("%w: nil root function", ErrMalformed)
	}
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&wireFile{
		Magic:   fileMagic,
		Version: fileSchemaVersion,
		Module:  module,
		Root:    toWire(root),
	})
}

// Decode reads a hast file. Identifiers are normalized to NFC so that names
// spelled with different Unicode compositions bind to the same symbol.
func Decode(r io.Reader) (*File, error) {
	var wf wireFile
	if err := msgpack.NewDecoder(r).Decode(&wf); err != nil {
		return nil, fmt.Errorf("decode hast: %w", err)
	}
	if wf.Magic != fileMagic {
		return nil, ErrBadMagic
	}
	if wf.Version != fileSchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, wf.Version)
	}
	if wf.Root == nil || wf.Root.Kind != KindFunction {
		return nil, fmt.Errorf("%w: root must be a function", ErrMalformed)
	}
	root, err := fromWire(wf.Root)
	if err != nil {
		return nil, err
	}
	fn, ok := root.(*Function)
	if !ok {
		return nil, fmt.Errorf("%w: root must be a function", ErrMalformed)
	}
	return &File{Module: ident(wf.Module), Root: fn}, nil
}

func ident(s string) string { return norm.NFC.String(s) }

func toWireType(t *TypeDeclaration) *wireType {
	if t == nil {
		return nil
	}
	return &wireType{Type: t.Type, Name: t.Name}
}

func fromWireType(t *wireType) *TypeDeclaration {
	if t == nil {
		return nil
	}
	return &TypeDeclaration{Type: t.Type, Name: ident(t.Name)}
}

func toWireVars(vars VariableList) []wireVar {
	out := make([]wireVar, 0, len(vars))
	for _, v := range vars {
		out = append(out, wireVar{Name: v.Name, Mutable: v.Mutable, Type: toWireType(v.Type)})
	}
	return out
}

func fromWireVars(vars []wireVar) VariableList {
	if len(vars) == 0 {
		return nil
	}
	out := make(VariableList, 0, len(vars))
	for _, v := range vars {
		out = append(out, &Variable{Name: ident(v.Name), Mutable: v.Mutable, Type: fromWireType(v.Type)})
	}
	return out
}

func toWireInterface(w *wireNode, ft *FunctionType) {
	if ft == nil {
		return
	}
	w.Vars = toWireVars(ft.Params)
	for _, r := range ft.Returns {
		w.Returns = append(w.Returns, *toWireType(r))
	}
}

func fromWireInterface(w *wireNode) *FunctionType {
	ft := &FunctionType{Params: fromWireVars(w.Vars)}
	for i := range w.Returns {
		ft.Returns = append(ft.Returns, fromWireType(&w.Returns[i]))
	}
	return ft
}

func toWireList(nodes []Node) []*wireNode {
	out := make([]*wireNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toWire(n))
	}
	return out
}

func toWire(n Node) *wireNode {
	switch n := n.(type) {
	case *IntLiteral:
		return &wireNode{Kind: KindIntLiteral, Text: n.Text, Radix: n.Radix}
	case *FloatLiteral:
		return &wireNode{Kind: KindFloatLiteral, Text: n.Text}
	case *BoolLiteral:
		return &wireNode{Kind: KindBoolLiteral, Bool: n.Value}
	case *TextLiteral:
		return &wireNode{Kind: KindTextLiteral, Text: n.Value}
	case *Symbol:
		return &wireNode{Kind: KindSymbol, Name: n.Name}
	case *Binary:
		return &wireNode{Kind: KindBinary, Op: n.Op, LHS: toWire(n.LHS), RHS: toWire(n.RHS)}
	case *Assignment:
		return &wireNode{Kind: KindAssignment, Vars: toWireVars(n.Vars), RHS: toWire(n.RHS)}
	case *Call:
		return &wireNode{Kind: KindCall, Name: n.Callee, Args: toWireList(n.Args)}
	case *Block:
		return &wireNode{Kind: KindBlock, Body: toWireList(n.Nodes)}
	case *Function:
		w := &wireNode{Kind: KindFunction}
		toWireInterface(w, n.Interface)
		if n.Body != nil {
			w.Body = toWireList(n.Body.Nodes)
		}
		return w
	case *ExternalFunction:
		w := &wireNode{Kind: KindExternalFunction, Name: n.Name}
		toWireInterface(w, n.Interface)
		return w
	case *Variable:
		return &wireNode{Kind: KindVariable, Name: n.Name, Bool: n.Mutable, Type: toWireType(n.Type)}
	case *TypeDeclaration:
		return &wireNode{Kind: KindTypeDeclaration, Type: toWireType(n)}
	default:
		return nil
	}
}

func fromWireList(ws []*wireNode) ([]Node, error) {
	out := make([]Node, 0, len(ws))
	for _, w := range ws {
		n, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func fromWire(w *wireNode) (Node, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: missing node", ErrMalformed)
	}
	switch w.Kind {
	case KindIntLiteral:
		return &IntLiteral{Text: w.Text, Radix: w.Radix}, nil
	case KindFloatLiteral:
		return &FloatLiteral{Text: w.Text}, nil
	case KindBoolLiteral:
		return &BoolLiteral{Value: w.Bool}, nil
	case KindTextLiteral:
		return &TextLiteral{Value: w.Text}, nil
	case KindSymbol:
		return &Symbol{Name: ident(w.Name)}, nil
	case KindBinary:
		lhs, err := fromWire(w.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := fromWire(w.RHS)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: w.Op, LHS: lhs, RHS: rhs}, nil
	case KindAssignment:
		rhs, err := fromWire(w.RHS)
		if err != nil {
			return nil, err
		}
		return &Assignment{Vars: fromWireVars(w.Vars), RHS: rhs}, nil
	case KindCall:
		args, err := fromWireList(w.Args)
		if err != nil {
			return nil, err
		}
		return &Call{Callee: ident(w.Name), Args: args}, nil
	case KindBlock:
		nodes, err := fromWireList(w.Body)
		if err != nil {
			return nil, err
		}
		return &Block{Nodes: nodes}, nil
	case KindFunction:
		nodes, err := fromWireList(w.Body)
		if err != nil {
			return nil, err
		}
		return &Function{Interface: fromWireInterface(w), Body: &Block{Nodes: nodes}}, nil
	case KindExternalFunction:
		return &ExternalFunction{Name: ident(w.Name), Interface: fromWireInterface(w)}, nil
	case KindVariable:
		return &Variable{Name: ident(w.Name), Mutable: w.Bool, Type: fromWireType(w.Type)}, nil
	case KindTypeDeclaration:
		if w.Type == nil {
			return &TypeDeclaration{}, nil
		}
		return fromWireType(w.Type), nil
	default:
		return nil, fmt.Errorf("%w: unknown node kind %d", ErrMalformed, w.Kind)
	}
}

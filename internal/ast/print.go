package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

func (n *IntLiteral) String() string {
	if n.Radix != 0 && n.Radix != 10 {
		return fmt.Sprintf("<IntLiteral %s radix=%d>", n.Text, n.Radix)
	}
	return "<IntLiteral " + n.Text + ">"
}

func (n *FloatLiteral) String() string { return "<FloatLiteral " + n.Text + ">" }

func (n *BoolLiteral) String() string {
	return "<BoolLiteral " + strconv.FormatBool(n.Value) + ">"
}

func (n *TextLiteral) String() string { return "<TextLiteral " + strconv.Quote(n.Value) + ">" }

func (n *Symbol) String() string { return "<Symbol " + n.Name + ">" }

func (n *Binary) String() string {
	return fmt.Sprintf("<Binary '%s' (%s, %s)>", n.Op, nodeString(n.LHS), nodeString(n.RHS))
}

func (n *Assignment) String() string {
	return fmt.Sprintf("<Assignment %s = %s>", n.Vars.String(), nodeString(n.RHS))
}

func (n *Call) String() string {
	args := make([]string, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, nodeString(a))
	}
	return fmt.Sprintf("<Call %s(%s)>", n.Callee, strings.Join(args, ", "))
}

func (n *Block) String() string {
	return fmt.Sprintf("<Block (%d nodes)>", len(n.Nodes))
}

func (n *Function) String() string {
	return "<Function " + n.Interface.String() + ">"
}

func (n *ExternalFunction) String() string {
	return "<ExternalFunction " + n.Name + " " + n.Interface.String() + ">"
}

func (v *Variable) String() string {
	mut := "const"
	if v.Mutable {
		mut = "MUTABLE"
	}
	return fmt.Sprintf("<Variable %s %s %s>", v.Name, mut, v.Type.String())
}

func (l VariableList) String() string {
	parts := make([]string, 0, len(l))
	for _, v := range l {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ", ")
}

func (f *FunctionType) String() string {
	if f == nil {
		return "()"
	}
	rets := make([]string, 0, len(f.Returns))
	for _, r := range f.Returns {
		rets = append(rets, r.String())
	}
	return fmt.Sprintf("(%s) -> (%s)", f.Params.String(), strings.Join(rets, ", "))
}

func nodeString(n Node) string {
	if n == nil {
		return "<null>"
	}
	return n.String()
}

// Dump writes an indented tree rendering of n.
func Dump(w io.Writer, n Node) error {
	var sb strings.Builder
	dumpNode(&sb, n, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

func dumpNode(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := n.(type) {
	case nil:
		sb.WriteString(indent + "<null>\n")
	case *Block:
		sb.WriteString(indent + "<Block>\n")
		for _, child := range n.Nodes {
			dumpNode(sb, child, depth+1)
		}
	case *Function:
		sb.WriteString(indent + n.String() + "\n")
		if n.Body != nil {
			dumpNode(sb, n.Body, depth+1)
		}
	case *Assignment:
		sb.WriteString(indent + "<Assignment " + n.Vars.String() + ">\n")
		dumpNode(sb, n.RHS, depth+1)
	case *Binary:
		sb.WriteString(indent + "<Binary '" + n.Op + "'>\n")
		dumpNode(sb, n.LHS, depth+1)
		dumpNode(sb, n.RHS, depth+1)
	case *Call:
		sb.WriteString(indent + "<Call " + n.Callee + ">\n")
		for _, a := range n.Args {
			dumpNode(sb, a, depth+1)
		}
	default:
		sb.WriteString(indent + n.String() + "\n")
	}
}

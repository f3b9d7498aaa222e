package ast

import (
	"fmt"
	"strings"
)

// Dump renders a node as a compact s-expression, e.g.
// (scope (label 10) (call PRINT (const STRING "hi"))).
func Dump(n Node) string {
	var d dumper
	d.node(n)
	return d.sb.String()
}

type dumper struct {
	sb strings.Builder
}

func (d *dumper) list(head string, items ...func()) {
	d.sb.WriteByte('(')
	d.sb.WriteString(head)
	for _, item := range items {
		d.sb.WriteByte(' ')
		item()
	}
	d.sb.WriteByte(')')
}

func (d *dumper) atom(s string) func() {
	return func() { d.sb.WriteString(s) }
}

func (d *dumper) sub(n Node) func() {
	return func() { d.node(n) }
}

func (d *dumper) node(n Node) {
	switch n := n.(type) {
	case nil:
		d.sb.WriteString("nil")
	case *Identifier:
		d.sb.WriteString(n.Name)
	case *Constant:
		d.list("const", d.atom(n.Type.String()), d.atom(n.Value))
	case *UnaryOp:
		d.list(n.Op.String(), d.sub(n.Operand))
	case *BinaryOp:
		d.list(n.Op.String(), d.sub(n.Left), d.sub(n.Right))
	case *FunctionCall:
		items := []func(){d.atom(n.Name)}
		for _, arg := range n.Args {
			items = append(items, d.sub(arg))
		}
		d.list("call", items...)
	case *Assignment:
		d.list("assign", d.atom(n.Target.Name), d.sub(n.Value))
	case *VariableDeclaration:
		head := "dim"
		if n.Constant {
			head = "const"
		}
		items := []func(){d.atom(n.Name)}
		if n.Type != 0 {
			items = append(items, d.atom(n.Type.String()))
		}
		if n.Init != nil {
			items = append(items, d.sub(n.Init))
		}
		d.list(head, items...)
	case *If:
		items := []func(){d.sub(n.Condition), d.sub(n.Action)}
		if n.Else != nil {
			items = append(items, d.sub(n.Else))
		}
		d.list("if", items...)
	case *Scope:
		items := make([]func(), 0, len(n.Body))
		for _, stmt := range n.Body {
			items = append(items, d.sub(stmt))
		}
		d.list("scope", items...)
	case *Return:
		if n.Value == nil {
			d.list("return")
			return
		}
		d.list("return", d.sub(n.Value))
	case *Label:
		d.list("label", d.atom(n.Value))
	case *Import:
		d.list("import", d.atom(n.Path))
	case *Remark:
		d.list("rem")
	case *Jump:
		head := "goto"
		if n.Subroutine {
			head = "gosub"
		}
		d.list(head, d.atom(n.Target))
	case *For:
		items := []func(){d.atom(n.Var.Name), d.sub(n.From), d.sub(n.To)}
		if n.Step != nil {
			items = append(items, d.sub(n.Step))
		}
		d.list("for", items...)
	case *Next:
		items := make([]func(), 0, len(n.Vars))
		for _, v := range n.Vars {
			items = append(items, d.atom(v.Name))
		}
		d.list("next", items...)
	default:
		fmt.Fprintf(&d.sb, "<%T>", n)
	}
}

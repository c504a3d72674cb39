package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/mdt/internal/model"
)

// Scope resolves root-level names during evaluation. It is built by the
// caller from the model.DataContext namespaces plus any provider parameters:
// each name declared by the provider tag's arguments is bound to the value
// the consumer tag passes at the same position.
type Scope map[string]model.Value

// Warning mirrors model.TemplateWarning but is collected locally before the
// caller attaches File/Block context.
type Warning struct {
	Path    string
	Message string
}

// RenderErr mirrors model.RenderError minus file/block context, raised when
// a root name referenced by the template is entirely undefined.
type RenderErr struct {
	Message string
}

func (e *RenderErr) Error() string { return e.Message }

// Render walks nodes against scope and returns the rendered text plus any
// attribute-access warnings. Trailing newlines are preserved byte-for-byte
// because TextNode content is copied verbatim with no trimming.
func Render(nodes []Node, scope Scope) (string, []Warning, error) {
	var sb strings.Builder
	var warnings []Warning
	if err := renderNodes(nodes, scope, &sb, &warnings); err != nil {
		return "", warnings, err
	}
	return sb.String(), warnings, nil
}

func renderNodes(nodes []Node, scope Scope, sb *strings.Builder, warnings *[]Warning) error {
	for _, n := range nodes {
		switch node := n.(type) {
		case TextNode:
			sb.WriteString(node.Text)
		case OutputNode:
			v, err := eval(node.Expr, scope, warnings)
			if err != nil {
				return err
			}
			sb.WriteString(v.String())
		case IfNode:
			if err := renderIf(node, scope, sb, warnings); err != nil {
				return err
			}
		case ForNode:
			if err := renderFor(node, scope, sb, warnings); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unhandled template node %T", n)
		}
	}
	return nil
}

func renderIf(node IfNode, scope Scope, sb *strings.Builder, warnings *[]Warning) error {
	for _, branch := range node.Branches {
		v, err := eval(branch.Cond, scope, warnings)
		if err != nil {
			return err
		}
		if v.Truthy() {
			return renderNodes(branch.Body, scope, sb, warnings)
		}
	}
	if node.Else != nil {
		return renderNodes(node.Else, scope, sb, warnings)
	}
	return nil
}

func renderFor(node ForNode, scope Scope, sb *strings.Builder, warnings *[]Warning) error {
	seq, err := eval(node.Seq, scope, warnings)
	if err != nil {
		return err
	}
	items := seq.Items()
	for _, item := range items {
		loopScope := make(Scope, len(scope)+1)
		for k, v := range scope {
			loopScope[k] = v
		}
		loopScope[node.Var] = item
		if err := renderNodes(node.Body, loopScope, sb, warnings); err != nil {
			return err
		}
	}
	return nil
}

// eval resolves an expression against scope. Per : a reference to
// an undefined root name is a hard RenderErr; an undefined nested attribute
// or index resolves to null and records a Warning naming the missing path.
func eval(e Expr, scope Scope, warnings *[]Warning) (model.Value, error) {
	switch expr := e.(type) {
	case LiteralExpr:
		switch expr.Kind {
		case LitString:
			return model.String(expr.Str), nil
		case LitNumber:
			return model.Number(expr.Num), nil
		case LitBool:
			return model.Bool(expr.Bool), nil
		default:
			return model.Null(), nil
		}

	case VarExpr:
		v, ok := scope[expr.Name]
		if !ok {
			return model.Value{}, &RenderErr{Message: fmt.Sprintf("undefined variable %q", expr.Name)}
		}
		return v, nil

	case AttrExpr:
		base, err := eval(expr.Base, scope, warnings)
		if err != nil {
			return model.Value{}, err
		}
		v, ok := base.Field(expr.Name)
		if !ok {
			*warnings = append(*warnings, Warning{
				Path:    attrPath(expr),
				Message: fmt.Sprintf("undefined attribute %q", attrPath(expr)),
			})
			return model.Null(), nil
		}
		return v, nil

	case IndexExpr:
		base, err := eval(expr.Base, scope, warnings)
		if err != nil {
			return model.Value{}, err
		}
		idx, err := eval(expr.Index, scope, warnings)
		if err != nil {
			return model.Value{}, err
		}
		v, ok := indexValue(base, idx)
		if !ok {
			*warnings = append(*warnings, Warning{
				Path:    attrPath(expr),
				Message: fmt.Sprintf("undefined index %q", attrPath(expr)),
			})
			return model.Null(), nil
		}
		return v, nil

	case UnaryExpr:
		v, err := eval(expr.Expr, scope, warnings)
		if err != nil {
			return model.Value{}, err
		}
		if expr.Op == "not" {
			return model.Bool(!v.Truthy()), nil
		}
		return model.Value{}, fmt.Errorf("unsupported unary operator %q", expr.Op)

	case BinaryExpr:
		return evalBinary(expr, scope, warnings)
	}
	return model.Value{}, fmt.Errorf("unhandled expression type %T", e)
}

func evalBinary(expr BinaryExpr, scope Scope, warnings *[]Warning) (model.Value, error) {
	if expr.Op == "and" {
		left, err := eval(expr.Left, scope, warnings)
		if err != nil {
			return model.Value{}, err
		}
		if !left.Truthy() {
			return model.Bool(false), nil
		}
		right, err := eval(expr.Right, scope, warnings)
		if err != nil {
			return model.Value{}, err
		}
		return model.Bool(right.Truthy()), nil
	}
	if expr.Op == "or" {
		left, err := eval(expr.Left, scope, warnings)
		if err != nil {
			return model.Value{}, err
		}
		if left.Truthy() {
			return model.Bool(true), nil
		}
		right, err := eval(expr.Right, scope, warnings)
		if err != nil {
			return model.Value{}, err
		}
		return model.Bool(right.Truthy()), nil
	}

	left, err := eval(expr.Left, scope, warnings)
	if err != nil {
		return model.Value{}, err
	}
	right, err := eval(expr.Right, scope, warnings)
	if err != nil {
		return model.Value{}, err
	}
	switch expr.Op {
	case "==":
		return model.Bool(left.Equal(right)), nil
	case "!=":
		return model.Bool(!left.Equal(right)), nil
	case "<", "<=", ">", ">=":
		if left.Kind != model.ValueNumber || right.Kind != model.ValueNumber {
			return model.Bool(false), nil
		}
		ln, rn := left.AsNumber(), right.AsNumber()
		switch expr.Op {
		case "<":
			return model.Bool(ln < rn), nil
		case "<=":
			return model.Bool(ln <= rn), nil
		case ">":
			return model.Bool(ln > rn), nil
		default:
			return model.Bool(ln >= rn), nil
		}
	}
	return model.Value{}, fmt.Errorf("unsupported binary operator %q", expr.Op)
}

func indexValue(base, idx model.Value) (model.Value, bool) {
	switch idx.Kind {
	case model.ValueString:
		return base.Field(idx.AsString())
	case model.ValueNumber:
		return base.Index(int(idx.AsNumber()))
	}
	return model.Value{}, false
}

// attrPath reconstructs a dotted path like "foo.bar.baz" for warning text.
func attrPath(e Expr) string {
	switch expr := e.(type) {
	case VarExpr:
		return expr.Name
	case AttrExpr:
		return attrPath(expr.Base) + "." + expr.Name
	case IndexExpr:
		return attrPath(expr.Base) + "[" + indexPathPart(expr.Index) + "]"
	default:
		return "?"
	}
}

func indexPathPart(e Expr) string {
	if lit, ok := e.(LiteralExpr); ok {
		switch lit.Kind {
		case LitString:
			return lit.Str
		case LitNumber:
			return strconv.FormatFloat(lit.Num, 'g', -1, 64)
		}
	}
	return "?"
}

package javasrc

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

var constantTypes = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
	"String": true, "java.lang.String": true,
}

func isConstantType(typ string) bool {
	return constantTypes[strings.TrimSpace(typ)]
}

// isConstant approximates a Java constant expression: literals, operators,
// casts to primitive or String types and simple names of constants
// declared earlier in the same type.
func (x *extractor) isConstant(n *sitter.Node, constants map[string]bool) bool {
	switch n.Type() {
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal",
		"binary_integer_literal", "decimal_floating_point_literal",
		"hex_floating_point_literal", "character_literal", "string_literal",
		"true", "false":
		return true
	case "identifier":
		return constants[x.text(n)]
	case "parenthesized_expression":
		return n.NamedChildCount() == 1 && x.isConstant(n.NamedChild(0), constants)
	case "unary_expression":
		operand := n.ChildByFieldName("operand")
		return operand != nil && x.isConstant(operand, constants)
	case "binary_expression":
		left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
		return left != nil && right != nil && x.isConstant(left, constants) && x.isConstant(right, constants)
	case "ternary_expression":
		for _, field := range []string{"condition", "consequence", "alternative"} {
			part := n.ChildByFieldName(field)
			if part == nil || !x.isConstant(part, constants) {
				return false
			}
		}
		return true
	case "cast_expression":
		typ, value := n.ChildByFieldName("type"), n.ChildByFieldName("value")
		return typ != nil && value != nil && isConstantType(x.text(typ)) && x.isConstant(value, constants)
	}
	return false
}

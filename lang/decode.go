package lang

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lotr/engine"
)

// Control keywords that build composite commands.
const (
	keywordAll    = "all"
	keywordAny    = "any"
	keywordRepeat = "repeat"
)

// Argument tags.
const (
	tagRegex    = "!re"
	tagRegexAlt = "!regex"
	tagFmt      = "!fmt"
	tagFmtAlt   = "!template"
	tagText     = "!text"
	tagStr      = "!!str"
)

// maxSuggestions limits the alternatives offered for an unknown operation.
const maxSuggestions = 3

// DecodeFile reads and decodes the script at path.
func DecodeFile(path string) (*Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadScript.Wrap(err).With(slog.String("path", path))
	}

	return Decode(path, data)
}

// DecodeReader reads and decodes a script from r.
func DecodeReader(r io.Reader) (*Command, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadScript.Wrap(err)
	}

	return Decode("", data)
}

// DecodeString decodes a script from source.
func DecodeString(source string) (*Command, error) {
	return Decode("", []byte(source))
}

// Decode parses data as a script. The name is used only in error messages.
//
// A script with a single document decodes to that document's command. Each
// additional document is appended to an enclosing sequence.
func Decode(name string, data []byte) (*Command, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, &DecodeError{Name: name, Err: ErrSyntax.Wrap(err)}
	}

	d := &decoder{
		name:    name,
		anchors: map[string]ast.Node{},
		active:  map[ast.Node]struct{}{},
	}

	var docs []*Command

	for _, doc := range file.Docs {
		if doc == nil || doc.Body == nil {
			continue
		}

		c, err := d.command(doc.Body)
		if err != nil {
			return nil, err
		}

		docs = append(docs, c)
	}

	if len(docs) == 1 {
		return docs[0], nil
	}

	return Sequence(docs...), nil
}

type decoder struct {
	name    string
	anchors map[string]ast.Node
	active  map[ast.Node]struct{} // nodes being decoded as commands
}

func (d *decoder) fail(node ast.Node, err error) error {
	de := &DecodeError{Name: d.name, Err: err}

	if node != nil {
		if tk := node.GetToken(); tk != nil && tk.Position != nil {
			de.Line, de.Column = tk.Position.Line, tk.Position.Column
		}
	}

	return de
}

// resolve records anchors and replaces aliases with the anchored node.
func (d *decoder) resolve(node ast.Node) (ast.Node, error) {
	switch n := node.(type) {
	case *ast.AnchorNode:
		d.anchors[n.Name.String()] = n.Value

		return d.resolve(n.Value)

	case *ast.AliasNode:
		target, ok := d.anchors[n.Value.String()]
		if !ok {
			return nil, d.fail(n, ErrSyntax.Wrap(
				fmt.Errorf("undefined alias %q", n.Value.String())))
		}

		return d.resolve(target)

	default:
		return node, nil
	}
}

func (d *decoder) command(node ast.Node) (*Command, error) {
	alias, _ := node.(*ast.AliasNode)

	node, err := d.resolve(node)
	if err != nil {
		return nil, err
	}

	// Only an alias can lead back to a node that is still being decoded.
	if _, ok := d.active[node]; ok {
		var at ast.Node = node
		if alias != nil {
			at = alias
		}

		return nil, d.fail(at, ErrSyntax.Wrap(errors.New("recursive alias")))
	}

	d.active[node] = struct{}{}
	defer delete(d.active, node)

	switch n := node.(type) {
	case *ast.StringNode:
		return d.operation(n, n.Value, nil)

	case *ast.MappingValueNode:
		return d.entry(n)

	case *ast.MappingNode:
		if len(n.Values) != 1 {
			return nil, d.fail(n, ErrCommandShape.Wrap(
				fmt.Errorf("mapping has %d keys, want 1", len(n.Values))))
		}

		return d.entry(n.Values[0])

	case *ast.SequenceNode:
		children, err := d.commands(n.Values)
		if err != nil {
			return nil, err
		}

		return Sequence(children...), nil

	default:
		return nil, d.fail(node, ErrCommandShape.Wrap(
			fmt.Errorf("unexpected %s", nodeName(node))))
	}
}

func (d *decoder) commands(nodes []ast.Node) ([]*Command, error) {
	cmds := make([]*Command, 0, len(nodes))

	for _, node := range nodes {
		c, err := d.command(node)
		if err != nil {
			return nil, err
		}

		cmds = append(cmds, c)
	}

	return cmds, nil
}

// block decodes the children of a control keyword: a list, a single
// command, or nothing.
func (d *decoder) block(node ast.Node) ([]*Command, error) {
	node, err := d.resolve(node)
	if err != nil {
		return nil, err
	}

	switch n := node.(type) {
	case nil, *ast.NullNode:
		return nil, nil

	case *ast.SequenceNode:
		return d.commands(n.Values)

	default:
		c, err := d.command(n)
		if err != nil {
			return nil, err
		}

		return []*Command{c}, nil
	}
}

func (d *decoder) entry(mv *ast.MappingValueNode) (*Command, error) {
	key, ok := mv.Key.(*ast.StringNode)
	if !ok {
		return nil, d.fail(mv.Key, ErrCommandShape.Wrap(
			fmt.Errorf("operation name must be a string, not %s", nodeName(mv.Key))))
	}

	switch key.Value {
	case keywordAll, keywordAny:
		children, err := d.block(mv.Value)
		if err != nil {
			return nil, err
		}

		if key.Value == keywordAll {
			return Sequence(children...), nil
		}

		return Disjunction(children...), nil

	case keywordRepeat:
		if mv.Value == nil {
			return nil, d.fail(key, ErrCommandShape.Wrap(
				fmt.Errorf("%s requires a body", keywordRepeat)))
		}

		body, err := d.command(mv.Value)
		if err != nil {
			return nil, err
		}

		return Repeat(body), nil

	default:
		return d.operation(key, key.Value, mv.Value)
	}
}

func (d *decoder) operation(
	key ast.Node,
	name string,
	value ast.Node,
) (*Command, error) {
	op, ok := ParseOpcode(name)
	if !ok {
		return nil, d.fail(key, unknownOpcode(name))
	}

	args, err := d.arguments(value)
	if err != nil {
		return nil, err
	}

	return Operation(op, args...), nil
}

func unknownOpcode(name string) error {
	matches := fuzzy.Find(name, OpcodeNames())
	if len(matches) == 0 {
		return ErrUnknownOpcode.Wrap(fmt.Errorf("%q", name))
	}

	alts := make([]string, 0, maxSuggestions)
	for _, m := range matches[:min(len(matches), maxSuggestions)] {
		alts = append(alts, strconv.Quote(m.Str))
	}

	return ErrUnknownOpcode.
		Wrap(fmt.Errorf("%q (did you mean %s?)", name, strings.Join(alts, " or "))).
		With(slog.String("name", name))
}

func (d *decoder) arguments(node ast.Node) ([]Literal, error) {
	node, err := d.resolve(node)
	if err != nil {
		return nil, err
	}

	switch n := node.(type) {
	case nil, *ast.NullNode:
		return nil, nil

	case *ast.SequenceNode:
		args := make([]Literal, 0, len(n.Values))

		for _, v := range n.Values {
			arg, err := d.literal(v)
			if err != nil {
				return nil, err
			}

			args = append(args, arg)
		}

		return args, nil

	default:
		arg, err := d.literal(n)
		if err != nil {
			return nil, err
		}

		return []Literal{arg}, nil
	}
}

func (d *decoder) literal(node ast.Node) (Literal, error) {
	node, err := d.resolve(node)
	if err != nil {
		return Literal{}, err
	}

	switch n := node.(type) {
	case *ast.StringNode:
		return Text(n.Value), nil

	case *ast.LiteralNode:
		return Text(n.Value.Value), nil

	case *ast.IntegerNode:
		switch v := n.Value.(type) {
		case int64:
			return Integer(int(v)), nil
		case uint64:
			if v <= math.MaxInt {
				return Integer(int(v)), nil
			}
		}

		return Literal{}, d.fail(n, ErrArgument.Wrap(
			fmt.Errorf("integer %s out of range", n.GetToken().Value)))

	case *ast.FloatNode:
		return Float(n.Value), nil

	case *ast.InfinityNode:
		return Float(n.Value), nil

	case *ast.NanNode:
		return Float(math.NaN()), nil

	case *ast.TagNode:
		return d.tagged(n)

	default:
		return Literal{}, d.fail(node, ErrArgument.Wrap(
			fmt.Errorf("unexpected %s", nodeName(node))))
	}
}

func (d *decoder) tagged(n *ast.TagNode) (Literal, error) {
	value, err := d.resolve(n.Value)
	if err != nil {
		return Literal{}, err
	}

	src, ok := scalarText(value)
	if !ok {
		return Literal{}, d.fail(n, ErrArgument.Wrap(
			fmt.Errorf("tag %s requires a scalar, not %s", n.Start.Value, nodeName(value))))
	}

	switch n.Start.Value {
	case tagRegex, tagRegexAlt:
		p, err := engine.Compile(src)
		if err != nil {
			return Literal{}, d.fail(value, ErrPattern.Wrap(err))
		}

		return Regex(p), nil

	case tagFmt, tagFmtAlt:
		return Template(src), nil

	case tagText, tagStr:
		return Text(src), nil

	default:
		return Literal{}, d.fail(n, ErrUnknownTag.Wrap(
			fmt.Errorf("%s", n.Start.Value)))
	}
}

// scalarText returns the text of a scalar node as written in the script.
func scalarText(node ast.Node) (string, bool) {
	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value, true
	case *ast.LiteralNode:
		return n.Value.Value, true
	case *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode,
		*ast.InfinityNode, *ast.NanNode:
		return n.GetToken().Value, true
	case *ast.NullNode:
		return "", true
	default:
		return "", false
	}
}

func nodeName(node ast.Node) string {
	switch node.(type) {
	case nil:
		return "nothing"
	case *ast.BoolNode:
		return "boolean"
	case *ast.NullNode:
		return "null"
	case *ast.MappingNode, *ast.MappingValueNode:
		return "mapping"
	case *ast.SequenceNode:
		return "list"
	case *ast.IntegerNode, *ast.FloatNode, *ast.InfinityNode, *ast.NanNode:
		return "number"
	default:
		return strings.ToLower(node.Type().String())
	}
}

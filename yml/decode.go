package yml

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/speakeasy-api/openapi-resolver/errors"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
	"gopkg.in/yaml.v3"
)

const (
	// ErrEmptyDocument is returned when the input contains no YAML document.
	ErrEmptyDocument = errors.Error("empty document")
	// ErrRecursiveAlias is returned when an anchor contains an alias to itself.
	ErrRecursiveAlias = errors.Error("recursive alias")
)

// Decode parses YAML (a superset of JSON) into a JSON Item tree. filename is
// only used in error messages.
func Decode(data []byte, filename string) (any, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", filename, ErrEmptyDocument)
		}
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	v, err := FromNode(&node)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return v, nil
}

// FromNode converts a yaml.Node into a JSON Item tree. Aliases are expanded
// into independent copies.
func FromNode(node *yaml.Node) (any, error) {
	d := &decoder{inProgress: make(map[*yaml.Node]bool)}
	return d.decode(node)
}

type decoder struct {
	inProgress map[*yaml.Node]bool
}

func (d *decoder) decode(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, ErrEmptyDocument
		}
		return d.decode(node.Content[0])
	case yaml.AliasNode:
		if d.inProgress[node.Alias] {
			return nil, ErrRecursiveAlias.Wrap(fmt.Errorf("anchor %q at line %d", node.Value, node.Line))
		}
		return d.decode(node.Alias)
	case yaml.MappingNode:
		return d.decodeMapping(node)
	case yaml.SequenceNode:
		d.inProgress[node] = true
		defer delete(d.inProgress, node)

		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := d.decode(child)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.ScalarNode:
		return decodeScalar(node)
	default:
		return nil, fmt.Errorf("unsupported yaml node kind %s at line %d", NodeKindToString(node.Kind), node.Line)
	}
}

func (d *decoder) decodeMapping(node *yaml.Node) (any, error) {
	d.inProgress[node] = true
	defer delete(d.inProgress, node)

	content := ResolveMergeKeys(node.Content)
	obj := sequencedmap.NewWithCapacity[string, any](len(content) / 2)

	for i := 0; i+1 < len(content); i += 2 {
		keyNode := ResolveAlias(content[i])
		if keyNode == nil || keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("unsupported non-scalar key at line %d", content[i].Line)
		}

		v, err := d.decode(content[i+1])
		if err != nil {
			return nil, err
		}
		obj.Set(keyNode.Value, v)
	}

	return obj, nil
}

func decodeScalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			var f float64
			if ferr := node.Decode(&f); ferr != nil {
				return nil, err
			}
			return f, nil
		}
		if i >= math.MinInt && i <= math.MaxInt {
			return int(i), nil
		}
		return i, nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return node.Value, nil
	}
}

package yml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
	"gopkg.in/yaml.v3"
)

// Encode writes a JSON Item tree using the Config found on ctx.
func Encode(ctx context.Context, v any) ([]byte, error) {
	cfg := GetConfigFromContext(ctx)

	var out []byte
	switch cfg.OutputFormat {
	case OutputFormatJSON:
		data, err := json.MarshalIndent(v, "", strings.Repeat(" ", max(cfg.Indentation, 0)))
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		out = data
	default:
		node, err := ToNode(v)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(max(cfg.Indentation, 2))
		if err := enc.Encode(node); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		out = buf.Bytes()
	}

	out = bytes.TrimRight(out, "\n")
	if cfg.TrailingNewline {
		out = append(out, '\n')
	}
	return out, nil
}

// ToNode converts a JSON Item tree into a yaml.Node, preserving object key order.
func ToNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *sequencedmap.Map[string, any]:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for key, value := range t.All() {
			valueNode, err := ToNode(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			node.Content = append(node.Content, CreateStringNode(key), valueNode)
		}
		return node, nil
	case map[string]any:
		return ToNode(sequencedmap.FromSorted(t))
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range t {
			itemNode, err := ToNode(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			node.Content = append(node.Content, itemNode)
		}
		return node, nil
	default:
		var node yaml.Node
		if err := node.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode %T: %w", v, err)
		}
		return &node, nil
	}
}

func CreateStringNode(value string) *yaml.Node {
	return &yaml.Node{
		Value: value,
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
	}
}

package cmd

import (
	"fmt"

	"github.com/speakeasy-api/jsonpath/pkg/jsonpath"
	"github.com/speakeasy-api/jsonpath/pkg/jsonpath/config"
	"github.com/speakeasy-api/openapi-resolver/yml"
	"github.com/vmware-labs/yaml-jsonpath/pkg/yamlpath"
	"gopkg.in/yaml.v3"
)

const (
	jsonPathRFC9535 = "rfc9535"
	jsonPathLegacy  = "legacy"
)

// queryable finds the nodes matching a JSONPath expression.
type queryable interface {
	Query(root *yaml.Node) ([]*yaml.Node, error)
}

type rfcJSONPathQueryable struct {
	path *jsonpath.JSONPath
}

func (r rfcJSONPathQueryable) Query(root *yaml.Node) ([]*yaml.Node, error) {
	return r.path.Query(root), nil
}

type yamlPathQueryable struct {
	path *yamlpath.Path
}

func (y yamlPathQueryable) Query(root *yaml.Node) ([]*yaml.Node, error) {
	return y.path.Find(root)
}

func newPath(expr, implementation string) (queryable, error) {
	switch implementation {
	case "", jsonPathRFC9535:
		path, err := jsonpath.NewPath(expr, config.WithPropertyNameExtension())
		if err != nil {
			return nil, fmt.Errorf("invalid rfc9535 jsonpath %q: %w", expr, err)
		}
		return rfcJSONPathQueryable{path: path}, nil
	case jsonPathLegacy:
		path, err := yamlpath.NewPath(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid jsonpath %q: %w", expr, err)
		}
		return yamlPathQueryable{path: path}, nil
	default:
		return nil, fmt.Errorf("unknown jsonpath implementation %q, expected %s or %s", implementation, jsonPathRFC9535, jsonPathLegacy)
	}
}

// selectNodes returns the nodes of doc matching expr. A single match is
// returned as is, several matches as a sequence.
func selectNodes(doc any, expr, implementation string) (any, error) {
	path, err := newPath(expr, implementation)
	if err != nil {
		return nil, err
	}

	root, err := yml.ToNode(doc)
	if err != nil {
		return nil, err
	}

	// both implementations expect a document node at the top
	matches, err := path.Query(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}})
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(matches))
	for _, match := range matches {
		item, err := yml.FromNode(match)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if len(items) == 1 {
		return items[0], nil
	}
	return items, nil
}

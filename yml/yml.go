// Package yml converts between YAML/JSON text and the JSON Item trees the
// resolver works on. Objects decode to *sequencedmap.Map[string, any] so key
// order survives a round trip.
package yml

import (
	"gopkg.in/yaml.v3"
)

// NodeKindToString returns a human-readable string representation of a yaml.Kind.
func NodeKindToString(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

func ResolveAlias(node *yaml.Node) *yaml.Node {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case yaml.AliasNode:
		return ResolveAlias(node.Alias)
	default:
		return node
	}
}

// IsMergeKey returns true if the given node is a YAML merge key (<<).
func IsMergeKey(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && node.Tag == "!!merge" && node.Value == "<<"
}

// ResolveMergeKeys expands any YAML merge keys (<<) in a mapping node's content.
// Explicit keys take precedence over merged keys.
func ResolveMergeKeys(content []*yaml.Node) []*yaml.Node {
	return resolveMergeKeys(content, nil)
}

func resolveKeyValue(node *yaml.Node) string {
	resolved := ResolveAlias(node)
	if resolved == nil {
		return node.Value
	}
	return resolved.Value
}

func resolveMergeKeys(content []*yaml.Node, seen map[*yaml.Node]bool) []*yaml.Node {
	if len(content)%2 == 1 {
		content = content[:len(content)-1]
	}
	if len(content) < 2 {
		return content
	}

	hasMergeKey := false
	explicitKeys := make(map[string]struct{})

	for i := 0; i < len(content); i += 2 {
		if IsMergeKey(content[i]) {
			hasMergeKey = true
		} else {
			explicitKeys[resolveKeyValue(content[i])] = struct{}{}
		}
	}
	if !hasMergeKey {
		return content
	}

	var mergedContent []*yaml.Node
	seenMerged := make(map[string]struct{})

	for i := 0; i < len(content); i += 2 {
		if !IsMergeKey(content[i]) {
			continue
		}

		resolved := ResolveAlias(content[i+1])
		if resolved == nil {
			continue
		}

		collectMergedPairs(resolved, explicitKeys, seenMerged, &mergedContent, seen)
	}

	result := make([]*yaml.Node, 0, len(mergedContent)+len(content))
	result = append(result, mergedContent...)

	for i := 0; i < len(content); i += 2 {
		if IsMergeKey(content[i]) {
			continue
		}
		result = append(result, content[i], content[i+1])
	}

	return result
}

func collectMergedPairs(node *yaml.Node, explicitKeys, seenMerged map[string]struct{}, out *[]*yaml.Node, seen map[*yaml.Node]bool) {
	switch node.Kind {
	case yaml.MappingNode:
		if seen == nil {
			seen = make(map[*yaml.Node]bool)
		}
		if seen[node] {
			return
		}
		seen[node] = true

		flatContent := resolveMergeKeys(node.Content, seen)

		for j := 0; j < len(flatContent); j += 2 {
			key := resolveKeyValue(flatContent[j])
			if _, isExplicit := explicitKeys[key]; isExplicit {
				continue
			}
			if _, alreadyMerged := seenMerged[key]; alreadyMerged {
				continue
			}
			*out = append(*out, flatContent[j], flatContent[j+1])
			seenMerged[key] = struct{}{}
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			resolvedItem := ResolveAlias(item)
			if resolvedItem == nil || resolvedItem.Kind != yaml.MappingNode {
				continue
			}
			collectMergedPairs(resolvedItem, explicitKeys, seenMerged, out, seen)
		}
	}
}

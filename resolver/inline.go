package resolver

import (
	"context"
	"fmt"
	"net/url"

	"github.com/speakeasy-api/openapi-resolver/clone"
	"github.com/speakeasy-api/openapi-resolver/errors"
	"github.com/speakeasy-api/openapi-resolver/jsonpointer"
	"github.com/speakeasy-api/openapi-resolver/loader"
	"github.com/speakeasy-api/openapi-resolver/references"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
)

// inlineDocument embeds the whole document at u in place of node.
func (rc *resolutionContext) inlineDocument(ctx context.Context, key string, u *url.URL, node *sequencedmap.Map[string, any], nav jsonpointer.Navigation) (any, error) {
	doc, err := rc.loader.Load(ctx, u)
	if err != nil {
		return nil, err
	}

	// recorded first so references back to this document from inside it become local
	if err := rc.record(key, nav.AsFragment()); err != nil {
		return nil, err
	}

	docKey := references.DocumentKey(doc.URL)
	if !rc.pathRewritten[docKey] {
		if err := rc.rewriteRefFragments(ctx, doc.Document, doc.URL, nav); err != nil {
			return nil, err
		}
	}
	if err := rc.rewriteRefPaths(ctx, doc.Document, doc.URL, !rc.fragmentRewritten[docKey]); err != nil {
		return nil, err
	}

	item, err := clone.Clone(doc.Document)
	if err != nil {
		return nil, err
	}
	mergeSiblings(item, node)
	rc.tag(item, doc.URL, &nav, key, false)

	rc.note("inlined document", "ref", key, "at", nav.AsFragment())

	return item, nil
}

// inlineFragment copies the node addressed by u into the place of node.
func (rc *resolutionContext) inlineFragment(ctx context.Context, key string, u *url.URL, node *sequencedmap.Map[string, any], nav jsonpointer.Navigation) (any, error) {
	doc, err := rc.load(ctx, u)
	if err != nil {
		return nil, err
	}

	local := nav.AsFragment()
	if err := rc.record(key, local); err != nil {
		return nil, err
	}

	item, err := clone.Clone(doc.Item)
	if err != nil {
		return nil, err
	}

	// a reference that addresses itself can only become an alias of its new location
	if ref, obj, ok := references.GetReference(item); ok && string(ref) == key {
		obj.Set(references.RefKey, local)
	}

	mergeSiblings(item, node)
	rc.tag(item, doc.URL, &nav, key, false)

	rc.note("inlined fragment", "ref", key, "at", local)

	return item, nil
}

// inlineComponent places the component addressed by u under the root
// document's components and points node at it. When node is itself the
// definition of a same named component, the content replaces node instead.
func (rc *resolutionContext) inlineComponent(ctx context.Context, key string, u *url.URL, node *sequencedmap.Map[string, any], nav jsonpointer.Navigation) (any, error) {
	section, name, err := componentOf(u)
	if err != nil {
		return nil, err
	}

	doc, err := rc.load(ctx, u)
	if err != nil {
		return nil, err
	}

	if s, n, ok := nav.Component(); ok && s == section && n == name {
		return rc.spliceComponent(key, doc, node, nav, section, name)
	}

	resolvedName, embed, err := rc.resolveComponentName(section, name, key, doc, node)
	if err != nil {
		return nil, err
	}

	if embed {
		existing, _ := rc.componentSlot(section, resolvedName)
		if existing == node {
			return rc.spliceComponent(key, doc, node, componentNav(section, resolvedName), section, resolvedName)
		}
		if err := rc.mountComponent(key, doc, section, resolvedName); err != nil {
			return nil, err
		}
	}

	local := componentNav(section, resolvedName).AsFragment()
	if err := rc.record(key, local); err != nil {
		return nil, err
	}
	node.Set(references.RefKey, local)

	rc.note("inlined component", "ref", key, "as", local, "at", nav.AsFragment())

	return node, nil
}

// spliceComponent replaces a component definition that is a reference with the
// referenced content. Sibling keys of the reference survive unless the content
// defines them.
func (rc *resolutionContext) spliceComponent(key string, doc *loader.Document, node *sequencedmap.Map[string, any], nav jsonpointer.Navigation, section, name string) (any, error) {
	local := nav.AsFragment()
	if err := rc.record(key, local); err != nil {
		return nil, err
	}
	rc.componentSources[section+"/"+name] = key

	item, err := clone.Clone(doc.Item)
	if err != nil {
		return nil, err
	}
	if ref, obj, ok := references.GetReference(item); ok && string(ref) == key {
		obj.Set(references.RefKey, local)
	}

	mergeSiblings(item, node)
	rc.tag(item, doc.URL, &nav, key, false)

	rc.note("inlined component definition", "ref", key, "at", local)

	return item, nil
}

// mountComponent copies the item of doc to components.<section>.<name> of the
// root document, creating the containers as needed.
func (rc *resolutionContext) mountComponent(key string, doc *loader.Document, section, name string) error {
	components, err := ensureObject(rc.root, "components", "#/components")
	if err != nil {
		return err
	}
	sectionObj, err := ensureObject(components, section, jsonpointer.FromPath([]string{"components", section}).AsFragment())
	if err != nil {
		return err
	}

	item, err := clone.Clone(doc.Item)
	if err != nil {
		return err
	}

	nav := componentNav(section, name)
	if ref, obj, ok := references.GetReference(item); ok && string(ref) == key {
		obj.Set(references.RefKey, nav.AsFragment())
	}
	if _, pending, ok := references.GetReference(sectionObj.GetOrZero(name)); ok {
		mergeSiblings(item, pending)
	}
	rc.tag(item, doc.URL, &nav, key, false)

	sectionObj.Set(name, item)
	rc.componentSources[section+"/"+name] = key

	return nil
}

// load fetches the document for u and makes all its references absolute,
// except local ones when the document was already prepared for embedding.
func (rc *resolutionContext) load(ctx context.Context, u *url.URL) (*loader.Document, error) {
	doc, err := rc.loader.Load(ctx, u)
	if err != nil {
		return nil, err
	}
	docKey := references.DocumentKey(doc.URL)
	if err := rc.rewriteRefPaths(ctx, doc.Document, doc.URL, !rc.fragmentRewritten[docKey]); err != nil {
		return nil, err
	}
	return doc, nil
}

func componentOf(u *url.URL) (section, name string, err error) {
	keys, err := jsonpointer.AsKeys(references.Fragment(u))
	if err != nil {
		return "", "", err
	}
	nav := jsonpointer.FromPath(keys)
	section, name, ok := nav.Component()
	if !ok {
		return "", "", fmt.Errorf("%s does not address a component", u)
	}
	return section, name, nil
}

func ensureObject(parent *sequencedmap.Map[string, any], key, path string) (*sequencedmap.Map[string, any], error) {
	v, ok := parent.Get(key)
	if !ok || v == nil {
		obj := sequencedmap.New[string, any]()
		parent.Set(key, obj)
		return obj, nil
	}
	obj, ok := v.(*sequencedmap.Map[string, any])
	if !ok {
		return nil, &errors.UnsupportedMountError{Path: path, Reason: fmt.Sprintf("cannot mount components below %T", v)}
	}
	return obj, nil
}

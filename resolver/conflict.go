package resolver

import (
	"strconv"

	"github.com/speakeasy-api/openapi-resolver/errors"
	"github.com/speakeasy-api/openapi-resolver/hashing"
	"github.com/speakeasy-api/openapi-resolver/loader"
	"github.com/speakeasy-api/openapi-resolver/references"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
)

// componentSlot returns the root document's components.<section>.<name>.
func (rc *resolutionContext) componentSlot(section, name string) (any, bool) {
	components, ok := rc.root.GetOrZero("components").(*sequencedmap.Map[string, any])
	if !ok {
		return nil, false
	}
	sectionObj, ok := components.GetOrZero(section).(*sequencedmap.Map[string, any])
	if !ok {
		return nil, false
	}
	return sectionObj.Get(name)
}

// resolveComponentName picks the name the component referenced by key is
// available under in the root document. embed is false when a component with
// that name already holds the same content and nothing needs to be copied.
func (rc *resolutionContext) resolveComponentName(section, name, key string, doc *loader.Document, node *sequencedmap.Map[string, any]) (resolved string, embed bool, err error) {
	switch rc.slotState(section, name, key, doc, node) {
	case slotFree:
		return name, true, nil
	case slotSame:
		return name, false, nil
	}

	switch rc.opts.ConflictStrategy {
	case ConflictIgnore:
		rc.logger.Warn("component conflict ignored, keeping existing component",
			"component", componentNav(section, name).AsFragment(),
			"existing", rc.componentSource(section, name),
			"ignored", key)
		return name, false, nil
	case ConflictRename:
		for i := 1; ; i++ {
			candidate := name + strconv.Itoa(i)
			switch rc.slotState(section, candidate, key, doc, node) {
			case slotFree:
				rc.note("renamed conflicting component", "ref", key, "from", name, "to", candidate)
				return candidate, true, nil
			case slotSame:
				return candidate, false, nil
			}
		}
	default:
		return "", false, &errors.ComponentConflictError{
			Section:  section,
			Name:     name,
			Existing: rc.componentSource(section, name),
			Incoming: key,
		}
	}
}

type slotStatus int

const (
	slotFree slotStatus = iota
	slotSame
	slotTaken
)

func (rc *resolutionContext) slotState(section, name, key string, doc *loader.Document, node *sequencedmap.Map[string, any]) slotStatus {
	existing, ok := rc.componentSlot(section, name)
	if !ok {
		return slotFree
	}
	if obj, ok := existing.(*sequencedmap.Map[string, any]); ok && obj == node {
		return slotFree
	}
	// a definition still pointing at the same component is replaced by it
	if ref, _, ok := references.GetReference(existing); ok {
		if abs, err := references.ResolveAbsoluteReference(ref, rc.rootKey); err == nil && abs.AbsoluteReference == key {
			return slotFree
		}
	}

	if source, ok := rc.componentSources[section+"/"+name]; ok {
		if source == key {
			return slotSame
		}
	} else if obj, ok := existing.(*sequencedmap.Map[string, any]); ok {
		if from, _ := obj.GetOrZero(MarkerResolvedFrom).(string); from != "" && from == references.DocumentKey(doc.URL) {
			return slotSame
		}
	}

	if hashing.Equal(existing, doc.Item, markers...) {
		return slotSame
	}

	return slotTaken
}

// componentSource describes where an existing component came from, "" for the
// root document itself.
func (rc *resolutionContext) componentSource(section, name string) string {
	if source, ok := rc.componentSources[section+"/"+name]; ok {
		return source
	}
	existing, _ := rc.componentSlot(section, name)
	if obj, ok := existing.(*sequencedmap.Map[string, any]); ok {
		if from, ok := obj.GetOrZero(MarkerResolvedFrom).(string); ok {
			return from
		}
	}
	return ""
}

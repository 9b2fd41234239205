package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrBadTrigger = errors.New("unrecognized trigger")

// Trigger kinds a page can fire.
const (
	KindPreview  = "Data"
	KindDownload = "button2"
	KindClose    = "close-modal"
)

// ComponentID identifies the element that fired an event. Structured ids
// look like {"type":"Data","index":"graph-tj25"}; plain ids only set Kind.
type ComponentID struct {
	Kind    string `json:"type"`
	GraphID string `json:"-"`
}

// ParseTrigger decodes a property id such as
// `{"type":"button2","graph_id":"graph-tjG"}.n_clicks` or `close-modal.n_clicks`.
func ParseTrigger(propID string) (ComponentID, error) {
	propID = strings.TrimSpace(propID)
	if propID == "" {
		return ComponentID{}, fmt.Errorf("%w: empty", ErrBadTrigger)
	}

	// The property suffix follows the last dot; json ids never contain a
	// dot after their closing brace.
	id := propID
	if i := strings.LastIndex(propID, "."); i >= 0 && i > strings.LastIndex(propID, "}") {
		id = propID[:i]
	}

	if !strings.HasPrefix(id, "{") {
		if id != KindClose {
			return ComponentID{}, fmt.Errorf("%w: %q", ErrBadTrigger, id)
		}
		return ComponentID{Kind: KindClose}, nil
	}

	var raw struct {
		Type    string `json:"type"`
		Index   string `json:"index"`
		GraphID string `json:"graph_id"`
	}
	if err := json.Unmarshal([]byte(id), &raw); err != nil {
		return ComponentID{}, fmt.Errorf("%w: %v", ErrBadTrigger, err)
	}

	cid := ComponentID{Kind: raw.Type}
	switch raw.Type {
	case KindPreview:
		cid.GraphID = raw.Index
	case KindDownload:
		cid.GraphID = raw.GraphID
	default:
		return ComponentID{}, fmt.Errorf("%w: type %q", ErrBadTrigger, raw.Type)
	}
	if _, err := Lookup(cid.GraphID); err != nil {
		return ComponentID{}, err
	}
	return cid, nil
}

// String renders the id back in its property form without the suffix.
func (c ComponentID) String() string {
	switch c.Kind {
	case KindPreview:
		return fmt.Sprintf(`{"index":%q,"type":"Data"}`, c.GraphID)
	case KindDownload:
		return fmt.Sprintf(`{"graph_id":%q,"type":"button2"}`, c.GraphID)
	default:
		return c.Kind
	}
}

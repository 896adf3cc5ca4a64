package wrobuild

import (
	"strings"
)

// GroupDecl declares a group in a jsonx group descriptor.
type GroupDecl struct {
	Name string

	// Resource references, in bundle order.
	Items []*GroupItem `json:",omitempty"`
}

// GroupItem is one resource reference of a GroupDecl. Exactly one of the
// fields is set.
type GroupItem struct {
	JS  string `json:",omitempty"`
	CSS string `json:",omitempty"`
	Ref string `json:",omitempty"` // Name of another group.
}

// element returns the trimmed resource reference of the item. Blank
// fields count as unset.
func (item *GroupItem) element() (Element, bool) {
	var elems []Element
	if js := strings.TrimSpace(item.JS); js != "" {
		elems = append(elems, JSFile(js))
	}
	if css := strings.TrimSpace(item.CSS); css != "" {
		elems = append(elems, CSSFile(css))
	}
	if ref := strings.TrimSpace(item.Ref); ref != "" {
		elems = append(elems, GroupRef(ref))
	}
	if len(elems) != 1 {
		return Element{}, false
	}
	return elems[0], true
}

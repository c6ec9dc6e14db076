package menu

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Errors returned while building a tree.
var (
	ErrMissingID   = errors.New("menu item has no id")
	ErrDuplicateID = errors.New("duplicate menu item id")
)

// Node is one item in a built menu. It satisfies Item.
type Node struct {
	ID          string
	Label       string
	Type        string
	Accelerator string
	Action      string
	Submenu     []*Node
	checked     bool
	enabled     bool
}

// Tree is a built menu with an id index. It satisfies Menu.
type Tree struct {
	items []*Node
	index map[string]*Node
}

// NewTree builds a tree from a template. Every item except separators needs a unique id.
func NewTree(tmpl *Template) (*Tree, error) {
	tree := &Tree{index: make(map[string]*Node)}

	var err error
	if tree.items, err = tree.build(tmpl.Items); err != nil {
		return nil, err
	}

	return tree, nil
}

func (t *Tree) build(items []*ItemTemplate) ([]*Node, error) {
	if len(items) == 0 {
		return nil, nil
	}

	nodes := make([]*Node, 0, len(items))

	for _, item := range items {
		node := &Node{
			ID:          item.ID,
			Label:       item.Label,
			Type:        item.Type,
			Accelerator: item.Accelerator,
			Action:      item.Action,
			checked:     item.Checked,
			enabled:     !item.Disabled,
		}

		switch {
		case node.Type == "" && len(item.Submenu) > 0:
			node.Type = TypeSubmenu
		case node.Type == "":
			node.Type = TypeNormal
		}

		if node.Type != TypeSeparator {
			if node.ID == "" {
				return nil, fmt.Errorf("%w: %q", ErrMissingID, node.Label)
			}

			if _, ok := t.index[node.ID]; ok {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateID, node.ID)
			}

			t.index[node.ID] = node
		}

		var err error
		if node.Submenu, err = t.build(item.Submenu); err != nil {
			return nil, err
		}

		nodes = append(nodes, node)
	}

	return nodes, nil
}

// GetItemByID returns the item with the id, or nil.
func (t *Tree) GetItemByID(id string) Item {
	if node, ok := t.index[id]; ok {
		return node
	}

	return nil
}

// Node returns the node with the id, or nil.
func (t *Tree) Node(id string) *Node {
	return t.index[id]
}

// Items returns the top level of the tree.
func (t *Tree) Items() []*Node {
	return t.items
}

// Check marks the item checked.
func (n *Node) Check() { n.checked = true }

// Uncheck clears the check mark.
func (n *Node) Uncheck() { n.checked = false }

// Checked reports the check mark.
func (n *Node) Checked() bool { return n.checked }

// Enable makes the item actionable.
func (n *Node) Enable() { n.enabled = true }

// Disable makes the item non-actionable.
func (n *Node) Disable() { n.enabled = false }

// Disabled reports whether the item is non-actionable.
func (n *Node) Disabled() bool { return !n.enabled }

// nodeJSON is the wire format the editor front-end renders.
type nodeJSON struct {
	ID          string  `json:"id,omitempty"`
	Label       string  `json:"label,omitempty"`
	Type        string  `json:"type"`
	Accelerator string  `json:"accelerator,omitempty"`
	Action      string  `json:"action,omitempty"`
	Checked     bool    `json:"checked"`
	Enabled     bool    `json:"enabled"`
	Submenu     []*Node `json:"submenu,omitempty"`
}

// MarshalJSON exposes the check and enabled state alongside the exported fields.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(&nodeJSON{ //nolint:wrapcheck
		ID:          n.ID,
		Label:       n.Label,
		Type:        n.Type,
		Accelerator: n.Accelerator,
		Action:      n.Action,
		Checked:     n.checked,
		Enabled:     n.enabled,
		Submenu:     n.Submenu,
	})
}

// MarshalJSON encodes the top level items.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.items) //nolint:wrapcheck
}

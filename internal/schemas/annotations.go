package schemas

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// maxRefDepth bounds $ref chains so a self-referencing schema cannot loop forever.
const maxRefDepth = 32

// Node is the annotation view of a schema node. It only keeps the keywords
// needed to walk from a record field path to the node that owns it, plus the
// two optional diagnostics fields schema authors may attach to any node.
type Node struct {
	Ref                  string
	Properties           map[string]*Node
	Items                *Node
	TupleItems           []*Node
	AdditionalProperties *Node
	Definitions          map[string]*Node

	// Branching keywords, kept to know which combinators a node declares.
	AnyOf []*Node
	OneOf []*Node
	AllOf []*Node
	Then  *Node
	Else  *Node

	// ErrorMsg replaces the engine's generic description when set.
	ErrorMsg string
	// ConstitutionRef is appended to the violation as a reference line.
	ConstitutionRef string
}

type rawNode struct {
	Ref                  string           `json:"$ref"`
	Properties           map[string]*Node `json:"properties"`
	Items                json.RawMessage  `json:"items"`
	AdditionalProperties json.RawMessage  `json:"additionalProperties"`
	Definitions          map[string]*Node `json:"definitions"`
	Defs                 map[string]*Node `json:"$defs"`
	AnyOf                []*Node          `json:"anyOf"`
	OneOf                []*Node          `json:"oneOf"`
	AllOf                []*Node          `json:"allOf"`
	Then                 *Node            `json:"then"`
	Else                 *Node            `json:"else"`
	ErrorMsg             string           `json:"error_msg"`
	ConstitutionRef      string           `json:"constitution_ref"`
}

// UnmarshalJSON accepts object schemas and boolean schemas (true/false).
func (n *Node) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*n = Node{}
		return nil
	}

	var raw rawNode
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}

	node := Node{
		Ref:             raw.Ref,
		Properties:      raw.Properties,
		Definitions:     raw.Definitions,
		AnyOf:           raw.AnyOf,
		OneOf:           raw.OneOf,
		AllOf:           raw.AllOf,
		Then:            raw.Then,
		Else:            raw.Else,
		ErrorMsg:        raw.ErrorMsg,
		ConstitutionRef: raw.ConstitutionRef,
	}
	for name, def := range raw.Defs {
		if node.Definitions == nil {
			node.Definitions = make(map[string]*Node, len(raw.Defs))
		}
		node.Definitions[name] = def
	}

	items := bytes.TrimSpace(raw.Items)
	switch {
	case len(items) == 0:
	case items[0] == '[':
		if err := json.Unmarshal(items, &node.TupleItems); err != nil {
			return err
		}
	default:
		node.Items = new(Node)
		if err := json.Unmarshal(items, node.Items); err != nil {
			return err
		}
	}

	if additional := bytes.TrimSpace(raw.AdditionalProperties); len(additional) > 0 && additional[0] == '{' {
		node.AdditionalProperties = new(Node)
		if err := json.Unmarshal(additional, node.AdditionalProperties); err != nil {
			return err
		}
	}

	*n = node
	return nil
}

// HasAnnotations reports whether the node carries a custom message or a reference.
func (n *Node) HasAnnotations() bool {
	return n != nil && (n.ErrorMsg != "" || n.ConstitutionRef != "")
}

// annotationTree resolves record field paths to schema nodes.
type annotationTree struct {
	root *Node
}

func parseAnnotationTree(data []byte) (*annotationTree, error) {
	root := new(Node)
	if err := json.Unmarshal(data, root); err != nil {
		return nil, err
	}
	return &annotationTree{root: root}, nil
}

// lookup walks the tree along path and returns the node responsible for it,
// or nil when the path leaves the described structure. A node that is only a
// $ref keeps its own annotations; otherwise the referenced node is returned.
func (t *annotationTree) lookup(path []string) *Node {
	node := t.walk(path)
	if node.HasAnnotations() {
		return node
	}
	return t.deref(node)
}

// walk follows path through properties and items without dereferencing the
// final node.
func (t *annotationTree) walk(path []string) *Node {
	node := t.root
	for _, segment := range path {
		node = t.child(t.deref(node), segment)
		if node == nil {
			return nil
		}
	}
	return node
}

// declared counts the anyOf or oneOf keywords that apply directly to the
// value at path, including those reached through allOf, then and else.
func (t *annotationTree) declared(path []string, keyword string) int {
	return t.countKeyword(t.deref(t.walk(path)), keyword, 0)
}

func (t *annotationTree) countKeyword(node *Node, keyword string, depth int) int {
	if node == nil || depth >= maxRefDepth {
		return 0
	}
	count := 0
	switch keyword {
	case "anyOf":
		if len(node.AnyOf) > 0 {
			count++
		}
	case "oneOf":
		if len(node.OneOf) > 0 {
			count++
		}
	}
	nested := append([]*Node{node.Then, node.Else}, node.AllOf...)
	for _, sub := range nested {
		count += t.countKeyword(t.deref(sub), keyword, depth+1)
	}
	return count
}

func (t *annotationTree) child(node *Node, segment string) *Node {
	if node == nil {
		return nil
	}
	if prop, ok := node.Properties[segment]; ok {
		return prop
	}
	if index, err := strconv.Atoi(segment); err == nil {
		if node.TupleItems != nil {
			if index >= 0 && index < len(node.TupleItems) {
				return node.TupleItems[index]
			}
			return nil
		}
		if node.Items != nil {
			return node.Items
		}
	}
	return node.AdditionalProperties
}

// deref follows local $ref pointers ("#", "#/definitions/x", "#/$defs/x").
func (t *annotationTree) deref(node *Node) *Node {
	for depth := 0; node != nil && node.Ref != "" && depth < maxRefDepth; depth++ {
		target := t.target(node.Ref)
		if target == nil {
			return node
		}
		node = target
	}
	return node
}

func (t *annotationTree) target(ref string) *Node {
	if ref == "#" {
		return t.root
	}
	for _, prefix := range []string{"#/definitions/", "#/$defs/"} {
		if name, ok := strings.CutPrefix(ref, prefix); ok {
			return t.root.Definitions[name]
		}
	}
	return nil
}

package layout

import "strings"

// Decl is one CSS declaration.
type Decl struct {
	Prop  string `json:"prop"`
	Value string `json:"value"`
}

// Attr is one element attribute.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Node is an element of the rendered document tree. Only ordered slices are
// used so that equal inputs always yield equal trees.
type Node struct {
	Tag      string `json:"tag"`
	Role     string `json:"role,omitempty"`
	Style    []Decl `json:"style,omitempty"`
	Attrs    []Attr `json:"attrs,omitempty"`
	Text     string `json:"text,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// css builds declarations from prop/value pairs, skipping empty values.
func css(pairs ...string) []Decl {
	out := make([]Decl, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		out = append(out, Decl{Prop: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func el(tag, role string, style []Decl, children ...Node) Node {
	return Node{Tag: tag, Role: role, Style: style, Children: children}
}

func text(tag, role, s string, style []Decl) Node {
	return Node{Tag: tag, Role: role, Style: style, Text: s}
}

// Find returns every node in the tree, depth first, whose role matches.
func (n Node) Find(role string) []Node {
	var out []Node
	n.Walk(func(c Node) {
		if c.Role == role {
			out = append(out, c)
		}
	})
	return out
}

// FindPrefix returns every node whose role starts with prefix.
func (n Node) FindPrefix(prefix string) []Node {
	var out []Node
	n.Walk(func(c Node) {
		if strings.HasPrefix(c.Role, prefix) {
			out = append(out, c)
		}
	})
	return out
}

// Walk visits n and all descendants depth first.
func (n Node) Walk(fn func(Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// StyleValue returns the value of a declaration, or "".
func (n Node) StyleValue(prop string) string {
	for _, d := range n.Style {
		if d.Prop == prop {
			return d.Value
		}
	}
	return ""
}

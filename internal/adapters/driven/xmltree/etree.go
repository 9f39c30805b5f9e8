// Package xmltree adapts beevik/etree to the core's tree-provider port.
//
// The tree is used for element and attribute lookup only; digesting always
// runs over the raw document bytes, never over a re-serialization of this
// tree.
package xmltree

import (
	"errors"

	"github.com/beevik/etree"

	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/ports"
)

// Parser parses raw artifact bytes into a navigable document.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse implements ports.TreeParser.
func (p *Parser) Parse(data []byte) (ports.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	// etree accepts input with no element content (e.g. bare text); a
	// permission artifact must have a root element.
	if doc.Root() == nil {
		return nil, errors.New("document has no root element")
	}
	return &document{doc: doc}, nil
}

type document struct {
	doc *etree.Document
}

// Find returns the first element with the given tag in document order,
// descending through the whole tree.
func (d *document) Find(name string) ports.Node {
	if el := findElement(&d.doc.Element, name); el != nil {
		return &node{tok: el}
	}
	return nil
}

func findElement(parent *etree.Element, name string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == name {
			return child
		}
		if found := findElement(child, name); found != nil {
			return found
		}
	}
	return nil
}

// node wraps an etree token. Element tokens report their tag as Name;
// character data and other token kinds report "".
type node struct {
	tok etree.Token
}

func (n *node) Name() string {
	if el, ok := n.tok.(*etree.Element); ok {
		return el.Tag
	}
	return ""
}

func (n *node) Attr(name string) (string, bool) {
	el, ok := n.tok.(*etree.Element)
	if !ok {
		return "", false
	}
	attr := el.SelectAttr(name)
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

func (n *node) Text() string {
	switch t := n.tok.(type) {
	case *etree.Element:
		return t.Text()
	case *etree.CharData:
		return t.Data
	}
	return ""
}

func (n *node) FirstChild() ports.Node {
	el, ok := n.tok.(*etree.Element)
	if !ok || len(el.Child) == 0 {
		return nil
	}
	return &node{tok: el.Child[0]}
}

func (n *node) NextSibling() ports.Node {
	parent := n.tok.Parent()
	if parent == nil {
		return nil
	}
	next := n.tok.Index() + 1
	if next <= 0 || next >= len(parent.Child) {
		return nil
	}
	return &node{tok: parent.Child[next]}
}

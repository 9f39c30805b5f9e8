package ports

// TreeParser parses a raw artifact into a navigable document.
// This is a port interface - implementations are adapters.
//
// Text content must be returned opaque: no entity decoding beyond what the
// underlying parser cannot avoid, and no reinterpretation of markup nested
// inside leaf text. The verification engine digests the raw bytes itself;
// the tree is used only for element/attribute lookup.
type TreeParser interface {
	// Parse parses data into a Document. Returns an error if the bytes are
	// not well-formed XML.
	Parse(data []byte) (Document, error)
}

// Document is a parsed artifact tree.
type Document interface {
	// Find returns the first element with the given name in document
	// order, descending through the whole tree, or nil if absent.
	Find(name string) Node
}

// Node is a single node in the parsed tree. Element nodes report a
// non-empty Name; text and other non-element nodes report "".
type Node interface {
	// Name returns the element name, or "" for non-element nodes.
	Name() string

	// Attr returns the named attribute's value. ok is false if the
	// attribute is absent or the node is not an element.
	Attr(name string) (value string, ok bool)

	// Text returns the node's direct text content, opaque.
	Text() string

	// FirstChild returns the node's first child, or nil.
	FirstChild() Node

	// NextSibling returns the node's next sibling, or nil.
	NextSibling() Node
}

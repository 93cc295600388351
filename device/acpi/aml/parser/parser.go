// Package parser implements a recursive descent parser for AML encoded
// firmware tables. The parser is built out of small combinators that share a
// single advance-or-rollback contract: a combinator either consumes exactly
// the bytes its production requires and returns a tree node, or it leaves the
// cursor at the offset it was handed and returns nil.
package parser

// parseFn is the capability shared by all parsers: consume bytes off the
// cursor and return the tree node for the matched production. A nil return
// signals failure; implementations must restore the cursor offset before
// returning nil.
type parseFn func(c *Cursor) *Node

// intLeaf consumes a width-byte little-endian unsigned integer and returns a
// leaf node carrying its value.
func intLeaf(c *Cursor, width uint32) *Node {
	span := c.take(width)
	if span == nil {
		return nil
	}

	var value uint64
	for i := len(span) - 1; i >= 0; i-- {
		value = value<<8 | uint64(span[i])
	}

	return &Node{kind: nodeLeafInt, width: uint8(width), value: value}
}

func byteData(c *Cursor) *Node {
	return intLeaf(c, 1)
}

func wordData(c *Cursor) *Node {
	return intLeaf(c, 2)
}

func dwordData(c *Cursor) *Node {
	return intLeaf(c, 4)
}

func qwordData(c *Cursor) *Node {
	return intLeaf(c, 8)
}

// stringData returns a parser that consumes exactly width bytes and produces
// a leaf carrying the span verbatim. The bytes are not interpreted: embedded
// NULs, non-ASCII values and trailing padding are preserved. The leaf copies
// the span so that the tree stays valid after the caller recycles the input
// buffer.
func stringData(width uint32) parseFn {
	return func(c *Cursor) *Node {
		span := c.take(width)
		if span == nil {
			return nil
		}

		buf := make([]byte, width)
		copy(buf, span)
		return &Node{kind: nodeLeafBytes, width: uint8(width), bytes: buf}
	}
}

// sequence returns a parser that applies the supplied sub-parsers in order
// against the same cursor and wraps their output in a branch node tagged with
// label. The composition is atomic: the entry offset is saved once and, if
// any sub-parser fails, it is restored unconditionally, any partially built
// children are dropped and the composite reports failure. On success the
// branch contains exactly one child per sub-parser, in application order.
func sequence(label Label, parsers ...parseFn) parseFn {
	return func(c *Cursor) *Node {
		entryOffset := c.Offset()

		children := make([]*Node, len(parsers))
		for i, parse := range parsers {
			if children[i] = parse(c); children[i] == nil {
				c.SetOffset(entryOffset)
				return nil
			}
		}

		return &Node{kind: nodeBranch, label: label, children: children}
	}
}

package parser

// Label identifies the grammar production that built a branch node. Consumers
// navigate parse trees by label instead of relying on positional arithmetic.
type Label uint8

// The list of grammar production labels.
const (
	// LabelNone tags leaf nodes which are not associated with a
	// production.
	LabelNone Label = iota

	LabelDefBlockHeader
	LabelTableSignature
	LabelTableLength
	LabelSpecCompliance
	LabelChecksum
	LabelOEMID
	LabelOEMTableID
	LabelOEMRevision
	LabelCreatorID
	LabelCreatorRevision
)

// String implements fmt.Stringer for Label.
func (l Label) String() string {
	switch l {
	case LabelDefBlockHeader:
		return "DefBlockHeader"
	case LabelTableSignature:
		return "TableSignature"
	case LabelTableLength:
		return "TableLength"
	case LabelSpecCompliance:
		return "SpecCompliance"
	case LabelChecksum:
		return "Checksum"
	case LabelOEMID:
		return "OEMID"
	case LabelOEMTableID:
		return "OEMTableID"
	case LabelOEMRevision:
		return "OEMRevision"
	case LabelCreatorID:
		return "CreatorID"
	case LabelCreatorRevision:
		return "CreatorRevision"
	default:
		return "unknown"
	}
}

type nodeKind uint8

const (
	nodeLeafInt nodeKind = iota
	nodeLeafBytes
	nodeBranch
)

// Node is a node in a parse tree. Leaf nodes carry either a fixed-width
// little-endian integer or a fixed-length byte span read verbatim off the
// stream. Branch nodes carry the label of the production that built them and
// own their children; releasing the root releases the entire tree.
type Node struct {
	kind  nodeKind
	label Label

	// width records the number of stream bytes this leaf consumed.
	width uint8

	value    uint64
	bytes    []byte
	children []*Node
}

// IsLeaf returns true if this node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.kind != nodeBranch
}

// Label returns the production label for branch nodes and LabelNone for
// leaves.
func (n *Node) Label() Label {
	return n.label
}

// Width returns the number of input bytes a leaf node consumed. It returns 0
// for branch nodes.
func (n *Node) Width() int {
	return int(n.width)
}

// Value returns the integer carried by an integer leaf. It returns 0 for any
// other node type.
func (n *Node) Value() uint64 {
	return n.value
}

// Bytes returns the byte span carried by a string leaf or nil for any other
// node type. The returned slice is owned by the node.
func (n *Node) Bytes() []byte {
	return n.bytes
}

// NumChildren returns the arity of a branch node.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Child returns the index-th child of a branch node or nil if the index is
// out of range.
func (n *Node) Child(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}

	return n.children[index]
}

// Field scans the children of root for a branch built by the production
// identified by label. It returns nil if no such child exists.
func Field(root *Node, label Label) *Node {
	if root == nil {
		return nil
	}

	for _, child := range root.children {
		if child.label == label {
			return child
		}
	}

	return nil
}

// leaf unwraps an arity-1 field production and returns the leaf it guards.
func (n *Node) leaf() *Node {
	cur := n
	for cur != nil && !cur.IsLeaf() {
		cur = cur.Child(0)
	}

	return cur
}

// FieldValue returns the integer carried by the leaf under the child of root
// labeled by label. It returns 0 if the field is missing or does not hold an
// integer.
func FieldValue(root *Node, label Label) uint64 {
	if l := Field(root, label).leaf(); l != nil {
		return l.Value()
	}

	return 0
}

// FieldBytes returns the byte span carried by the leaf under the child of
// root labeled by label or nil if the field is missing or holds an integer.
func FieldBytes(root *Node, label Label) []byte {
	if l := Field(root, label).leaf(); l != nil {
		return l.Bytes()
	}

	return nil
}

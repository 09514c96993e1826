package dom

// Range is an inclusive run of sibling nodes, from Start through End. It is
// how mounted fragments are handed around: a fragment's top-level nodes form
// one range under a shared parent. The zero Range is empty.
type Range struct {
	Start *Node
	End   *Node
}

// NewRange creates a Range covering start through end, which must be
// siblings with start at or before end.
func NewRange(start, end *Node) Range {
	return Range{Start: start, End: end}
}

// SingleNodeRange creates a Range covering just one node.
func SingleNodeRange(n *Node) Range {
	return Range{Start: n, End: n}
}

// Nodes returns the nodes of the range in sibling order. If End is not
// reachable from Start, the walk ends at the last sibling.
func (r Range) Nodes() []*Node {
	if r.Start == nil {
		return nil
	}
	var nodes []*Node
	for n := r.Start; n != nil; n = n.nextSibling {
		nodes = append(nodes, n)
		if n == r.End {
			break
		}
	}
	return nodes
}

// ParentNode returns the common parent of the range's nodes, or nil for an
// empty range.
func (r Range) ParentNode() *Node {
	if r.Start == nil {
		return nil
	}
	return r.Start.parentNode
}

/*
Package huffman implements the per-message compression codec.

Every message builds its own prefix-code tree from scratch, so each encoded
payload is self-describing: the code table travels with the bits and no state
is shared across messages. Symbols are single-rune strings to keep the table
shape identical to the wire representation.
*/
package huffman

import (
	"container/heap"
	"sort"
)

// FreqTable maps a symbol to its occurrence count in a message.
type FreqTable map[string]int

// CodeTable maps a symbol to its binary prefix code, a non-empty string of
// '0'/'1'. The code set is prefix-free by construction.
type CodeTable map[string]string

// Node is a single node of the prefix-code tree. A leaf carries a symbol,
// an internal node carries two children. Weight is the summed leaf
// frequencies beneath the node.
type Node struct {
	Symbol string
	Weight int
	Left   *Node
	Right  *Node

	seq int // insertion order, secondary key for equal weights
}

func (n *Node) leaf() bool {
	return n.Left == nil && n.Right == nil
}

// nodeHeap orders nodes by weight, then insertion sequence, so equal-weight
// merges happen in a deterministic order across runs.
type nodeHeap []*Node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].Weight != h[j].Weight {
		return h[i].Weight < h[j].Weight
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(*Node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	*h = old[:len(old)-1]
	return n
}

// Frequencies counts the occurrences of each symbol in text.
// An empty text yields an empty table.
func Frequencies(text string) FreqTable {
	freq := make(FreqTable)
	for _, r := range text {
		freq[string(r)]++
	}
	return freq
}

// BuildTree builds the prefix-code tree by repeatedly merging the two
// lowest-weight nodes. Leaves are seeded in sorted symbol order so the
// resulting tree is the same for a given frequency table.
//
// A single-symbol table gets a synthetic internal root above its lone leaf,
// so the symbol still receives the non-empty code "0". An empty table
// returns nil.
func BuildTree(freq FreqTable) *Node {
	symbols := make([]string, 0, len(freq))
	for s := range freq {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	h := make(nodeHeap, 0, len(symbols))
	for i, s := range symbols {
		h = append(h, &Node{Symbol: s, Weight: freq[s], seq: i})
	}
	if len(h) == 0 {
		return nil
	}
	heap.Init(&h)

	seq := len(symbols)
	if h.Len() == 1 {
		lone := heap.Pop(&h).(*Node)
		return &Node{Weight: lone.Weight, Left: lone, seq: seq}
	}
	for h.Len() > 1 {
		left := heap.Pop(&h).(*Node)
		right := heap.Pop(&h).(*Node)
		heap.Push(&h, &Node{
			Weight: left.Weight + right.Weight,
			Left:   left,
			Right:  right,
			seq:    seq,
		})
		seq++
	}
	return heap.Pop(&h).(*Node)
}

// Codes derives the code table from a tree: descending left appends '0',
// descending right appends '1', and a leaf's accumulated path is its code.
func Codes(root *Node) CodeTable {
	codes := make(CodeTable)
	if root == nil {
		return codes
	}
	var walk func(n *Node, prefix string)
	walk = func(n *Node, prefix string) {
		if n == nil {
			return
		}
		if n.leaf() {
			codes[n.Symbol] = prefix
			return
		}
		walk(n.Left, prefix+"0")
		walk(n.Right, prefix+"1")
	}
	walk(root, "")
	return codes
}

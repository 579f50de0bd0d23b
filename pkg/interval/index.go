// Package interval indexes half-open time intervals over an integer grid
// and answers which intervals touch a given grid cell.
//
// [Index] is a segment tree stored in a flat arena. Inserting an interval
// attaches its id to the O(log n) nodes of its canonical decomposition;
// [Index.At] collects the ids on the root-to-leaf path of one cell.
package interval

import (
	"math/big"
	"slices"

	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/exact"
)

type node struct {
	lo, hi      int64
	left, right int32 // arena indices, -1 at leaves
	items       []int
}

func (n *node) leaf() bool { return n.hi-n.lo == 1 }

// Index is a segment tree over the cells [lo, lo+1), …, [hi−1, hi).
// Insertions are append-only. An Index is not safe for concurrent
// mutation.
type Index struct {
	nodes []node
	count int
}

// MaxCells bounds the number of cells an index may cover, about twelve
// days at one cell per second. The arena holds 2·cells−1 nodes, so a full
// index stays near 100 MiB.
const MaxCells = 1 << 20

// New returns an empty index covering [lo, hi). It fails when the range
// holds no cells or more than [MaxCells].
func New(lo, hi int64) (*Index, error) {
	if hi <= lo {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty index range [%d, %d)", lo, hi)
	}
	// unsigned subtraction is exact for hi > lo even when hi−lo overflows int64
	if cells := uint64(hi) - uint64(lo); cells > MaxCells {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"index range [%d, %d) spans %d cells, more than %d", lo, hi, cells, MaxCells)
	}
	ix := &Index{nodes: make([]node, 0, 2*(hi-lo)-1)}
	ix.build(lo, hi)
	return ix, nil
}

// Covering returns an index over the smallest integer range containing
// [start, end): [floor(start), ceil(end)).
func Covering(start, end *big.Rat) (*Index, error) {
	lo, hi := exact.Floor(start), exact.Ceil(end)
	if hi.Cmp(lo) == 0 {
		hi.Add(hi, big.NewInt(1))
	}
	if !lo.IsInt64() || !hi.IsInt64() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "index range [%s, %s) overflows int64", lo, hi)
	}
	return New(lo.Int64(), hi.Int64())
}

func (ix *Index) build(lo, hi int64) int32 {
	id := int32(len(ix.nodes))
	ix.nodes = append(ix.nodes, node{lo: lo, hi: hi, left: -1, right: -1})
	if hi-lo > 1 {
		mid := lo + (hi-lo)/2
		l := ix.build(lo, mid)
		r := ix.build(mid, hi)
		ix.nodes[id].left, ix.nodes[id].right = l, r
	}
	return id
}

// Range returns the cell range [lo, hi) the index covers.
func (ix *Index) Range() (lo, hi int64) {
	return ix.nodes[0].lo, ix.nodes[0].hi
}

// Len returns the number of inserted intervals.
func (ix *Index) Len() int { return ix.count }

// Insert records id for the interval [start, end). Cells the interval
// overlaps, even partially, will report id. Parts outside the index range
// are ignored.
func (ix *Index) Insert(id int, start, end *big.Rat) {
	ix.count++
	ix.insert(0, id, start, end)
}

func (ix *Index) insert(at int32, id int, start, end *big.Rat) {
	n := &ix.nodes[at]
	// start ≥ hi or end ≤ lo: disjoint.
	if cmpInt(start, n.hi) >= 0 || cmpInt(end, n.lo) <= 0 {
		return
	}
	if n.leaf() || (cmpInt(start, n.lo) <= 0 && cmpInt(end, n.hi) >= 0) {
		n.items = append(n.items, id)
		return
	}
	ix.insert(n.left, id, start, end)
	ix.insert(n.right, id, start, end)
}

// At returns the ids of the intervals that overlap cell [t, t+1), in
// ascending order. For integer intervals these are exactly the intervals
// with start ≤ t < end.
func (ix *Index) At(t int64) []int {
	var out []int
	at := int32(0)
	for at >= 0 {
		n := &ix.nodes[at]
		if t < n.lo || t >= n.hi {
			break
		}
		out = append(out, n.items...)
		if n.leaf() {
			break
		}
		if t < ix.nodes[n.left].hi {
			at = n.left
		} else {
			at = n.right
		}
	}
	slices.Sort(out)
	return out
}

// Overlapping returns the ids of the intervals that overlap any cell
// between floor(start) and ceil(end), deduplicated and in ascending order.
func (ix *Index) Overlapping(start, end *big.Rat) []int {
	lo, hi := ix.Range()
	from := max(exact.Floor(start).Int64(), lo)
	to := min(exact.Ceil(end).Int64(), hi)

	seen := make(map[int]struct{})
	var out []int
	for t := from; t < to; t++ {
		for _, id := range ix.At(t) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func cmpInt(r *big.Rat, n int64) int {
	return r.Cmp(new(big.Rat).SetInt64(n))
}

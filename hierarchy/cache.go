package hierarchy

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/katalvlaran/lvlath-diamond/diamond"
	"github.com/katalvlaran/lvlath-diamond/graphindex"
)

// structureCacheEntry resolves xxhash collisions: distinct signatures can
// share a 64-bit hash, so every bucket keeps the full signature string
// alongside the cached data (spec.md §9: "full signature stored in the
// entry for collision resolution").
type structureCacheEntry struct {
	signature string
	data      *DiamondComputationData
}

// cache holds the structure cache and the alternating-cycle cache behind a
// single synchronized surface, matching core.Graph's "separate read-mostly
// locks" texture (spec.md §5: "they require a mutex or equivalent
// (read-mostly, occasional insert)").
type cache struct {
	mu sync.RWMutex

	structure  map[uint64][]structureCacheEntry // xxhash(signature) -> entries
	byRelevant map[string]diamond.Diamond       // relevant_nodes signature -> diamond last seen for it
}

func newCache() *cache {
	return &cache{
		structure:  make(map[uint64][]structureCacheEntry),
		byRelevant: make(map[string]diamond.Diamond),
	}
}

// lookup returns the cached DiamondComputationData for d's exact
// (edgelist, relevant_nodes, conditioning_nodes) signature, if present.
func (c *cache) lookup(d diamond.Diamond) (*DiamondComputationData, bool) {
	sig := d.Signature()
	h := xxhash.Sum64String(sig)

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.structure[h] {
		if e.signature == sig {
			return e.data, true
		}
	}
	return nil, false
}

// insert stores data under d's exact signature.
func (c *cache) insert(d diamond.Diamond, data *DiamondComputationData) {
	sig := d.Signature()
	h := xxhash.Sum64String(sig)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.structure[h] = append(c.structure[h], structureCacheEntry{signature: sig, data: data})
}

// resolveAlternation runs the alternating-cycle check (spec.md §4.5): if
// d.RelevantNodes has not been seen before, d expands as-is. If it has been
// seen before with an identical conditioning set, d expands as-is (the
// structure cache will short-circuit the actual recomputation). If it has
// been seen before with a *different* conditioning set, the two
// conditioning sets are unioned into a merged Diamond and merged=true is
// returned — callers must store the merged diamond with an empty inner
// structure rather than recursing ("cycle resolved by over-conditioning").
func (c *cache) resolveAlternation(d diamond.Diamond) (resolved diamond.Diamond, merged bool) {
	key := relevantSignature(d.RelevantNodes)

	c.mu.Lock()
	defer c.mu.Unlock()

	prior, ok := c.byRelevant[key]
	if !ok {
		c.byRelevant[key] = d
		return d, false
	}
	if conditioningEqual(prior.ConditioningNodes, d.ConditioningNodes) {
		return d, false
	}

	m := diamond.Diamond{
		JoinNode:          d.JoinNode,
		RelevantNodes:     d.RelevantNodes,
		ConditioningNodes: unionSortedNodes(prior.ConditioningNodes, d.ConditioningNodes),
		Edgelist:          d.Edgelist,
	}
	c.byRelevant[key] = m
	return m, true
}

// relevantSignature is the alternating-cycle cache key: the sorted,
// comma-joined relevant_nodes list.
func relevantSignature(nodes []graphindex.Node) string {
	sorted := append([]graphindex.Node(nil), nodes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var buf []byte
	for i, n := range sorted {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendUintDecimal(buf, uint64(n))
	}
	return string(buf)
}

func appendUintDecimal(b []byte, v uint64) []byte {
	if v == 0 {
		return append(b, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(b, tmp[i:]...)
}

func conditioningEqual(a, b []graphindex.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func unionSortedNodes(a, b []graphindex.Node) []graphindex.Node {
	set := make(map[graphindex.Node]struct{}, len(a)+len(b))
	for _, n := range a {
		set[n] = struct{}{}
	}
	for _, n := range b {
		set[n] = struct{}{}
	}
	out := make([]graphindex.Node, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

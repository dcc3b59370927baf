package diamond

import (
	"sort"
	"strings"

	"github.com/katalvlaran/lvlath-diamond/graphindex"
)

// Diamond identifies a conditioned subproblem at a single join node
// (spec.md §3 C4).
type Diamond struct {
	JoinNode           graphindex.Node
	RelevantNodes      []graphindex.Node // sorted
	ConditioningNodes  []graphindex.Node // sorted, non-empty
	Edgelist           []graphindex.Edge // induced subgraph edges, sorted
}

// DiamondsAtNode is what the identifier emits for a single join node whose
// incoming edges split into diamond-mediated and independent parents
// (spec.md §3).
type DiamondsAtNode struct {
	JoinNode          graphindex.Node
	Diamond           Diamond
	NonDiamondParents []graphindex.Node // sorted
}

// Key returns the diamond key: two Diamonds with equal keys represent the
// same subproblem (spec.md §3: "(relevant_nodes, conditioning_nodes)").
// The key is a canonical string signature suitable for map lookups and for
// hashing (see hierarchy's xxhash-backed structure cache).
func (d Diamond) Key() string {
	var b strings.Builder
	writeNodes(&b, d.RelevantNodes)
	b.WriteByte('|')
	writeNodes(&b, d.ConditioningNodes)
	return b.String()
}

// Signature returns the canonical (edgelist, relevant_nodes,
// conditioning_nodes) signature spec.md §4.5/§9 uses to key the structure
// cache: sorted edgelist, sorted relevant nodes, sorted conditioning nodes,
// joined deterministically.
func (d Diamond) Signature() string {
	var b strings.Builder
	edges := append([]graphindex.Edge(nil), d.Edgelist...)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	for _, e := range edges {
		writeUint(&b, uint64(e.From))
		b.WriteByte('>')
		writeUint(&b, uint64(e.To))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	writeNodes(&b, d.RelevantNodes)
	b.WriteByte('|')
	writeNodes(&b, d.ConditioningNodes)
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []graphindex.Node) {
	sorted := append([]graphindex.Node(nil), nodes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, n := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		writeUint(b, uint64(n))
	}
}

func writeUint(b *strings.Builder, v uint64) {
	b.WriteString(uitoa(v))
}

func uitoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

package app

import (
	"fmt"
	"sort"
	"time"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

var edgeColors = map[domain.EdgeKind]string{
	domain.EdgeCandidate: "#e4572e",
	domain.EdgeReuse:     "#17bebb",
	domain.EdgeRelayer:   "#76b041",
}

var edgeLabels = map[domain.EdgeKind]string{
	domain.EdgeCandidate: "candidate link (confidence weighted)",
	domain.EdgeReuse:     "address reuse (co-occurrence count)",
	domain.EdgeRelayer:   "relayer usage (shared relayer count)",
}

type edgeKey struct {
	source string
	target string
	kind   domain.EdgeKind
}

type nodeState struct {
	pools  map[domain.PoolID]struct{}
	degree int
}

// GraphBuilder accumulates candidate, reuse and relayer signals into one
// address graph. Accumulation is keyed by (pair, kind): observing the same
// pair again adds weight instead of duplicating the edge, and candidate
// edges keep their deposit→withdrawal direction while reuse and relayer
// edges are stored on the lexicographically sorted pair. Keys are sorted at
// build time, so the artifact is identical no matter which pool finished
// first.
type GraphBuilder struct {
	nodes map[string]*nodeState
	edges map[edgeKey]*domain.GraphEdge
}

// NewGraphBuilder returns an empty builder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		nodes: make(map[string]*nodeState),
		edges: make(map[edgeKey]*domain.GraphEdge),
	}
}

func (g *GraphBuilder) node(addr string, pool domain.PoolID) *nodeState {
	n, ok := g.nodes[addr]
	if !ok {
		n = &nodeState{pools: make(map[domain.PoolID]struct{})}
		g.nodes[addr] = n
	}
	if pool != "" {
		n.pools[pool] = struct{}{}
	}
	return n
}

func (g *GraphBuilder) accumulate(source, target string, kind domain.EdgeKind, weight float64, pool domain.PoolID) {
	if source == target {
		return
	}
	if kind != domain.EdgeCandidate && source > target {
		source, target = target, source
	}
	g.node(source, pool).degree++
	g.node(target, pool).degree++

	key := edgeKey{source: source, target: target, kind: kind}
	e, ok := g.edges[key]
	if !ok {
		e = &domain.GraphEdge{
			Source: source,
			Target: target,
			Kind:   kind,
			Color:  edgeColors[kind],
		}
		g.edges[key] = e
	}
	e.Weight += weight
	e.Count++
}

// AddLinks folds candidate links in as directed depositor→recipient edges
// weighted by confidence.
func (g *GraphBuilder) AddLinks(links []domain.CandidateLink) {
	for _, l := range links {
		g.accumulate(l.Depositor.String(), l.Recipient.String(), domain.EdgeCandidate, l.Confidence, l.PoolID)
	}
}

// AddReusePairs folds co-occurrence tallies in as undirected reuse edges
// weighted by count.
func (g *GraphBuilder) AddReusePairs(pairs []PairCount) {
	for _, p := range pairs {
		g.accumulate(p.A.String(), p.B.String(), domain.EdgeReuse, float64(p.Count), "")
	}
}

// AddRelayerUsage folds relayer→recipient service edges in, one weight unit
// per withdrawal served.
func (g *GraphBuilder) AddRelayerUsage(withdrawals []domain.WithdrawalEvent) {
	for _, w := range withdrawals {
		if !w.HasRelayer() {
			continue
		}
		g.accumulate(w.Relayer.String(), w.Recipient.String(), domain.EdgeRelayer, 1, w.PoolID)
	}
}

// Build freezes the accumulated state into the exchange artifact.
func (g *GraphBuilder) Build() domain.GraphData {
	nodeIDs := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)

	nodes := make([]domain.GraphNode, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		st := g.nodes[id]
		pools := make([]domain.PoolID, 0, len(st.pools))
		for p := range st.pools {
			pools = append(pools, p)
		}
		sort.Slice(pools, func(i, j int) bool { return pools[i] < pools[j] })
		nodes = append(nodes, domain.GraphNode{
			ID:    id,
			Label: shortAddr(id),
			Color: "#4d648d",
			Size:  st.degree,
			Pools: pools,
		})
	}

	keys := make([]edgeKey, 0, len(g.edges))
	for k := range g.edges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].kind != keys[j].kind {
			return keys[i].kind < keys[j].kind
		}
		if keys[i].source != keys[j].source {
			return keys[i].source < keys[j].source
		}
		return keys[i].target < keys[j].target
	})

	edges := make([]domain.GraphEdge, 0, len(keys))
	for i, k := range keys {
		e := *g.edges[k]
		e.ID = fmt.Sprintf("e%d", i)
		edges = append(edges, e)
	}

	legend := domain.GraphLegend{Kinds: make(map[string]domain.LegendItem, len(edgeColors))}
	for kind, color := range edgeColors {
		legend.Kinds[string(kind)] = domain.LegendItem{Color: color, Label: edgeLabels[kind]}
	}

	return domain.GraphData{
		Meta: domain.GraphMeta{
			GeneratedAt: time.Now().Unix(),
			NodeCount:   len(nodes),
			EdgeCount:   len(edges),
			GraphType:   "mixer-correlation",
		},
		Nodes:  nodes,
		Edges:  edges,
		Legend: legend,
	}
}

func shortAddr(hex string) string {
	if len(hex) > 12 {
		return hex[:8] + "…" + hex[len(hex)-4:]
	}
	return hex
}

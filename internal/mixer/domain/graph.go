package domain

// EdgeKind classifies a network graph edge.
type EdgeKind string

const (
	// EdgeCandidate is a directed deposit→withdrawal edge weighted by
	// confidence. Weights accumulate when several links share endpoints.
	EdgeCandidate EdgeKind = "candidate"

	// EdgeReuse is an undirected edge between co-occurring addresses,
	// weighted by co-occurrence count.
	EdgeReuse EdgeKind = "reuse"

	// EdgeRelayer is an undirected edge between a relayer and an address it
	// served, weighted by usage count.
	EdgeRelayer EdgeKind = "relayer"
)

// GraphData is the exported graph artifact, shaped for generic graph
// renderers: a node list plus a typed weighted edge list.
type GraphData struct {
	Meta   GraphMeta   `json:"meta"`
	Nodes  []GraphNode `json:"nodes"`
	Edges  []GraphEdge `json:"edges"`
	Legend GraphLegend `json:"legend"`
}

// GraphMeta describes the artifact itself.
type GraphMeta struct {
	GeneratedAt int64  `json:"generatedAt"`
	NodeCount   int    `json:"nodeCount"`
	EdgeCount   int    `json:"edgeCount"`
	GraphType   string `json:"graphType"`
}

// GraphNode is one address node.
type GraphNode struct {
	ID    string `json:"id"` // address hex
	Label string `json:"label"`
	Color string `json:"color"`
	Size  int    `json:"size"` // degree, for renderer sizing

	// Pools lists the pools the address was seen in, sorted.
	Pools []PoolID `json:"pools,omitempty"`
}

// GraphEdge is one typed weighted edge. Candidate edges are directed
// (Source is the depositor); reuse and relayer edges are undirected and
// Source/Target hold the lexicographically lower/higher address.
type GraphEdge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
	Color  string   `json:"color"`
	Weight float64  `json:"weight"`

	// Count is how many observations accumulated into the weight.
	Count int `json:"count"`
}

// GraphLegend maps edge kinds to display colors.
type GraphLegend struct {
	Kinds map[string]LegendItem `json:"kinds"`
}

// LegendItem is one legend entry.
type LegendItem struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

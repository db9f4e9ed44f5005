package connectivity

// flowNetwork is a residual graph for Dinic's algorithm. Arcs are stored in
// pairs so arc^1 is always the reverse of arc.
type flowNetwork struct {
	adj  [][]int
	to   []int
	cap  []int
	base []int

	level []int
	iter  []int
	queue []int
}

func newFlowNetwork(vertices int) *flowNetwork {
	return &flowNetwork{
		adj:   make([][]int, vertices),
		level: make([]int, vertices),
		iter:  make([]int, vertices),
		queue: make([]int, 0, vertices),
	}
}

func (f *flowNetwork) addArc(u, v, capacity int) {
	f.adj[u] = append(f.adj[u], len(f.to))
	f.to = append(f.to, v)
	f.cap = append(f.cap, capacity)

	f.adj[v] = append(f.adj[v], len(f.to))
	f.to = append(f.to, u)
	f.cap = append(f.cap, 0)
}

// seal snapshots the capacities so the network can be reused across
// source/sink pairs.
func (f *flowNetwork) seal() {
	f.base = append(f.base[:0], f.cap...)
}

func (f *flowNetwork) reset() {
	copy(f.cap, f.base)
}

// maxFlow returns min(maxflow(s, t), limit). Stopping at limit keeps the
// cost proportional to the best cut found so far.
func (f *flowNetwork) maxFlow(s, t, limit int) int {
	flow := 0
	for flow < limit && f.buildLevels(s, t) {
		for i := range f.iter {
			f.iter[i] = 0
		}
		for flow < limit {
			pushed := f.augment(s, t, limit-flow)
			if pushed == 0 {
				break
			}
			flow += pushed
		}
	}
	return flow
}

func (f *flowNetwork) buildLevels(s, t int) bool {
	for i := range f.level {
		f.level[i] = -1
	}
	f.level[s] = 0
	f.queue = append(f.queue[:0], s)

	for head := 0; head < len(f.queue); head++ {
		u := f.queue[head]
		for _, arc := range f.adj[u] {
			v := f.to[arc]
			if f.cap[arc] > 0 && f.level[v] < 0 {
				f.level[v] = f.level[u] + 1
				f.queue = append(f.queue, v)
			}
		}
	}
	return f.level[t] >= 0
}

func (f *flowNetwork) augment(u, t, pushed int) int {
	if u == t {
		return pushed
	}
	for ; f.iter[u] < len(f.adj[u]); f.iter[u]++ {
		arc := f.adj[u][f.iter[u]]
		v := f.to[arc]
		if f.cap[arc] <= 0 || f.level[v] != f.level[u]+1 {
			continue
		}
		if d := f.augment(v, t, min(pushed, f.cap[arc])); d > 0 {
			f.cap[arc] -= d
			f.cap[arc^1] += d
			return d
		}
	}
	return 0
}

package molecule

// AromaticBondOrder is the MDL bond type of an aromatic bond.
const AromaticBondOrder = 4

// graphEdge is one heavy-atom bond before adjacency lists are built.
type graphEdge struct {
	from, to, order int
}

func edgeKey(a, b int) [2]int {
	if b < a {
		a, b = b, a
	}
	return [2]int{a, b}
}

// ─────────────────────────────────────────────────────────────────────────────
// Aromaticity perception
// ─────────────────────────────────────────────────────────────────────────────

// aromatize relabels the bonds of five- and six-membered rings drawn in a
// Kekulé form as aromatic, so that either Kekulé form and the aromatic form of
// a ring yield the same graph.  Rings are settled until nothing changes: a bond
// already aromatic fits either order, which lets fused systems such as
// naphthalene resolve one ring at a time.
func aromatize(atoms []Atom, edges []graphEdge) {
	index := make(map[[2]int]int, len(edges))
	adj := make([][]int, len(atoms))
	for i, e := range edges {
		index[edgeKey(e.from, e.to)] = i
		adj[e.from] = append(adj[e.from], e.to)
		adj[e.to] = append(adj[e.to], e.from)
	}

	rings := smallRings(adj)
	settled := make([]bool, len(rings))
	for changed := true; changed; {
		changed = false
		for r, ring := range rings {
			if settled[r] {
				continue
			}
			bonds := make([]int, len(ring))
			for i := range ring {
				bonds[i] = index[edgeKey(ring[i], ring[(i+1)%len(ring)])]
			}
			if !aromaticRing(atoms, ring, bonds, edges) {
				continue
			}
			for _, b := range bonds {
				edges[b].order = AromaticBondOrder
			}
			settled[r] = true
			changed = true
		}
	}
}

// smallRings lists every simple cycle of five or six atoms once, starting at
// its lowest-numbered atom.
func smallRings(adj [][]int) [][]int {
	var rings [][]int
	path := make([]int, 0, 6)
	onPath := make([]bool, len(adj))

	var extend func(start int)
	extend = func(start int) {
		last := path[len(path)-1]
		for _, nb := range adj[last] {
			if nb == start {
				if len(path) >= 5 && path[1] < last {
					rings = append(rings, append([]int(nil), path...))
				}
				continue
			}
			if nb < start || onPath[nb] || len(path) == 6 {
				continue
			}
			onPath[nb] = true
			path = append(path, nb)
			extend(start)
			path = path[:len(path)-1]
			onPath[nb] = false
		}
	}

	for s := range adj {
		path = append(path[:0], s)
		onPath[s] = true
		extend(s)
		onPath[s] = false
	}
	return rings
}

// aromaticRing reports whether the ring's bond orders describe an aromatic
// ring.  bonds[i] joins ring[i] and ring[i+1].
func aromaticRing(atoms []Atom, ring, bonds []int, edges []graphEdge) bool {
	orders := make([]int, len(bonds))
	for i, b := range bonds {
		o := edges[b].order
		if o != 1 && o != 2 && o != AromaticBondOrder {
			return false
		}
		orders[i] = o
	}

	switch len(ring) {
	case 6:
		return alternates(orders, 0) || alternates(orders, 1)
	case 5:
		// Pyrrole-type rings: one heteroatom between two single bonds, the
		// remaining bonds alternating double, single, double.
		for k := range ring {
			if !lonePairDonor(atoms[ring[k]]) {
				continue
			}
			if fits(orders[(k+4)%5], 1) && fits(orders[k], 1) &&
				fits(orders[(k+1)%5], 2) && fits(orders[(k+2)%5], 1) && fits(orders[(k+3)%5], 2) {
				return true
			}
		}
	}
	return false
}

// alternates reports whether orders follow double, single, double, ... from
// the given phase.
func alternates(orders []int, phase int) bool {
	for i, o := range orders {
		want := 1
		if (i+phase)%2 == 0 {
			want = 2
		}
		if !fits(o, want) {
			return false
		}
	}
	return true
}

func fits(order, want int) bool {
	return order == want || order == AromaticBondOrder
}

func lonePairDonor(a Atom) bool {
	switch a.Element {
	case "N", "O", "S", "Se", "P":
		return true
	}
	return false
}

//Personal.AI order the ending

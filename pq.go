package astarnav

// FringeEntry is a not-yet-expanded search node: the node, the node it was
// reached from, and its accumulated and estimated total cost.
type FringeEntry[NodeType comparable] struct {
	Node           NodeType
	Predecessor    NodeType
	HasPredecessor bool
	GScore         float64
	FCost          float64

	sequence uint64
}

// TieBreak reports whether a should be expanded before b when both carry the
// same priority.
type TieBreak[NodeType comparable] func(a, b NodeType) bool

// Fringe is a container/heap min-queue ordered by FCost. Equal priorities are
// resolved by the optional tie-break, then by insertion order.
type Fringe[NodeType comparable] struct {
	items    []*FringeEntry[NodeType]
	tieBreak TieBreak[NodeType]
	pushed   uint64
}

func (queue *Fringe[NodeType]) Len() int { return len(queue.items) }

func (queue *Fringe[NodeType]) Less(i, j int) bool {
	a, b := queue.items[i], queue.items[j]
	if a.FCost != b.FCost {
		return a.FCost < b.FCost
	}
	if queue.tieBreak != nil && a.Node != b.Node {
		if queue.tieBreak(a.Node, b.Node) {
			return true
		}
		if queue.tieBreak(b.Node, a.Node) {
			return false
		}
	}
	return a.sequence < b.sequence
}

func (queue *Fringe[NodeType]) Swap(i, j int) {
	queue.items[i], queue.items[j] = queue.items[j], queue.items[i]
}

func (queue *Fringe[NodeType]) Push(x any) {
	entry := x.(*FringeEntry[NodeType])
	entry.sequence = queue.pushed
	queue.pushed++
	queue.items = append(queue.items, entry)
}

func (queue *Fringe[NodeType]) Pop() any {
	old := queue.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	queue.items = old[:n-1]
	return item
}

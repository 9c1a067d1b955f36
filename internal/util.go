package internal

// Link is the closed-map record of a node: the predecessor fixed when the node
// was first expanded and the accumulated cost it was reached with. The start
// node has HasPrevious == false.
type Link[NodeType comparable] struct {
	Previous    NodeType
	HasPrevious bool
	Cost        float64
}

// ReconstructPath walks predecessor links back from goal until the start
// sentinel and returns the nodes in start-to-goal order. It returns nil when
// goal was never closed.
func ReconstructPath[NodeType comparable](
	closed map[NodeType]Link[NodeType],
	goal NodeType,
) []NodeType {
	link, ok := closed[goal]
	if !ok {
		return nil
	}
	path := []NodeType{goal}
	for link.HasPrevious {
		path = append(path, link.Previous)
		if link, ok = closed[link.Previous]; !ok {
			break
		}
		// a cycle would mean a predecessor was overwritten
		if len(path) > len(closed) {
			return nil
		}
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

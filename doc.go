// Package astarnav provides the best-first search engine behind the grid path
// planner.
//
// It exposes two main entry points:
//
//   - Search: run the algorithm to completion and get a Result.
//   - Stepper: iterate the search one expansion at a time to drive UIs or debugging tools.
//
// The engine is generic over node type. Nodes are expanded at most once per
// search: a closed node keeps the predecessor it was first reached from and is
// never reopened. Fringe ties are broken by an optional comparator and then by
// insertion order, so repeated searches over the same graph return the same path.
//
// The grid, cost model, planner and replanning loop live in the grid, cost,
// planner and navigator subpackages.
package astarnav

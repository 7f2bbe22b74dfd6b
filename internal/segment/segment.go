// Package segment is Component H: partitions TO_PROCESS frontier cells into
// connected components, where two frontier cells are linked whenever some
// active cell's unknown_neighbors lists both of them.
package segment

import (
	"github.com/kestrelbyte/minecore/internal/frontier"
	"github.com/kestrelbyte/minecore/internal/model"
)

// Component is a maximal set of frontier cells linked by shared active
// constraints, plus the active cells that constrain it.
type Component struct {
	FrontierCells []model.Coord
	ActiveCells   []model.Coord
}

// Build partitions view's (already-filtered) frontier cells into connected
// components. view must have been constructed with
// frontier.FilterToProcess.
func Build(view *frontier.View) []Component {
	cells := view.FrontierCells()
	if len(cells) == 0 {
		return nil
	}

	adjacency := make(map[model.Coord]map[model.Coord]struct{}, len(cells))
	for _, c := range cells {
		adjacency[c] = make(map[model.Coord]struct{})
	}

	for _, active := range view.ActiveCells() {
		group := view.UnknownNeighbors(active)
		for i := range group {
			if _, ok := adjacency[group[i]]; !ok {
				continue // not a TO_PROCESS frontier cell in this view
			}
			for j := range group {
				if i == j {
					continue
				}
				if _, ok := adjacency[group[j]]; !ok {
					continue
				}
				adjacency[group[i]][group[j]] = struct{}{}
			}
		}
	}

	visited := make(map[model.Coord]struct{}, len(cells))
	var components []Component

	for _, start := range cells {
		if _, ok := visited[start]; ok {
			continue
		}
		members := bfs(start, adjacency, visited)
		comp := Component{FrontierCells: model.SortCoords(members)}
		comp.ActiveCells = constrainingActives(view, members)
		components = append(components, comp)
	}

	return components
}

func bfs(start model.Coord, adjacency map[model.Coord]map[model.Coord]struct{}, visited map[model.Coord]struct{}) []model.Coord {
	queue := []model.Coord{start}
	visited[start] = struct{}{}
	var members []model.Coord

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		members = append(members, c)
		for n := range adjacency[c] {
			if _, ok := visited[n]; ok {
				continue
			}
			visited[n] = struct{}{}
			queue = append(queue, n)
		}
	}

	return members
}

// constrainingActives returns, in lexicographic order, every active cell
// whose unknown_neighbors intersects members.
func constrainingActives(view *frontier.View, members []model.Coord) []model.Coord {
	memberSet := make(map[model.Coord]struct{}, len(members))
	for _, m := range members {
		memberSet[m] = struct{}{}
	}

	seen := make(map[model.Coord]struct{})
	var out []model.Coord
	for _, active := range view.ActiveCells() {
		for _, n := range view.UnknownNeighbors(active) {
			if _, ok := memberSet[n]; ok {
				if _, already := seen[active]; !already {
					seen[active] = struct{}{}
					out = append(out, active)
				}
				break
			}
		}
	}

	return model.SortCoords(out)
}

package plan

// pruneDependencies drops edges whose endpoints are not known task ids.
// Order of the surviving edges is preserved.
func pruneDependencies(tasks []Task, deps []Dependency) []Dependency {
	ids := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		ids[t.ID] = true
	}

	valid := make([]Dependency, 0, len(deps))
	for _, d := range deps {
		if ids[d.From] && ids[d.To] {
			valid = append(valid, d)
		}
	}
	return valid
}

// HasCycle reports whether the dependency graph contains a directed cycle.
// Edges whose endpoints are unknown task ids are ignored.
func HasCycle(tasks []Task, deps []Dependency) bool {
	adjacency := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		adjacency[t.ID] = nil
	}
	for _, d := range deps {
		if _, ok := adjacency[d.From]; ok {
			adjacency[d.From] = append(adjacency[d.From], d.To)
		}
	}

	const (
		unvisited = iota
		inStack
		done
	)
	state := make(map[string]int, len(adjacency))

	var visit func(id string) bool
	visit = func(id string) bool {
		state[id] = inStack
		for _, next := range adjacency[id] {
			switch state[next] {
			case inStack:
				return true
			case unvisited:
				if _, ok := adjacency[next]; ok && visit(next) {
					return true
				}
			}
		}
		state[id] = done
		return false
	}

	for _, t := range tasks {
		if state[t.ID] == unvisited && visit(t.ID) {
			return true
		}
	}
	return false
}

package movement

import (
	"colonycraft.ai/internal/sim/world/kernel/model"
	"colonycraft.ai/internal/sim/world/logic/mathx"
)

func distXZ(a, b model.Vec3i) int {
	return mathx.AbsInt(a.X-b.X) + mathx.AbsInt(a.Z-b.Z)
}

// DetourStep searches the XZ plane at start.Y for a passable next step that
// gets closer to target within maxDepth steps. Neighbours are expanded in a
// fixed order so the result is deterministic.
//
// The returned step is always one of the 4-neighbours of start.
func DetourStep(start, target model.Vec3i, maxDepth int, isSolid func(model.Vec3i) bool) (model.Vec3i, bool) {
	if maxDepth <= 0 {
		return model.Vec3i{}, false
	}
	startDist := distXZ(start, target)

	type qItem struct {
		p     model.Vec3i
		depth int
		first model.Vec3i
	}
	dirs := []model.Vec3i{{X: 1}, {X: -1}, {Z: 1}, {Z: -1}}

	visited := make(map[model.Vec3i]bool, 256)
	visited[start] = true

	queue := make([]qItem, 0, 256)
	for _, d := range dirs {
		np := start.Add(d)
		if isSolid(np) {
			continue
		}
		visited[np] = true
		queue = append(queue, qItem{p: np, depth: 1, first: np})
	}

	bestDist := startDist
	bestDepth := 0
	bestFirst := model.Vec3i{}
	found := false

	better := func(dist, depth int, first model.Vec3i) bool {
		if !found {
			return true
		}
		if dist != bestDist {
			return dist < bestDist
		}
		if depth != bestDepth {
			return depth < bestDepth
		}
		if first.X != bestFirst.X {
			return first.X < bestFirst.X
		}
		return first.Z < bestFirst.Z
	}

	for head := 0; head < len(queue); head++ {
		it := queue[head]

		if d := distXZ(it.p, target); d < startDist && better(d, it.depth, it.first) {
			found = true
			bestDist = d
			bestDepth = it.depth
			bestFirst = it.first
		}

		if it.depth >= maxDepth {
			continue
		}
		for _, dir := range dirs {
			np := it.p.Add(dir)
			if visited[np] || isSolid(np) {
				continue
			}
			visited[np] = true
			queue = append(queue, qItem{p: np, depth: it.depth + 1, first: it.first})
		}
	}

	if !found {
		return model.Vec3i{}, false
	}
	return bestFirst, true
}

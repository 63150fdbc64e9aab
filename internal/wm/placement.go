// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/placement.go
// Summary: Smart window placement, per spec §4.9.

package wm

import (
	"math/rand"
	"sort"

	"texwm/internal/geometry"
)

// PlacementConfig carries the one tunable spec §4.9 names: the maximum
// number of occupying windows beyond which placement gives up on the
// grid search and places randomly.
type PlacementConfig struct {
	MaxConsidered int
}

// candidateSpace is one free rectangle the grid search produced, along
// with where R would sit inside it.
type candidateSpace struct {
	space geometry.Rect
	rPos  geometry.Rect
}

// Place implements spec §4.9: given the new client's frame size (encoded
// as R.W/R.H; R.X/R.Y are ignored and overwritten), the monitor's window
// area S, and the other non-minimized clients' frame rects occupying it,
// returns where to place R.
func Place(cfg PlacementConfig, r geometry.Rect, area geometry.Rect, others []geometry.Rect, rng *rand.Rand) geometry.Rect {
	if len(others) == 0 || len(others) >= cfg.MaxConsidered {
		return randomPlacement(r, area, rng)
	}

	xs, ys := gridEdges(area, others)
	freeCells := freeCellOrigins(xs, ys, others)
	if len(freeCells) == 0 {
		return randomPlacement(r, area, rng)
	}

	var candidates []candidateSpace
	for _, origin := range freeCells {
		for _, grow := range []func(origin geometry.Rect, area geometry.Rect, others []geometry.Rect, target geometry.Rect) geometry.Rect{
			growAlternating, growHorizontalFirst, growVerticalFirst,
		} {
			space := grow(origin, area, others, r)
			candidates = append(candidates, candidateSpace{
				space: space,
				rPos:  centerWithin(r, space, area),
			})
		}
	}
	if len(candidates) == 0 {
		return randomPlacement(r, area, rng)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].rPos.DistanceToCenter(area) < candidates[j].rPos.DistanceToCenter(area)
	})

	for _, cand := range candidates {
		if cand.space.W >= r.W && cand.space.H >= r.H {
			return cand.rPos
		}
	}

	// Nothing fits: take the candidate with the largest space, on the
	// theory that maximizing free area minimizes predicted overlap. Its
	// position is the center-nearest one computed above; placements are
	// not recomputed away from the center.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].space.Area() > candidates[j].space.Area()
	})
	return candidates[0].rPos
}

func randomPlacement(r, area geometry.Rect, rng *rand.Rand) geometry.Rect {
	maxX := int32(area.W) - int32(r.W)
	maxY := int32(area.H) - int32(r.H)
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	x := area.X
	y := area.Y
	if maxX > 0 {
		x += rng.Int31n(maxX + 1)
	}
	if maxY > 0 {
		y += rng.Int31n(maxY + 1)
	}
	return geometry.NewRect(x, y, r.W, r.H)
}

// gridEdges collects the distinct x and y edges of S and every frame in
// W, per spec §4.9 step 1.
func gridEdges(area geometry.Rect, others []geometry.Rect) (xs, ys []int32) {
	xSet := map[int32]bool{area.X: true, area.Right(): true}
	ySet := map[int32]bool{area.Y: true, area.Bottom(): true}
	for _, o := range others {
		xSet[o.X] = true
		xSet[o.Right()] = true
		ySet[o.Y] = true
		ySet[o.Bottom()] = true
	}
	xs = sortedKeys(xSet)
	ys = sortedKeys(ySet)
	return
}

func sortedKeys(set map[int32]bool) []int32 {
	out := make([]int32, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// freeCellOrigins returns the top-left corner of every grid cell not
// covered by any window in others.
func freeCellOrigins(xs, ys []int32, others []geometry.Rect) []geometry.Rect {
	var out []geometry.Rect
	for i := 0; i+1 < len(xs); i++ {
		for j := 0; j+1 < len(ys); j++ {
			cell := geometry.NewRect(xs[i], ys[j], uint32(xs[i+1]-xs[i]), uint32(ys[j+1]-ys[j]))
			if !coveredByAny(cell, others) {
				out = append(out, cell)
			}
		}
	}
	return out
}

func coveredByAny(cell geometry.Rect, others []geometry.Rect) bool {
	cx, cy := cell.Center()
	for _, o := range others {
		if o.Contains(cx, cy) {
			return true
		}
	}
	return false
}

// growAlternating grows origin one step at a time, alternating the axis
// chosen to keep the aspect ratio closest to target's.
func growAlternating(origin, area geometry.Rect, others []geometry.Rect, target geometry.Rect) geometry.Rect {
	const step = 8
	cur := origin
	for cur.W < target.W || cur.H < target.H {
		growW := tryGrow(cur, area, others, true, step)
		growH := tryGrow(cur, area, others, false, step)
		if !growW.isValid && !growH.isValid {
			break
		}
		if !growW.isValid {
			cur = growH.rect
			continue
		}
		if !growH.isValid {
			cur = growW.rect
			continue
		}
		ratioW := aspectDelta(growW.rect, target)
		ratioH := aspectDelta(growH.rect, target)
		if ratioW <= ratioH {
			cur = growW.rect
		} else {
			cur = growH.rect
		}
	}
	return cur
}

func growHorizontalFirst(origin, area geometry.Rect, others []geometry.Rect, target geometry.Rect) geometry.Rect {
	return growAxisThenAxis(origin, area, others, target, true)
}

func growVerticalFirst(origin, area geometry.Rect, others []geometry.Rect, target geometry.Rect) geometry.Rect {
	return growAxisThenAxis(origin, area, others, target, false)
}

func growAxisThenAxis(origin, area geometry.Rect, others []geometry.Rect, target geometry.Rect, horizontalFirst bool) geometry.Rect {
	const step = 8
	cur := origin
	for cur.W < target.W {
		g := tryGrow(cur, area, others, horizontalFirst, step)
		if !g.isValid {
			break
		}
		cur = g.rect
	}
	for cur.H < target.H {
		g := tryGrow(cur, area, others, !horizontalFirst, step)
		if !g.isValid {
			break
		}
		cur = g.rect
	}
	return cur
}

type growResult struct {
	rect    geometry.Rect
	isValid bool
}

// tryGrow extends rect by step along one axis (true=horizontal,
// false=vertical), failing if the result would exit area or overlap any
// window in others.
func tryGrow(rect, area geometry.Rect, others []geometry.Rect, horizontal bool, step int32) growResult {
	next := rect
	if horizontal {
		next.W += uint32(step)
	} else {
		next.H += uint32(step)
	}
	if !area.ContainsRect(next) {
		return growResult{}
	}
	for _, o := range others {
		if next.Intersects(o) {
			return growResult{}
		}
	}
	return growResult{rect: next, isValid: true}
}

func aspectDelta(r, target geometry.Rect) float64 {
	if target.H == 0 || r.H == 0 {
		return 0
	}
	targetRatio := float64(target.W) / float64(target.H)
	rRatio := float64(r.W) / float64(r.H)
	if targetRatio > rRatio {
		return targetRatio - rRatio
	}
	return rRatio - targetRatio
}

// centerWithin places target as close to area's center as possible while
// staying fully inside space.
func centerWithin(target, space, area geometry.Rect) geometry.Rect {
	w, h := target.W, target.H
	if w > space.W {
		w = space.W
	}
	if h > space.H {
		h = space.H
	}
	centered := target.CenteredIn(area)
	result := geometry.NewRect(centered.X, centered.Y, w, h)
	return result.ClampInto(space)
}

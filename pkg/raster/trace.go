package raster

import "fmt"

// ErrStepBudget is returned by Trace when the boundary walk fails to close
// within width*height steps. The partial polygon accumulated so far is
// returned alongside the error; callers are expected to log and keep it
// rather than fail the whole batch.
var ErrStepBudget = fmt.Errorf("raster: boundary trace step budget exceeded")

// Moore neighborhood in clockwise order for y-down pixel coordinates,
// starting East.
var mooreDirs = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// Trace extracts the outer boundary polygon of the first connected
// component found in a width*height binary mask. It locates a boundary
// pixel (set, with at least one unset 4-neighbor) in scan order, then
// follows the 8-connected boundary with a right-turn-biased Moore walk:
// each step resumes the neighbor search three positions back from the
// incoming direction. The walk stops when the start pixel is revisited or
// the step budget runs out. The returned polygon is a flat [x0,y0, ...]
// list of pixel coordinates; an all-zero mask yields an empty polygon.
func Trace(data []uint8, width, height int) ([]float64, error) {
	sx, sy, ok := findBoundaryPixel(data, nil, width, height)
	if !ok {
		return nil, nil
	}
	return traceFrom(data, width, height, sx, sy)
}

// traceFrom runs the Moore walk from a known boundary pixel.
func traceFrom(data []uint8, width, height, sx, sy int) ([]float64, error) {
	at := func(x, y int) bool {
		return x >= 0 && x < width && y >= 0 && y < height && data[y*width+x] != 0
	}

	var poly []float64
	cx, cy := sx, sy
	dir := 0
	budget := width * height
	for step := 0; ; step++ {
		if step > budget {
			return poly, ErrStepBudget
		}
		poly = append(poly, float64(cx), float64(cy))

		found := -1
		for i := 0; i < 8; i++ {
			d := (dir + 5 + i) % 8
			if at(cx+mooreDirs[d][0], cy+mooreDirs[d][1]) {
				found = d
				break
			}
		}
		if found < 0 {
			// Isolated pixel, nothing to walk.
			break
		}
		cx += mooreDirs[found][0]
		cy += mooreDirs[found][1]
		dir = found
		if cx == sx && cy == sy {
			break
		}
	}
	return poly, nil
}

// TraceAll extracts one boundary polygon per connected component. After
// each trace the whole component is flood-filled into a visited set so
// separate islands on a slice each contribute their own loop. Budget
// overruns keep their partial polygon and tracing continues with the next
// component; the last such error is returned for the caller to log.
func TraceAll(data []uint8, width, height int) ([][]float64, error) {
	visited := make([]uint8, width*height)
	var polys [][]float64
	var lastErr error

	for {
		sx, sy, ok := findBoundaryPixel(data, visited, width, height)
		if !ok {
			return polys, lastErr
		}
		poly, err := traceFrom(data, width, height, sx, sy)
		if err != nil {
			lastErr = err
		}
		if len(poly) > 0 {
			polys = append(polys, poly)
		}
		floodVisit(data, visited, width, height, sx, sy)
	}
}

// findBoundaryPixel scans row-major for a set pixel with at least one
// unset 4-neighbor, skipping visited components. Pixels on the mask edge
// count as boundary.
func findBoundaryPixel(data, visited []uint8, width, height int) (int, int, bool) {
	unset := func(x, y int) bool {
		return x < 0 || x >= width || y < 0 || y >= height || data[y*width+x] == 0
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if data[i] == 0 || (visited != nil && visited[i] != 0) {
				continue
			}
			if unset(x-1, y) || unset(x+1, y) || unset(x, y-1) || unset(x, y+1) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// floodVisit marks the 4-connected component containing (sx,sy) as visited.
func floodVisit(data, visited []uint8, width, height, sx, sy int) {
	stack := [][2]int{{sx, sy}}
	visited[sy*width+sx] = 1
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := p[0]+d[0], p[1]+d[1]
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			i := ny*width + nx
			if data[i] != 0 && visited[i] == 0 {
				visited[i] = 1
				stack = append(stack, [2]int{nx, ny})
			}
		}
	}
}

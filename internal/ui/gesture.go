package ui

// gestureKind is what a pointer update turned out to be
type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDragStart
	gestureDrag
	gestureDragEnd
	gestureClick
)

// gesture tells a click from a drag. A press that moves to another cell
// before release is a drag; one released where it started is a click.
type gesture struct {
	pressed  bool
	dragging bool
	startX   int
	startY   int
	lastX    int
	lastY    int
}

// update feeds one pointer report and returns what happened. For drags
// dx and dy are the cell movement since the previous report; for clicks
// x and y are where the press began.
func (g *gesture) update(x, y int, down bool) (kind gestureKind, dx, dy int) {
	switch {
	case down && !g.pressed:
		g.pressed = true
		g.dragging = false
		g.startX, g.startY = x, y
		g.lastX, g.lastY = x, y
		return gestureNone, 0, 0

	case down:
		if x == g.lastX && y == g.lastY {
			return gestureNone, 0, 0
		}
		dx, dy = x-g.lastX, y-g.lastY
		g.lastX, g.lastY = x, y
		if !g.dragging {
			g.dragging = true
			return gestureDragStart, dx, dy
		}
		return gestureDrag, dx, dy

	case g.pressed:
		g.pressed = false
		if g.dragging {
			g.dragging = false
			return gestureDragEnd, 0, 0
		}
		return gestureClick, 0, 0
	}

	return gestureNone, 0, 0
}

// origin returns where the current or last press began
func (g *gesture) origin() (int, int) {
	return g.startX, g.startY
}

// cancel forgets an unfinished press, reporting whether a drag was live
func (g *gesture) cancel() bool {
	wasDragging := g.dragging
	g.pressed = false
	g.dragging = false
	return wasDragging
}

package hover

// Point is a coordinate in viewport units (pixels or terminal cells)
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width and height in viewport units
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Defaults for a pixel-based view
var (
	DefaultCard   = Size{W: 288, H: 400}
	DefaultMargin = 10
)

// Position returns the top-left corner of a card of size card shown next to
// pointer inside viewport. The card goes right of the pointer, flips to the
// left when it would overflow the right edge, and is kept from running past
// the bottom or above the top.
func Position(pointer Point, card Size, viewport Size, margin int) Point {
	left := pointer.X + margin
	top := pointer.Y

	if left+card.W > viewport.W {
		left = pointer.X - card.W - margin
	}
	if top+card.H > viewport.H {
		top = max(viewport.H-card.H-margin, margin)
	}
	top = max(top, margin)

	return Point{X: left, Y: top}
}

package player

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andresmejia3/facewatch/internal/types"
)

// EditFields returns the left, top, right and bottom edges of box as text,
// the form an editor presents to the user.
func EditFields(box types.BoundingBox) (left, top, right, bottom string) {
	return strconv.Itoa(box.X), strconv.Itoa(box.Y), strconv.Itoa(box.X + box.W), strconv.Itoa(box.Y + box.H)
}

// ParseBoxEdit turns user supplied edges into a box. Non-integer text, or a
// right/bottom edge before the left/top edge, fails with ErrInvalidInput.
func ParseBoxEdit(left, top, right, bottom string) (types.BoundingBox, error) {
	var v [4]int
	for i, s := range []string{left, top, right, bottom} {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return types.BoundingBox{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, s)
		}
		v[i] = n
	}
	box := types.BoundingBox{X: v[0], Y: v[1], W: v[2] - v[0], H: v[3] - v[1]}
	if box.W < 0 || box.H < 0 {
		return types.BoundingBox{}, fmt.Errorf("%w: right/bottom must not be before left/top", ErrInvalidInput)
	}
	return box, nil
}

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/andresmejia3/facewatch/internal/player"
	"github.com/andresmejia3/facewatch/internal/types"
)

// promptEditor asks for a corrected bounding box on the terminal.
// Pressing enter on a field keeps its current value.
type promptEditor struct {
	r *bufio.Reader
	w io.Writer
}

func newPromptEditor(r io.Reader, w io.Writer) *promptEditor {
	return &promptEditor{r: bufio.NewReader(r), w: w}
}

func (e *promptEditor) Edit(current types.BoundingBox) (types.BoundingBox, bool, error) {
	fmt.Fprintf(e.w, "\n📦 Current bounding box: %s\n", current)
	if !confirm(e.r, e.w, "✏️  Edit bounding box?") {
		return types.BoundingBox{}, false, nil
	}

	left, top, right, bottom := player.EditFields(current)
	fields := []struct {
		label string
		value *string
	}{
		{"Left", &left},
		{"Top", &top},
		{"Right", &right},
		{"Bottom", &bottom},
	}
	for _, f := range fields {
		fmt.Fprintf(e.w, "   %s [%s]: ", f.label, *f.value)
		res, _ := e.r.ReadString('\n')
		if res = strings.TrimSpace(res); res != "" {
			*f.value = res
		}
	}

	box, err := player.ParseBoxEdit(left, top, right, bottom)
	if err != nil {
		return types.BoundingBox{}, false, err
	}
	fmt.Fprintf(e.w, "✅ Using bounding box %s\n", box)
	return box, true, nil
}

func confirm(r *bufio.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)
	res, _ := r.ReadString('\n')
	res = strings.TrimSpace(strings.ToLower(res))
	return res == "y" || res == "yes"
}

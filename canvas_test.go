package asciidag

import (
	"testing"

	"github.com/teleivo/assertive/assert"

	"github.com/dagview/asciidag/token"
)

func TestCanvasFromString(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantHeight int
		wantWidth  int
		wantRender string
	}{
		{
			name:       "skips leading newline",
			in:         "\n.\n|\n.\n",
			wantHeight: 3,
			wantWidth:  1,
			wantRender: ".\n|\n.",
		},
		{
			name:       "pads to widest line",
			in:         "ab\nc\n",
			wantHeight: 2,
			wantWidth:  2,
			wantRender: "ab\nc",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := CanvasFromString(test.in)

			assert.Equals(t, c.Height(), test.wantHeight, "Height()")
			assert.Equals(t, c.Width(), test.wantWidth, "Width()")
			assert.Equals(t, c.Render(), test.wantRender, "Render()")
		})
	}
}

func TestCanvasSetCollision(t *testing.T) {
	c := NewCanvas(1, 1, ' ')
	pos := token.Position{Line: 1, Column: 1}

	assert.True(t, c.Set(pos, '|'), "Set(pos, '|') on empty cell")
	assert.False(t, c.Set(pos, '/'), "Set(pos, '/') onto '|' should collide")
}

func TestCanvasSetAllowsXOverDiagonal(t *testing.T) {
	c := NewCanvas(1, 1, ' ')
	pos := token.Position{Line: 1, Column: 1}

	assert.True(t, c.Set(pos, '/'), "Set(pos, '/')")
	assert.True(t, c.Set(pos, 'X'), "Set(pos, 'X') over '/' should succeed")
	assert.Equals(t, c.Get(pos), 'X', "Get(pos) after crossing")
}

func TestCanvasGetOutOfBoundsIsSpace(t *testing.T) {
	c := NewCanvas(1, 1, ' ')

	assert.Equals(t, c.Get(token.Position{Line: 5, Column: 5}), ' ', "Get() out of bounds")
}

func TestCanvasSetOutOfBoundsFails(t *testing.T) {
	c := NewCanvas(1, 1, ' ')

	assert.False(t, c.Set(token.Position{Line: 5, Column: 5}, 'x'), "Set() out of bounds")
}

func TestCanvasRenderTrimsTrailingSpace(t *testing.T) {
	c := NewCanvas(1, 3, ' ')
	c.Set(token.Position{Line: 1, Column: 1}, 'a')

	assert.Equals(t, c.Render(), "a", "Render()")
}

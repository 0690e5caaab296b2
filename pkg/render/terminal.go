package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// Draw presents the buffer on a terminal screen. Each cell shows two
// vertically stacked pixels with the upper half block: the foreground is the
// top pixel and the background the bottom one. The buffer height should be
// 2x the number of rows in area.
func (b *Buffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= b.width {
				break
			}

			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: gray(b.At(x, topY)),
					Bg: gray(b.At(x, botY)),
				},
			})
		}
	}
}

package docverter

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cellPadding  = 6
	rowHeight    = 20
	glyphWidth   = 7 // basicfont.Face7x13 advance
	minCellWidth = 40
)

// rasterizeGrid draws a cell grid as a simple ruled table image. Scale is
// applied as a final resampling step so line weights stay consistent.
func rasterizeGrid(cells [][]string, scale float64) image.Image {
	numCols := 0
	for _, row := range cells {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	colWidths := make([]int, numCols)
	for i := range colWidths {
		colWidths[i] = minCellWidth
	}
	for _, row := range cells {
		for i, cell := range row {
			w := len([]rune(cell))*glyphWidth + 2*cellPadding
			if w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	width := 1
	for _, w := range colWidths {
		width += w + 1
	}
	height := len(cells)*(rowHeight+1) + 1

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	gridColor := color.RGBA{A: 0xff}

	// Horizontal rules
	for r := 0; r <= len(cells); r++ {
		y := r * (rowHeight + 1)
		for x := 0; x < width; x++ {
			img.Set(x, y, gridColor)
		}
	}
	// Vertical rules
	x := 0
	for c := 0; c <= numCols; c++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, gridColor)
		}
		if c < numCols {
			x += colWidths[c] + 1
		}
	}

	// Cell text
	face := basicfont.Face7x13
	for r, row := range cells {
		cx := 1
		for c := 0; c < numCols; c++ {
			if c < len(row) && row[c] != "" {
				d := font.Drawer{
					Dst:  img,
					Src:  image.NewUniform(gridColor),
					Face: face,
					Dot: fixed.P(
						cx+cellPadding,
						r*(rowHeight+1)+rowHeight-cellPadding,
					),
				}
				d.DrawString(row[c])
			}
			cx += colWidths[c] + 1
		}
	}

	if scale != 1.0 {
		return scaleImage(img, scale)
	}
	return img
}

// scaleImage resamples img by the given factor.
func scaleImage(img image.Image, scale float64) image.Image {
	b := img.Bounds()
	w := int(float64(b.Dx()) * scale)
	h := int(float64(b.Dy()) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

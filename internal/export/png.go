/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"telemetrystudio/internal/catalog"
	"telemetrystudio/internal/domain"
)

var (
	pngBackground = color.RGBA{24, 24, 28, 255}
	pngGrid       = color.RGBA{44, 44, 50, 255}
	pngWidget     = color.RGBA{120, 200, 255, 255}
	pngContainer  = color.RGBA{255, 190, 80, 255}
	pngHidden     = color.RGBA{90, 90, 96, 255}
	pngWarning    = color.RGBA{255, 105, 97, 255}
	pngLabel      = color.RGBA{230, 230, 235, 255}
)

// RenderPNG rasterizes the layout schematic into an RGBA image.
func RenderPNG(l *domain.Layout, cat *catalog.Catalog, opt Options) (*image.RGBA, error) {
	if l == nil {
		return nil, fmt.Errorf("nil layout")
	}
	scale := opt.Scale
	if scale <= 0 {
		scale = 1.0
	}
	pixW := int(math.Round(float64(l.Canvas.Width) * scale))
	pixH := int(math.Round(float64(l.Canvas.Height) * scale))
	if pixW <= 0 || pixH <= 0 {
		return nil, fmt.Errorf("degenerate canvas %dx%d", l.Canvas.Width, l.Canvas.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: pngBackground}, image.Point{}, draw.Src)

	if opt.DrawGrid && l.Canvas.GridEnabled && l.Canvas.GridSize > 0 {
		step := int(math.Round(float64(l.Canvas.GridSize) * scale))
		if step > 1 {
			for x := 0; x < pixW; x += step {
				for y := 0; y < pixH; y++ {
					img.SetRGBA(x, y, pngGrid)
				}
			}
			for y := 0; y < pixH; y += step {
				for x := 0; x < pixW; x++ {
					img.SetRGBA(x, y, pngGrid)
				}
			}
		}
	}

	for _, b := range flatten(l, cat) {
		col := pngWidget
		if b.container {
			col = pngContainer
		}
		if b.offCanvas {
			col = pngWarning
		}
		if b.hidden {
			col = pngHidden
		}
		x0 := int(math.Round(b.bounds.X * scale))
		y0 := int(math.Round(b.bounds.Y * scale))
		x1 := int(math.Round((b.bounds.X + b.bounds.W) * scale))
		y1 := int(math.Round((b.bounds.Y + b.bounds.H) * scale))
		strokeRect(img, x0, y0, x1-1, y1-1, col)

		if opt.DrawLabels && !b.hidden {
			drawLabel(img, x0+4, y0+14, b.label)
		}
	}
	return img, nil
}

// WritePNG renders the schematic and writes it to path.
func WritePNG(path string, l *domain.Layout, cat *catalog.Catalog, opt Options) error {
	img, err := RenderPNG(l, cat, opt)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// drawLabel renders text with the fixed 7x13 face: deterministic output with
// no font files to load.
func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: pngLabel},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// strokeRect draws a 1px axis-aligned rectangle border, clipped to the image.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

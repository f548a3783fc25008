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

	"github.com/jung-kurt/gofpdf"

	"telemetrystudio/internal/catalog"
	"telemetrystudio/internal/domain"
)

// WritePDF renders the layout schematic as a single-page PDF sized to the
// canvas (one PDF point per logical pixel).
func WritePDF(path string, l *domain.Layout, cat *catalog.Catalog, opt Options) error {
	if l == nil {
		return fmt.Errorf("nil layout")
	}
	w := float64(l.Canvas.Width)
	h := float64(l.Canvas.Height)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetTitle(l.Metadata.Name, true)
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})

	pdf.SetFillColor(24, 24, 28)
	pdf.Rect(0, 0, w, h, "F")

	if opt.DrawGrid && l.Canvas.GridEnabled && l.Canvas.GridSize > 0 {
		pdf.SetDrawColor(44, 44, 50)
		pdf.SetLineWidth(0.25)
		step := float64(l.Canvas.GridSize)
		for x := step; x < w; x += step {
			pdf.Line(x, 0, x, h)
		}
		for y := step; y < h; y += step {
			pdf.Line(0, y, w, y)
		}
	}

	pdf.SetFont("Courier", "", 10)
	pdf.SetLineWidth(1)
	for _, b := range flatten(l, cat) {
		switch {
		case b.hidden:
			pdf.SetDrawColor(90, 90, 96)
		case b.offCanvas:
			pdf.SetDrawColor(255, 105, 97)
		case b.container:
			pdf.SetDrawColor(255, 190, 80)
		default:
			pdf.SetDrawColor(120, 200, 255)
		}
		pdf.Rect(b.bounds.X, b.bounds.Y, b.bounds.W, b.bounds.H, "D")

		if opt.DrawLabels && !b.hidden {
			pdf.SetTextColor(230, 230, 235)
			pdf.Text(b.bounds.X+4, b.bounds.Y+14, b.label)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

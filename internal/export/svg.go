/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"

	"telemetrystudio/internal/catalog"
	"telemetrystudio/internal/domain"
)

// RenderSVG renders the layout schematic as an SVG document in logical canvas
// coordinates.
func RenderSVG(l *domain.Layout, cat *catalog.Catalog, opt Options) (string, error) {
	if l == nil {
		return "", fmt.Errorf("nil layout")
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		l.Canvas.Width, l.Canvas.Height, l.Canvas.Width, l.Canvas.Height)
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="#18181c"/>`+"\n", l.Canvas.Width, l.Canvas.Height)

	if opt.DrawGrid && l.Canvas.GridEnabled && l.Canvas.GridSize > 0 {
		step := l.Canvas.GridSize
		fmt.Fprintf(&buf, `  <g stroke="#2c2c32" stroke-width="1">`+"\n")
		for x := step; x < l.Canvas.Width; x += step {
			fmt.Fprintf(&buf, `    <line x1="%d" y1="0" x2="%d" y2="%d"/>`+"\n", x, x, l.Canvas.Height)
		}
		for y := step; y < l.Canvas.Height; y += step {
			fmt.Fprintf(&buf, `    <line x1="0" y1="%d" x2="%d" y2="%d"/>`+"\n", y, l.Canvas.Width, y)
		}
		fmt.Fprintf(&buf, `  </g>`+"\n")
	}

	for _, b := range flatten(l, cat) {
		stroke := "#78c8ff"
		if b.container {
			stroke = "#ffbe50"
		}
		if b.offCanvas {
			stroke = "#ff6961"
		}
		dash := ""
		if b.hidden {
			stroke = "#5a5a60"
			dash = ` stroke-dasharray="4 3"`
		}
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-width="1"%s/>`+"\n",
			trimFloat(b.bounds.X), trimFloat(b.bounds.Y), trimFloat(b.bounds.W), trimFloat(b.bounds.H), stroke, dash)
		if opt.DrawLabels && !b.hidden {
			var esc bytes.Buffer
			_ = xml.EscapeText(&esc, []byte(b.label))
			fmt.Fprintf(&buf, `  <text x="%s" y="%s" font-family="monospace" font-size="12" fill="#e6e6eb">%s</text>`+"\n",
				trimFloat(b.bounds.X+4), trimFloat(b.bounds.Y+14), esc.String())
		}
	}
	buf.WriteString("</svg>\n")
	return buf.String(), nil
}

// WriteSVG renders the schematic and writes it to path.
func WriteSVG(path string, l *domain.Layout, cat *catalog.Catalog, opt Options) error {
	content, err := RenderSVG(l, cat, opt)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = trimRight(s, '0')
	s = trimRight(s, '.')
	return s
}

func trimRight(s string, c byte) string {
	for len(s) > 0 && s[len(s)-1] == c {
		s = s[:len(s)-1]
	}
	return s
}

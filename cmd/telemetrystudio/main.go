/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"telemetrystudio/internal/catalog"
	"telemetrystudio/internal/config"
	"telemetrystudio/internal/crash"
	"telemetrystudio/internal/domain"
	"telemetrystudio/internal/export"
	"telemetrystudio/internal/geometry"
	applog "telemetrystudio/internal/log"
	"telemetrystudio/internal/storage"
	"telemetrystudio/internal/version"
	"telemetrystudio/internal/xmlconv"
)

func usage() {
	fmt.Println("Telemetry Studio — overlay layout tools")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  telemetrystudio version|-v|--version          Show version")
	fmt.Println("  telemetrystudio new <file> [name]             Create a new layout document")
	fmt.Println("  telemetrystudio info <file>                   Print a document summary")
	fmt.Println("  telemetrystudio validate <file>               Check widget types and bounds")
	fmt.Println("  telemetrystudio import-xml <in.xml> <out>     Convert an overlay XML into a document")
	fmt.Println("  telemetrystudio export-xml <file> <out.xml>   Convert a document into overlay XML")
	fmt.Println("  telemetrystudio export-png <file> <out.png>   Render a schematic preview as PNG")
	fmt.Println("  telemetrystudio export-svg <file> <out.svg>   Render a schematic preview as SVG")
	fmt.Println("  telemetrystudio export-pdf <file> <out.pdf>   Render a schematic preview as PDF")
	fmt.Println("  telemetrystudio templates <subcommand>        Manage the local template library:")
	fmt.Println("      list | search <query> | save <file> <name> [description] |")
	fmt.Println("      load <name> <out-file> | delete <name> | rename <old> <new> | reindex")
	fmt.Println("  telemetrystudio remote <subcommand>           Shared template library (TS_REMOTE_DSN):")
	fmt.Println("      list | push <name> | pull <name>")
}

func fail(l *slog.Logger, op string, err error) {
	l.Error(op+" failed", slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func needArgs(args []string, n int, hint string) {
	if len(args) < n {
		fmt.Println(hint)
		usage()
		os.Exit(2)
	}
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var doc *domain.Layout
	defer func() { crash.Recover(doc, os.TempDir()) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}

	cat := catalog.Builtin()

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Telemetry Studio — overlay layout tools")
		fmt.Println(version.String())

	case "new":
		needArgs(args, 3, "new requires <file>")
		name := strings.TrimSuffix(filepath.Base(args[2]), storage.DocumentExt)
		if len(args) > 3 {
			name = args[3]
		}
		doc = domain.NewLayout(name)
		if cfg, _, err := config.Load(); err == nil {
			doc.Canvas.Width = cfg.Editor.CanvasWidth
			doc.Canvas.Height = cfg.Editor.CanvasHeight
			doc.Canvas.GridSize = cfg.Editor.GridSize
			doc.Canvas.SnapToGrid = cfg.Editor.SnapToGrid
		}
		if err := storage.SaveDocument(args[2], doc); err != nil {
			fail(l, "new", err)
		}
		fmt.Println("Created layout at", args[2])

	case "info":
		needArgs(args, 3, "info requires <file>")
		doc = loadDoc(l, args[2])
		fmt.Printf("Layout: %s\n", doc.Metadata.Name)
		fmt.Printf("Canvas: %dx%d (grid %d, snap %v)\n", doc.Canvas.Width, doc.Canvas.Height, doc.Canvas.GridSize, doc.Canvas.SnapToGrid)
		fmt.Printf("Widgets: %d\n", len(doc.IDs()))

	case "validate":
		needArgs(args, 3, "validate requires <file>")
		doc = loadDoc(l, args[2])
		problems := 0
		doc.Walk(func(w, _ *domain.Widget) bool {
			if !cat.Has(w.Type) {
				fmt.Printf("unknown widget type %q (%s)\n", w.Type, w.ID)
				problems++
				return true
			}
			if geometry.OutOfBounds(geometry.ResolveBounds(w, cat), doc.Canvas) {
				fmt.Printf("widget %s (%s) extends outside the canvas\n", w.ID, w.Type)
				problems++
			}
			return true
		})
		if problems > 0 {
			fmt.Printf("%d problem(s) found\n", problems)
			os.Exit(1)
		}
		fmt.Println("Layout is valid.")

	case "import-xml":
		needArgs(args, 4, "import-xml requires <in.xml> and <out>")
		data, err := os.ReadFile(args[2])
		if err != nil {
			fail(l, "import-xml", err)
		}
		name := strings.TrimSuffix(filepath.Base(args[2]), filepath.Ext(args[2]))
		doc, err = xmlconv.XMLToLayout(string(data), name)
		if err != nil {
			fail(l, "import-xml", err)
		}
		if err := storage.SaveDocument(args[3], doc); err != nil {
			fail(l, "import-xml", err)
		}
		fmt.Printf("Imported %d widget(s) into %s\n", len(doc.IDs()), args[3])

	case "export-xml":
		needArgs(args, 4, "export-xml requires <file> and <out.xml>")
		doc = loadDoc(l, args[2])
		content, err := xmlconv.LayoutToXML(doc)
		if err != nil {
			fail(l, "export-xml", err)
		}
		if err := os.WriteFile(args[3], []byte(content), 0o644); err != nil {
			fail(l, "export-xml", err)
		}
		fmt.Println("Wrote overlay XML to", args[3])

	case "export-png", "export-svg", "export-pdf":
		needArgs(args, 4, args[1]+" requires <file> and <out>")
		doc = loadDoc(l, args[2])
		opt := export.Options{DrawGrid: true, DrawLabels: true}
		var err error
		switch args[1] {
		case "export-png":
			err = export.WritePNG(args[3], doc, cat, opt)
		case "export-svg":
			err = export.WriteSVG(args[3], doc, cat, opt)
		default:
			err = export.WritePDF(args[3], doc, cat, opt)
		}
		if err != nil {
			fail(l, args[1], err)
		}
		fmt.Println("Wrote schematic to", args[3])

	case "templates":
		needArgs(args, 3, "templates requires a subcommand")
		runTemplates(l, args[2:])

	case "remote":
		needArgs(args, 3, "remote requires a subcommand")
		runRemote(l, args[2:])

	default:
		usage()
		os.Exit(2)
	}
}

func loadDoc(l *slog.Logger, path string) *domain.Layout {
	doc, err := storage.LoadDocument(path)
	if err != nil {
		fail(l, "load document", err)
	}
	return doc
}

func openStore(l *slog.Logger) *storage.TemplateStore {
	cfg, _, err := config.Load()
	if err != nil {
		fail(l, "load config", err)
	}
	dir, err := config.TemplatesDir(cfg)
	if err != nil {
		fail(l, "resolve template dir", err)
	}
	store, err := storage.NewTemplateStore(dir)
	if err != nil {
		fail(l, "open template store", err)
	}
	return store
}

func runTemplates(l *slog.Logger, args []string) {
	store := openStore(l)
	ctx := context.Background()

	switch args[0] {
	case "list":
		infos, err := store.List()
		if err != nil {
			fail(l, "templates list", err)
		}
		printInfos(infos)

	case "search":
		needArgs(args, 2, "templates search requires <query>")
		db, err := storage.OpenIndex(store.Dir())
		if err != nil {
			fail(l, "templates search", err)
		}
		defer func() { _ = db.Close() }()
		if _, err := storage.RefreshIndex(ctx, db, store); err != nil {
			fail(l, "templates search", err)
		}
		infos, err := storage.SearchIndex(ctx, db, args[1])
		if err != nil {
			fail(l, "templates search", err)
		}
		printInfos(infos)

	case "save":
		needArgs(args, 3, "templates save requires <file> and <name>")
		doc := loadDoc(l, args[1])
		desc := ""
		if len(args) > 3 {
			desc = strings.Join(args[3:], " ")
		}
		path, err := store.Save(args[2], doc, desc)
		if err != nil {
			fail(l, "templates save", err)
		}
		fmt.Println("Saved template to", path)

	case "load":
		needArgs(args, 3, "templates load requires <name> and <out-file>")
		doc, err := store.Load(args[1])
		if err != nil {
			fail(l, "templates load", err)
		}
		if err := storage.SaveDocument(args[2], doc); err != nil {
			fail(l, "templates load", err)
		}
		fmt.Println("Wrote document to", args[2])

	case "delete":
		needArgs(args, 2, "templates delete requires <name>")
		ok, err := store.Delete(args[1])
		if err != nil {
			fail(l, "templates delete", err)
		}
		if !ok {
			fmt.Println("No such template:", args[1])
			os.Exit(1)
		}
		fmt.Println("Deleted template", args[1])

	case "rename":
		needArgs(args, 3, "templates rename requires <old> and <new>")
		if err := store.Rename(args[1], args[2]); err != nil {
			fail(l, "templates rename", err)
		}
		fmt.Printf("Renamed %s to %s\n", args[1], args[2])

	case "reindex":
		db, err := storage.OpenIndex(store.Dir())
		if err != nil {
			fail(l, "templates reindex", err)
		}
		defer func() { _ = db.Close() }()
		n, err := storage.RefreshIndex(ctx, db, store)
		if err != nil {
			fail(l, "templates reindex", err)
		}
		fmt.Printf("Indexed %d template(s)\n", n)

	default:
		usage()
		os.Exit(2)
	}
}

func runRemote(l *slog.Logger, args []string) {
	_, dsn, err := config.Load()
	if err != nil {
		fail(l, "load config", err)
	}
	if dsn == "" {
		fmt.Println("No remote DSN configured. Set " + config.EnvRemoteDSN + " or store one in the keyring.")
		os.Exit(2)
	}
	ctx := context.Background()
	remote, err := storage.OpenRemote(ctx, dsn)
	if err != nil {
		fail(l, "open remote library", err)
	}
	defer func() { _ = remote.Close() }()

	switch args[0] {
	case "list":
		infos, err := remote.List(ctx)
		if err != nil {
			fail(l, "remote list", err)
		}
		printInfos(infos)

	case "push":
		needArgs(args, 2, "remote push requires <name>")
		store := openStore(l)
		doc, err := store.Load(args[1])
		if err != nil {
			fail(l, "remote push", err)
		}
		if err := remote.Push(ctx, args[1], doc, ""); err != nil {
			fail(l, "remote push", err)
		}
		fmt.Println("Pushed template", args[1])

	case "pull":
		needArgs(args, 2, "remote pull requires <name>")
		doc, err := remote.Pull(ctx, args[1])
		if err != nil {
			fail(l, "remote pull", err)
		}
		store := openStore(l)
		path, err := store.Save(args[1], doc, "")
		if err != nil {
			fail(l, "remote pull", err)
		}
		fmt.Println("Pulled template to", path)

	default:
		usage()
		os.Exit(2)
	}
}

func printInfos(infos []storage.TemplateInfo) {
	if len(infos) == 0 {
		fmt.Println("No templates.")
		return
	}
	for _, info := range infos {
		line := info.Name
		if info.CanvasWidth > 0 && info.CanvasHeight > 0 {
			line += fmt.Sprintf("  (%dx%d)", info.CanvasWidth, info.CanvasHeight)
		}
		if info.Description != "" {
			line += "  — " + info.Description
		}
		fmt.Println(line)
	}
}

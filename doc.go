// Package mdpreview renders Markdown documents to preview HTML with
// editor-oriented extras: source-line mapping for scroll sync, front
// matter, file imports, embedded expressions, diagrams and math.
//
// # Quick Start
//
// Create an engine once and render per document:
//
//	engine := mdpreview.NewEngine()
//
//	result, err := engine.Render(ctx, mdpreview.Input{
//	    SourcePath: "notes/readme.md",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("preview.html", []byte(result.HTML), 0644)
//
// The result carries the rendered fragment (result.HTML), the outline
// (result.TOCHTML), the decoded front matter with key order preserved,
// and warnings for every construct that degraded instead of failing.
//
// # Rendering Pipeline
//
// Each render runs these stages in order:
//
//  1. Front-matter extraction (line offset for data-line mapping)
//  2. @import expansion (recursive, cycle-guarded)
//  3. Embedded-expression processing (exports, tag blocks, {...} spans)
//  4. Markdown to HTML via Goldmark (GFM, wiki links, fence dispatch)
//  5. HTML post-processing ([TOC], callouts, math, highlighting, images)
//
// The table of contents is generated from the same expanded source in
// parallel with stage 4; both passes share one slug function, so outline
// anchors always match rendered heading ids.
//
// # Configuration
//
// Use functional options to customize the engine:
//
//	engine := mdpreview.NewEngine(
//	    mdpreview.WithMathMode(mdpreview.MathMathJax),
//	    mdpreview.WithFrontMatterRendering(mdpreview.FrontMatterTable),
//	    mdpreview.WithImageInlining(),
//	)
//
// One Engine is safe for concurrent renders; hosts that preview many
// open files typically keep one engine per configuration snapshot.
//
// # Error Handling
//
// A malformed construct never aborts the document. Broken imports,
// failing expressions and undecodable front matter render as inline
// markers at the point of failure and append to result.Warnings. Only
// unreadable input files and parser-level failures return Go errors.
package mdpreview

package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all parsed command-line flags.
type cliFlags struct {
	out     string
	tocOut  string
	config  string
	math    string
	matter  string
	style   string
	wikiExt string
	kroki   string

	noEmoji      bool
	noExpr       bool
	noHighlight  bool
	lineNumbers  bool
	inlineImages bool
	maxDepth     int

	quiet   bool
	version bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("mdpreview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: mdpreview [flags] input.md\n\nRender a markdown document to preview HTML.\n\nFlags:\n%s", fs.FlagUsages())
	}

	fs.StringVarP(&f.out, "out", "o", "", "write HTML to file instead of stdout")
	fs.StringVar(&f.tocOut, "toc", "", "write the outline HTML to file")
	fs.StringVarP(&f.config, "config", "c", "", "YAML config file")
	fs.StringVar(&f.math, "math", "", "math mode: katex, mathjax, none")
	fs.StringVar(&f.matter, "front-matter", "", "front-matter rendering: none, table, code")
	fs.StringVar(&f.style, "style", "", "chroma highlight style name")
	fs.StringVar(&f.wikiExt, "wiki-ext", "", "extension appended to wiki-link targets")
	fs.StringVar(&f.kroki, "kroki-server", "", "kroki rendering service base URL")
	fs.BoolVar(&f.noEmoji, "no-emoji", false, "disable :shortcode: emoji")
	fs.BoolVar(&f.noExpr, "no-expressions", false, "disable embedded expressions")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable syntax highlighting")
	fs.BoolVar(&f.lineNumbers, "line-numbers", false, "number highlighted code lines")
	fs.BoolVar(&f.inlineImages, "inline-images", false, "embed local images as data URIs")
	fs.IntVar(&f.maxDepth, "max-import-depth", 0, "limit @import recursion depth")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "suppress warnings on stderr")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadFlags, err)
	}
	return f, fs.Args(), nil
}

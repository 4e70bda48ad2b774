package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	mdpreview "github.com/alnah/go-mdpreview"
)

var (
	ErrBadFlags    = errors.New("invalid flags")
	ErrNoInputFile = errors.New("exactly one input file is required")
	ErrBadMode     = errors.New("invalid mode")
	ErrWriteOutput = errors.New("failed to write output")
)

func run(args []string, stdout, stderr io.Writer) error {
	flags, rest, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if flags.version {
		fmt.Fprintf(stdout, "mdpreview %s\n", Version)
		return nil
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w (got %d)", ErrNoInputFile, len(rest))
	}

	cfg := &Config{}
	if flags.config != "" {
		cfg, err = loadConfig(flags.config)
		if err != nil {
			return err
		}
	}
	cfg.merge(flags)

	opts, err := engineOptions(cfg)
	if err != nil {
		return err
	}

	engine := mdpreview.NewEngine(opts...)
	result, err := engine.Render(context.Background(), mdpreview.Input{SourcePath: rest[0]})
	if err != nil {
		return err
	}

	if !flags.quiet {
		for _, w := range result.Warnings {
			fmt.Fprintf(stderr, "warning [%s]: %s\n", w.Stage, w.Message)
		}
	}

	if err := writeOut(flags.out, result.HTML, stdout); err != nil {
		return err
	}
	if flags.tocOut != "" {
		if err := writeOut(flags.tocOut, result.TOCHTML, nil); err != nil {
			return err
		}
	}
	return nil
}

// engineOptions translates the merged config into engine options,
// validating mode names up front so bad values fail before rendering.
func engineOptions(cfg *Config) ([]mdpreview.Option, error) {
	var opts []mdpreview.Option

	switch cfg.Math {
	case "":
	case mdpreview.MathKatex, mdpreview.MathMathJax, mdpreview.MathNone:
		opts = append(opts, mdpreview.WithMathMode(cfg.Math))
	default:
		return nil, fmt.Errorf("%w: math mode %q", ErrBadMode, cfg.Math)
	}

	switch cfg.FrontMatter {
	case "":
	case mdpreview.FrontMatterNone, mdpreview.FrontMatterTable, mdpreview.FrontMatterCode:
		opts = append(opts, mdpreview.WithFrontMatterRendering(cfg.FrontMatter))
	default:
		return nil, fmt.Errorf("%w: front-matter mode %q", ErrBadMode, cfg.FrontMatter)
	}

	if cfg.Style != "" {
		opts = append(opts, mdpreview.WithHighlightStyle(cfg.Style))
	}
	if cfg.KrokiServer != "" {
		opts = append(opts, mdpreview.WithKrokiServer(cfg.KrokiServer))
	}
	if cfg.LineNumbers {
		opts = append(opts, mdpreview.WithLineNumbers())
	}
	if cfg.InlineImages {
		opts = append(opts, mdpreview.WithImageInlining())
	}
	if cfg.Emoji != nil && !*cfg.Emoji {
		opts = append(opts, mdpreview.WithoutEmoji())
	}
	if cfg.Expressions != nil && !*cfg.Expressions {
		opts = append(opts, mdpreview.WithoutExpressions())
	}
	if cfg.Highlight != nil && !*cfg.Highlight {
		opts = append(opts, mdpreview.WithoutHighlighting())
	}
	if cfg.MaxDepth > 0 {
		opts = append(opts, mdpreview.WithMaxImportDepth(cfg.MaxDepth))
	}

	wiki := mdpreview.WikiLinkOptions{Enabled: true, Extension: ".md", CaseTransform: mdpreview.CaseNone}
	changed := false
	if cfg.Wiki.Enabled != nil {
		wiki.Enabled = *cfg.Wiki.Enabled
		changed = true
	}
	if cfg.Wiki.Extension != "" {
		wiki.Extension = cfg.Wiki.Extension
		changed = true
	}
	if cfg.Wiki.SwapPair {
		wiki.SwapPair = true
		changed = true
	}
	if cfg.Wiki.Case != "" {
		wiki.CaseTransform = cfg.Wiki.Case
		changed = true
	}
	if changed {
		opts = append(opts, mdpreview.WithWikiLinks(wiki))
	}

	return opts, nil
}

// writeOut writes content to path, or to fallback when path is empty.
func writeOut(path, content string, fallback io.Writer) error {
	if path == "" {
		if fallback == nil {
			return nil
		}
		_, err := io.WriteString(fallback, content)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

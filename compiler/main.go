package main

import (
	"bytes"
	"context"
	"cpq/compiler/internal"
	"errors"
	"flag"
	"fmt"
	"golang.org/x/sync/errgroup"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// cpq compiles CPL source files (.ou) to quad code (.qud).

var (
	output    = flag.String("o", "", "the saved path, only valid with a single source file")
	verbose   = flag.Bool("v", false, "whether print compile progress and the generated code")
	tokens    = flag.Bool("tokens", false, "print the token stream of each source file and exit")
	signature = flag.String("signature", "CPL to Quad compiler", "the trailer line of every generated file")
)

const sourceExt, quadExt = ".ou", ".qud"

type options struct {
	output    string
	verbose   bool
	tokens    bool
	signature string
	// prefix diagnostics with the source path, set when compiling several files.
	showPath bool
}

func main() {
	flag.Parse()
	opts := options{output: *output, verbose: *verbose, tokens: *tokens, signature: *signature}
	os.Exit(run(context.Background(), flag.Args(), opts, os.Stdout, os.Stderr))
}

// result is what compiling one source file prints.
type result struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
	failed bool
}

func (r *result) logf(format string, args ...interface{}) {
	fmt.Fprintf(&r.stderr, "[cpq]: "+format+"\n", args...)
}

// report writes one "line <N>: <message>" diagnostic, after the path when several files are
// compiled.
func (r *result) report(path string, opts options, diagnostic string) {
	if opts.showPath {
		fmt.Fprintf(&r.stderr, "%s: ", path)
	}
	fmt.Fprintln(&r.stderr, diagnostic)
	r.failed = true
}

func (r *result) flush(stdout, stderr io.Writer) error {
	if _, err := io.Copy(stdout, &r.stdout); err != nil {
		return err
	}
	_, err := io.Copy(stderr, &r.stderr)
	return err
}

// run compiles every path and returns the exit code. Files are compiled concurrently, their
// messages are printed in argument order once all of them finished.
func run(ctx context.Context, paths []string, opts options, stdout, stderr io.Writer) int {
	if len(paths) == 0 {
		fmt.Fprintf(stderr, "usage: cpq [-o output] [-v] [-tokens] [-signature text] file%s...\n", sourceExt)
		return 2
	}
	if opts.output != "" && len(paths) > 1 {
		fmt.Fprintln(stderr, "[cpq]: -o can only be used with a single source file")
		return 2
	}
	opts.showPath = len(paths) > 1
	results := make([]*result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		results[i] = &result{}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return process(path, opts, results[i])
		})
	}
	err := g.Wait()
	code := 0
	for _, r := range results {
		if r.failed {
			code = 1
		}
		if flushErr := r.flush(stdout, stderr); flushErr != nil {
			fmt.Fprintf(stderr, "[cpq]: failed to write messages, err: %v\n", flushErr)
			code = 1
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "[cpq]: %v\n", err)
		code = 1
	}
	return code
}

// process handles one source file. Compile errors are reported into r, only an I/O failure is
// returned and stops the remaining files.
func process(path string, opts options, r *result) error {
	if !isCPLFile(path) {
		fmt.Fprintf(&r.stderr, "%s: not a %s file\n", path, sourceExt)
		r.failed = true
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		r.failed = true
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if opts.tokens {
		dumpTokens(path, string(content), opts, r)
		return nil
	}
	return compileFile(path, string(content), opts, r)
}

func dumpTokens(path string, source string, opts options, r *result) {
	stream, records := internal.TokenStream(source)
	for _, token := range stream {
		fmt.Fprintln(&r.stdout, token.String())
	}
	for _, record := range records {
		r.report(path, opts, record.String())
	}
}

func compileFile(path string, source string, opts options, r *result) error {
	if opts.verbose {
		r.logf("compiling %s", path)
	}
	code, err := internal.Compile(source)
	if err != nil {
		var compileErr *internal.CompileError
		if !errors.As(err, &compileErr) {
			r.report(path, opts, err.Error())
			return nil
		}
		for _, msg := range compileErr.Diagnostics() {
			r.report(path, opts, msg)
		}
		if opts.verbose {
			r.logf("%s: %d error(s), no output written", path, len(compileErr.Diagnostics()))
		}
		return nil
	}
	if opts.verbose {
		fmt.Fprint(&r.stdout, code)
	}
	target := opts.output
	if target == "" {
		target = outputPathFor(path)
	}
	if err := os.WriteFile(target, []byte(code+opts.signature+"\n"), 0644); err != nil {
		r.failed = true
		return fmt.Errorf("failed to save to path: %s, err: %w", target, err)
	}
	if opts.verbose {
		r.logf("saved %s", target)
	}
	return nil
}

func isCPLFile(path string) bool {
	return filepath.Ext(path) == sourceExt
}

// outputPathFor replaces the source extension with the quad one.
func outputPathFor(path string) string {
	return strings.TrimSuffix(path, sourceExt) + quadExt
}

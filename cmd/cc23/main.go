// Command cc23 drives the lex -> parse -> resolve -> build pipeline over a
// single C23 source file and writes whichever stage dumps were requested.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cc23/cc23/internal/ast"
	"github.com/cc23/cc23/internal/config"
	"github.com/cc23/cc23/internal/ctype"
	"github.com/cc23/cc23/internal/ir"
	"github.com/cc23/cc23/internal/lexer"
	"github.com/cc23/cc23/internal/parser"
	"github.com/cc23/cc23/internal/resolve"
	"github.com/cc23/cc23/internal/token"
	"github.com/cc23/cc23/internal/tu"
)

// fallbackSource is compiled when no source file argument is given, so
// the driver always has something to run the pipeline over.
const fallbackSource = `int main(void) {
	int x = 1;
	int y = x + 2;
	return y;
}
`

type flags struct {
	dumpTokens   string
	dumpAST      string
	dumpTypes    string
	dumpIR       string
	abortOnError bool
	configPath   string
}

func main() {
	os.Exit(run())
}

func run() int {
	var f flags
	root := &cobra.Command{
		Use:   "cc23 [source-file]",
		Short: "a front- and middle-end for a large subset of C23",
		Args:  cobra.MaximumNArgs(1),
	}
	exitCode := 0
	root.RunE = func(cmd *cobra.Command, args []string) error {
		exitCode = compile(args, f)
		return nil
	}
	root.Flags().StringVar(&f.dumpTokens, "dump-tokens", "", "write the token dump to this path, '-' for stdout")
	root.Flags().StringVar(&f.dumpAST, "dump-ast", "", "write the AST dump to this path, '-' for stdout")
	root.Flags().StringVar(&f.dumpTypes, "dump-types", "", "write the type table dump to this path, '-' for stdout")
	root.Flags().StringVar(&f.dumpIR, "dump-ir", "", "write the SSA IR dump to this path, '-' for stdout")
	root.Flags().BoolVar(&f.abortOnError, "abort-on-error", false, "terminate on the first diagnostic instead of accumulating")
	root.Flags().StringVar(&f.configPath, "config", "", "path to a YAML configuration file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// compile runs one full pipeline pass and returns the process exit code,
// per specification §7: 0 on success, 1 on the first fatal error or on an
// accumulated-errors gate at the end of any phase.
func compile(args []string, f flags) int {
	name, src, err := sourceOf(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg := config.Default()
	if f.configPath != "" {
		cfg, err = config.Load(f.configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if f.dumpTokens == "" {
		f.dumpTokens = cfg.DumpPaths.Tokens
	}
	if f.dumpAST == "" {
		f.dumpAST = cfg.DumpPaths.AST
	}
	if f.dumpTypes == "" {
		f.dumpTypes = cfg.DumpPaths.Types
	}
	if f.dumpIR == "" {
		f.dumpIR = cfg.DumpPaths.IR
	}

	unit := tu.New(name, src)
	unit.SetAbort(f.abortOnError)
	cfg.Apply(unit.Types)

	lx := lexer.New(src, name, unit.Bag)
	unit.Tokens = lx.Lex()
	if err := unit.Bag.Gate(); err != nil {
		return 1
	}

	p := parser.New(unit.Tokens, unit.Bag)
	unit.Root = p.Parse()
	if err := unit.Bag.Gate(); err != nil {
		return 1
	}

	r := resolve.New(unit.Types, unit.Scopes, unit.Bag, unit.Intern)
	r.Resolve(unit.Root)
	unit.NodeType = r.NodeType
	unit.NodeScope = r.NodeScope
	if err := unit.Bag.Gate(); err != nil {
		return 1
	}

	bind := ir.Bindings{NodeType: unit.NodeType, NodeScope: unit.NodeScope}
	unit.Funcs = ir.Build(unit.Root, unit.Types, unit.Scopes, bind, unit.Bag)
	if err := unit.Bag.Gate(); err != nil {
		return 1
	}

	if err := runDumps(unit, f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func sourceOf(args []string) (name string, src []byte, err error) {
	if len(args) == 0 {
		return "<builtin>", []byte(fallbackSource), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", nil, fmt.Errorf("cc23: %w", err)
	}
	return args[0], data, nil
}

// runDumps fans the four side-output dumps out concurrently: each stage's
// table was already fully built by the time compile reaches here, so the
// dumps have no shared mutable state to race on and can run in parallel
// via errgroup, the one legitimate concurrency seam in the driver.
func runDumps(unit *tu.TU, f flags) error {
	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error { return dumpTo(f.dumpTokens, func(w *os.File) error { token.Dump(w, unit.Tokens); return nil }) })
	g.Go(func() error { return dumpTo(f.dumpAST, func(w *os.File) error { ast.Fdump(w, unit.Root); return nil }) })
	g.Go(func() error {
		return dumpTo(f.dumpTypes, func(w *os.File) error {
			for i := 1; i < unit.Types.Len(); i++ {
				ctype.Fdump(w, unit.Types, ctype.Index(i))
			}
			return nil
		})
	})
	g.Go(func() error {
		return dumpTo(f.dumpIR, func(w *os.File) error {
			for _, fn := range unit.Funcs {
				ir.Fdump(w, unit.Scopes, fn)
			}
			return nil
		})
	})
	return g.Wait()
}

func dumpTo(path string, write func(*os.File) error) error {
	if path == "" {
		return nil
	}
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cc23: %w", err)
	}
	defer f.Close()
	return write(f)
}

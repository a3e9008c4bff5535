package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp"
	"github.com/mattn/go-isatty"

	"github.com/tinybas/tinybas/evaluator"
	"github.com/tinybas/tinybas/lexer"
	"github.com/tinybas/tinybas/parser"
	"github.com/tinybas/tinybas/runserv"
	"github.com/tinybas/tinybas/terminal"
)

// Option holds the command line flags
type Option struct {
	Execute string `short:"e" long:"execute" description:"run the program source given on the command line" value-name:"SOURCE"`
	Tokens  bool   `long:"tokens" description:"dump the token sequence instead of running"`
	AST     bool   `long:"ast" description:"dump the parsed program instead of running"`
	JSON    bool   `long:"json" description:"dump as JSON rather than pretty print"`
	Listen  string `short:"l" long:"listen" description:"serve programs over HTTP on this address" value-name:"ADDR"`
	Dir     string `long:"programs" description:"directory served by --listen" default:"."`

	Args struct {
		File string `positional-arg-name:"FILE"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opt Option

	fp := flags.NewParser(&opt, flags.Default)
	rest, err := fp.ParseArgs(args)
	if err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		return 1
	}
	if len(rest) > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %v\n", rest)
		return 1
	}

	if opt.Listen != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := runserv.NewServer(opt.Dir).ListenAndServe(ctx, opt.Listen); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	source, ok := loadSource(&opt)
	if !ok {
		return 1
	}

	tokens, err := lexer.Scan(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if opt.Tokens {
		return dump(tokens, opt.JSON)
	}

	prog, err := parser.New(tokens).ParseProgram()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if opt.AST {
		return dump(prog, opt.JSON)
	}

	m, err := evaluator.New(prog, terminal.New(os.Stdout))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := m.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}

// loadSource picks between -e and a source file, exactly one of the
// two must be given
func loadSource(opt *Option) (string, bool) {
	if opt.Execute != "" && opt.Args.File != "" {
		fmt.Fprintln(os.Stderr, "give either -e or a file, not both")
		return "", false
	}

	if opt.Execute != "" {
		return opt.Execute, true
	}

	if opt.Args.File == "" {
		fmt.Fprintln(os.Stderr, "nothing to run, give -e or a file")
		return "", false
	}

	buf, err := os.ReadFile(opt.Args.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return "", false
	}

	return string(buf), true
}

// dump pretty prints v, or as JSON when asked, colored on a tty
func dump(v interface{}, asJSON bool) int {
	if !asJSON {
		pp.Println(v)
		return 0
	}

	if err := dumpJSON(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}

func dumpJSON(v interface{}) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		opts = append(opts, json.Colorize(json.DefaultColorScheme))
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return err
	}

	fmt.Println(string(b))

	return nil
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/config"
	"github.com/zephyrtronium/calc/internal/logger"
)

// errFailed reports that at least one expression failed. Each failure has
// already been printed.
var errFailed = errors.New("some expressions failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "calc:", err)
		}
		os.Exit(1)
	}
}

type options struct {
	cfgFile  string
	logLevel string
	in       string
	verb     string
	lines    bool
	echo     bool
	json     bool
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "calc [flags] [expr...]",
		Short: "Evaluate arithmetic expressions",
		Long: `calc evaluates infix expressions over numbers, + - * / ^ and parentheses.
Each argument is an expression. With no arguments, calc reads one expression
from standard input, or one per line with -n.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&o.cfgFile, "config", "", "YAML configuration file")
	pf.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&o.verb, "fmt", "", `result formatting verb (default "%g")`)
	pf.BoolVar(&o.echo, "echo", false, "print each compiled postfix program before its result")
	pf.BoolVar(&o.json, "json", false, "print one JSON object per expression")
	f := cmd.Flags()
	f.StringVar(&o.in, "in", "", `input file, or "-" for stdin (default stdin if no args given)`)
	f.BoolVarP(&o.lines, "lines", "n", false, "treat separate input lines as separate expressions")

	cmd.AddCommand(newRPNCmd(&o), newServeCmd(&o))
	return cmd
}

// setup loads the configuration, applies flag overrides, and creates the
// logger. The caller must call the returned close function when done logging.
func (o *options) setup() (*config.Config, *zap.Logger, func(), error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if o.verb != "" {
		cfg.Format = o.verb
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	log, closeLog, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, closeLog, nil
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	cfg, log, closeLog, err := o.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	exprs := append([]string(nil), args...)
	if o.in != "" || len(args) == 0 {
		more, err := o.readInput(cmd)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		exprs = append(more, exprs...)
	}

	p := printer{w: cmd.OutOrStdout(), verb: cfg.Format, echo: o.echo, json: o.json}
	failed := false
	for _, src := range exprs {
		prog, err := calc.CompileString(src)
		var r float64
		if err == nil {
			log.Debug("compiled", zap.String("expr", src), zap.Stringer("postfix", prog))
			r, err = prog.Eval()
		}
		if err != nil {
			log.Warn("evaluation failed", zap.String("expr", src), zap.Error(err))
			failed = true
		}
		if err := p.print(src, prog, r, err); err != nil {
			return err
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

func (o *options) readInput(cmd *cobra.Command) ([]string, error) {
	if o.in == "" || o.in == "-" {
		return readExprs(cmd.InOrStdin(), o.lines)
	}
	f, err := os.Open(o.in)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readExprs(f, o.lines)
}

// readExprs reads either the whole input as one expression or each non-blank
// line as its own.
func readExprs(in io.Reader, lines bool) ([]string, error) {
	if !lines {
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, err
		}
		return []string{string(b)}, nil
	}
	var exprs []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		exprs = append(exprs, sc.Text())
	}
	return exprs, sc.Err()
}

// printer writes results in the selected format.
type printer struct {
	w    io.Writer
	verb string
	echo bool
	json bool
}

type jsonResult struct {
	Expr    string   `json:"expr"`
	Postfix string   `json:"postfix,omitempty"`
	Result  *float64 `json:"result,omitempty"`
	Text    string   `json:"text,omitempty"`
	Error   string   `json:"error,omitempty"`
	Pos     int      `json:"pos,omitempty"`
}

func (p *printer) print(src string, prog *calc.Program, r float64, err error) error {
	if p.json {
		return p.printJSON(src, prog, r, err)
	}
	if p.echo && prog != nil {
		if _, err := fmt.Fprintf(p.w, "%v : ", prog); err != nil {
			return err
		}
	}
	if err != nil {
		_, err = fmt.Fprintln(p.w, err)
		return err
	}
	_, err = fmt.Fprintf(p.w, p.verb+"\n", r)
	return err
}

func (p *printer) printJSON(src string, prog *calc.Program, r float64, err error) error {
	res := jsonResult{Expr: strings.TrimSpace(src)}
	if prog != nil {
		res.Postfix = prog.String()
	}
	if err != nil {
		res.Error = err.Error()
		var ie calc.InputError
		if errors.As(err, &ie) {
			res.Pos = ie.Pos()
		}
	} else {
		// JSON has no infinities or NaN, so the formatted text is always
		// included.
		res.Text = fmt.Sprintf(p.verb, r)
		if !isNonFinite(r) {
			res.Result = &r
		}
	}
	b, err := sonic.Marshal(res)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = p.w.Write(b)
	return err
}

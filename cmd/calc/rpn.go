package main

import (
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calc"
)

func newRPNCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rpn program...",
		Short: "Evaluate postfix programs such as \"3 4 2 * +\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, closeLog, err := o.setup()
			if err != nil {
				return err
			}
			defer closeLog()
			p := printer{w: cmd.OutOrStdout(), verb: cfg.Format, echo: o.echo, json: o.json}
			failed := false
			for _, src := range args {
				prog, err := calc.ParseProgram(src)
				var r float64
				if err == nil {
					r, err = prog.Eval()
				}
				if err != nil {
					log.Warn("program failed", zap.String("program", src), zap.Error(err))
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
		},
	}
}

func isNonFinite(r float64) bool {
	return math.IsNaN(r) || math.IsInf(r, 0)
}

package calc_test

import (
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzCompile(f *testing.F) {
	f.Add("1+2")
	f.Add("92 + 5 + 5 * 27 - (92 - 12) / 4 + 26")
	f.Add("()")
	f.Fuzz(func(t *testing.T, s string) {
		p, err := calc.CompileString(s)
		if err != nil {
			return
		}
		// Every compiled program must survive a trip through its text form.
		q, err := calc.ParseProgram(p.String())
		if err != nil {
			t.Fatalf("%q compiled to %q, which does not parse: %v", s, p, err)
		}
		if q.String() != p.String() {
			t.Errorf("%q: program text changed from %q to %q", s, p, q)
		}
	})
}

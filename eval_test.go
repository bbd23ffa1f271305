package calc_test

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/zephyrtronium/calc"
)

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"num", "1", 1},
		{"decimal", "2.25", 2.25},
		{"paren", "(((4)))", 4},
		{"add", "4+5+6", 4 + 5 + 6},
		{"sub", "8-3-2", 3},
		{"mul", "4*5*6", 4 * 5 * 6},
		{"div", "8/4/2", 1},
		{"div-frac", "1/4/2", 0.125},
		{"pow", "2^3^2", 512},
		{"pow-group", "(2^3)^2", 64},
		{"pow-frac", "16^0.5", 4},
		{"pow-neg", "2^(0-1)", 0.5},
		{"prec", "3+4*2", 11},
		{"group", "(3+4)*2", 14},
		{"spaced", "3 + 4 * 2", 11},
		{"classic", "3 + 4 * 2 / ( 1 - 5 ) ^ 2", 3.5},
		{"regression", "92 + 5 + 5 * 27 - (92 - 12) / 4 + 26", 238},
		{"zero-dividend", "0/5", 0},
		{"newlines", "1\n+\t2", 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.EvalString(c.src)
			if err != nil {
				t.Fatal(c.src, "failed to evaluate:", err)
			}
			if r != c.r {
				t.Errorf("wrong result: want %g, got %g", c.r, r)
			}
		})
	}
}

func TestEvalNonFinite(t *testing.T) {
	r, err := calc.EvalString("(0-8)^0.5")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(r) {
		t.Errorf("negative base with fractional exponent: want NaN, got %g", r)
	}
	r, err = calc.EvalString("10^400")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(r, 1) {
		t.Errorf("overflowing power: want +Inf, got %g", r)
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  interface{}
	}{
		{"char", "2 + a", new(*calc.CharError)},
		{"number", "1.2.3 + 4", new(*calc.NumberError)},
		{"close", "3 + )", new(*calc.BracketError)},
		{"open", "(3+4", new(*calc.BracketError)},
		{"leading-op", "+3", new(*calc.MalformedError)},
		{"leading-op-spaced", "+ 3", new(*calc.MalformedError)},
		{"two-nums", "3 4", new(*calc.MalformedError)},
		{"empty", "", new(*calc.MalformedError)},
		{"div-zero", "1/0", new(*calc.DivisionError)},
		{"div-neg-zero", "1/(0*(0-1))", new(*calc.DivisionError)},
		{"div-zero-zero", "0/0", new(*calc.DivisionError)},
		{"div-computed-zero", "5/(2-2)", new(*calc.DivisionError)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.EvalString(c.src)
			if err == nil {
				t.Fatalf("%q evaluated to %g without error", c.src, r)
			}
			if r != 0 {
				t.Errorf("nonzero result %g with error", r)
			}
			if !errors.As(err, c.err) {
				t.Errorf("wrong error type: want %T, got %T (%v)", c.err, err, err)
			}
			var ie calc.InputError
			if !errors.As(err, &ie) {
				t.Errorf("error %v is not an InputError", err)
			}
		})
	}
}

func TestDivisionErrorPos(t *testing.T) {
	_, err := calc.EvalString("1 + 6 / (3 - 3)")
	var de *calc.DivisionError
	if !errors.As(err, &de) {
		t.Fatalf("want *DivisionError, got %v", err)
	}
	if de.Col != 7 || de.X != 6 {
		t.Errorf("wrong error details: %+v", de)
	}
	if !strings.HasPrefix(err.Error(), "7: ") {
		t.Errorf("error message lacks position: %q", err.Error())
	}
}

func TestEvalPostfix(t *testing.T) {
	num := func(v float64) calc.Token { return calc.Token{Kind: calc.TokenNum, Num: v} }
	op := func(o calc.Op) calc.Token { return calc.Token{Kind: calc.TokenOp, Op: o} }
	cases := []struct {
		name string
		code []calc.Token
		r    float64
		ok   bool
	}{
		{"one", []calc.Token{num(3)}, 3, true},
		{"sub-order", []calc.Token{num(10), num(4), op(calc.OpSub)}, 6, true},
		{"div-order", []calc.Token{num(1), num(4), op(calc.OpDiv)}, 0.25, true},
		{"pow-order", []calc.Token{num(2), num(10), op(calc.OpPow)}, 1024, true},
		{"nested", []calc.Token{num(2), num(3), num(4), op(calc.OpMul), op(calc.OpAdd)}, 14, true},
		{"empty", nil, 0, false},
		{"underflow", []calc.Token{num(3), op(calc.OpAdd)}, 0, false},
		{"bare-op", []calc.Token{op(calc.OpMul)}, 0, false},
		{"leftover", []calc.Token{num(3), num(4)}, 0, false},
		{"bracket", []calc.Token{num(3), {Kind: calc.TokenOpen}}, 0, false},
		{"bad-op", []calc.Token{num(3), num(4), op('%')}, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.EvalPostfix(c.code)
			if !c.ok {
				var me *calc.MalformedError
				if !errors.As(err, &me) {
					t.Fatalf("want *MalformedError, got %g, %v", r, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if r != c.r {
				t.Errorf("wrong result: want %g, got %g", c.r, r)
			}
		})
	}
}

func TestEvalIdempotent(t *testing.T) {
	const src = "92 + 5 + 5 * 27 - (92 - 12) / 4 + 26"
	a, err := calc.EvalString(src)
	if err != nil {
		t.Fatal(err)
	}
	b, err := calc.EvalString(src)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("repeated evaluation differs: %g then %g", a, b)
	}
}

func TestEvalConcurrent(t *testing.T) {
	p, err := calc.CompileString("3 + 4 * 2 / ( 1 - 5 ) ^ 2")
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	res := make([]float64, 16)
	errs := make([]error, 16)
	for i := range res {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				res[i], errs[i] = p.Eval()
			} else {
				res[i], errs[i] = calc.EvalString("3 + 4 * 2 / ( 1 - 5 ) ^ 2")
			}
		}(i)
	}
	wg.Wait()
	for i := range res {
		if errs[i] != nil || res[i] != 3.5 {
			t.Errorf("goroutine %d: got %g, %v", i, res[i], errs[i])
		}
	}
}

func TestEvalReader(t *testing.T) {
	r, err := calc.Eval(strings.NewReader("(1 + 2) ^ 2"))
	if err != nil {
		t.Fatal(err)
	}
	if r != 9 {
		t.Errorf("want 9, got %g", r)
	}
}

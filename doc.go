// Package calc implements a float64 calculator for infix arithmetic.
//
// Expressions are made of non-negative decimal numbers, the binary operators
// + - * / ^, and parentheses. "^" is exponentiation and groups right to left,
// so "2^3^2" is "2^(3^2)". The other operators group left to right, with
// * and / binding tighter than + and -.
//
// Evaluation happens in three steps: the source is split into tokens, the
// tokens are rearranged into postfix order, and the postfix sequence is run
// on an operand stack. A compiled Program keeps the postfix form so it can be
// evaluated many times or written out as RPN text and read back later.
package calc

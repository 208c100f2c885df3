package battle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/kasuganosora/railsim/game/stats"
)

// Operand holds the values a formula can read from one side.
type Operand struct {
	HP, MaxHP     float64
	ATK, DEF, SPD float64
	Level         float64
	Energy        float64
	Toughness     float64
	MaxToughness  float64
	CritRate      float64
	CritDMG       float64
	BreakEffect   float64
	EffectHitRate float64
	EffectRES     float64
}

// OperandOf reads u's current runtime values.
func OperandOf(u Unit) Operand {
	s := u.Stats()
	return Operand{
		HP:            u.HP(),
		MaxHP:         s.Get(stats.HP),
		ATK:           s.Get(stats.ATK),
		DEF:           s.Get(stats.DEF),
		SPD:           s.Get(stats.SPD),
		Level:         float64(u.Level()),
		Energy:        u.Energy(),
		Toughness:     u.Toughness(),
		MaxToughness:  u.MaxToughness(),
		CritRate:      s.Get(stats.CritRate),
		CritDMG:       s.Get(stats.CritDMG),
		BreakEffect:   s.Get(stats.BreakEffect),
		EffectHitRate: s.Get(stats.EffectHitRate),
		EffectRES:     s.Get(stats.EffectRES),
	}
}

// Formula is a compiled damage formula.
// Variables: a.hp, a.max_hp, a.atk, a.def, a.spd, a.level, a.energy,
// a.toughness, a.max_toughness, a.crit_rate, a.crit_dmg, a.break_effect,
// a.effect_hit_rate, a.effect_res, and b.* for the target.
// Operators: + - * / with parentheses.
// Functions: Math.floor, Math.ceil, Math.round, Math.abs, Math.max,
// Math.min, Math.pow.
type Formula struct {
	src  string
	root node
}

type node func(a, b *Operand) (float64, error)

// CompileFormula parses src.
func CompileFormula(src string) (*Formula, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty formula")
	}
	p := &parser{input: src}
	root, err := p.parseExpr()
	if err != nil {
		return nil, fmt.Errorf("formula %q: %w", src, err)
	}
	if p.peek() != 0 {
		return nil, fmt.Errorf("formula %q: unexpected chars at pos %d: %q", src, p.pos, p.input[p.pos:])
	}
	return &Formula{src: src, root: root}, nil
}

func (f *Formula) String() string { return f.src }

// Eval evaluates the formula with a as the attacker and b as the target.
func (f *Formula) Eval(a, b Operand) (float64, error) {
	return f.root(&a, &b)
}

// EvalFormula compiles and evaluates src in one go.
func EvalFormula(src string, a, b Operand) (float64, error) {
	f, err := CompileFormula(src)
	if err != nil {
		return 0, err
	}
	return f.Eval(a, b)
}

// ---- Recursive-descent parser ----

type parser struct {
	input string
	pos   int
}

func (p *parser) skipWS() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipWS()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) consume() byte {
	p.skipWS()
	if p.pos >= len(p.input) {
		return 0
	}
	ch := p.input[p.pos]
	p.pos++
	return ch
}

func binary(op byte, l, r node) node {
	return func(a, b *Operand) (float64, error) {
		x, err := l(a, b)
		if err != nil {
			return 0, err
		}
		y, err := r(a, b)
		if err != nil {
			return 0, err
		}
		switch op {
		case '+':
			return x + y, nil
		case '-':
			return x - y, nil
		case '*':
			return x * y, nil
		}
		if y == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return x / y, nil
	}
}

// parseExpr = parseTerm (('+' | '-') parseTerm)*
func (p *parser) parseExpr() (node, error) {
	n, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		ch := p.peek()
		if ch != '+' && ch != '-' {
			break
		}
		p.consume()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		n = binary(ch, n, right)
	}
	return n, nil
}

// parseTerm = parseFactor (('*' | '/') parseFactor)*
func (p *parser) parseTerm() (node, error) {
	n, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		ch := p.peek()
		if ch != '*' && ch != '/' {
			break
		}
		p.consume()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		n = binary(ch, n, right)
	}
	return n, nil
}

// parseFactor = '(' parseExpr ')' | '-' parseFactor | number | variable | Math.func(args)
func (p *parser) parseFactor() (node, error) {
	ch := p.peek()
	switch {
	case ch == '(':
		p.consume()
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("expected ')'")
		}
		p.pos++
		return n, nil

	case ch == '-':
		p.consume()
		n, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return func(a, b *Operand) (float64, error) {
			v, err := n(a, b)
			return -v, err
		}, nil

	case unicode.IsDigit(rune(ch)) || ch == '.':
		return p.parseNumber()

	case ch == 'a' || ch == 'b':
		return p.parseVariable()

	case ch == 'M':
		return p.parseMathFunc()

	default:
		return nil, fmt.Errorf("unexpected character %q at pos %d", ch, p.pos)
	}
}

func (p *parser) parseNumber() (node, error) {
	p.skipWS()
	start := p.pos
	hasDot := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '.' && !hasDot {
			hasDot = true
			p.pos++
		} else if c >= '0' && c <= '9' {
			p.pos++
		} else {
			break
		}
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return nil, err
	}
	return func(*Operand, *Operand) (float64, error) { return v, nil }, nil
}

func (p *parser) parseVariable() (node, error) {
	p.skipWS()
	who := p.input[p.pos]
	p.pos++
	if p.pos >= len(p.input) || p.input[p.pos] != '.' {
		return nil, fmt.Errorf("expected '.' after '%c'", who)
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsLetter(rune(p.input[p.pos])) || p.input[p.pos] == '_') {
		p.pos++
	}
	get, err := operandField(p.input[start:p.pos])
	if err != nil {
		return nil, err
	}
	if who == 'a' {
		return func(a, _ *Operand) (float64, error) { return get(a), nil }, nil
	}
	return func(_, b *Operand) (float64, error) { return get(b), nil }, nil
}

func operandField(field string) (func(*Operand) float64, error) {
	switch field {
	case "hp":
		return func(o *Operand) float64 { return o.HP }, nil
	case "max_hp":
		return func(o *Operand) float64 { return o.MaxHP }, nil
	case "atk":
		return func(o *Operand) float64 { return o.ATK }, nil
	case "def":
		return func(o *Operand) float64 { return o.DEF }, nil
	case "spd":
		return func(o *Operand) float64 { return o.SPD }, nil
	case "level":
		return func(o *Operand) float64 { return o.Level }, nil
	case "energy":
		return func(o *Operand) float64 { return o.Energy }, nil
	case "toughness":
		return func(o *Operand) float64 { return o.Toughness }, nil
	case "max_toughness":
		return func(o *Operand) float64 { return o.MaxToughness }, nil
	case "crit_rate":
		return func(o *Operand) float64 { return o.CritRate }, nil
	case "crit_dmg":
		return func(o *Operand) float64 { return o.CritDMG }, nil
	case "break_effect":
		return func(o *Operand) float64 { return o.BreakEffect }, nil
	case "effect_hit_rate":
		return func(o *Operand) float64 { return o.EffectHitRate }, nil
	case "effect_res":
		return func(o *Operand) float64 { return o.EffectRES }, nil
	}
	return nil, fmt.Errorf("unknown stat field %q", field)
}

func (p *parser) parseMathFunc() (node, error) {
	p.skipWS()
	prefix := "Math."
	if !strings.HasPrefix(p.input[p.pos:], prefix) {
		return nil, fmt.Errorf("expected Math.xxx at pos %d", p.pos)
	}
	p.pos += len(prefix)
	start := p.pos
	for p.pos < len(p.input) && unicode.IsLetter(rune(p.input[p.pos])) {
		p.pos++
	}
	fname := p.input[start:p.pos]
	if p.peek() != '(' {
		return nil, fmt.Errorf("expected '(' after Math.%s", fname)
	}
	p.pos++
	var args []node
	for {
		if p.peek() == ')' {
			p.pos++
			break
		}
		if p.peek() == 0 {
			return nil, fmt.Errorf("unterminated Math.%s", fname)
		}
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, n)
		if p.peek() == ',' {
			p.pos++
		}
	}
	fn, err := mathFunc(fname, len(args))
	if err != nil {
		return nil, err
	}
	return func(a, b *Operand) (float64, error) {
		vals := make([]float64, len(args))
		for i, arg := range args {
			v, err := arg(a, b)
			if err != nil {
				return 0, err
			}
			vals[i] = v
		}
		return fn(vals), nil
	}, nil
}

// mathFunc resolves a Math function and checks its arity at compile time.
func mathFunc(name string, argc int) (func([]float64) float64, error) {
	unary := func(f func(float64) float64) (func([]float64) float64, error) {
		if argc != 1 {
			return nil, fmt.Errorf("Math.%s expects 1 argument", name)
		}
		return func(v []float64) float64 { return f(v[0]) }, nil
	}
	switch name {
	case "floor":
		return unary(math.Floor)
	case "ceil":
		return unary(math.Ceil)
	case "round":
		return unary(math.Round)
	case "abs":
		return unary(math.Abs)
	case "pow":
		if argc != 2 {
			return nil, fmt.Errorf("Math.pow expects 2 arguments")
		}
		return func(v []float64) float64 { return math.Pow(v[0], v[1]) }, nil
	case "max":
		if argc == 0 {
			return nil, fmt.Errorf("Math.max expects >=1 argument")
		}
		return func(v []float64) float64 {
			m := v[0]
			for _, x := range v[1:] {
				m = max(m, x)
			}
			return m
		}, nil
	case "min":
		if argc == 0 {
			return nil, fmt.Errorf("Math.min expects >=1 argument")
		}
		return func(v []float64) float64 {
			m := v[0]
			for _, x := range v[1:] {
				m = min(m, x)
			}
			return m
		}, nil
	}
	return nil, fmt.Errorf("unknown Math.%s", name)
}

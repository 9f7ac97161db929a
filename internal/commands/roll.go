package commands

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/keshon/cmdargs/pkg/command"
)

var (
	rollTokenRegex = regexp.MustCompile(`(?i)(\d*d\d+|\d+|[+\-*/])`)
	diceRegex      = regexp.MustCompile(`(?i)^(\d*)d(\d+)$`)
)

type term struct {
	value int64
	desc  string
	op    string
}

type rollResult struct {
	Total  int64
	Detail string
}

func runRoll(ctx context.Context, inv *cmd.Invocation, d *Deps) error {
	formula, _ := command.Get[string](inv.Result, "formula")
	res, err := rollFormula(formula, d.dice)
	if err != nil {
		return refuse(ctx, inv, err.Error())
	}
	return reply(ctx, inv, "Dice Roll", fmt.Sprintf("%s = **%d**", res.Detail, res.Total),
		cmd.Field{Name: "Formula", Value: "`" + formula + "`"})
}

// rollFormula evaluates sums of dice and numbers; * and / bind tighter than
// + and -.
func rollFormula(formula string, rnd intner) (rollResult, error) {
	formula = strings.ReplaceAll(formula, " ", "")
	if rest := rollTokenRegex.ReplaceAllString(formula, ""); rest != "" {
		return rollResult{}, fmt.Errorf("unexpected %q in formula", rest)
	}
	tokens := rollTokenRegex.FindAllString(formula, -1)
	if len(tokens) == 0 {
		return rollResult{}, errors.New("empty formula, try something like 2d6+1d4*2-3")
	}

	var terms []term
	op := "+"
	expectOperand := true
	for _, tok := range tokens {
		if strings.ContainsAny(tok, "+-*/") {
			if expectOperand {
				return rollResult{}, fmt.Errorf("operator %q without left operand", tok)
			}
			op, expectOperand = tok, true
			continue
		}
		if !expectOperand {
			return rollResult{}, fmt.Errorf("missing operator before %q", tok)
		}
		v, desc, err := evaluateToken(tok, rnd)
		if err != nil {
			return rollResult{}, fmt.Errorf("%q: %w", tok, err)
		}
		terms = append(terms, term{value: v, desc: desc, op: op})
		expectOperand = false
	}
	if expectOperand {
		return rollResult{}, errors.New("formula ends with an operator")
	}

	var merged []term
	for _, t := range terms {
		if t.op != "*" && t.op != "/" {
			merged = append(merged, t)
			continue
		}
		prev := &merged[len(merged)-1]
		v, err := calculate(prev.value, t.op, t.value)
		if err != nil {
			return rollResult{}, err
		}
		prev.value = v
		prev.desc = fmt.Sprintf("%s %s %s", prev.desc, t.op, t.desc)
	}

	var (
		total   int64
		details []string
	)
	for i, t := range merged {
		if i > 0 {
			details = append(details, t.op)
		}
		details = append(details, t.desc)
		v, err := calculate(total, t.op, t.value)
		if err != nil {
			return rollResult{}, err
		}
		total = v
	}
	return rollResult{Total: total, Detail: strings.Join(details, " ")}, nil
}

func evaluateToken(tok string, rnd intner) (int64, string, error) {
	m := diceRegex.FindStringSubmatch(tok)
	if m == nil {
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return 0, "", errors.New("not a number or dice")
		}
		return n, strconv.FormatInt(n, 10), nil
	}

	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return 0, "", errors.New("invalid dice count")
		}
		count = n
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < 2 {
		return 0, "", errors.New("invalid dice sides")
	}
	if count > 100 || sides > 1000 {
		return 0, "", errors.New("too big, max 100 dice with 1000 sides")
	}

	var sum int64
	rolls := make([]string, count)
	for i := range count {
		r := rnd.IntN(sides) + 1
		sum += int64(r)
		rolls[i] = strconv.Itoa(r)
	}
	return sum, fmt.Sprintf("%s [%s]", tok, strings.Join(rolls, ", ")), nil
}

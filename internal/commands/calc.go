package commands

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/keshon/cmdargs/pkg/command"
)

var (
	errDivByZero = errors.New("division by zero")
	errOverflow  = errors.New("result overflows")
	errUnknownOp = errors.New("unknown operator")
)

func runCalc(ctx context.Context, inv *cmd.Invocation, _ *Deps) error {
	lhs, _ := command.Get[int64](inv.Result, "lhs")
	op, _ := command.Get[string](inv.Result, "op")
	rhs, _ := command.Get[int64](inv.Result, "rhs")

	v, err := calculate(lhs, op, rhs)
	if err != nil {
		return refuse(ctx, inv, fmt.Sprintf("`%d %s %d`: %v", lhs, op, rhs, err))
	}
	return reply(ctx, inv, "Result", fmt.Sprintf("%d %s %d = **%d**", lhs, op, rhs, v))
}

func calculate(lhs int64, op string, rhs int64) (int64, error) {
	switch op {
	case "+":
		if (rhs > 0 && lhs > math.MaxInt64-rhs) || (rhs < 0 && lhs < math.MinInt64-rhs) {
			return 0, errOverflow
		}
		return lhs + rhs, nil
	case "-":
		if (rhs < 0 && lhs > math.MaxInt64+rhs) || (rhs > 0 && lhs < math.MinInt64+rhs) {
			return 0, errOverflow
		}
		return lhs - rhs, nil
	case "*":
		if lhs == 0 || rhs == 0 {
			return 0, nil
		}
		v := lhs * rhs
		if v/rhs != lhs || (lhs == -1 && rhs == math.MinInt64) || (rhs == -1 && lhs == math.MinInt64) {
			return 0, errOverflow
		}
		return v, nil
	case "/", "%":
		if rhs == 0 {
			return 0, errDivByZero
		}
		if lhs == math.MinInt64 && rhs == -1 {
			return 0, errOverflow
		}
		if op == "/" {
			return lhs / rhs, nil
		}
		return lhs % rhs, nil
	}
	return 0, fmt.Errorf("%w %q", errUnknownOp, op)
}

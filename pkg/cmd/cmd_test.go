package cmd

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/keshon/cmdargs/pkg/command"
)

func echo(name string, calls *[]string) Command {
	return &Func{
		Def: command.Definition{Name: name, Description: name + " command"},
		RunFunc: func(_ context.Context, inv *Invocation) error {
			*calls = append(*calls, name)
			return inv.Reply(context.Background(), Response{Text: name})
		},
	}
}

func TestRegistryDispatch(t *testing.T) {
	var calls []string
	r := NewRegistry()
	r.Register(echo("ping", &calls))
	r.Register(echo("date", &calls))

	var got []Response
	inv := &Invocation{
		Result: &command.Result{Name: "ping"},
		Responder: ResponderFunc(func(_ context.Context, resp Response) error {
			got = append(got, resp)
			return nil
		}),
	}
	if err := r.Dispatch(context.Background(), inv); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(got) != 1 || got[0].Text != "ping" {
		t.Errorf("responses = %+v", got)
	}

	inv.Result = &command.Result{Name: "nope"}
	if err := r.Dispatch(context.Background(), inv); err == nil {
		t.Error("Dispatch(nope) succeeded")
	}

	names := []string{}
	for _, c := range r.GetAll() {
		names = append(names, c.Name())
	}
	if !reflect.DeepEqual(names, []string{"date", "ping"}) {
		t.Errorf("GetAll() = %v", names)
	}

	set, err := r.Set(nil)
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := set.Lookup("date"); !ok {
		t.Error("Set() lost the date command")
	}
}

func TestReplyWithoutResponder(t *testing.T) {
	inv := &Invocation{}
	if err := inv.Reply(context.Background(), Response{}); !errors.Is(err, ErrNoResponder) {
		t.Errorf("Reply() error = %v", err)
	}
}

func TestApplyOrderAndRoot(t *testing.T) {
	var calls []string
	base := echo("ping", &calls)
	trace := func(tag string) Middleware {
		return func(next Command) Command {
			return Wrap(next, func(ctx context.Context, inv *Invocation) error {
				calls = append(calls, tag)
				return next.Run(ctx, inv)
			})
		}
	}
	c := Apply(base, trace("outer"), trace("inner"))
	inv := &Invocation{Responder: ResponderFunc(func(context.Context, Response) error { return nil })}
	if err := c.Run(context.Background(), inv); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(calls, []string{"outer", "inner", "ping"}) {
		t.Errorf("calls = %v", calls)
	}
	if c.Name() != "ping" || c.Definition().Description != "ping command" {
		t.Errorf("wrapped command lost its identity: %q", c.Name())
	}
	if Root(c) != base {
		t.Error("Root() did not reach the base command")
	}
}

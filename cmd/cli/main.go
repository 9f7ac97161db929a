// cmd/cli/main.go parses command lines offline: against the command
// definitions, with users, members, channels and roles taken from a fixture
// file instead of Discord.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/keshon/cmdargs/internal/commands"
	"github.com/keshon/cmdargs/internal/config"
	"github.com/keshon/cmdargs/internal/directory"
	"github.com/keshon/cmdargs/internal/logging"
	"github.com/keshon/cmdargs/internal/middleware"
	"github.com/keshon/cmdargs/internal/storage"
	"github.com/keshon/cmdargs/pkg/args"
	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/keshon/cmdargs/pkg/command"
)

type options struct {
	line      string
	fixture   string
	guildID   string
	channelID string
	userID    string
	defsPath  string
	storePath string
	exec      bool
}

// cli holds everything one run needs.
type cli struct {
	opts     options
	set      *command.Set
	registry *cmd.Registry
	pc       args.Context
	out      io.Writer
}

func main() {
	cfg, err := config.Load(false)
	logger := logging.Setup("info", "")
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	logger = logging.Setup(cfg.LogLevel, cfg.LogFile)

	var o options
	flag.StringVar(&o.line, "e", "", "parse this line instead of reading stdin")
	flag.StringVar(&o.fixture, "dir", "", "YAML or JSON fixture with users, members, channels and roles")
	flag.StringVar(&o.guildID, "guild", "", "guild the lines are typed in; empty means a DM")
	flag.StringVar(&o.channelID, "channel", "cli", "channel the lines are typed in")
	flag.StringVar(&o.userID, "user", "cli", "user typing the lines")
	flag.StringVar(&o.defsPath, "commands", cfg.CommandsPath, "command definitions file; empty means the built-in ones")
	flag.StringVar(&o.storePath, "store", "", "datastore file for command history, used with -exec")
	flag.BoolVar(&o.exec, "exec", false, "run the parsed commands and print their replies")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, closeFn, err := newCLI(o, os.Stdout)
	if err != nil {
		logger.Fatal().Err(err).Msg("set up")
	}

	code := 0
	if o.line != "" {
		if !c.handle(ctx, o.line) {
			code = 1
		}
	} else if err := c.loop(ctx, os.Stdin); err != nil {
		logger.Error().Err(err).Msg("read input")
		code = 1
	}
	closeFn()
	stop()
	os.Exit(code)
}

func newCLI(o options, out io.Writer) (*cli, func(), error) {
	closeFn := func() {}

	var dir args.Directory
	if o.fixture != "" {
		static, err := directory.Load(o.fixture)
		if err != nil {
			return nil, closeFn, err
		}
		dir = static
	}

	defs, err := commands.Definitions(o.defsPath)
	if err != nil {
		return nil, closeFn, err
	}

	deps := commands.Deps{}
	if o.exec && o.storePath != "" {
		store, err := storage.New(o.storePath)
		if err != nil {
			return nil, closeFn, err
		}
		closeFn = func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("close storage")
			}
		}
		deps.History = store
		deps.Middlewares = []cmd.Middleware{middleware.WithCommandLogger(store)}
	}

	registry := cmd.NewRegistry()
	if err := commands.Register(registry, defs, deps); err != nil {
		closeFn()
		return nil, func() {}, err
	}
	set, err := registry.Set(nil)
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}

	return &cli{
		opts:     o,
		set:      set,
		registry: registry,
		pc:       args.NewContext(dir, o.guildID),
		out:      out,
	}, closeFn, nil
}

// loop handles every non-blank line of r.
func (c *cli) loop(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		c.handle(ctx, line)
	}
	return sc.Err()
}

// handle parses one line and prints the outcome. It reports whether the
// line parsed.
func (c *cli) handle(ctx context.Context, line string) bool {
	res, err := c.set.ParseLine(ctx, line, c.pc)
	if err != nil {
		c.printError(err)
		return false
	}
	if !c.opts.exec {
		c.printJSON(res.Map())
		return true
	}

	inv := &cmd.Invocation{
		Result:    res,
		Source:    cmd.SourceCLI,
		Line:      line,
		GuildID:   c.opts.guildID,
		ChannelID: c.opts.channelID,
		UserID:    c.opts.userID,
		Username:  c.opts.userID,
		Responder: cmd.ResponderFunc(func(_ context.Context, r cmd.Response) error {
			printResponse(c.out, r)
			return nil
		}),
	}
	if err := c.registry.Dispatch(ctx, inv); err != nil {
		c.printError(err)
		return false
	}
	return true
}

func (c *cli) printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(c.out, "error: encode result: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, string(data))
}

func (c *cli) printError(err error) {
	out := map[string]any{"error": err.Error()}
	var re *command.ReadError
	if errors.As(err, &re) {
		out["kind"] = re.Kind.String()
		out["position"] = re.Position
	}
	c.printJSON(out)
}

func printResponse(w io.Writer, r cmd.Response) {
	if r.Title != "" {
		fmt.Fprintf(w, "== %s ==\n", r.Title)
	}
	if r.Text != "" {
		fmt.Fprintln(w, r.Text)
	}
	for _, f := range r.Fields {
		fmt.Fprintf(w, "%s: %s\n", f.Name, f.Value)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/target/storefront/config"
	"github.com/target/storefront/internal/bootstrap"
	apperrors "github.com/target/storefront/internal/errors"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
}

// openApp builds and starts an App. The caller closes it.
func (c *commandContext) openApp() (*bootstrap.App, error) {
	app, err := bootstrap.NewApp(c.Ctx, bootstrap.AppOptions{Config: c.Config, Logger: c.Logger})
	if err != nil {
		return nil, err
	}
	if err := app.Start(c.Ctx); err != nil {
		if closeErr := app.Close(); closeErr != nil {
			c.Logger.ErrorContext(c.Ctx, "close app after failed start", "error", closeErr)
		}
		return nil, fmt.Errorf("start app: %w", err)
	}
	return app, nil
}

func (c *commandContext) withApp(fn func(app *bootstrap.App) error) error {
	app, err := c.openApp()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			c.Logger.ErrorContext(c.Ctx, "close app failed", "error", closeErr)
		}
	}()
	return fn(app)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)) //nolint:forbidigo // CLI exit status
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) < 1 {
		if err := printUsage(out); err != nil {
			return 1
		}
		return 2
	}

	cmdName := args[0]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(errOut, "unknown command %q\n\n", cmdName); err != nil {
			return 1
		}
		if err := printUsage(errOut); err != nil {
			return 1
		}
		return 2
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		_ = writef(errOut, "load config: %v\n", err)
		return 1
	}
	logger := bootstrap.InitLogger(cfg, errOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx := &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
		In:     in,
		Out:    out,
		Err:    errOut,
	}
	if runErr := cmd.run(cmdCtx, args[1:]); runErr != nil {
		logger.ErrorContext(ctx, "command failed", "command", cmdName, "error", runErr)
		_ = writef(errOut, "%s: %s\n", cmdName, userMessage(runErr))
		if apperrors.IsValidation(runErr) {
			return 2
		}
		return 1
	}
	return 0
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in and store the session tokens",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			description: "Sign out and remove stored tokens",
			run:         runLogout,
		},
		"status": {
			name:        "status",
			description: "Show session and cart state",
			run:         runStatus,
		},
		"profile": {
			name:        "profile",
			description: "Fetch the signed-in user's profile",
			run:         runProfile,
		},
		"products": {
			name:        "products",
			description: "List catalog products",
			run:         runProducts,
		},
		"shell": {
			name:        "shell",
			description: "Interactive session with a cart",
			run:         runShell,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: storefront <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := writef(w, "  %-10s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

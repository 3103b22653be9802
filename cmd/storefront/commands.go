package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/target/storefront/internal/bootstrap"
	apperrors "github.com/target/storefront/internal/errors"
)

const passwordEnv = "STOREFRONT_PASSWORD"

type loginOptions struct {
	Email    string
	Password string
}

func parseLoginOptions(cc *commandContext, args []string) (loginOptions, error) {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(cc.Err)

	var opts loginOptions
	fs.StringVar(&opts.Email, "email", "", "Account email (required)")
	fs.StringVar(&opts.Password, "password", "", "Account password (defaults to $"+passwordEnv+", then a prompt)")

	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}
	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Email == "" {
		return loginOptions{}, apperrors.ValidationField("email", "--email is required")
	}
	if opts.Password == "" {
		opts.Password = os.Getenv(passwordEnv)
	}
	if opts.Password == "" {
		pw, err := promptLine(cc, "Password: ")
		if err != nil {
			return loginOptions{}, err
		}
		opts.Password = pw
	}
	return opts, nil
}

func promptLine(cc *commandContext, prompt string) (string, error) {
	if err := write(cc.Out, prompt); err != nil {
		return "", fmt.Errorf("print prompt: %w", err)
	}
	line, err := bufio.NewReader(cc.In).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(cc *commandContext, args []string) error {
	opts, err := parseLoginOptions(cc, args)
	if err != nil {
		return err
	}
	return cc.withApp(func(app *bootstrap.App) error {
		if err := app.Session.Login(cc.Ctx, opts.Email, opts.Password); err != nil {
			return err
		}
		return writef(cc.Out, "Signed in as %s\n", opts.Email)
	})
}

func runLogout(cc *commandContext, _ []string) error {
	return cc.withApp(func(app *bootstrap.App) error {
		if err := app.Session.Logout(cc.Ctx); err != nil {
			return err
		}
		return writeln(cc.Out, "Signed out")
	})
}

func runStatus(cc *commandContext, _ []string) error {
	return cc.withApp(func(app *bootstrap.App) error {
		return printStatus(cc.Out, app)
	})
}

func runProfile(cc *commandContext, _ []string) error {
	return cc.withApp(func(app *bootstrap.App) error {
		user, err := app.Session.FetchProfile(cc.Ctx)
		if err != nil {
			return err
		}
		return printProfile(cc.Out, user)
	})
}

type productsOptions struct {
	Category string
}

func runProducts(cc *commandContext, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	fs.SetOutput(cc.Err)
	var opts productsOptions
	fs.StringVar(&opts.Category, "category", "", "Only show products in this category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return cc.withApp(func(app *bootstrap.App) error {
		products, err := app.Catalog.List(cc.Ctx)
		if err != nil {
			return err
		}
		return printProducts(cc.Out, filterCategory(products, opts.Category))
	})
}

func runShell(cc *commandContext, _ []string) error {
	return cc.withApp(func(app *bootstrap.App) error {
		return newShell(cc, app).run()
	})
}

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/target/storefront/internal/bootstrap"
	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/domain/cart"
	"github.com/target/storefront/internal/domain/catalog"
	apperrors "github.com/target/storefront/internal/errors"
)

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func write(w io.Writer, args ...any) error {
	_, err := fmt.Fprint(w, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}

// userMessage prefers the AppError message, which is written for people.
func userMessage(err error) string {
	if msg := apperrors.Message(err); msg != "" {
		return msg
	}
	return err.Error()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func printStatus(w io.Writer, app *bootstrap.App) error {
	state := app.Session.Snapshot()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "Signed in\t%s\n", yesNo(state.Authenticated)); err != nil {
		return fmt.Errorf("write signed in: %w", err)
	}
	if err := writef(tw, "Status\t%s\n", state.Status); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	if state.User != nil {
		if err := writef(tw, "User\t%s\n", state.User.Email); err != nil {
			return fmt.Errorf("write user: %w", err)
		}
	}
	if state.Authenticated {
		if err := writef(tw, "Token expires\t%s\n", tokenExpiry(state.Tokens)); err != nil {
			return fmt.Errorf("write token expiry: %w", err)
		}
	}
	if err := writef(tw, "Cart\t%d item(s), subtotal %s\n", app.Cart.ItemCount(), app.Cart.Subtotal().StringFixed(2)); err != nil {
		return fmt.Errorf("write cart summary: %w", err)
	}
	return tw.Flush()
}

func tokenExpiry(tokens domainauth.Tokens) string {
	exp, ok := tokens.AccessExpiry()
	if !ok {
		return "unknown"
	}
	return exp.UTC().Format(time.RFC3339)
}

func printProfile(w io.Writer, user domainauth.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"ID", fmt.Sprint(user.ID)},
		{"Name", user.Name},
		{"Email", user.Email},
		{"Role", string(user.Role)},
	}
	for _, row := range rows {
		if err := writef(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("write profile row %q: %w", row[0], err)
		}
	}
	return tw.Flush()
}

func printProducts(w io.Writer, products []catalog.Product) error {
	if len(products) == 0 {
		return writeln(w, "No products.")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "ID\tPrice\tCategory\tTitle"); err != nil {
		return fmt.Errorf("write products header: %w", err)
	}
	for _, p := range products {
		if err := writef(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Price.StringFixed(2), p.Category, p.Title); err != nil {
			return fmt.Errorf("write product %d: %w", p.ID, err)
		}
	}
	return tw.Flush()
}

func printCart(w io.Writer, owner cart.Owner, items []cart.Item) error {
	if len(items) == 0 {
		return writef(w, "Cart (%s) is empty.\n", owner)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "Cart (%s)\n", owner); err != nil {
		return fmt.Errorf("write cart header: %w", err)
	}
	if err := writeln(tw, "ID\tQty\tPrice\tSubtotal\tTitle"); err != nil {
		return fmt.Errorf("write cart columns: %w", err)
	}
	for _, it := range items {
		if err := writef(tw, "%d\t%d\t%s\t%s\t%s\n",
			it.ID, it.Quantity, it.Price.StringFixed(2), it.Subtotal().StringFixed(2), it.Title); err != nil {
			return fmt.Errorf("write cart line %d: %w", it.ID, err)
		}
	}
	return tw.Flush()
}

func filterCategory(products []catalog.Product, category string) []catalog.Product {
	category = strings.TrimSpace(category)
	if category == "" {
		return products
	}
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

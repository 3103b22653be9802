package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/target/storefront/internal/bootstrap"
	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/domain/cart"
	apperrors "github.com/target/storefront/internal/errors"
)

const shellPrompt = "> "

var errQuit = errors.New("quit")

type shellCommand struct {
	usage       string
	description string
	run         func(args []string) error
}

// shell is a line-oriented loop over one App, so the cart lives as long as the
// process does.
type shell struct {
	cc       *commandContext
	app      *bootstrap.App
	commands map[string]shellCommand
}

func newShell(cc *commandContext, app *bootstrap.App) *shell {
	s := &shell{cc: cc, app: app}
	s.commands = map[string]shellCommand{
		"add":      {usage: "add <id> [qty]", description: "Add a product to the cart", run: s.add},
		"remove":   {usage: "remove <id>", description: "Remove a product from the cart", run: s.remove},
		"qty":      {usage: "qty <id> <n>", description: "Set a line quantity (0 removes it)", run: s.qty},
		"clear":    {usage: "clear", description: "Empty the active cart", run: s.clear},
		"cart":     {usage: "cart", description: "Show the active cart", run: s.cart},
		"login":    {usage: "login <email> <password>", description: "Sign in", run: s.login},
		"logout":   {usage: "logout", description: "Sign out", run: s.logout},
		"profile":  {usage: "profile", description: "Fetch the signed-in profile", run: s.profile},
		"products": {usage: "products [category]", description: "List products", run: s.products},
		"status":   {usage: "status", description: "Show session and cart state", run: s.status},
		"help":     {usage: "help", description: "Show this help", run: s.help},
		"quit":     {usage: "quit", description: "Leave the shell", run: func([]string) error { return errQuit }},
	}
	s.commands["exit"] = s.commands["quit"]
	return s
}

func (s *shell) run() error {
	unsubscribe := s.app.Session.Subscribe(func(ev domainauth.Event) {
		s.cc.Logger.DebugContext(s.cc.Ctx, "session event", "kind", string(ev.Kind), "authenticated", ev.Authenticated)
	})
	defer unsubscribe()

	if err := writeln(s.cc.Out, "Type 'help' for commands."); err != nil {
		return err
	}
	scanner := bufio.NewScanner(s.cc.In)
	for {
		if err := s.cc.Ctx.Err(); err != nil {
			return nil
		}
		if err := write(s.cc.Out, shellPrompt); err != nil {
			return fmt.Errorf("print prompt: %w", err)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return writeln(s.cc.Out)
		}

		err := s.dispatch(scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			if werr := writef(s.cc.Out, "error: %s\n", userMessage(err)); werr != nil {
				return werr
			}
		}
	}
}

func (s *shell) dispatch(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := s.commands[strings.ToLower(fields[0])]
	if !ok {
		return fmt.Errorf("unknown command %q (try 'help')", fields[0])
	}
	return cmd.run(fields[1:])
}

type usageError struct{ usage string }

func (e usageError) Error() string { return "usage: " + e.usage }

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ValidationField("id", fmt.Sprintf("invalid product id %q", raw))
	}
	return id, nil
}

func (s *shell) add(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError{s.commands["add"].usage}
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	qty := 1
	if len(args) == 2 {
		if qty, err = strconv.Atoi(args[1]); err != nil || qty < 1 {
			return apperrors.Validationf("invalid quantity %q", args[1])
		}
	}

	product, err := s.app.Catalog.Get(s.cc.Ctx, id)
	if err != nil {
		return err
	}
	s.app.Cart.AddItem(product)
	if qty > 1 {
		s.app.Cart.UpdateQuantity(id, lineQuantity(s.app.Cart.Items(), id)+qty-1)
	}
	return writef(s.cc.Out, "Added %d x %s. Cart has %d item(s).\n", qty, product.Title, s.app.Cart.ItemCount())
}

func lineQuantity(items []cart.Item, id int64) int {
	for _, it := range items {
		if it.ID == id {
			return it.Quantity
		}
	}
	return 0
}

func (s *shell) remove(args []string) error {
	if len(args) != 1 {
		return usageError{s.commands["remove"].usage}
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	s.app.Cart.RemoveItem(id)
	return writef(s.cc.Out, "Cart has %d item(s).\n", s.app.Cart.ItemCount())
}

func (s *shell) qty(args []string) error {
	if len(args) != 2 {
		return usageError{s.commands["qty"].usage}
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return apperrors.Validationf("invalid quantity %q", args[1])
	}
	s.app.Cart.UpdateQuantity(id, n)
	return writef(s.cc.Out, "Cart has %d item(s).\n", s.app.Cart.ItemCount())
}

func (s *shell) clear([]string) error {
	s.app.Cart.Clear()
	return writeln(s.cc.Out, "Cart cleared.")
}

func (s *shell) cart([]string) error {
	owner := cart.OwnerGuest
	if s.app.Cart.Authenticated() {
		owner = cart.OwnerUser
	}
	if err := printCart(s.cc.Out, owner, s.app.Cart.Items()); err != nil {
		return err
	}
	return writef(s.cc.Out, "Subtotal: %s\n", s.app.Cart.Subtotal().StringFixed(2))
}

func (s *shell) login(args []string) error {
	if len(args) != 2 {
		return usageError{s.commands["login"].usage}
	}
	if err := s.app.Session.Login(s.cc.Ctx, args[0], args[1]); err != nil {
		return err
	}
	return writef(s.cc.Out, "Signed in as %s. Cart has %d item(s).\n", args[0], s.app.Cart.ItemCount())
}

func (s *shell) logout([]string) error {
	if err := s.app.Session.Logout(s.cc.Ctx); err != nil {
		return err
	}
	return writeln(s.cc.Out, "Signed out.")
}

func (s *shell) profile([]string) error {
	user, err := s.app.Session.FetchProfile(s.cc.Ctx)
	if err != nil {
		return err
	}
	return printProfile(s.cc.Out, user)
}

func (s *shell) products(args []string) error {
	products, err := s.app.Catalog.List(s.cc.Ctx)
	if err != nil {
		return err
	}
	return printProducts(s.cc.Out, filterCategory(products, strings.Join(args, " ")))
}

func (s *shell) status([]string) error {
	return printStatus(s.cc.Out, s.app)
}

func (s *shell) help([]string) error {
	order := []string{"products", "add", "remove", "qty", "clear", "cart", "login", "logout", "profile", "status", "help", "quit"}
	for _, name := range order {
		cmd := s.commands[name]
		if err := writef(s.cc.Out, "  %-26s %s\n", cmd.usage, cmd.description); err != nil {
			return err
		}
	}
	return nil
}

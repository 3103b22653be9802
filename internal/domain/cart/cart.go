// Package cart contains the cart entity shared by guest and authenticated sessions.
// It is pure: no locking, no I/O. Callers serialize access.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/target/storefront/internal/domain/catalog"
)

// Owner tags which side of the cart a collection belongs to.
type Owner string

const (
	OwnerGuest Owner = "guest"
	OwnerUser  Owner = "user"
)

// Item is a product line in a cart. Quantity is always >= 1 while the item is present.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price * quantity for the line.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Transition describes what SetAuthenticated did.
type Transition int

const (
	// TransitionNone means the flag did not change.
	TransitionNone Transition = iota
	// TransitionLogin means false → true; guest items were absorbed into the user collection.
	TransitionLogin
	// TransitionLogout means true → false; the user collection was emptied.
	TransitionLogout
)

func (t Transition) String() string {
	switch t {
	case TransitionLogin:
		return "login"
	case TransitionLogout:
		return "logout"
	default:
		return "none"
	}
}

// Cart holds one ordered collection per Owner plus a mirror of the session's
// authenticated flag, which selects the active collection.
type Cart struct {
	collections   map[Owner][]Item
	authenticated bool
}

// New returns an empty guest-mode cart.
func New() *Cart {
	return &Cart{collections: make(map[Owner][]Item, 2)}
}

// Authenticated reports the mirrored session flag.
func (c *Cart) Authenticated() bool { return c.authenticated }

// ActiveOwner selects the collection UI operations read and write.
func (c *Cart) ActiveOwner() Owner {
	if c.authenticated {
		return OwnerUser
	}
	return OwnerGuest
}

// Items returns a copy of the owner's collection in insertion order.
func (c *Cart) Items(owner Owner) []Item {
	src := c.collections[owner]
	out := make([]Item, len(src))
	copy(out, src)
	return out
}

// ActiveItems returns a copy of the active collection.
func (c *Cart) ActiveItems() []Item {
	return c.Items(c.ActiveOwner())
}

// Add increments the quantity of an existing line or appends a new line with quantity 1.
func (c *Cart) Add(p catalog.Product) {
	owner := c.ActiveOwner()
	items := c.collections[owner]
	if idx := indexOf(items, p.ID); idx >= 0 {
		items[idx].Quantity++
		return
	}
	c.collections[owner] = append(items, Item{Product: p, Quantity: 1})
}

// Remove deletes the line for productID from the active collection.
// Returns false when there was nothing to remove.
func (c *Cart) Remove(productID int64) bool {
	owner := c.ActiveOwner()
	items := c.collections[owner]
	idx := indexOf(items, productID)
	if idx < 0 {
		return false
	}
	c.collections[owner] = removeIndex(items, idx)
	return true
}

// SetQuantity sets the line's quantity; qty <= 0 removes it.
// Returns false when the product is not in the active collection.
func (c *Cart) SetQuantity(productID int64, qty int) bool {
	if qty <= 0 {
		return c.Remove(productID)
	}
	items := c.collections[c.ActiveOwner()]
	idx := indexOf(items, productID)
	if idx < 0 {
		return false
	}
	items[idx].Quantity = qty
	return true
}

// Clear empties the active collection only.
func (c *Cart) Clear() {
	c.ClearOwner(c.ActiveOwner())
}

// ClearOwner empties one collection regardless of which is active.
func (c *Cart) ClearOwner(owner Owner) {
	delete(c.collections, owner)
}

// SetAuthenticated runs the login/logout transition and then records the flag.
//
// false → true absorbs every guest line into the user collection (quantities add
// for matching product IDs, new lines append) and empties the guest side.
// true → false empties the user collection. Equal values only set the flag.
func (c *Cart) SetAuthenticated(now bool) Transition {
	was := c.authenticated
	transition := TransitionNone

	switch {
	case !was && now:
		c.mergeGuestIntoUser()
		transition = TransitionLogin
	case was && !now:
		c.ClearOwner(OwnerUser)
		transition = TransitionLogout
	}

	c.authenticated = now
	return transition
}

func (c *Cart) mergeGuestIntoUser() {
	guest := c.collections[OwnerGuest]
	if len(guest) == 0 {
		return
	}
	user := c.collections[OwnerUser]
	for _, g := range guest {
		if idx := indexOf(user, g.ID); idx >= 0 {
			user[idx].Quantity += g.Quantity
			continue
		}
		user = append(user, g)
	}
	c.collections[OwnerUser] = user
	c.ClearOwner(OwnerGuest)
}

// ReplaceUser swaps in a previously saved user collection. It only applies while
// authenticated. Lines with quantity <= 0 are dropped and duplicate product IDs
// collapse into the first occurrence with summed quantities.
func (c *Cart) ReplaceUser(items []Item) bool {
	if !c.authenticated {
		return false
	}
	c.collections[OwnerUser] = normalize(items)
	return true
}

// ItemCount is the sum of quantities in the active collection.
func (c *Cart) ItemCount() int {
	total := 0
	for _, it := range c.collections[c.ActiveOwner()] {
		total += it.Quantity
	}
	return total
}

// Subtotal is the sum of line subtotals in the active collection.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.collections[c.ActiveOwner()] {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Snapshot is the serializable form of a Cart.
type Snapshot struct {
	Guest         []Item `json:"guest"`
	User          []Item `json:"user"`
	Authenticated bool   `json:"authenticated"`
}

// Snapshot copies the cart into its serializable form.
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		Guest:         c.Items(OwnerGuest),
		User:          c.Items(OwnerUser),
		Authenticated: c.authenticated,
	}
}

// FromSnapshot rebuilds a cart, normalizing both collections.
func FromSnapshot(s Snapshot) *Cart {
	c := New()
	if guest := normalize(s.Guest); len(guest) > 0 {
		c.collections[OwnerGuest] = guest
	}
	if user := normalize(s.User); len(user) > 0 {
		c.collections[OwnerUser] = user
	}
	c.authenticated = s.Authenticated
	return c
}

func normalize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if idx := indexOf(out, it.ID); idx >= 0 {
			out[idx].Quantity += it.Quantity
			continue
		}
		out = append(out, it)
	}
	return out
}

func indexOf(items []Item, productID int64) int {
	for i := range items {
		if items[i].ID == productID {
			return i
		}
	}
	return -1
}

func removeIndex(items []Item, idx int) []Item {
	out := make([]Item, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}

package pos

import (
	"sync"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a cart: a product, how many, and an optional
// price override that replaces the catalog sell price.
type CartItem struct {
	Product    Product          `json:"product"`
	Quantity   int              `json:"quantity"`
	FinalPrice *decimal.Decimal `json:"final_price,omitempty"`
}

// EffectivePrice is the override price when set, otherwise the sell price.
func (i CartItem) EffectivePrice() decimal.Decimal {
	if i.FinalPrice != nil {
		return *i.FinalPrice
	}
	return i.Product.SellPrice
}

// LineTotal is the effective price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineProfit is (effective price - cost price) times quantity.
func (i CartItem) LineProfit() decimal.Decimal {
	return i.EffectivePrice().Sub(i.Product.CostPrice).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i CartItem) clone() CartItem {
	i.Product = i.Product.Clone()
	if i.FinalPrice != nil {
		fp := *i.FinalPrice
		i.FinalPrice = &fp
	}
	return i
}

// CloneItems deep-copies a slice of cart items.
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for idx, item := range items {
		out[idx] = item.clone()
	}
	return out
}

// Cart is the ordered, mutable set of items a session intends to buy.
// It never holds two items for the same product id.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add puts quantity units of product into the cart. If the product is already
// present the quantities are summed and the override is replaced by
// priceOverride, so adding again without an override clears a previous one.
// A non-positive quantity is ignored.
func (c *Cart) Add(product Product, quantity int, priceOverride *decimal.Decimal) {
	if quantity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	override := copyDecimal(priceOverride)
	if idx := c.indexOf(product.ID); idx >= 0 {
		c.items[idx].Quantity += quantity
		c.items[idx].FinalPrice = override
		return
	}
	c.items = append(c.items, CartItem{
		Product:    product.Clone(),
		Quantity:   quantity,
		FinalPrice: override,
	})
}

// SetQuantity replaces the quantity and override of an item. A quantity of
// zero or less removes it. Unknown product ids are ignored.
func (c *Cart) SetQuantity(productID string, quantity int, priceOverride *decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	if quantity <= 0 {
		c.removeAt(idx)
		return
	}
	c.items[idx].Quantity = quantity
	c.items[idx].FinalPrice = copyDecimal(priceOverride)
}

// Remove drops the item for productID, if any.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := c.indexOf(productID); idx >= 0 {
		c.removeAt(idx)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Subtract takes the quantities of committed off the matching cart lines and
// drops lines that reach zero. Lines for products not in committed, and
// quantities added after committed was taken, are kept.
func (c *Cart) Subtract(committed []CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range committed {
		idx := c.indexOf(item.Product.ID)
		if idx < 0 {
			continue
		}
		c.items[idx].Quantity -= item.Quantity
		if c.items[idx].Quantity <= 0 {
			c.removeAt(idx)
		}
	}
}

// Items returns a snapshot that is decoupled from later cart mutations.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CloneItems(c.items)
}

// Len returns the number of distinct products in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cart) indexOf(productID string) int {
	for idx := range c.items {
		if c.items[idx].Product.ID == productID {
			return idx
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.items = append(c.items[:idx], c.items[idx+1:]...)
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

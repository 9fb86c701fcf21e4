package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/shopspring/decimal"
)

// CartLine is one cart entry with its computed line total
type CartLine struct {
	ProductID  string           `json:"product_id"`
	Name       string           `json:"name"`
	Quantity   int              `json:"quantity"`
	SellPrice  decimal.Decimal  `json:"sell_price"`
	FinalPrice *decimal.Decimal `json:"final_price,omitempty"`
	LineTotal  decimal.Decimal  `json:"line_total"`
	Stock      int              `json:"stock"`
}

// Cart is the cart as shown at the till
type Cart struct {
	Items        []CartLine      `json:"items"`
	ItemCount    int             `json:"item_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	SubtotalText string          `json:"subtotal_text"`
}

// NewCart builds the cart payload. format renders money for display.
func NewCart(items []pos.CartItem, format func(decimal.Decimal) string) Cart {
	lines := make([]CartLine, 0, len(items))
	count := 0
	for _, item := range items {
		lines = append(lines, CartLine{
			ProductID:  item.Product.ID,
			Name:       item.Product.Name,
			Quantity:   item.Quantity,
			SellPrice:  item.Product.SellPrice,
			FinalPrice: item.FinalPrice,
			LineTotal:  item.LineTotal(),
			Stock:      item.Product.Stock,
		})
		count += item.Quantity
	}
	subtotal := pos.ComputeTotals(items, decimal.Zero).Subtotal
	return Cart{Items: lines, ItemCount: count, Subtotal: subtotal, SubtotalText: format(subtotal)}
}

// Checkout is the result of committing a cart. Receipt is null when the
// cart was empty.
type Checkout struct {
	Receipt *pos.Receipt `json:"receipt"`
	Print   any          `json:"print,omitempty"`
}

// User is the public view of an account
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUser(u *entity.User) User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Roles:     u.RoleNames(),
		CreatedAt: u.CreatedAt,
	}
}

// Tokens is returned by login and refresh
type Tokens struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

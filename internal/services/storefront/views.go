package storefront

import (
	"time"

	"digital-canteen/internal/models"
	"digital-canteen/internal/money"
	"digital-canteen/internal/services/cart"
	"digital-canteen/internal/services/identity"
	"digital-canteen/internal/services/profile"
)

type menuItemView struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	DisplayPrice string `json:"displayPrice"`
	Image        string `json:"image"`
	Category     string `json:"category"`
	Type         string `json:"type"`
}

func toMenuItemView(it models.MenuItem) menuItemView {
	return menuItemView{
		ID:           it.ID,
		Name:         it.Name,
		Description:  it.Description,
		Price:        money.Fixed(it.Price),
		DisplayPrice: money.Format(it.Price),
		Image:        it.Image,
		Category:     it.Category,
		Type:         string(it.Dietary),
	}
}

type cartLineView struct {
	ItemID    int    `json:"itemId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Amount    string `json:"amount"`
}

type cartView struct {
	Lines     []cartLineView `json:"lines"`
	ItemCount int            `json:"itemCount"`
	Subtotal  string         `json:"subtotal"`
	Tax       string         `json:"tax"`
	Total     string         `json:"total"`
}

func toCartView(c *cart.Store) cartView {
	lines := c.Lines()
	sum := c.Summary()

	v := cartView{
		Lines:     make([]cartLineView, 0, len(lines)),
		ItemCount: sum.ItemCount,
		Subtotal:  money.Format(sum.Subtotal),
		Tax:       money.Format(sum.Tax),
		Total:     money.Format(sum.Total),
	}
	for _, l := range lines {
		v.Lines = append(v.Lines, cartLineView{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: money.Format(l.UnitPrice),
			Amount:    money.Format(l.Amount()),
		})
	}
	return v
}

type userView struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUserView(u identity.User) *userView {
	if u.UID == "" {
		return nil
	}
	return &userView{UID: u.UID, Email: u.Email, Name: u.Name()}
}

type confirmationView struct {
	OrderID       string    `json:"orderId"`
	DisplayID     string    `json:"displayId"`
	Total         string    `json:"total"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentStatus string    `json:"paymentStatus"`
	PlacedAt      time.Time `json:"placedAt"`
}

func toConfirmationView(c models.OrderConfirmation) confirmationView {
	return confirmationView{
		OrderID:       c.OrderID,
		DisplayID:     c.DisplayID(),
		Total:         money.Format(c.Total),
		PaymentMethod: string(c.Method),
		PaymentStatus: c.PaymentStatus(),
		PlacedAt:      c.PlacedAt,
	}
}

type profileView struct {
	UID         string     `json:"uid"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	LastOrderID string     `json:"lastOrderId,omitempty"`
	LastOrderAt *time.Time `json:"lastOrderAt,omitempty"`
}

func toProfileView(p profile.Profile) profileView {
	return profileView{
		UID:         p.UID,
		Email:       p.Email,
		Name:        p.Name(),
		CreatedAt:   timePtr(p.CreatedAt),
		LastLogin:   timePtr(p.LastLogin),
		LastOrderID: p.LastOrderID,
		LastOrderAt: timePtr(p.LastOrderAt),
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

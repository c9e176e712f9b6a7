package customer

import (
	"time"

	"github.com/pizzangooo/loyalty/internal/loyalty"
)

type customerResponse struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Instagram    string        `json:"instagram"`
	Phone        loyalty.Phone `json:"phone"`
	RegisteredBy string        `json:"registeredBy,omitempty"`
	RegisteredAt time.Time     `json:"registeredAt"`
	DOB          *time.Time    `json:"dob,omitempty"`
	EntryFeePaid bool          `json:"entryFeePaid"`
}

type cardResponse struct {
	ID         string           `json:"id"`
	CustomerID string           `json:"customerId"`
	Type       loyalty.CardType `json:"type"`
	Points     int              `json:"points"`
	CreatedAt  time.Time        `json:"createdAt"`
	ExpiresAt  time.Time        `json:"expiresAt"`
}

func toResponse(c *loyalty.Customer) customerResponse {
	return customerResponse{
		ID:           c.ID,
		Name:         c.Name,
		Instagram:    c.Instagram,
		Phone:        c.Phone,
		RegisteredBy: c.RegisteredBy,
		RegisteredAt: c.RegisteredAt,
		DOB:          c.DOB,
		EntryFeePaid: c.EntryFeePaid,
	}
}

func toResponseList(customers []loyalty.Customer) []customerResponse {
	resp := make([]customerResponse, len(customers))
	for i := range customers {
		resp[i] = toResponse(&customers[i])
	}

	return resp
}

func toCardResponse(c *loyalty.Card) cardResponse {
	return cardResponse{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		Type:       c.Type,
		Points:     c.Points,
		CreatedAt:  c.CreatedAt,
		ExpiresAt:  c.ExpiresAt,
	}
}

func toCardResponseList(cards []loyalty.Card) []cardResponse {
	resp := make([]cardResponse, len(cards))
	for i := range cards {
		resp[i] = toCardResponse(&cards[i])
	}

	return resp
}

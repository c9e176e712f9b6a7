package transaction

import (
	"time"

	"github.com/pizzangooo/loyalty/internal/loyalty"
)

type transactionResponse struct {
	ID           string    `json:"id"`
	CardID       string    `json:"cardId"`
	Amount       int64     `json:"amount"`
	Date         time.Time `json:"date"`
	PointsEarned int       `json:"pointsEarned"`
}

type cardResponse struct {
	ID         string           `json:"id"`
	CustomerID string           `json:"customerId"`
	Type       loyalty.CardType `json:"type"`
	Points     int              `json:"points"`
	CreatedAt  time.Time        `json:"createdAt"`
	ExpiresAt  time.Time        `json:"expiresAt"`
}

func toResponse(t *loyalty.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		CardID:       t.CardID,
		Amount:       t.Amount,
		Date:         t.Date,
		PointsEarned: t.PointsEarned,
	}
}

func toResponseList(txs []loyalty.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i := range txs {
		resp[i] = toResponse(&txs[i])
	}

	return resp
}

// toCardResponsePtr passes through nil so responses omit the card when the
// operation left no balance to report.
func toCardResponsePtr(c *loyalty.Card) *cardResponse {
	if c == nil {
		return nil
	}

	return &cardResponse{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		Type:       c.Type,
		Points:     c.Points,
		CreatedAt:  c.CreatedAt,
		ExpiresAt:  c.ExpiresAt,
	}
}

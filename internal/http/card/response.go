package card

import (
	"time"

	"github.com/pizzangooo/loyalty/internal/loyalty"
)

type cardResponse struct {
	ID         string           `json:"id"`
	CustomerID string           `json:"customerId"`
	Type       loyalty.CardType `json:"type"`
	Points     int              `json:"points"`
	CreatedAt  time.Time        `json:"createdAt"`
	ExpiresAt  time.Time        `json:"expiresAt"`
}

type transactionResponse struct {
	ID           string    `json:"id"`
	CardID       string    `json:"cardId"`
	Amount       int64     `json:"amount"`
	Date         time.Time `json:"date"`
	PointsEarned int       `json:"pointsEarned"`
}

func toResponse(c *loyalty.Card) cardResponse {
	return cardResponse{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		Type:       c.Type,
		Points:     c.Points,
		CreatedAt:  c.CreatedAt,
		ExpiresAt:  c.ExpiresAt,
	}
}

func toResponseList(cards []loyalty.Card) []cardResponse {
	resp := make([]cardResponse, len(cards))
	for i := range cards {
		resp[i] = toResponse(&cards[i])
	}

	return resp
}

func toTransactionResponse(t *loyalty.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		CardID:       t.CardID,
		Amount:       t.Amount,
		Date:         t.Date,
		PointsEarned: t.PointsEarned,
	}
}

func toTransactionResponseList(txs []loyalty.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i := range txs {
		resp[i] = toTransactionResponse(&txs[i])
	}

	return resp
}

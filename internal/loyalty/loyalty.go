package loyalty

import "time"

// CardType represents the kind of loyalty instrument issued to a customer.
type CardType string

const (
	// CardTypeFidelity accrues one point per qualifying purchase.
	CardTypeFidelity CardType = "Fidelity"
	// CardTypeVIP is a flat-benefit card and never accrues points.
	CardTypeVIP CardType = "VIP"
)

const (
	// PointsThreshold is the minimum transaction amount that earns a point.
	PointsThreshold int64 = 75000
	// RewardPoints is the balance at which a Fidelity card qualifies for a reward.
	RewardPoints = 10
	// CardValidity is how long a card stays valid after issue.
	CardValidity = 1 // years
)

// Phone holds a number split from its country dialing code.
type Phone struct {
	CountryCode string `json:"countryCode"`
	Number      string `json:"number"`
}

// Customer is a registered patron of the shop.
type Customer struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Instagram    string     `json:"instagram"`
	Phone        Phone      `json:"phone"`
	RegisteredBy string     `json:"registeredBy,omitempty"`
	RegisteredAt time.Time  `json:"registeredAt"`
	DOB          *time.Time `json:"dob,omitempty"`
	EntryFeePaid bool       `json:"entryFeePaid"`
}

// Card is a loyalty instrument owned by exactly one customer. Points are
// meaningful only for Fidelity cards.
type Card struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Type       CardType  `json:"type"`
	Points     int       `json:"points"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Transaction is a purchase recorded against a card. PointsEarned is fixed
// at creation or revision time and is either 0 or 1.
type Transaction struct {
	ID           string    `json:"id"`
	CardID       string    `json:"cardId"`
	Amount       int64     `json:"amount"`
	Date         time.Time `json:"date"`
	PointsEarned int       `json:"pointsEarned"`
}

// Dataset is the whole persisted state, stored and transferred as one unit.
type Dataset struct {
	Customers    []Customer    `json:"customers"`
	Cards        []Card        `json:"cards"`
	Transactions []Transaction `json:"transactions"`
}

// NewDataset returns an empty dataset with non-nil slices so it always
// serializes as the empty triple rather than nulls.
func NewDataset() *Dataset {
	return &Dataset{
		Customers:    []Customer{},
		Cards:        []Card{},
		Transactions: []Transaction{},
	}
}

// pointsFor applies the accrual rule: a Fidelity card earns exactly one
// point for an amount at or above the threshold, VIP cards never earn.
func pointsFor(cardType CardType, amount int64) int {
	if cardType == CardTypeFidelity && amount >= PointsThreshold {
		return 1
	}

	return 0
}

package loyalty

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pizzangooo/loyalty/internal/id"
)

//go:generate mockgen -source=service.go -destination=store_mock.go -package=loyalty

// Store owns the persisted copy of the dataset. Save is expected to be
// atomic with respect to Load: an operation either lands as a whole or not
// at all.
type Store interface {
	Load(ctx context.Context) (*Dataset, error)
	Save(ctx context.Context, ds *Dataset) error
}

// Service is the loyalty-points ledger. Every operation loads the dataset,
// applies its rule in memory and writes the result back in one Save.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// RegisterParams carries everything needed to register a customer and issue
// their first card.
type RegisterParams struct {
	Name         string
	Instagram    string
	Phone        Phone
	RegisteredBy string
	DOB          *time.Time
	EntryFeePaid bool
	CardType     CardType
}

// RegisterCustomer creates the customer and issues a card of the requested
// type, valid for one year. Both are inserted newest-first.
func (s *Service) RegisterCustomer(ctx context.Context, params RegisterParams) (*Customer, *Card, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()

	customer := Customer{
		ID:           id.New("CUST"),
		Name:         params.Name,
		Instagram:    params.Instagram,
		Phone:        params.Phone,
		RegisteredBy: params.RegisteredBy,
		RegisteredAt: now,
		DOB:          params.DOB,
		EntryFeePaid: params.EntryFeePaid,
	}

	card := Card{
		ID:         id.New(cardPrefix(params.CardType)),
		CustomerID: customer.ID,
		Type:       params.CardType,
		Points:     0,
		CreatedAt:  now,
		ExpiresAt:  now.AddDate(CardValidity, 0, 0),
	}

	ds.Customers = append([]Customer{customer}, ds.Customers...)
	ds.Cards = append([]Card{card}, ds.Cards...)

	if err := s.store.Save(ctx, ds); err != nil {
		return nil, nil, fmt.Errorf("saving dataset: %w", err)
	}

	return &customer, &card, nil
}

// cardPrefix derives the id prefix from the card type, e.g. FID- or VIP-.
func cardPrefix(t CardType) string {
	return strings.ToUpper(string(t))[:3] + "-"
}

// SetEntryFeePaid toggles the customer's entry-fee flag.
func (s *Service) SetEntryFeePaid(ctx context.Context, customerID string, paid bool) (*Customer, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := findCustomer(ds, customerID)
	if idx < 0 {
		return nil, ErrCustomerNotFound
	}

	ds.Customers[idx].EntryFeePaid = paid

	if err := s.store.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("saving dataset: %w", err)
	}

	customer := ds.Customers[idx]

	return &customer, nil
}

// RecordTransaction appends a purchase to the card. A Fidelity card earns
// one point when the amount reaches the threshold; the returned card is nil
// when the balance did not change.
func (s *Service) RecordTransaction(ctx context.Context, cardID string, amount int64) (*Transaction, *Card, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	cardIdx := findCard(ds, cardID)
	if cardIdx < 0 {
		return nil, nil, ErrCardNotFound
	}

	card := &ds.Cards[cardIdx]

	points := pointsFor(card.Type, amount)

	var updated *Card

	if points > 0 {
		card.Points++
		c := *card
		updated = &c
	}

	tx := Transaction{
		ID:           id.New("TXN"),
		CardID:       cardID,
		Amount:       amount,
		Date:         time.Now(),
		PointsEarned: points,
	}

	ds.Transactions = append([]Transaction{tx}, ds.Transactions...)

	if err := s.store.Save(ctx, ds); err != nil {
		return nil, nil, fmt.Errorf("saving dataset: %w", err)
	}

	return &tx, updated, nil
}

// ReviseTransactionAmount replaces the amount of an existing transaction.
// The previous point contribution is reversed before the rule is applied to
// the new amount, and the balance is clamped at zero. The transaction date
// is reset to the revision time. For Fidelity cards the card is returned
// even when the balance is numerically unchanged.
func (s *Service) ReviseTransactionAmount(ctx context.Context, transactionID string, newAmount int64) (*Transaction, *Card, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	txIdx := findTransaction(ds, transactionID)
	if txIdx < 0 {
		return nil, nil, ErrTransactionNotFound
	}

	tx := &ds.Transactions[txIdx]

	var updated *Card

	if cardIdx := findCard(ds, tx.CardID); cardIdx >= 0 && ds.Cards[cardIdx].Type == CardTypeFidelity {
		card := &ds.Cards[cardIdx]

		card.Points -= tx.PointsEarned
		newPoints := pointsFor(card.Type, newAmount)
		card.Points += newPoints

		if card.Points < 0 {
			card.Points = 0
		}

		tx.PointsEarned = newPoints
		c := *card
		updated = &c
	}

	tx.Amount = newAmount
	tx.Date = time.Now()

	if err := s.store.Save(ctx, ds); err != nil {
		return nil, nil, fmt.Errorf("saving dataset: %w", err)
	}

	revised := *tx

	return &revised, updated, nil
}

// RemoveTransaction deletes the transaction and reverses its point
// contribution on the owning card, clamped at zero. The updated card is
// returned for Fidelity cards.
func (s *Service) RemoveTransaction(ctx context.Context, transactionID string) (*Card, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	txIdx := findTransaction(ds, transactionID)
	if txIdx < 0 {
		return nil, ErrTransactionNotFound
	}

	tx := ds.Transactions[txIdx]

	var updated *Card

	if cardIdx := findCard(ds, tx.CardID); cardIdx >= 0 && ds.Cards[cardIdx].Type == CardTypeFidelity {
		card := &ds.Cards[cardIdx]

		card.Points -= tx.PointsEarned
		if card.Points < 0 {
			card.Points = 0
		}

		c := *card
		updated = &c
	}

	ds.Transactions = append(ds.Transactions[:txIdx], ds.Transactions[txIdx+1:]...)

	if err := s.store.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("saving dataset: %w", err)
	}

	return updated, nil
}

// RemoveCard deletes the card and every transaction that references it,
// returning the ids of the deleted transactions.
func (s *Service) RemoveCard(ctx context.Context, cardID string) ([]string, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	cardIdx := findCard(ds, cardID)
	if cardIdx < 0 {
		return nil, ErrCardNotFound
	}

	ds.Cards = append(ds.Cards[:cardIdx], ds.Cards[cardIdx+1:]...)

	deleted := []string{}
	kept := ds.Transactions[:0]

	for _, tx := range ds.Transactions {
		if tx.CardID == cardID {
			deleted = append(deleted, tx.ID)
			continue
		}

		kept = append(kept, tx)
	}

	ds.Transactions = kept

	if err := s.store.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("saving dataset: %w", err)
	}

	return deleted, nil
}

// RemoveCustomer deletes the customer, all their cards and all transactions
// on those cards.
func (s *Service) RemoveCustomer(ctx context.Context, customerID string) error {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	idx := findCustomer(ds, customerID)
	if idx < 0 {
		return ErrCustomerNotFound
	}

	ds.Customers = append(ds.Customers[:idx], ds.Customers[idx+1:]...)

	ownedCards := make(map[string]struct{})
	keptCards := ds.Cards[:0]

	for _, c := range ds.Cards {
		if c.CustomerID == customerID {
			ownedCards[c.ID] = struct{}{}
			continue
		}

		keptCards = append(keptCards, c)
	}

	ds.Cards = keptCards

	keptTxs := ds.Transactions[:0]

	for _, tx := range ds.Transactions {
		if _, owned := ownedCards[tx.CardID]; owned {
			continue
		}

		keptTxs = append(keptTxs, tx)
	}

	ds.Transactions = keptTxs

	if err := s.store.Save(ctx, ds); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}

	return nil
}

// Customers lists all customers, newest first.
func (s *Service) Customers(ctx context.Context) ([]Customer, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return ds.Customers, nil
}

// Cards lists all cards, newest first.
func (s *Service) Cards(ctx context.Context) ([]Card, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return ds.Cards, nil
}

// Transactions lists all transactions, newest first.
func (s *Service) Transactions(ctx context.Context) ([]Transaction, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return ds.Transactions, nil
}

func (s *Service) CustomerByID(ctx context.Context, customerID string) (*Customer, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := findCustomer(ds, customerID)
	if idx < 0 {
		return nil, ErrCustomerNotFound
	}

	customer := ds.Customers[idx]

	return &customer, nil
}

func (s *Service) CardByID(ctx context.Context, cardID string) (*Card, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := findCard(ds, cardID)
	if idx < 0 {
		return nil, ErrCardNotFound
	}

	card := ds.Cards[idx]

	return &card, nil
}

// CardsByCustomer lists the cards owned by the customer.
func (s *Service) CardsByCustomer(ctx context.Context, customerID string) ([]Card, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var cards []Card

	for _, c := range ds.Cards {
		if c.CustomerID == customerID {
			cards = append(cards, c)
		}
	}

	return cards, nil
}

// TransactionsByCard lists the transactions recorded against the card,
// newest first.
func (s *Service) TransactionsByCard(ctx context.Context, cardID string) ([]Transaction, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var txs []Transaction

	for _, tx := range ds.Transactions {
		if tx.CardID == cardID {
			txs = append(txs, tx)
		}
	}

	return txs, nil
}

func findCustomer(ds *Dataset, id string) int {
	for i, c := range ds.Customers {
		if c.ID == id {
			return i
		}
	}

	return -1
}

func findCard(ds *Dataset, id string) int {
	for i, c := range ds.Cards {
		if c.ID == id {
			return i
		}
	}

	return -1
}

func findTransaction(ds *Dataset, id string) int {
	for i, t := range ds.Transactions {
		if t.ID == id {
			return i
		}
	}

	return -1
}

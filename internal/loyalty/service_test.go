package loyalty_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pizzangooo/loyalty/internal/loyalty"
)

// fakeStore keeps the dataset in memory, standing in for the kv-backed store.
type fakeStore struct {
	ds    *loyalty.Dataset
	saves int
}

func (f *fakeStore) Load(_ context.Context) (*loyalty.Dataset, error) {
	if f.ds == nil {
		f.ds = loyalty.NewDataset()
	}

	return f.ds, nil
}

func (f *fakeStore) Save(_ context.Context, ds *loyalty.Dataset) error {
	f.ds = ds
	f.saves++

	return nil
}

func register(t *testing.T, svc *loyalty.Service, name string, cardType loyalty.CardType) (*loyalty.Customer, *loyalty.Card) {
	t.Helper()

	customer, card, err := svc.RegisterCustomer(context.Background(), loyalty.RegisterParams{
		Name:         name,
		Instagram:    "@" + strings.ToLower(name),
		Phone:        loyalty.Phone{CountryCode: "+62", Number: "81234567"},
		RegisteredBy: "staff",
		CardType:     cardType,
	})
	require.NoError(t, err)

	return customer, card
}

func TestService_RegisterCustomer(t *testing.T) {
	st := &fakeStore{}
	svc := loyalty.NewService(st)

	customer, card := register(t, svc, "Ayu", loyalty.CardTypeFidelity)

	assert.True(t, strings.HasPrefix(customer.ID, "CUST"))
	assert.True(t, strings.HasPrefix(card.ID, "FID-"))
	assert.Equal(t, customer.ID, card.CustomerID)
	assert.Equal(t, 0, card.Points)
	assert.Equal(t, card.CreatedAt.AddDate(1, 0, 0), card.ExpiresAt)

	_, vipCard := register(t, svc, "Budi", loyalty.CardTypeVIP)
	assert.True(t, strings.HasPrefix(vipCard.ID, "VIP-"))

	// Newest first.
	assert.Equal(t, "Budi", st.ds.Customers[0].Name)
	assert.Equal(t, "Ayu", st.ds.Customers[1].Name)
}

func TestService_SetEntryFeePaid(t *testing.T) {
	st := &fakeStore{}
	svc := loyalty.NewService(st)

	customer, _ := register(t, svc, "Ayu", loyalty.CardTypeFidelity)

	updated, err := svc.SetEntryFeePaid(context.Background(), customer.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.EntryFeePaid)

	_, err = svc.SetEntryFeePaid(context.Background(), "CUSTMISSING", true)
	assert.ErrorIs(t, err, loyalty.ErrCustomerNotFound)
}

func TestService_RecordTransaction(t *testing.T) {
	type testCase struct {
		name       string
		cardType   loyalty.CardType
		amount     int64
		wantPoints int
		wantCard   bool
	}

	tests := []testCase{
		{
			name:       "FidelityAboveThreshold",
			cardType:   loyalty.CardTypeFidelity,
			amount:     80000,
			wantPoints: 1,
			wantCard:   true,
		},
		{
			name:       "FidelityAtThreshold",
			cardType:   loyalty.CardTypeFidelity,
			amount:     75000,
			wantPoints: 1,
			wantCard:   true,
		},
		{
			name:       "FidelityBelowThreshold",
			cardType:   loyalty.CardTypeFidelity,
			amount:     74999,
			wantPoints: 0,
			wantCard:   false,
		},
		{
			name:       "VIPAboveThreshold",
			cardType:   loyalty.CardTypeVIP,
			amount:     500000,
			wantPoints: 0,
			wantCard:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeStore{}
			svc := loyalty.NewService(st)

			_, card := register(t, svc, "Ayu", tt.cardType)

			tx, updated, err := svc.RecordTransaction(context.Background(), card.ID, tt.amount)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(tx.ID, "TXN"))
			assert.Equal(t, tt.amount, tx.Amount)
			assert.Equal(t, tt.wantPoints, tx.PointsEarned)

			if tt.wantCard {
				require.NotNil(t, updated)
				assert.Equal(t, tt.wantPoints, updated.Points)
			} else {
				assert.Nil(t, updated)
			}
		})
	}
}

func TestService_RecordTransaction_CardNotFound(t *testing.T) {
	svc := loyalty.NewService(&fakeStore{})

	_, _, err := svc.RecordTransaction(context.Background(), "FID-MISSING", 80000)
	assert.ErrorIs(t, err, loyalty.ErrCardNotFound)
}

func TestService_RecordTransaction_NewestFirst(t *testing.T) {
	st := &fakeStore{}
	svc := loyalty.NewService(st)

	_, card := register(t, svc, "Ayu", loyalty.CardTypeFidelity)

	first, _, err := svc.RecordTransaction(context.Background(), card.ID, 10000)
	require.NoError(t, err)
	second, _, err := svc.RecordTransaction(context.Background(), card.ID, 20000)
	require.NoError(t, err)

	require.Len(t, st.ds.Transactions, 2)
	assert.Equal(t, second.ID, st.ds.Transactions[0].ID)
	assert.Equal(t, first.ID, st.ds.Transactions[1].ID)
}

func TestService_ReviseTransactionAmount(t *testing.T) {
	st := &fakeStore{}
	svc := loyalty.NewService(st)

	_, card := register(t, svc, "Ayu", loyalty.CardTypeFidelity)

	tx, _, err := svc.RecordTransaction(context.Background(), card.ID, 80000)
	require.NoError(t, err)

	// Dropping below the threshold takes the point back.
	revised, updated, err := svc.ReviseTransactionAmount(context.Background(), tx.ID, 50000)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 0, updated.Points)
	assert.Equal(t, int64(50000), revised.Amount)
	assert.Equal(t, 0, revised.PointsEarned)
	assert.True(t, revised.Date.After(tx.Date) || revised.Date.Equal(tx.Date))

	// Raising it back above re-earns exactly one point.
	revised, updated, err = svc.ReviseTransactionAmount(context.Background(), tx.ID, 90000)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Points)
	assert.Equal(t, 1, revised.PointsEarned)
}

func TestService_ReviseTransactionAmount_Idempotent(t *testing.T) {
	st := &fakeStore{}
	svc := loyalty.NewService(st)

	_, card := register(t, svc, "Ayu", loyalty.CardTypeFidelity)

	tx, _, err := svc.RecordTransaction(context.Background(), card.ID, 80000)
	require.NoError(t, err)

	// Revising to the current amount leaves the balance unchanged.
	_, updated, err := svc.ReviseTransactionAmount(context.Background(), tx.ID, 80000)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 1, updated.Points)
}

func TestService_ReviseTransactionAmount_VIPCardReturnsNoCard(t *testing.T) {
	st := &fakeStore{}
	svc := loyalty.NewService(st)

	_, card := register(t, svc, "Budi", loyalty.CardTypeVIP)

	tx, _, err := svc.RecordTransaction(context.Background(), card.ID, 80000)
	require.NoError(t, err)

	revised, updated, err := svc.ReviseTransactionAmount(context.Background(), tx.ID, 100000)
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Equal(t, int64(100000), revised.Amount)
	assert.Equal(t, 0, revised.PointsEarned)
}

func TestService_ReviseTransactionAmount_NotFound(t *testing.T) {
	svc := loyalty.NewService(&fakeStore{})

	_, _, err := svc.ReviseTransactionAmount(context.Background(), "TXNMISSING", 80000)
	assert.ErrorIs(t, err, loyalty.ErrTransactionNotFound)
}

func TestService_RemoveTransaction(t *testing.T) {
	st := &fakeStore{}
	svc := loyalty.NewService(st)

	_, card := register(t, svc, "Ayu", loyalty.CardTypeFidelity)

	tx, _, err := svc.RecordTransaction(context.Background(), card.ID, 80000)
	require.NoError(t, err)

	updated, err := svc.RemoveTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 0, updated.Points)
	assert.Empty(t, st.ds.Transactions)

	_, err = svc.RemoveTransaction(context.Background(), tx.ID)
	assert.ErrorIs(t, err, loyalty.ErrTransactionNotFound)
}

func TestService_RemoveCard_CascadesTransactions(t *testing.T) {
	st := &fakeStore{}
	svc := loyalty.NewService(st)

	_, card := register(t, svc, "Ayu", loyalty.CardTypeFidelity)
	_, other := register(t, svc, "Budi", loyalty.CardTypeFidelity)

	tx1, _, err := svc.RecordTransaction(context.Background(), card.ID, 80000)
	require.NoError(t, err)
	tx2, _, err := svc.RecordTransaction(context.Background(), card.ID, 10000)
	require.NoError(t, err)
	keep, _, err := svc.RecordTransaction(context.Background(), other.ID, 90000)
	require.NoError(t, err)

	deleted, err := svc.RemoveCard(context.Background(), card.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{tx1.ID, tx2.ID}, deleted)

	// No transaction referencing the deleted card remains.
	require.Len(t, st.ds.Transactions, 1)
	assert.Equal(t, keep.ID, st.ds.Transactions[0].ID)

	_, err = svc.RemoveCard(context.Background(), card.ID)
	assert.ErrorIs(t, err, loyalty.ErrCardNotFound)
}

func TestService_RemoveCustomer_FullCascade(t *testing.T) {
	st := &fakeStore{}
	svc := loyalty.NewService(st)

	customer, card := register(t, svc, "Ayu", loyalty.CardTypeFidelity)
	_, otherCard := register(t, svc, "Budi", loyalty.CardTypeVIP)

	_, _, err := svc.RecordTransaction(context.Background(), card.ID, 80000)
	require.NoError(t, err)
	_, _, err = svc.RecordTransaction(context.Background(), otherCard.ID, 80000)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveCustomer(context.Background(), customer.ID))

	require.Len(t, st.ds.Customers, 1)
	assert.Equal(t, "Budi", st.ds.Customers[0].Name)

	for _, c := range st.ds.Cards {
		assert.NotEqual(t, customer.ID, c.CustomerID)
	}

	for _, tx := range st.ds.Transactions {
		assert.NotEqual(t, card.ID, tx.CardID)
	}

	assert.ErrorIs(t, svc.RemoveCustomer(context.Background(), customer.ID), loyalty.ErrCustomerNotFound)
}

// TestService_BalanceFollowsLedger walks the scenario from the shop floor:
// record 80000 (+1), revise down to 50000 (-1), record 75000 (+1), delete it
// again (-1). The balance must track the surviving transactions throughout.
func TestService_BalanceFollowsLedger(t *testing.T) {
	st := &fakeStore{}
	svc := loyalty.NewService(st)
	ctx := context.Background()

	_, card := register(t, svc, "Ayu", loyalty.CardTypeFidelity)

	first, updated, err := svc.RecordTransaction(ctx, card.ID, 80000)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Points)

	_, updated, err = svc.ReviseTransactionAmount(ctx, first.ID, 50000)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Points)

	second, updated, err := svc.RecordTransaction(ctx, card.ID, 75000)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Points)

	updated, err = svc.RemoveTransaction(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Points)

	assertBalanceInvariant(t, st.ds)
}

func assertBalanceInvariant(t *testing.T, ds *loyalty.Dataset) {
	t.Helper()

	for _, card := range ds.Cards {
		assert.GreaterOrEqual(t, card.Points, 0)

		if card.Type != loyalty.CardTypeFidelity {
			continue
		}

		sum := 0

		for _, tx := range ds.Transactions {
			if tx.CardID == card.ID {
				sum += tx.PointsEarned
			}
		}

		assert.Equal(t, sum, card.Points, "card %s balance drifted from its ledger", card.ID)
	}
}

func TestService_StoreErrors(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *loyalty.MockStore)
		call      func(svc *loyalty.Service) error
	}

	loadErr := errors.New("load failed")
	saveErr := errors.New("save failed")

	dsWithCard := func() *loyalty.Dataset {
		ds := loyalty.NewDataset()
		ds.Cards = append(ds.Cards, loyalty.Card{
			ID:         "FID-1",
			CustomerID: "CUST1",
			Type:       loyalty.CardTypeFidelity,
			CreatedAt:  time.Now(),
			ExpiresAt:  time.Now().AddDate(1, 0, 0),
		})

		return ds
	}

	tests := []testCase{
		{
			name: "LoadError",
			setupMock: func(m *loyalty.MockStore) {
				m.EXPECT().Load(gomock.Any()).Return(nil, loadErr)
			},
			call: func(svc *loyalty.Service) error {
				_, _, err := svc.RecordTransaction(context.Background(), "FID-1", 80000)
				return err
			},
		},
		{
			name: "SaveError",
			setupMock: func(m *loyalty.MockStore) {
				m.EXPECT().Load(gomock.Any()).Return(dsWithCard(), nil)
				m.EXPECT().Save(gomock.Any(), gomock.Any()).Return(saveErr)
			},
			call: func(svc *loyalty.Service) error {
				_, _, err := svc.RecordTransaction(context.Background(), "FID-1", 80000)
				return err
			},
		},
		{
			name: "RegisterSaveError",
			setupMock: func(m *loyalty.MockStore) {
				m.EXPECT().Load(gomock.Any()).Return(loyalty.NewDataset(), nil)
				m.EXPECT().Save(gomock.Any(), gomock.Any()).Return(saveErr)
			},
			call: func(svc *loyalty.Service) error {
				_, _, err := svc.RegisterCustomer(context.Background(), loyalty.RegisterParams{
					Name:     "Ayu",
					CardType: loyalty.CardTypeFidelity,
				})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			st := loyalty.NewMockStore(ctrl)
			tt.setupMock(st)

			err := tt.call(loyalty.NewService(st))
			assert.Error(t, err)
		})
	}
}

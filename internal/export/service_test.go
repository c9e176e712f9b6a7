package export_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pizzangooo/loyalty/internal/export"
	"github.com/pizzangooo/loyalty/internal/loyalty"
	"github.com/pizzangooo/loyalty/internal/store"
)

func fixtureDataset() *loyalty.Dataset {
	dob := time.Date(1998, 6, 21, 0, 0, 0, 0, time.UTC)

	return &loyalty.Dataset{
		Customers: []loyalty.Customer{
			{
				ID:           "CUST1",
				Name:         "Ayu",
				Instagram:    "@ayu",
				Phone:        loyalty.Phone{CountryCode: "+62", Number: "81234567"},
				RegisteredBy: "Gio",
				RegisteredAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
				DOB:          &dob,
				EntryFeePaid: true,
			},
			{
				ID:           "CUST2",
				Name:         "Budi",
				Instagram:    "@budi",
				Phone:        loyalty.Phone{CountryCode: "+62", Number: "8999"},
				RegisteredAt: time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC),
			},
		},
		Cards: []loyalty.Card{
			{
				ID:         "FID-1",
				CustomerID: "CUST1",
				Type:       loyalty.CardTypeFidelity,
				Points:     2,
				CreatedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
				ExpiresAt:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			},
			{
				ID:         "VIP-1",
				CustomerID: "CUST2",
				Type:       loyalty.CardTypeVIP,
				Points:     0,
				CreatedAt:  time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC),
				ExpiresAt:  time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC),
			},
		},
		Transactions: []loyalty.Transaction{
			{
				ID:           "TXN1",
				CardID:       "FID-1",
				Amount:       80000,
				Date:         time.Date(2024, 3, 2, 18, 30, 0, 0, time.UTC),
				PointsEarned: 1,
			},
			{
				ID:           "TXN2",
				CardID:       "FID-1",
				Amount:       50000,
				Date:         time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC),
				PointsEarned: 0,
			},
		},
	}
}

func newService(t *testing.T, ds *loyalty.Dataset) *export.Service {
	t.Helper()

	st := store.New(store.NewMemKV())
	require.NoError(t, st.Replace(context.Background(), ds))

	return export.NewService(st)
}

func TestService_Export_JSON(t *testing.T) {
	svc := newService(t, fixtureDataset())

	data, err := svc.Export(context.Background(), export.FormatJSON)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithNameSuffix(".golden"))
	g.Assert(t, "export_json", data)
}

func TestService_Export_CSV(t *testing.T) {
	svc := newService(t, fixtureDataset())

	data, err := svc.Export(context.Background(), export.FormatCSV)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithNameSuffix(".golden"))
	g.Assert(t, "export_csv", data)
}

func TestService_Export_CSV_EmptyDataset(t *testing.T) {
	svc := newService(t, loyalty.NewDataset())

	data, err := svc.Export(context.Background(), export.FormatCSV)
	require.NoError(t, err)

	// All three headers survive with no rows between them.
	out := string(data)
	assert.Contains(t, out, "customerId,name,instagram,phone,registeredAt,registeredBy,dob,entryFeePaid")
	assert.Contains(t, out, "cardId,customerId,type,points,createdAt")
	assert.Contains(t, out, "transactionId,cardId,amount,date,pointsEarned")
}

func TestService_Export_UnknownFormat(t *testing.T) {
	svc := newService(t, loyalty.NewDataset())

	_, err := svc.Export(context.Background(), export.Format("xml"))
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestService_Filename(t *testing.T) {
	svc := newService(t, loyalty.NewDataset())

	name := svc.Filename(export.FormatCSV)
	assert.True(t, strings.HasPrefix(name, "loyalty_export_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}

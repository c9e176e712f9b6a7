// Package export serializes the dataset into portable text formats.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pizzangooo/loyalty/internal/loyalty"
	"github.com/pizzangooo/loyalty/internal/store"
)

// Format selects the export representation.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned for formats other than json and csv.
var ErrUnknownFormat = fmt.Errorf("unknown export format")

const (
	customerHeader    = "customerId,name,instagram,phone,registeredAt,registeredBy,dob,entryFeePaid"
	cardHeader        = "cardId,customerId,type,points,createdAt"
	transactionHeader = "transactionId,cardId,amount,date,pointsEarned"
)

// Service turns the persisted dataset into downloadable text.
type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Export renders the full dataset. JSON is pretty-printed with two-space
// indentation; CSV is three fixed-header tables separated by blank lines.
func (s *Service) Export(ctx context.Context, format Format) ([]byte, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	switch format {
	case FormatJSON:
		return loyalty.EncodeDatasetIndent(ds)
	case FormatCSV:
		return []byte(toCSV(ds)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Filename suggests a download name for the given format.
func (s *Service) Filename(format Format) string {
	return fmt.Sprintf("loyalty_export_%s.%s", time.Now().Format("20060102"), format)
}

func toCSV(ds *loyalty.Dataset) string {
	var sb strings.Builder

	sb.WriteString(customerHeader + "\n")

	for i, c := range ds.Customers {
		if i > 0 {
			sb.WriteString("\n")
		}

		dob := ""
		if c.DOB != nil {
			dob = timestamp(*c.DOB)
		}

		// The composite phone is the only quoted field; values are not
		// escaped beyond that.
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%q,%s,%s,%s,%t",
			c.ID, c.Name, c.Instagram,
			c.Phone.CountryCode+" "+c.Phone.Number,
			timestamp(c.RegisteredAt), c.RegisteredBy, dob, c.EntryFeePaid,
		))
	}

	sb.WriteString("\n\n" + cardHeader + "\n")

	for i, c := range ds.Cards {
		if i > 0 {
			sb.WriteString("\n")
		}

		sb.WriteString(fmt.Sprintf("%s,%s,%s,%d,%s",
			c.ID, c.CustomerID, c.Type, c.Points, timestamp(c.CreatedAt),
		))
	}

	sb.WriteString("\n\n" + transactionHeader + "\n")

	for i, t := range ds.Transactions {
		if i > 0 {
			sb.WriteString("\n")
		}

		sb.WriteString(fmt.Sprintf("%s,%s,%d,%s,%d",
			t.ID, t.CardID, t.Amount, timestamp(t.Date), t.PointsEarned,
		))
	}

	return sb.String()
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

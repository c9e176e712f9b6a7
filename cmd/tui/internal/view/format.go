package view

import (
	"context"
	"strconv"
	"strings"
	"time"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders a rupiah amount with thousand separators, e.g. 75.000.
func FormatAmount(amount int64) string {
	var sb strings.Builder

	if amount < 0 {
		sb.WriteByte('-')
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteByte(s[i])
	}

	return sb.String()
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DbCtx returns a context with a standard timeout for store operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

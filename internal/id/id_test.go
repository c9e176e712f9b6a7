package id_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pizzangooo/loyalty/internal/id"
)

func TestNew_Prefix(t *testing.T) {
	got := id.New("TXN")

	assert.True(t, strings.HasPrefix(got, "TXN"))
	assert.Equal(t, strings.ToUpper(got), got)
	assert.Greater(t, len(got), len("TXN")+6)
}

func TestNew_UniqueWithinMillisecond(t *testing.T) {
	seen := make(map[string]struct{})

	for range 1000 {
		v := id.New("CUST")
		_, dup := seen[v]
		assert.False(t, dup, "duplicate id %s", v)
		seen[v] = struct{}{}
	}
}

func TestNew_EmptyPrefix(t *testing.T) {
	got := id.New("")

	assert.NotEmpty(t, got)
	assert.Equal(t, strings.ToUpper(got), got)
}

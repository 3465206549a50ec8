package inrwords

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, ""},
		{7, "Seven"},
		{42, "Forty Two"},
		{100, "One Hundred"},
		{1005, "One Thousand Five"},
		{250000, "Two Lakh Fifty Thousand"},
		{12345678, "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight"},
	}
	for _, test := range tests {
		require.Equal(t, test.want, Number(test.in), "n=%d", test.in)
	}
}

func TestRupees(t *testing.T) {
	require.Equal(t, "Zero Rupees Only", Rupees(decimal.Zero))
	require.Equal(t, "Four Lakh Rupees Only", Rupees(decimal.NewFromInt(400000)))
	require.Equal(t, "Twelve Rupees and Fifty Paise Only", Rupees(decimal.RequireFromString("12.50")))
	require.Equal(t, "Fifty Paise Only", Rupees(decimal.RequireFromString("0.499")))
}

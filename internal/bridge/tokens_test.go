package bridge

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in       string
		decimals int
		want     string
		err      error
	}{
		{in: "1", decimals: 6, want: "1000000"},
		{in: "1.5", decimals: 6, want: "1500000"},
		{in: ".25", decimals: 6, want: "250000"},
		{in: " 0.000001 ", decimals: 6, want: "1"},
		{in: "0.1", decimals: 18, want: "100000000000000000"},
		{in: "123456789.123456789", decimals: 18, want: "123456789123456789000000000"},
		{in: "0", decimals: 6, err: ErrInvalidAmount},
		{in: "-1", decimals: 6, err: ErrInvalidAmount},
		{in: "0.0", decimals: 6, err: ErrInvalidAmount},
		{in: "1.", decimals: 6, err: ErrInvalidAmount},
		{in: "1,5", decimals: 6, err: ErrInvalidAmount},
		{in: "", decimals: 6, err: ErrInvalidAmount},
		{in: "0.0000001", decimals: 6, err: ErrTooPrecise},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in, tc.decimals)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.5", FormatAmount(big.NewInt(1_500_000), 6))
	assert.Equal(t, "0.000005", FormatAmount(big.NewInt(5), 6))
	assert.Equal(t, "2", FormatAmount(big.NewInt(2_000_000), 6))
	assert.Equal(t, "-0.1", FormatAmount(big.NewInt(-100_000), 6))
	assert.Equal(t, "42", FormatAmount(big.NewInt(42), 0))
	assert.Equal(t, "0", FormatAmount(nil, 6))

	v, err := ParseAmount("12.0345", 18)
	require.NoError(t, err)
	assert.Equal(t, "12.0345", FormatAmount(v, 18))
}

func TestLookupToken(t *testing.T) {
	tok, err := LookupToken("eth")
	require.NoError(t, err)
	assert.Equal(t, Token{Symbol: "ETH", Name: "Ethereum", Decimals: 18}, tok)

	_, err = LookupToken("DAI")
	assert.ErrorIs(t, err, ErrUnsupportedToken)
	assert.EqualError(t, err, "Token DAI not supported")
}

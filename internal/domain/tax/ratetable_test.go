package tax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRateTable(t *testing.T) {
	table := StaticRateTable{
		"IGV":    money("18"),
		"EXEMPT": money("0"),
	}
	ctx := context.Background()

	rate, err := table.TaxRate(ctx, "IGV")
	require.NoError(t, err)
	assert.True(t, rate.Equal(money("18")))

	rate, err = table.TaxRate(ctx, "EXEMPT")
	require.NoError(t, err)
	assert.True(t, rate.IsZero())

	_, err = table.TaxRate(ctx, "VAT")
	assert.Error(t, err, "unknown code is rejected, not defaulted")
}

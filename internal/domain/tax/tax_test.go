package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

func money(s string) types.Money { return types.MustMoney(s) }

func TestCompute_Inclusive(t *testing.T) {
	b, err := Compute(money("118.00"), money("18"), ModeInclusive)
	require.NoError(t, err)

	assert.True(t, b.Net.Equal(money("100.00")), "net = %s", b.Net)
	assert.True(t, b.Tax.Equal(money("18.00")), "tax = %s", b.Tax)
	assert.True(t, b.Gross.Equal(money("118.00")))
}

func TestCompute_Exclusive(t *testing.T) {
	b, err := Compute(money("100.00"), money("18"), ModeExclusive)
	require.NoError(t, err)

	assert.True(t, b.Net.Equal(money("100.00")))
	assert.True(t, b.Tax.Equal(money("18.00")))
	assert.True(t, b.Gross.Equal(money("118.00")))
}

func TestCompute_RoundingKeepsIdentity(t *testing.T) {
	cases := []struct {
		amount string
		rate   string
		mode   Mode
	}{
		{"99.99", "18", ModeInclusive},
		{"0.01", "18", ModeInclusive},
		{"33.33", "19", ModeExclusive},
		{"10.07", "7.5", ModeInclusive},
	}

	for _, tc := range cases {
		b, err := Compute(money(tc.amount), money(tc.rate), tc.mode)
		require.NoError(t, err)
		assert.True(t, b.Gross.Equal(b.Net.Add(b.Tax)),
			"%s @ %s%% %s: gross %s != net %s + tax %s",
			tc.amount, tc.rate, tc.mode, b.Gross, b.Net, b.Tax)
	}
}

func TestCompute_ZeroRate(t *testing.T) {
	b, err := Compute(money("50.00"), money("0"), ModeInclusive)
	require.NoError(t, err)
	assert.True(t, b.Net.Equal(money("50.00")))
	assert.True(t, b.Tax.IsZero())
}

func TestCompute_Rejections(t *testing.T) {
	_, err := Compute(money("10.00"), money("-1"), ModeInclusive)
	assert.Error(t, err)

	_, err = Compute(money("10.00"), money("18"), Mode("mixed"))
	assert.Error(t, err)
}

func TestLineTotal(t *testing.T) {
	b, err := LineTotal(types.NewQuantityFromFloat64(2), money("59.00"), money("18"), ModeInclusive)
	require.NoError(t, err)
	assert.True(t, b.Gross.Equal(money("118.00")))
	assert.True(t, b.Net.Equal(money("100.00")))
	assert.True(t, b.Tax.Equal(money("18.00")))
}

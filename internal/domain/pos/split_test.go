package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/types"
)

func money(s string) types.Money { return types.MustMoney(s) }

func TestComputeSplit(t *testing.T) {
	cases := []struct {
		name                          string
		returnTotal, saleTotal        string
		applied, owed, refunded string
	}{
		{"exchange costs more", "100.00", "130.00", "100.00", "30.00", "0.00"},
		{"exchange costs less", "150.00", "90.00", "90.00", "0.00", "60.00"},
		{"even exchange", "75.50", "75.50", "75.50", "0.00", "0.00"},
		{"pure return", "40.00", "0.00", "0.00", "0.00", "40.00"},
		{"pure sale", "0.00", "25.00", "0.00", "25.00", "0.00"},
		{"cent difference", "10.00", "10.01", "10.00", "0.01", "0.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ComputeSplit(money(tc.returnTotal), money(tc.saleTotal))

			assert.True(t, s.AppliedCredit.Equal(money(tc.applied)), "applied = %s", s.AppliedCredit)
			assert.True(t, s.AmountOwed.Equal(money(tc.owed)), "owed = %s", s.AmountOwed)
			assert.True(t, s.AmountRefunded.Equal(money(tc.refunded)), "refunded = %s", s.AmountRefunded)

			// The three parts always reassemble both totals.
			assert.True(t, s.AppliedCredit.Add(s.AmountOwed).Equal(s.SaleTotal))
			assert.True(t, s.AppliedCredit.Add(s.AmountRefunded).Equal(s.ReturnTotal))
		})
	}
}

func TestComputeSplit_AtMostOneSideNonZero(t *testing.T) {
	s := ComputeSplit(money("33.33"), money("44.44"))
	assert.True(t, s.AmountOwed.IsZero() || s.AmountRefunded.IsZero())

	s = ComputeSplit(money("44.44"), money("33.33"))
	assert.True(t, s.AmountOwed.IsZero() || s.AmountRefunded.IsZero())
}

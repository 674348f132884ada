package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasRole(t *testing.T) {
	cashier := &UserContext{UserID: "u1", Roles: []string{"cashier"}}
	assert.True(t, cashier.HasRole("cashier"))
	assert.False(t, cashier.HasRole("manager"))

	admin := &UserContext{UserID: "u2", IsAdmin: true}
	assert.True(t, admin.HasRole("manager"), "admins hold every role")

	var nobody *UserContext
	assert.False(t, nobody.HasRole("cashier"))
}

func TestUserRoundTrip(t *testing.T) {
	ctx := WithUser(context.Background(), &UserContext{UserID: "u1"})
	assert.Equal(t, "u1", GetUserID(ctx))
	assert.Equal(t, "", GetUserID(context.Background()))
	assert.Nil(t, GetUser(context.Background()))
}

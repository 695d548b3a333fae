// internal/domain/order/entity_test.go
package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusDelivered, StatusFailed} {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, Status("shipped").Valid())
	assert.False(t, Status("").Valid())
}

func TestOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusDelivered, true},
		{StatusConfirmed, StatusFailed, true},
		{StatusConfirmed, StatusPending, false},
		{StatusDelivered, StatusFailed, false},
		{StatusDelivered, StatusConfirmed, false},
		{StatusFailed, StatusConfirmed, false},
		{StatusFailed, StatusPending, false},
	}

	for _, tt := range tests {
		o := &Order{Status: tt.from}
		assert.Equal(t, tt.allowed, o.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestOrder_IsTerminal(t *testing.T) {
	assert.False(t, (&Order{Status: StatusPending}).IsTerminal())
	assert.False(t, (&Order{Status: StatusConfirmed}).IsTerminal())
	assert.True(t, (&Order{Status: StatusDelivered}).IsTerminal())
	assert.True(t, (&Order{Status: StatusFailed}).IsTerminal())
}

func TestGenerateOrderNumber(t *testing.T) {
	number := generateOrderNumber(42)
	assert.Regexp(t, `^LP-\d{8}-00042$`, number)
}

// internal/domain/checkout/machine_test.go
package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewReadyDraft() Draft {
	return Draft{
		Step:           StepPayment,
		PaymentMethod:  PaymentMethodESewa,
		TransactionRef: "TXN-12345",
		Proof:          &ProofImage{Filename: "proof.png", Path: "uploads/proof.png"},
	}
}

func TestTransition_ForwardPath(t *testing.T) {
	d := Draft{Step: StepContact}

	next, err := Transition(d, EventNext)
	require.NoError(t, err)
	assert.Equal(t, StepPayment, next)

	d = reviewReadyDraft()
	next, err = Transition(d, EventNext)
	require.NoError(t, err)
	assert.Equal(t, StepReview, next)

	d.Step = StepReview
	next, err = Transition(d, EventSubmitted)
	require.NoError(t, err)
	assert.Equal(t, StepConfirmed, next)
}

func TestTransition_ContactNeverBlocks(t *testing.T) {
	// Contact fields are optional, so Next from Contact always succeeds
	next, err := Transition(Draft{Step: StepContact}, EventNext)
	require.NoError(t, err)
	assert.Equal(t, StepPayment, next)
}

func TestTransition_PaymentGuard(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr error
	}{
		{
			name:    "missing method",
			mutate:  func(d *Draft) { d.PaymentMethod = PaymentMethodUnset },
			wantErr: ErrPaymentMethodRequired,
		},
		{
			name:    "missing transaction ref",
			mutate:  func(d *Draft) { d.TransactionRef = "" },
			wantErr: ErrTransactionRefRequired,
		},
		{
			name:    "missing proof",
			mutate:  func(d *Draft) { d.Proof = nil },
			wantErr: ErrProofRequired,
		},
		{
			name: "method missing reported before ref and proof",
			mutate: func(d *Draft) {
				d.PaymentMethod = PaymentMethodUnset
				d.TransactionRef = ""
				d.Proof = nil
			},
			wantErr: ErrPaymentMethodRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := reviewReadyDraft()
			tt.mutate(&d)

			next, err := Transition(d, EventNext)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, StepPayment, next)
		})
	}
}

func TestTransition_Back(t *testing.T) {
	next, err := Transition(Draft{Step: StepPayment}, EventBack)
	require.NoError(t, err)
	assert.Equal(t, StepContact, next)

	next, err = Transition(Draft{Step: StepReview}, EventBack)
	require.NoError(t, err)
	assert.Equal(t, StepPayment, next)

	_, err = Transition(Draft{Step: StepContact}, EventBack)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_BackKeepsEnteredFields(t *testing.T) {
	d := reviewReadyDraft()
	d.Step = StepReview

	next, err := Transition(d, EventBack)
	require.NoError(t, err)
	assert.Equal(t, StepPayment, next)

	// Transition only computes the next step; the draft's fields are
	// untouched and re-advancing succeeds with the same data
	d.Step = next
	next, err = Transition(d, EventNext)
	require.NoError(t, err)
	assert.Equal(t, StepReview, next)
}

func TestTransition_SubmittedOnlyFromReview(t *testing.T) {
	for _, step := range []Step{StepContact, StepPayment} {
		_, err := Transition(Draft{Step: step}, EventSubmitted)
		assert.ErrorIs(t, err, ErrInvalidTransition, "step %s", step)
	}
}

func TestTransition_NextRejectedFromReview(t *testing.T) {
	d := reviewReadyDraft()
	d.Step = StepReview

	_, err := Transition(d, EventNext)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_ConfirmedIsTerminal(t *testing.T) {
	d := Draft{Step: StepConfirmed}

	for _, event := range []Event{EventNext, EventBack, EventSubmitted} {
		_, err := Transition(d, event)
		assert.ErrorIs(t, err, ErrFlowFinished, "event %s", event)
	}
}

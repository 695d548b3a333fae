// internal/domain/checkout/machine.go
package checkout

import "errors"

// Event is a user action driving the checkout flow
type Event string

const (
	// EventNext advances one step forward, subject to the step's guard
	EventNext Event = "next"
	// EventBack returns to the immediately preceding step
	EventBack Event = "back"
	// EventSubmitted records a successful order submission
	EventSubmitted Event = "submitted"
)

// Guard failures for the payment step. Each names the exact condition that
// blocked the transition so the caller can highlight the offending field.
var (
	ErrPaymentMethodRequired  = errors.New("payment method must be selected")
	ErrTransactionRefRequired = errors.New("transaction reference is required")
	ErrProofRequired          = errors.New("payment screenshot must be attached")
)

var (
	// ErrFlowFinished rejects any event on a confirmed draft
	ErrFlowFinished = errors.New("checkout is already confirmed")
	// ErrInvalidTransition rejects events the current step does not accept
	ErrInvalidTransition = errors.New("transition not allowed from current step")
)

// Transition is the pure step function of the checkout flow: given the
// current draft and an event it returns the next step, or the reason the
// move is rejected. It never mutates the draft and performs no I/O; the
// Review->Confirmed move is only reachable through EventSubmitted, which
// the service fires after the order collaborator accepts the draft.
func Transition(d Draft, event Event) (Step, error) {
	if d.Step.IsTerminal() {
		return d.Step, ErrFlowFinished
	}

	switch event {
	case EventNext:
		switch d.Step {
		case StepContact:
			// Contact fields are optional; always passable
			return StepPayment, nil
		case StepPayment:
			if err := paymentGuard(d); err != nil {
				return d.Step, err
			}
			return StepReview, nil
		case StepReview:
			// Review only leaves via a successful submission
			return d.Step, ErrInvalidTransition
		}

	case EventBack:
		switch d.Step {
		case StepPayment:
			return StepContact, nil
		case StepReview:
			return StepPayment, nil
		case StepContact:
			return d.Step, ErrInvalidTransition
		}

	case EventSubmitted:
		if d.Step == StepReview {
			return StepConfirmed, nil
		}
		return d.Step, ErrInvalidTransition
	}

	return d.Step, ErrInvalidTransition
}

// paymentGuard checks the three fields gating Payment -> Review and
// reports the first one missing
func paymentGuard(d Draft) error {
	if !d.PaymentMethod.Valid() {
		return ErrPaymentMethodRequired
	}
	if d.TransactionRef == "" {
		return ErrTransactionRefRequired
	}
	if d.Proof == nil {
		return ErrProofRequired
	}
	return nil
}

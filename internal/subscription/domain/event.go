package domain

// EventMeta carries vendor-assigned identity and ordering fields shared by
// every billing event variant. Sequence is the vendor's event creation time
// in unix seconds; the projector uses it for last-writer-wins conflict
// resolution under out-of-order delivery.
type EventMeta struct {
	EventID  string
	OrgID    string
	Sequence int64
}

// BillingEvent is the closed set of billing lifecycle notifications the
// projector understands. The unexported marker keeps the variant set closed
// to this package; adding a vendor event kind is a compile-time extension.
type BillingEvent interface {
	Meta() EventMeta
	Kind() string
	isBillingEvent()
}

// CheckoutCompleted signals that an organization finished vendor checkout
// for a plan. The resulting subscription starts in a trial.
type CheckoutCompleted struct {
	EventMeta
	Plan Plan
}

func (e CheckoutCompleted) Meta() EventMeta { return e.EventMeta }
func (CheckoutCompleted) Kind() string      { return "checkout_completed" }
func (CheckoutCompleted) isBillingEvent()   {}

// SubscriptionUpdated carries the vendor's current view of plan and status.
type SubscriptionUpdated struct {
	EventMeta
	Plan   Plan
	Status Status
}

func (e SubscriptionUpdated) Meta() EventMeta { return e.EventMeta }
func (SubscriptionUpdated) Kind() string      { return "subscription_updated" }
func (SubscriptionUpdated) isBillingEvent()   {}

// SubscriptionDeleted signals the subscription ended; the organization
// reverts to the free plan. The record is never physically removed.
type SubscriptionDeleted struct {
	EventMeta
}

func (e SubscriptionDeleted) Meta() EventMeta { return e.EventMeta }
func (SubscriptionDeleted) Kind() string      { return "subscription_deleted" }
func (SubscriptionDeleted) isBillingEvent()   {}

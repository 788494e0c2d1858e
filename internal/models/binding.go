package models

// BindingKind tags the binding variant. Absence of a binding entry means
// unbound; a stored entry is either a concrete invoice reference or an
// explicit "no invoice required" decision.
type BindingKind string

const (
	BindingUnbound   BindingKind = "unbound"
	BindingInvoice   BindingKind = "invoice"
	BindingNotNeeded BindingKind = "not_needed"
)

// Binding associates a transaction with the invoice document that
// substantiates it, or marks that none is required.
type Binding struct {
	Kind      BindingKind `json:"kind"`
	StorageID string      `json:"storageId,omitempty"`
}

func BoundTo(storageID string) Binding {
	return Binding{Kind: BindingInvoice, StorageID: storageID}
}

func NotNeeded() Binding {
	return Binding{Kind: BindingNotNeeded}
}

func Unbound() Binding {
	return Binding{Kind: BindingUnbound}
}

package contract

// Consignment is an externally supplied bundle of a genesis plus the ordered
// state transitions accepted for it. The order must respect closing
// dependencies: a transition appears after every transition whose outputs it
// closes. The external ledger core validates commitments and schema
// conformance before a consignment reaches this library.
type Consignment struct {
	Genesis     Genesis       `json:"genesis"`
	Transitions []*Transition `json:"transitions"`
}

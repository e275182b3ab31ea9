package domain

// TransactionStatus is the payment provider's view of a transaction.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusSettlement TransactionStatus = "settlement"
	StatusCanceled   TransactionStatus = "canceled"
)

// Known reports whether the status is one the client understands.
func (s TransactionStatus) Known() bool {
	return s == StatusPending || s == StatusSettlement || s == StatusCanceled
}

// Terminal reports whether the transaction can no longer change state.
func (s TransactionStatus) Terminal() bool {
	return s == StatusSettlement || s == StatusCanceled
}

// Transaction is a payment attempt tied to a rental request, tracked by the
// order id the rent call returned.
type Transaction struct {
	OrderID string            `json:"orderId"`
	Status  TransactionStatus `json:"status"`
}

package payment

type Status string

const (
	StatusAuthorized   Status = "authorized"
	StatusDeclined     Status = "declined"
	StatusPending      Status = "pending"
	StatusGatewayError Status = "gateway_error"
)

// Outcome is the fixed taxonomy every gateway response is reduced to.
// Reference carries the external transaction id when the gateway returned
// one; Reason is a human-readable explanation for non-authorized outcomes.
type Outcome struct {
	Status    Status
	Reference string
	Reason    string
}

func (o Outcome) Authorized() bool { return o.Status == StatusAuthorized }

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

var ErrUnknownInstrument = errors.New("unknown payment instrument")

// Client issues one authorization call per Authorize invocation against a
// Square-style payments endpoint. No retries; every call gets a fresh
// idempotency key so a deliberate retry by the caller cannot double-charge.
type Client struct {
	http        *resty.Client
	currency    string
	instruments map[string]string
	host        string
}

func NewClient(baseURL, accessToken, currency string, timeout time.Duration, instruments map[string]string) *Client {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = fmt.Sprintf("%d", rand.IntN(90000)+10000)
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetAuthToken(accessToken).
			SetHeader("Content-Type", "application/json"),
		currency:    currency,
		instruments: instruments,
		host:        host,
	}
}

type amountMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type chargeRequest struct {
	SourceID       string      `json:"source_id"`
	AmountMoney    amountMoney `json:"amount_money"`
	IdempotencyKey string      `json:"idempotency_key"`
}

type apiError struct {
	Category string `json:"category,omitempty"`
	Code     string `json:"code,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

type paymentObject struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	CardDetails struct {
		Errors []apiError `json:"errors"`
	} `json:"card_details"`
}

type chargeResponse struct {
	Payment *paymentObject `json:"payment"`
	Errors  []apiError     `json:"errors"`
}

// Authorize charges amountCents (minor units) against the instrument's
// configured source token. Transport failures and timeouts come back as a
// gateway_error outcome, never as a Go error; the only error return is an
// instrument id missing from the configured mapping.
func (c *Client) Authorize(ctx context.Context, amountCents int64, instrumentID string) (Outcome, error) {
	source, ok := c.instruments[instrumentID]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, instrumentID)
	}

	req := chargeRequest{
		SourceID:       source,
		AmountMoney:    amountMoney{Amount: amountCents, Currency: c.currency},
		IdempotencyKey: c.newIdempotencyKey(),
	}

	resp, err := c.http.R().SetContext(ctx).SetBody(req).Post("/v2/payments")
	if err != nil {
		return Outcome{Status: StatusGatewayError, Reason: fmt.Sprintf("network/API error: %v", err)}, nil
	}
	return classify(resp.Body()), nil
}

// Idempotency key = locally-derivable host component + random component,
// unique per attempt.
func (c *Client) newIdempotencyKey() string {
	return fmt.Sprintf("order-%s-%s", c.host, uuid.NewString())
}

// classify reduces the gateway's variable response shape to an Outcome.
// Priority: completed payment, failed payment (most specific decline
// reason first), any other payment status, top-level errors, then an
// unrecognised body.
func classify(body []byte) Outcome {
	var data chargeResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return Outcome{Status: StatusGatewayError, Reason: "unrecognized gateway response"}
	}

	switch {
	case data.Payment != nil:
		p := data.Payment
		switch p.Status {
		case "COMPLETED":
			return Outcome{Status: StatusAuthorized, Reference: p.ID}
		case "FAILED":
			reason := "unknown reason"
			if len(p.CardDetails.Errors) > 0 && p.CardDetails.Errors[0].Detail != "" {
				reason = p.CardDetails.Errors[0].Detail
			} else if len(data.Errors) > 0 && data.Errors[0].Detail != "" {
				reason = data.Errors[0].Detail
			}
			return Outcome{Status: StatusDeclined, Reference: p.ID, Reason: "payment declined: " + reason}
		default:
			return Outcome{Status: StatusPending, Reference: p.ID, Reason: "payment status: " + p.Status}
		}
	case len(data.Errors) > 0:
		return Outcome{Status: StatusGatewayError, Reason: "gateway error: " + data.Errors[0].Detail}
	default:
		return Outcome{Status: StatusGatewayError, Reason: "unrecognized gateway response"}
	}
}

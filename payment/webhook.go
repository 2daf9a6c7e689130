package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EventCheckoutCompleted is fired by the gateway once a checkout session is paid
const EventCheckoutCompleted = "checkout.session.completed"

// SignatureTolerance bounds how old a webhook timestamp may be before the
// signature is rejected as a possible replay
const SignatureTolerance = 5 * time.Minute

// WebhookEvent is the envelope the gateway posts to the webhook endpoint
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutObject `json:"object"`
	} `json:"data"`
}

// CheckoutObject is the session payload inside a checkout.* event
type CheckoutObject struct {
	ID          string            `json:"id"`
	AmountTotal int64             `json:"amount_total"` // smallest currency unit
	Currency    string            `json:"currency"`
	Metadata    map[string]string `json:"metadata"`
}

// ComputeSignature builds the hex HMAC-SHA256 over "timestamp.payload" with
// the shared webhook secret. Exposed so tests and tools can sign payloads the
// same way the gateway does.
func ComputeSignature(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureHeader renders the signature header the gateway sends,
// "t=<unix>,v1=<hex>"
func SignatureHeader(secret string, timestamp int64, payload []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", timestamp, ComputeSignature(secret, timestamp, payload))
}

// VerifyWebhookSignature checks a raw webhook body against the signature
// header using the shared secret. Comparison is constant-time. Returns an
// error on any mismatch; the caller must not trust the payload unless this
// passes.
func VerifyWebhookSignature(payload []byte, header, secret string) error {
	var timestamp int64
	var signature string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid signature timestamp")
			}
			timestamp = ts
		case "v1":
			signature = kv[1]
		}
	}

	if timestamp == 0 || signature == "" {
		return fmt.Errorf("malformed signature header")
	}

	age := time.Since(time.Unix(timestamp, 0))
	if age > SignatureTolerance || age < -SignatureTolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	expected := ComputeSignature(secret, timestamp, payload)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("signature mismatch")
	}

	return nil
}

// ParseWebhookEvent decodes a verified webhook body
func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	if event.ID == "" || event.Type == "" {
		return nil, fmt.Errorf("incomplete webhook event")
	}
	return &event, nil
}

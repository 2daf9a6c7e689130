package payment

import (
	"encoding/json"
	"fmt"
	"lms/config"
	"log"

	"github.com/go-resty/resty/v2"
)

// CheckoutSession is the gateway's representation of a hosted checkout page
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutParams carries everything the gateway needs to build a session.
// Metadata is echoed back verbatim on the completion webhook.
type CheckoutParams struct {
	OrderRef    string
	ProductName string
	Amount      float64 // in currency units; sent to the gateway in the smallest unit
	Currency    string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CreateCheckoutSession asks the payment gateway for a hosted checkout session
func CreateCheckoutSession(params CheckoutParams) (*CheckoutSession, error) {
	body := map[string]interface{}{
		"payment_method_types": []string{"card"},
		"mode":                 "payment",
		"order_ref":            params.OrderRef,
		"product_name":         params.ProductName,
		"amount":               int64(params.Amount * 100),
		"currency":             params.Currency,
		"success_url":          params.SuccessURL,
		"cancel_url":           params.CancelURL,
		"metadata":             params.Metadata,
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.PaymentApiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(config.AppConfig.PaymentApiURL + "/v1/checkout/sessions")
	if err != nil {
		log.Printf("Failed to reach payment gateway: %v", err)
		return nil, err
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		log.Printf("Payment gateway returned %d: %s", resp.StatusCode(), resp.String())
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode())
	}

	var session CheckoutSession
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		log.Printf("Failed to parse checkout session response: %v", err)
		return nil, err
	}
	if session.URL == "" {
		return nil, fmt.Errorf("payment gateway did not return a checkout URL")
	}

	return &session, nil
}

// Package paypal talks to the PayPal Orders API to confirm that a capture
// the storefront reports actually happened, for the right amount.
package paypal

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/guonaihong/gout"
	"github.com/shopspring/decimal"

	"github.com/dvalle/modastore-golang/internal/config"
)

// Order status values reported by PayPal. Only COMPLETED means the funds
// were collected; everything else must not mark an order paid.
const (
	StatusCompleted           = "COMPLETED"
	StatusSaved               = "SAVED"
	StatusApproved            = "APPROVED"
	StatusVoided              = "VOIDED"
	StatusPayerActionRequired = "PAYER_ACTION_REQUIRED"
)

// ErrTransactionNotFound means PayPal does not recognize the transaction id
// the client sent us.
var ErrTransactionNotFound = errors.New("transaction not recognized by the payment provider")

// CaptureResult is the slice of the PayPal order we care about.
type CaptureResult struct {
	ID     string
	Status string
	Amount float64
}

// Verifier is what the payment handler depends on; tests swap in a fake.
type Verifier interface {
	VerifyCapture(transactionID string) (*CaptureResult, error)
}

// Client is the real Verifier backed by the PayPal REST API.
type Client struct {
	cfg config.PayPalConfig
}

func NewClient(cfg config.PayPalConfig) *Client {
	return &Client{cfg: cfg}
}

// bearerToken fetches a client-credentials access token.
func (c *Client) bearerToken() (string, error) {
	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.Secret))

	var body struct {
		AccessToken string `json:"access_token"`
	}
	var code int

	err := gout.POST(c.cfg.APIBase + "/v1/oauth2/token").
		SetTimeout(10 * time.Second).
		SetHeader(gout.H{"Authorization": "Basic " + basic}).
		SetWWWForm(gout.H{"grant_type": "client_credentials"}).
		BindJSON(&body).
		Code(&code).
		Do()
	if err != nil {
		return "", err
	}
	if code != http.StatusOK {
		return "", fmt.Errorf("paypal token request failed with status %d", code)
	}
	if body.AccessToken == "" {
		return "", errors.New("paypal token response contained no access token")
	}
	return body.AccessToken, nil
}

// VerifyCapture looks the transaction up on PayPal's side and returns its
// status and captured amount.
func (c *Client) VerifyCapture(transactionID string) (*CaptureResult, error) {
	token, err := c.bearerToken()
	if err != nil {
		return nil, err
	}

	var body struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Amount struct {
				Value string `json:"value"`
			} `json:"amount"`
		} `json:"purchase_units"`
	}
	var code int

	err = gout.GET(c.cfg.APIBase + "/v2/checkout/orders/" + transactionID).
		SetTimeout(10 * time.Second).
		SetHeader(gout.H{"Authorization": "Bearer " + token}).
		BindJSON(&body).
		Code(&code).
		Do()
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return nil, ErrTransactionNotFound
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("paypal order lookup failed with status %d", code)
	}

	result := &CaptureResult{ID: body.ID, Status: body.Status}

	// The amount arrives as a string ("110.00"); parse it exactly.
	if len(body.PurchaseUnits) > 0 {
		amount, err := decimal.NewFromString(body.PurchaseUnits[0].Amount.Value)
		if err != nil {
			return nil, fmt.Errorf("paypal returned an unparseable amount: %w", err)
		}
		result.Amount = amount.InexactFloat64()
	}

	return result, nil
}

package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/razorpay/razorpay-go"
)

const Currency = "INR"

var (
	ErrOrderCreationFailed = errors.New("failed to create order")
	ErrTransferFailed      = errors.New("failed to create transfer")
	ErrUnexpectedResponse  = errors.New("unexpected gateway response")
)

// Gateway is the payment provider surface used by consultations and payouts.
type Gateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (string, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	Transfer(ctx context.Context, accountID string, amountPaise int64, notes map[string]interface{}) (string, error)
}

type RazorpayGateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	if keyID == "" || keySecret == "" {
		log.Println("WARNING: Razorpay key id or secret is empty")
	}
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// ToPaise converts rupees to the smallest currency unit.
func ToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": Currency,
		"receipt":  receipt,
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		log.Printf("Failed to create Razorpay order: %v", err)
		return "", fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("%w: order without id", ErrUnexpectedResponse)
	}
	log.Printf("Created Razorpay order %s for receipt %s", id, receipt)
	return id, nil
}

func (g *RazorpayGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return VerifySignature(g.keySecret, orderID, paymentID, signature)
}

/*
* Move the doctor's share to the linked account
* The transfer id is the payout transaction id
 */
func (g *RazorpayGateway) Transfer(ctx context.Context, accountID string, amountPaise int64, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"account":  accountID,
		"amount":   amountPaise,
		"currency": Currency,
		"notes":    notes,
	}
	transfer, err := g.client.Transfer.Create(data, nil)
	if err != nil {
		log.Printf("Failed to create Razorpay transfer to %s: %v", accountID, err)
		return "", fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	id, ok := transfer["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("%w: transfer without id", ErrUnexpectedResponse)
	}
	log.Printf("Created Razorpay transfer %s to %s", id, accountID)
	return id, nil
}

// Sign returns the checkout signature Razorpay computes for an order and payment.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(secret, orderID, paymentID)), []byte(signature))
}

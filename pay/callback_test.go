package pay

import (
	"errors"
	"testing"

	"eventra/gateway"
	"eventra/models"
)

func TestResolveVerificationSuccess(t *testing.T) {
	v := resolveVerification(gateway.VerifyResult{
		TxRef: "tx-1", Status: "successful", Amount: 100, Currency: "USD",
	}, nil, 100, "USD")

	if !v.IssueTickets {
		t.Fatal("confirmed charge must issue tickets")
	}
	if v.PaymentStatus != models.PaymentSuccess || v.OrderStatus != models.OrderCompleted {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestResolveVerificationOverpaymentAccepted(t *testing.T) {
	v := resolveVerification(gateway.VerifyResult{
		Status: "successful", Amount: 120, Currency: "USD",
	}, nil, 100, "USD")
	if !v.IssueTickets {
		t.Fatal("charge above the order amount must still complete")
	}
}

func TestResolveVerificationFailures(t *testing.T) {
	cases := []struct {
		name       string
		result     gateway.VerifyResult
		err        error
		wantStatus string
	}{
		{"verify call error", gateway.VerifyResult{}, errors.New("timeout"), models.PaymentVerificationFailed},
		{"provider declined", gateway.VerifyResult{Status: "failed", Amount: 100, Currency: "USD"}, nil, models.PaymentFailed},
		{"provider pending", gateway.VerifyResult{Status: "pending", Amount: 100, Currency: "USD"}, nil, models.PaymentFailed},
		{"amount short", gateway.VerifyResult{Status: "successful", Amount: 50, Currency: "USD"}, nil, models.PaymentVerificationFailed},
		{"currency mismatch", gateway.VerifyResult{Status: "successful", Amount: 100, Currency: "NGN"}, nil, models.PaymentVerificationFailed},
	}

	for _, tc := range cases {
		v := resolveVerification(tc.result, tc.err, 100, "USD")
		if v.IssueTickets {
			t.Errorf("%s: tickets must never be issued", tc.name)
		}
		if v.PaymentStatus != tc.wantStatus {
			t.Errorf("%s: payment status %q, want %q", tc.name, v.PaymentStatus, tc.wantStatus)
		}
		if v.OrderStatus != models.OrderPaymentFailed {
			t.Errorf("%s: order status %q, want payment_failed", tc.name, v.OrderStatus)
		}
	}
}

package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"
)

func signWebhook(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyStripeWebhookSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_123","type":"customer.subscription.updated"}`)
	secret := "whsec_test"
	now := time.Now()
	ts := now.Unix()

	header := fmt.Sprintf("t=%d,v1=%s", ts, signWebhook(payload, secret, ts))
	if !VerifyStripeWebhookSignature(payload, header, secret, now) {
		t.Fatalf("expected valid signature to verify")
	}

	if VerifyStripeWebhookSignature(payload, header, "whsec_other", now) {
		t.Fatalf("expected wrong secret to fail")
	}

	tampered := append([]byte{}, payload...)
	tampered[0] = '['
	if VerifyStripeWebhookSignature(tampered, header, secret, now) {
		t.Fatalf("expected tampered payload to fail")
	}
}

func TestVerifyStripeWebhookSignatureTolerance(t *testing.T) {
	payload := []byte(`{}`)
	secret := "whsec_test"
	now := time.Now()

	old := now.Add(-6 * time.Minute).Unix()
	header := fmt.Sprintf("t=%d,v1=%s", old, signWebhook(payload, secret, old))
	if VerifyStripeWebhookSignature(payload, header, secret, now) {
		t.Fatalf("expected stale timestamp to fail")
	}

	recent := now.Add(-4 * time.Minute).Unix()
	header = fmt.Sprintf("t=%d,v1=%s", recent, signWebhook(payload, secret, recent))
	if !VerifyStripeWebhookSignature(payload, header, secret, now) {
		t.Fatalf("expected timestamp within tolerance to verify")
	}
}

func TestVerifyStripeWebhookSignatureMalformedHeader(t *testing.T) {
	payload := []byte(`{}`)
	secret := "whsec_test"
	now := time.Now()

	for _, header := range []string{"", "t=abc,v1=00", "v1=deadbeef", fmt.Sprintf("t=%d", now.Unix())} {
		if VerifyStripeWebhookSignature(payload, header, secret, now) {
			t.Fatalf("expected header %q to fail", header)
		}
	}
}

func TestVerifyStripeWebhookSignatureMultipleV1(t *testing.T) {
	payload := []byte(`{"ok":true}`)
	secret := "whsec_test"
	now := time.Now()
	ts := now.Unix()

	header := fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", ts, signWebhook(payload, secret, ts))
	if !VerifyStripeWebhookSignature(payload, header, secret, now) {
		t.Fatalf("expected any matching v1 entry to verify")
	}
}

package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewParcelDropsPaymentFields(t *testing.T) {
	p := NewParcel(map[string]any{
		"_id":             "client-chosen",
		"sender":          map[string]any{"user_email": "a@x.com", "name": "A"},
		"weight":          2.5,
		"paymentStatus":   "paid",
		"paymentIntentId": "pi_forged",
		"deliveryStatus":  "created",
	})

	if p.ID != "" {
		t.Fatalf("expected store-assigned id, got %q", p.ID)
	}
	if p.PaymentStatus != PaymentStatusUnpaid {
		t.Fatalf("expected unpaid, got %q", p.PaymentStatus)
	}
	if p.PaymentIntentID != nil {
		t.Fatal("payment intent must not be settable by the client")
	}
	if p.SenderEmail != "a@x.com" {
		t.Fatalf("expected sender email, got %q", p.SenderEmail)
	}
	if p.DeliveryStatus != "created" {
		t.Fatalf("expected delivery status, got %q", p.DeliveryStatus)
	}
	if _, ok := p.Details["paymentStatus"]; ok {
		t.Fatal("reserved keys must not leak into details")
	}
	if p.Details["weight"] != 2.5 {
		t.Fatalf("expected weight detail, got %v", p.Details)
	}
}

func TestParcelMarshalFlattensDetails(t *testing.T) {
	paidAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	intent := "pi_1"
	p := Parcel{
		ID:              "3f2c1a9e-0000-4000-8000-000000000001",
		Sender:          map[string]any{"user_email": "a@x.com"},
		Details:         map[string]any{"title": "Books"},
		PaymentStatus:   PaymentStatusPaid,
		PaidAt:          &paidAt,
		PaymentIntentID: &intent,
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["title"] != "Books" {
		t.Errorf("expected flattened title, got %v", doc["title"])
	}
	if doc["_id"] != p.ID {
		t.Errorf("expected _id %s, got %v", p.ID, doc["_id"])
	}
	if doc["paymentIntentId"] != "pi_1" {
		t.Errorf("expected payment intent, got %v", doc["paymentIntentId"])
	}
	if doc["paidAt"] != "2024-05-01T10:00:00Z" {
		t.Errorf("unexpected paidAt %v", doc["paidAt"])
	}
}

func TestParcelMergeKeepsPaymentFields(t *testing.T) {
	p := NewParcel(map[string]any{"sender": map[string]any{"user_email": "a@x.com"}})
	p.Merge(map[string]any{
		"deliveryStatus": "in_transit",
		"note":           "fragile",
		"paymentStatus":  "paid",
	})

	if p.DeliveryStatus != "in_transit" {
		t.Fatalf("expected in_transit, got %q", p.DeliveryStatus)
	}
	if p.PaymentStatus != PaymentStatusUnpaid {
		t.Fatalf("merge must not touch payment status, got %q", p.PaymentStatus)
	}
	if p.Details["note"] != "fragile" {
		t.Fatalf("expected note detail, got %v", p.Details)
	}
}

func TestNewRiderForcesPending(t *testing.T) {
	r := NewRider(map[string]any{
		"name":      "Rahim",
		"status":    "active",
		"bikeBrand": "Honda",
	})

	if r.Status != RiderStatusPending {
		t.Fatalf("expected pending, got %q", r.Status)
	}
	if r.Name != "Rahim" {
		t.Fatalf("expected name, got %q", r.Name)
	}
	if r.Details["bikeBrand"] != "Honda" {
		t.Fatalf("expected bikeBrand detail, got %v", r.Details)
	}
}

func TestNewRiderKeepsNonStringFields(t *testing.T) {
	r := NewRider(map[string]any{
		"name":   "Rahim",
		"phone":  float64(8801712345678),
		"region": map[string]any{"code": "DHK"},
	})

	if r.Name != "Rahim" {
		t.Fatalf("expected name column, got %q", r.Name)
	}
	if r.Phone != "" || r.Region != "" {
		t.Fatalf("non-string values must not fill string columns, got %q %q", r.Phone, r.Region)
	}

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["phone"] != float64(8801712345678) {
		t.Errorf("expected numeric phone to survive, got %v", doc["phone"])
	}
	region, _ := doc["region"].(map[string]any)
	if region["code"] != "DHK" {
		t.Errorf("expected region object to survive, got %v", doc["region"])
	}
	if doc["name"] != "Rahim" {
		t.Errorf("expected name, got %v", doc["name"])
	}
}

func TestParcelKeepsNonStringSenderAndStatus(t *testing.T) {
	p := NewParcel(map[string]any{
		"sender":         "a@x.com",
		"deliveryStatus": map[string]any{"stage": "created"},
	})

	if p.Sender != nil || p.SenderEmail != "" || p.DeliveryStatus != "" {
		t.Fatalf("unexpected typed columns %+v", p)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["sender"] != "a@x.com" {
		t.Errorf("expected string sender to survive, got %v", doc["sender"])
	}
	status, _ := doc["deliveryStatus"].(map[string]any)
	if status["stage"] != "created" {
		t.Errorf("expected delivery status object to survive, got %v", doc["deliveryStatus"])
	}

	p.Merge(map[string]any{
		"sender":         map[string]any{"user_email": "b@x.com"},
		"deliveryStatus": "in_transit",
	})
	if p.SenderEmail != "b@x.com" || p.DeliveryStatus != "in_transit" {
		t.Fatalf("expected typed columns after merge, got %q %q", p.SenderEmail, p.DeliveryStatus)
	}
	if _, ok := p.Details["sender"]; ok {
		t.Error("stale sender must leave details")
	}
	if _, ok := p.Details["deliveryStatus"]; ok {
		t.Error("stale delivery status must leave details")
	}
}

func TestValidID(t *testing.T) {
	cases := map[string]bool{
		"3f2c1a9e-0000-4000-8000-000000000001":   true,
		"not-an-id":                              false,
		"":                                       false,
		"{3f2c1a9e-0000-4000-8000-000000000001}": false,
		"3f2c1a9e00004000800000000000000100ab":   false,
	}
	for id, want := range cases {
		if got := ValidID(id); got != want {
			t.Errorf("ValidID(%q) = %v, want %v", id, got, want)
		}
	}
}

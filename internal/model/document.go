package model

import (
	"encoding/json"
	"time"
)

// Parcels and riders are stored as typed columns plus a free-form Details
// document. On the wire they are one flat JSON object.

var parcelReservedKeys = map[string]bool{
	"_id":             true,
	"sender":          true,
	"paymentStatus":   true,
	"deliveryStatus":  true,
	"paidAt":          true,
	"paymentIntentId": true,
	"createdAt":       true,
	"updatedAt":       true,
}

// ParcelPaymentKeys are written only by the payment coordinator.
var ParcelPaymentKeys = []string{"paymentStatus", "paidAt", "paymentIntentId"}

// NewParcel builds an unpaid parcel from a client document. Payment fields
// and identifiers supplied by the client are dropped.
func NewParcel(doc map[string]any) *Parcel {
	p := &Parcel{
		PaymentStatus: PaymentStatusUnpaid,
		Details:       make(map[string]any),
	}
	for k, v := range doc {
		if !parcelReservedKeys[k] {
			p.Details[k] = v
		}
	}
	if v, ok := doc["sender"]; ok {
		p.SetSender(v)
	}
	if v, ok := doc["deliveryStatus"]; ok {
		assignString(&p.DeliveryStatus, p.Details, "deliveryStatus", v)
	}
	return p
}

// SetSender indexes an object sender by its user_email. A sender of any
// other shape is kept as sent in Details.
func (p *Parcel) SetSender(v any) {
	if p.Details == nil {
		p.Details = make(map[string]any)
	}
	sender, ok := v.(map[string]any)
	if !ok {
		p.Sender, p.SenderEmail = nil, ""
		p.Details["sender"] = v
		return
	}
	delete(p.Details, "sender")
	p.Sender = sender
	p.SenderEmail, _ = sender["user_email"].(string)
}

// assignString stores v in *dst when it is a string. Any other value goes to
// details under key.
func assignString(dst *string, details map[string]any, key string, v any) {
	if s, ok := v.(string); ok {
		*dst = s
		delete(details, key)
		return
	}
	*dst = ""
	details[key] = v
}

// putIfAbsent leaves values already flattened from Details in place.
func putIfAbsent(doc map[string]any, key string, v any) {
	if _, ok := doc[key]; !ok {
		doc[key] = v
	}
}

// Merge applies a partial update of non-payment fields.
func (p *Parcel) Merge(fields map[string]any) {
	if p.Details == nil {
		p.Details = make(map[string]any)
	}
	for k, v := range fields {
		switch k {
		case "sender":
			p.SetSender(v)
		case "deliveryStatus":
			assignString(&p.DeliveryStatus, p.Details, k, v)
		default:
			if !parcelReservedKeys[k] {
				p.Details[k] = v
			}
		}
	}
}

func (p Parcel) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(p.Details)+8)
	for k, v := range p.Details {
		doc[k] = v
	}
	doc["_id"] = p.ID
	putIfAbsent(doc, "sender", p.Sender)
	doc["paymentStatus"] = p.PaymentStatus
	if p.DeliveryStatus != "" {
		doc["deliveryStatus"] = p.DeliveryStatus
	}
	if p.PaidAt != nil {
		doc["paidAt"] = p.PaidAt.UTC().Format(time.RFC3339Nano)
	}
	if p.PaymentIntentID != nil {
		doc["paymentIntentId"] = *p.PaymentIntentID
	}
	doc["createdAt"] = p.CreatedAt.UTC().Format(time.RFC3339Nano)
	return json.Marshal(doc)
}

var riderReservedKeys = map[string]bool{
	"_id":       true,
	"name":      true,
	"email":     true,
	"phone":     true,
	"region":    true,
	"district":  true,
	"status":    true,
	"createdAt": true,
	"updatedAt": true,
}

// NewRider builds a pending rider application. A status sent by the
// applicant is ignored.
func NewRider(doc map[string]any) *Rider {
	r := &Rider{
		Status:  RiderStatusPending,
		Details: make(map[string]any),
	}
	for k, v := range doc {
		if !riderReservedKeys[k] {
			r.Details[k] = v
		}
	}

	columns := map[string]*string{
		"name":     &r.Name,
		"email":    &r.Email,
		"phone":    &r.Phone,
		"region":   &r.Region,
		"district": &r.District,
	}
	for key, dst := range columns {
		if v, ok := doc[key]; ok {
			assignString(dst, r.Details, key, v)
		}
	}
	return r
}

func (r Rider) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(r.Details)+8)
	for k, v := range r.Details {
		doc[k] = v
	}
	doc["_id"] = r.ID
	putIfAbsent(doc, "name", r.Name)
	putIfAbsent(doc, "email", r.Email)
	putIfAbsent(doc, "phone", r.Phone)
	putIfAbsent(doc, "region", r.Region)
	putIfAbsent(doc, "district", r.District)
	doc["status"] = r.Status
	doc["createdAt"] = r.CreatedAt.UTC().Format(time.RFC3339Nano)
	return json.Marshal(doc)
}

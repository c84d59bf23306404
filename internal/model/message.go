// Package model defines the core domain models used throughout the application.
package model

import "time"

// RawMessage is a single SMS as delivered by the device feed. It is
// immutable; every pipeline stage reads it and none of them own it.
type RawMessage struct {
	ID          string
	Sender      string // sender address: shortcode (e.g. "VM-HDFCBK") or phone number
	Body        string
	TimestampMs int64 // delivery time in milliseconds since epoch; 0 when unknown
}

// DeliveredAt converts the millisecond timestamp to a time.Time.
// The zero time is returned when the feed supplied no timestamp.
func (m RawMessage) DeliveredAt() time.Time {
	if m.TimestampMs == 0 {
		return time.Time{}
	}
	return time.UnixMilli(m.TimestampMs)
}

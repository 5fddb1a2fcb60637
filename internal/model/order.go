package model

import (
	"fmt"

	"github.com/goccy/go-json"
)

type OrderStatus string

// StatusAll is the pseudo-status the backend accepts to list every order.
const StatusAll OrderStatus = "ALL"

// Order is a backend order. Only ID and Status are read by the dashboard;
// every other field is kept in Fields and written back unchanged.
type Order struct {
	ID     int64
	Status OrderStatus
	Fields map[string]json.RawMessage
}

// OrderRequest is the admin create/update payload. ID is zero on create.
type OrderRequest struct {
	ID     int64
	Fields map[string]json.RawMessage
}

// OrderPage is the paginated envelope returned by the orders listing.
type OrderPage struct {
	Content       []Order `json:"content"`
	TotalElements int64   `json:"totalElements"`
	TotalPages    int     `json:"totalPages"`
	Number        int     `json:"number"`
	Size          int     `json:"size"`
	First         bool    `json:"first"`
	Last          bool    `json:"last"`
	Empty         bool    `json:"empty"`
}

func (o Order) MarshalJSON() ([]byte, error) {
	fields := cloneFields(o.Fields)
	if err := setField(fields, "id", o.ID); err != nil {
		return nil, err
	}
	if o.Status != "" {
		if err := setField(fields, "status", o.Status); err != nil {
			return nil, err
		}
	}
	return json.Marshal(fields)
}

func (o *Order) UnmarshalJSON(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return fmt.Errorf("decode order: %w", err)
	}
	if err := takeField(fields, "id", &o.ID); err != nil {
		return fmt.Errorf("decode order id: %w", err)
	}
	if err := takeField(fields, "status", &o.Status); err != nil {
		return fmt.Errorf("decode order status: %w", err)
	}
	o.Fields = fields
	return nil
}

func (r OrderRequest) MarshalJSON() ([]byte, error) {
	fields := cloneFields(r.Fields)
	if r.ID != 0 {
		if err := setField(fields, "id", r.ID); err != nil {
			return nil, err
		}
	}
	return json.Marshal(fields)
}

func (r *OrderRequest) UnmarshalJSON(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return fmt.Errorf("decode order request: %w", err)
	}
	if err := takeField(fields, "id", &r.ID); err != nil {
		return fmt.Errorf("decode order request id: %w", err)
	}
	r.Fields = fields
	return nil
}

func decodeFields(data []byte) (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// takeField moves key out of fields into dst. A missing or null key leaves dst untouched.
func takeField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	delete(fields, key)
	if string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func setField(fields map[string]json.RawMessage, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	fields[key] = raw
	return nil
}

func cloneFields(src map[string]json.RawMessage) map[string]json.RawMessage {
	dst := make(map[string]json.RawMessage, len(src)+2)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

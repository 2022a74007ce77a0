package request

import (
	"bytes"
	"encoding/json"
)

// CreateDealRequest accepts price as a JSON number or a numeric string.
type CreateDealRequest struct {
	ItemName   string          `json:"itemName"`
	Price      json.RawMessage `json:"price"`
	SellerMoMo string          `json:"sellerMoMo"`
	BuyerEmail string          `json:"buyerEmail"`
}

// PriceText returns the price as text; the engine does the numeric validation.
func (r CreateDealRequest) PriceText() string {
	raw := bytes.TrimSpace(r.Price)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

type VerifyPaymentRequest struct {
	Reference string `json:"reference"`
}

type DisputeRequest struct {
	Reason string `json:"reason"`
}

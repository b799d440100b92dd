package entity

// DeliveryMode tells whether an order is delivered or picked up at the restaurant.
type DeliveryMode string

const (
	DeliveryModeDelivery DeliveryMode = "delivery"
	DeliveryModePickup   DeliveryMode = "pickup"
)

// IsValid reports whether the mode is one of the known values.
func (m DeliveryMode) IsValid() bool {
	return m == DeliveryModeDelivery || m == DeliveryModePickup
}

// ProfileDraft is the checkout identity the user last entered.
type ProfileDraft struct {
	Name         string       `json:"name"`
	Phone        string       `json:"phone"`
	Address      string       `json:"address"`
	City         string       `json:"city"`
	DeliveryMode DeliveryMode `json:"delivery_mode"`
}

// DefaultProfileDraft returns the empty draft with delivery selected.
func DefaultProfileDraft() ProfileDraft {
	return ProfileDraft{DeliveryMode: DeliveryModeDelivery}
}

// ProfileDraftPatch carries a partial update. Nil fields are left untouched.
type ProfileDraftPatch struct {
	Name         *string       `json:"name,omitempty"`
	Phone        *string       `json:"phone,omitempty"`
	Address      *string       `json:"address,omitempty"`
	City         *string       `json:"city,omitempty"`
	DeliveryMode *DeliveryMode `json:"delivery_mode,omitempty"`
}

// Apply merges the patch onto the draft and returns the result.
func (p ProfileDraftPatch) Apply(draft ProfileDraft) ProfileDraft {
	if p.Name != nil {
		draft.Name = *p.Name
	}
	if p.Phone != nil {
		draft.Phone = *p.Phone
	}
	if p.Address != nil {
		draft.Address = *p.Address
	}
	if p.City != nil {
		draft.City = *p.City
	}
	if p.DeliveryMode != nil {
		draft.DeliveryMode = *p.DeliveryMode
	}

	return draft
}

package domain

import "time"

// Address is a shipping address owned by a user. Orders embed a copy of it.
type Address struct {
	ID        string    `json:"_id,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
	ZipCode   string    `json:"zipCode"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

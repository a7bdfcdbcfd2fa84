package domain

import "time"

// Cart is the per-user snapshot of product quantities kept between visits.
type Cart struct {
	UserID    string         `json:"userId"`
	Items     map[string]int `json:"cartItems"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

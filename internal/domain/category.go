package domain

import "time"

type Category struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	BgColor   string    `json:"bgColor"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

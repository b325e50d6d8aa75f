package models

import "time"

// Technician - техник, принадлежащий площадке. Только чтение для ядра.
type Technician struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	SiteID    string    `json:"sedeId"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"createdAt"`
}

// WeeklyCapacity - недельная емкость площадки в часах, информационная
type WeeklyCapacity struct {
	Mon int `json:"lun"`
	Tue int `json:"mar"`
	Wed int `json:"mie"`
	Thu int `json:"jue"`
	Fri int `json:"vie"`
}

// Site - площадка (sede)
type Site struct {
	ID        string         `json:"id"`
	Name      string         `json:"nombre"`
	Address   string         `json:"direccion,omitempty"`
	Capacity  WeeklyCapacity `json:"capacidad"`
	CreatedAt time.Time      `json:"createdAt"`
}

package models

import "time"

// WidgetSession is the explicit session context passed to every
// resolution call. It replaces the ambient mutable state of a widget
// runtime: current service, displayed month, current selections.
type WidgetSession struct {
	ID           string           `json:"id"`
	Service      *ServiceOffering `json:"service"`
	Month        string           `json:"month"`         // displayed month, "2025-12"
	SelectedDate string           `json:"selected_date"` // "" until a day is chosen
	SelectedHour float64          `json:"selected_hour"`
	HourChosen   bool             `json:"hour_chosen"`
	NumPeople    int              `json:"num_people"`
	ExtraIDs     []int            `json:"extra_ids"`

	// Version implements last-request-wins: every recomputation bumps
	// it, and results computed for an older version are discarded.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

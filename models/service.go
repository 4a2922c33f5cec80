package models

// PricingTier overrides the unit price for a party-size range.
// Tiers are evaluated in stored order and the first range containing
// the party size wins, so reordering changes behavior.
type PricingTier struct {
	ID        int     `json:"id"`
	MinPeople int     `json:"min_people"`
	MaxPeople int     `json:"max_people"`
	Price     float64 `json:"price"`
}

// Extra is an optional add-on, priced flat or per person.
type Extra struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PerPerson bool    `json:"per_person"`
}

// ServiceOffering is a bookable service as served by the remote data
// service. It is immutable for the lifetime of a widget session and
// reloaded only on slug change.
type ServiceOffering struct {
	ID                 int           `json:"id"`
	Slug               string        `json:"slug"`
	Name               string        `json:"name"`
	DurationMinutes    int           `json:"duration_minutes"`
	WorkingHoursStart  string        `json:"working_hours_start"` // "09:00"
	WorkingHoursEnd    string        `json:"working_hours_end"`   // "17:00"
	MaxCapacityPerSlot int           `json:"max_capacity_per_slot"`
	BasePrice          float64       `json:"base_price"`
	PlatformFeePercent float64       `json:"platform_fee_percent"`
	MinNoticeDays      int           `json:"min_notice_days"`
	WorkingDays        []string      `json:"working_days"` // weekday codes, e.g. ["Mon","Tue"]
	Prices             []PricingTier `json:"_service_prices"`
	Extras             []Extra       `json:"_extra_of_service"`
	ProviderID         int           `json:"provider_id"`
	Provider           *ProviderRef  `json:"_provider,omitempty"`
}

// DurationHours returns the slot step in hours. Fractional durations
// (e.g. 90 minutes -> 1.5) are valid.
func (s *ServiceOffering) DurationHours() float64 {
	return float64(s.DurationMinutes) / 60.0
}

// ExtraByID returns the extra with the given id, or nil.
func (s *ServiceOffering) ExtraByID(id int) *Extra {
	for i := range s.Extras {
		if s.Extras[i].ID == id {
			return &s.Extras[i]
		}
	}
	return nil
}

// ServiceSummary is the reduced shape of a provider's sibling service,
// used only for cross-service conflict checks.
type ServiceSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProviderRef is the owning provider embedded in a ServiceOffering:
// its availability rules and its other offerings. Bookings on the
// other offerings can make the provider busy for a candidate hour.
type ProviderRef struct {
	ID       int                `json:"id"`
	Name     string             `json:"name"`
	Rules    []AvailabilityRule `json:"_availability_rules"`
	Services []ServiceSummary   `json:"_services"`
}

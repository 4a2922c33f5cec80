package booking

import (
	"bottega/models"
)

// discountMateriality is the minimum gap below base price before a
// group discount is worth disclosing.
const discountMateriality = 0.01

// Quote computes the price breakdown for a party size and set of
// checked extras. Party size is clamped to at least 1 before tier
// lookup. The first tier containing the party size overrides the base
// price; the platform fee is applied on top of the unit price.
func Quote(service *models.ServiceOffering, numPeople int, extraIDs []int) models.PriceBreakdown {
	if numPeople < 1 {
		numPeople = 1
	}

	unit := service.BasePrice
	for _, tier := range service.Prices {
		if numPeople >= tier.MinPeople && numPeople <= tier.MaxPeople {
			unit = tier.Price
			break
		}
	}
	unit *= 1 + service.PlatformFeePercent/100

	extraCost := 0.0
	for _, id := range extraIDs {
		extra := service.ExtraByID(id)
		if extra == nil {
			continue
		}
		if extra.PerPerson {
			extraCost += extra.Price * float64(numPeople)
		} else {
			extraCost += extra.Price
		}
	}

	return models.PriceBreakdown{
		UnitPrice:  unit,
		ExtraCost:  extraCost,
		TotalPrice: unit*float64(numPeople) + extraCost,
		NumPeople:  numPeople,
	}
}

// GroupDiscount derives the read-only group-rate disclosure: the
// cheapest tier open to parties of minGroup or more, surfaced only
// when materially below the base price. Returns nil when there is
// nothing worth disclosing; this computation degrades to hidden,
// never to an error.
func GroupDiscount(service *models.ServiceOffering, minGroup int) *models.GroupDiscountNotice {
	var best *models.PricingTier
	for i := range service.Prices {
		tier := &service.Prices[i]
		if tier.MinPeople < minGroup {
			continue
		}
		if best == nil || tier.Price < best.Price {
			best = tier
		}
	}
	if best == nil {
		return nil
	}
	if service.BasePrice-best.Price <= discountMateriality {
		return nil
	}
	return &models.GroupDiscountNotice{
		MinPeople: best.MinPeople,
		Price:     best.Price,
		BasePrice: service.BasePrice,
	}
}

// ClampPartySize bounds a requested party size to what the selected
// slot can actually hold: [1, min(remaining, max per slot)].
func ClampPartySize(requested, remaining, maxPerSlot int) int {
	limit := maxPerSlot
	if remaining < limit {
		limit = remaining
	}
	if limit < 1 {
		limit = 1
	}
	if requested < 1 {
		return 1
	}
	if requested > limit {
		return limit
	}
	return requested
}

package matching

import "medshift/models"

// Fixed scoring weights. The score is advisory for human review ordering,
// not an automatic selector, so the weights stay simple and explainable.
const (
	SpecialtyPoints   = 5 // at least one required specialty offered
	ExactSetPoints    = 3 // offered specialties are exactly the required set
	ServiceTypePoints = 3 // exact service-type match
	RatePoints        = 4 // doctor's desired rate within the offered rate
	CityPoints        = 2 // at least one shared city
)

// Score computes the compatibility score for a candidate slot that has
// already passed the hard filters (region, date, city, time overlap,
// specialty compatibility).
func Score(req *models.ShiftRequirement, slot *models.AvailabilitySlot) int {
	score := 0

	if req.RequiresSpecialties() {
		if specialtiesIntersect(req.Specialties, slot.Specialties) {
			score += SpecialtyPoints
		}
		if sameSpecialtySet(req.Specialties, slot.Specialties) {
			score += ExactSetPoints
		}
	}

	if req.ServiceType == slot.ServiceType {
		score += ServiceTypePoints
	}
	if slot.DesiredRate <= req.HourlyRate {
		score += RatePoints
	}
	if req.Region.CitiesIntersect(slot.Region) {
		score += CityPoints
	}

	return score
}

func specialtiesIntersect(required, offered []string) bool {
	for _, want := range required {
		for _, have := range offered {
			if want == have {
				return true
			}
		}
	}
	return false
}

// sameSpecialtySet reports whether the offered specialties are exactly the
// required set, order-insensitive.
func sameSpecialtySet(required, offered []string) bool {
	if len(required) != len(offered) {
		return false
	}
	set := make(map[string]bool, len(required))
	for _, s := range required {
		set[s] = true
	}
	for _, s := range offered {
		if !set[s] {
			return false
		}
	}
	return true
}

package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medshift/models"
)

func TestScore(t *testing.T) {
	base := func() (*models.ShiftRequirement, *models.AvailabilitySlot) {
		req := &models.ShiftRequirement{
			ServiceType: "plantao_12h_diurno",
			Specialties: []string{"Cardiology"},
			HourlyRate:  200,
			Region:      models.Region{State: "SP", Cities: []string{"Campinas"}},
		}
		slot := &models.AvailabilitySlot{
			ServiceType: "plantao_12h_diurno",
			Specialties: []string{"Cardiology", "Pediatrics"},
			DesiredRate: 180,
			Region:      models.Region{State: "SP", Cities: []string{"Campinas"}},
		}
		return req, slot
	}

	t.Run("superset of required specialties earns no exact-set bonus", func(t *testing.T) {
		req, slot := base()
		// specialty 5 + service type 3 + rate 4 + city 2
		assert.Equal(t, 14, Score(req, slot))
	})

	t.Run("exact specialty set earns the bonus", func(t *testing.T) {
		req, slot := base()
		slot.Specialties = []string{"Cardiology"}
		assert.Equal(t, 17, Score(req, slot))
	})

	t.Run("no specialty requirement skips both specialty components", func(t *testing.T) {
		req, slot := base()
		req.Specialties = nil
		assert.Equal(t, 9, Score(req, slot))
	})

	t.Run("desired rate above offered rate loses rate points", func(t *testing.T) {
		req, slot := base()
		slot.DesiredRate = 250
		assert.Equal(t, 10, Score(req, slot))
	})

	t.Run("different service type loses service points", func(t *testing.T) {
		req, slot := base()
		slot.ServiceType = "ambulatorio_4h"
		assert.Equal(t, 11, Score(req, slot))
	})

	t.Run("no shared city loses city points", func(t *testing.T) {
		req, slot := base()
		slot.Region.Cities = []string{"Santos"}
		assert.Equal(t, 12, Score(req, slot))
	})
}

func TestSameSpecialtySet(t *testing.T) {
	assert.True(t, sameSpecialtySet([]string{"A", "B"}, []string{"B", "A"}))
	assert.False(t, sameSpecialtySet([]string{"A"}, []string{"A", "B"}))
	assert.False(t, sameSpecialtySet([]string{"A", "B"}, []string{"A", "C"}))
}

// Seeder for local development: wipes and repopulates the availability pool
// and a couple of open requirements so the matching pipeline has data to
// chew on. Run with: go run ./tests
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"medshift/config"
	"medshift/database"
	"medshift/models"
)

var (
	cities      = []string{"Sao Paulo", "Campinas", "Santos", "Sorocaba"}
	specialties = []string{"Cardiology", "Pediatrics", "Orthopedics", "General"}
	services    = []string{"plantao_12h_diurno", "plantao_12h_noturno", "ambulatorio_4h"}
)

func main() {
	config.LoadConfig()
	database.InitDB()
	db := database.DB()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	slotColl := db.Collection("availability_slots")
	reqColl := db.Collection("requirements")

	for _, coll := range []string{"availability_slots", "requirements", "potential_matches", "proposals", "contracts", "time_records"} {
		if _, err := db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s collection: %v", coll, err)
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	dates := upcomingDates(14)

	// Availability: 40 doctors, each offering a handful of dates.
	var slots []interface{}
	for i := 0; i < 40; i++ {
		doctorID := uuid.New().String()
		doctorName := fmt.Sprintf("Dr. Demo %02d", i)
		spec := specialties[rng.Intn(len(specialties))]
		city := cities[rng.Intn(len(cities))]

		for _, date := range pick(rng, dates, 3) {
			overnight := rng.Intn(3) == 0
			start, end := 420, 1140 // 07:00-19:00
			if overnight {
				start, end = 1140, 420 // 19:00-07:00 next day
			}
			slots = append(slots, models.AvailabilitySlot{
				ID:          uuid.New().String(),
				DoctorID:    doctorID,
				DoctorName:  doctorName,
				Date:        date,
				Start:       start,
				End:         end,
				Overnight:   overnight,
				DesiredRate: 120 + float64(rng.Intn(10))*10,
				Specialties: []string{spec},
				ServiceType: services[rng.Intn(len(services))],
				Region:      models.Region{State: "SP", Cities: []string{city}},
				Status:      models.SlotAvailable,
				CreatedAt:   time.Now(),
			})
		}
	}
	if _, err := slotColl.InsertMany(ctx, slots); err != nil {
		log.Fatalf("Failed to seed availability slots: %v", err)
	}

	// Demand: a few open requirements covering the same window.
	var reqs []interface{}
	for i := 0; i < 5; i++ {
		reqs = append(reqs, models.ShiftRequirement{
			ID:           uuid.New().String(),
			HospitalID:   uuid.New().String(),
			HospitalName: fmt.Sprintf("Hospital Demo %d", i),
			Dates:        pick(rng, dates, 2),
			Start:        420,
			End:          1140,
			Overnight:    false,
			ServiceType:  services[rng.Intn(len(services))],
			Specialties:  []string{specialties[rng.Intn(len(specialties))]},
			HourlyRate:   150 + float64(rng.Intn(8))*10,
			Vacancies:    1,
			Region:       models.Region{State: "SP"},
			Status:       models.RequirementOpen,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		})
	}
	if _, err := reqColl.InsertMany(ctx, reqs); err != nil {
		log.Fatalf("Failed to seed requirements: %v", err)
	}

	fmt.Printf("Seeded %d slots and %d requirements\n", len(slots), len(reqs))
}

func upcomingDates(n int) []string {
	dates := make([]string, 0, n)
	day := time.Now().AddDate(0, 0, 1)
	for i := 0; i < n; i++ {
		dates = append(dates, day.Format("2006-01-02"))
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

func pick(rng *rand.Rand, pool []string, n int) []string {
	idx := rng.Perm(len(pool))
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}

package demo

import (
	"time"

	"github.com/example/mediride/internal/models"
)

// Source labels where listing data came from. Demo data is only served
// when the backend is unreachable, and is always marked so it can never
// be mistaken for live results or an empty live result.
type Source string

const (
	SourceLive Source = "live"
	SourceDemo Source = "demo"
)

// Bookings returns the canned booking set used when the backend is down.
func Bookings() []models.Booking {
	created := time.Date(2025, 3, 2, 9, 15, 0, 0, time.UTC)
	scheduled := time.Date(2025, 3, 5, 14, 30, 0, 0, time.UTC)
	return []models.Booking{
		{
			ID:              "demo-1",
			Status:          models.BookingPending,
			BookingType:     models.BookingEmergency,
			PatientName:     "Abdul Karim",
			PatientPhone:    "01712345678",
			PickupLocation:  "House 12, Road 5, Dhanmondi, Dhaka",
			DropoffLocation: "Square Hospital, Panthapath",
			EstimatedFare:   500,
			CreatedAt:       created,
		},
		{
			ID:              "demo-2",
			Status:          models.BookingOpen,
			BookingType:     models.BookingScheduled,
			PatientName:     "Fatema Begum",
			PatientPhone:    "01898765432",
			PickupLocation:  "Mirpur 10, Dhaka",
			DropoffLocation: "National Heart Institute, Sher-e-Bangla Nagar",
			ScheduledTime:   &scheduled,
			EstimatedFare:   650,
			Notes:           "Patient needs wheelchair support",
			CreatedAt:       created.Add(2 * time.Hour),
		},
		{
			ID:              "demo-3",
			Status:          models.BookingCompleted,
			BookingType:     models.BookingEmergency,
			PatientName:     "Jahid Hasan",
			PatientPhone:    "01911223344",
			PickupLocation:  "Uttara Sector 7, Dhaka",
			DropoffLocation: "Kurmitola General Hospital",
			EstimatedFare:   420,
			CreatedAt:       created.Add(-24 * time.Hour),
		},
	}
}

// Bids returns canned bids for a booking; amounts mirror the shape of a
// real competitive set so ranking is visible offline.
func Bids(bookingID string) []models.Bid {
	created := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	return []models.Bid{
		{ID: "demo-bid-1", BookingID: bookingID, Amount: 450, Status: models.BidPending, CreatedAt: created, DriverName: "Md. Selim", DriverPhone: "01755512345", Rating: 4.6, TotalRides: 212},
		{ID: "demo-bid-2", BookingID: bookingID, Amount: 380, Status: models.BidPending, CreatedAt: created.Add(5 * time.Minute), DriverName: "Kamrul Islam", DriverPhone: "01844467890", Rating: 4.8, TotalRides: 340},
		{ID: "demo-bid-3", BookingID: bookingID, Amount: 420, Status: models.BidPending, CreatedAt: created.Add(9 * time.Minute), DriverName: "Rafiq Mia", DriverPhone: "01633309876", Rating: 4.3, TotalRides: 98},
	}
}

func Hospitals() []models.Hospital {
	return []models.Hospital{
		{ID: "demo-h1", Name: "Square Hospital", Address: "18/F West Panthapath, Dhaka", Phone: "10616", HasICU: true},
		{ID: "demo-h2", Name: "Dhaka Medical College Hospital", Address: "Secretariat Road, Dhaka", Phone: "02-55165088", HasICU: true},
		{ID: "demo-h3", Name: "Kurmitola General Hospital", Address: "Tongi Diversion Rd, Dhaka", HasICU: false},
	}
}

func Doctors() []models.Doctor {
	return []models.Doctor{
		{ID: "demo-d1", Name: "Dr. Nusrat Jahan", Specialty: "Cardiology", Hospital: "Square Hospital"},
		{ID: "demo-d2", Name: "Dr. Mahmudul Haque", Specialty: "Emergency Medicine", Hospital: "Dhaka Medical College Hospital"},
	}
}

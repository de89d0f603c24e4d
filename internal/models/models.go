package models

import "time"

// BookingStatus is a booking's lifecycle state as reported by the backend.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingOpen      BookingStatus = "open"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingOpen, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	default:
		return false
	}
}

// OpenForBidding reports whether the booking still accepts new bids.
func (s BookingStatus) OpenForBidding() bool {
	return s == BookingPending || s == BookingOpen
}

func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// CanTransitionTo encodes the booking lifecycle: created open for bidding,
// closed to bids once a bid is approved, then completed or cancelled.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingOpen || next == BookingConfirmed || next == BookingCancelled
	case BookingOpen:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	default:
		return false
	}
}

type BidStatus string

const (
	BidPending  BidStatus = "pending"
	BidApproved BidStatus = "approved"
	BidRejected BidStatus = "rejected"
)

func (s BidStatus) Valid() bool {
	switch s {
	case BidPending, BidApproved, BidRejected:
		return true
	default:
		return false
	}
}

type BookingType string

const (
	BookingEmergency BookingType = "Emergency"
	BookingScheduled BookingType = "Scheduled"
)

type Booking struct {
	ID              string        `json:"id"`
	Status          BookingStatus `json:"status"`
	BookingType     BookingType   `json:"booking_type"`
	PatientName     string        `json:"patient_name"`
	PatientPhone    string        `json:"patient_phone"`
	PickupLocation  string        `json:"pickup_location"`
	DropoffLocation string        `json:"dropoff_location"`
	ScheduledTime   *time.Time    `json:"scheduled_time,omitempty"` // nil for instant bookings
	EstimatedFare   float64       `json:"estimated_fare,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

type Bid struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	Amount        float64   `json:"amount"`
	Notes         string    `json:"notes,omitempty"`
	Status        BidStatus `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	DriverName    string    `json:"driver_name"`
	DriverPhone   string    `json:"driver_phone"`
	Rating        float64   `json:"rating,omitempty"`
	TotalRides    int       `json:"total_rides,omitempty"`
	LicenseNumber string    `json:"license_number,omitempty"`
}

// Role namespaces session state so that logging in as one role does not
// clobber another's tokens.
type Role string

const (
	RolePatient Role = "patient"
	RoleDriver  Role = "driver"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDriver || r == RoleAdmin
}

// Profile is the cached backend authentication response; the backend is
// authoritative for all of it.
type Profile struct {
	FullName      string `json:"full_name"`
	PhoneNumber   string `json:"phone_number"`
	Email         string `json:"email"`
	LicenseNumber string `json:"license_number,omitempty"`
	IsSuperuser   bool   `json:"is_superuser,omitempty"`
}

type Session struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	Profile      Profile `json:"profile"`
}

// BookingEvent is the audit record published for every lifecycle mutation
// that passes through the proxy.
type BookingEvent struct {
	Type      string    `json:"type"`
	BookingID string    `json:"booking_id"`
	BidID     string    `json:"bid_id,omitempty"`
	Role      Role      `json:"role,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	At        time.Time `json:"at"`
}

const (
	EventBookingCreated   = "booking_created"
	EventBidPlaced        = "bid_placed"
	EventBidApproved      = "bid_approved"
	EventBookingAccepted  = "booking_accepted"
	EventBookingCompleted = "booking_completed"
	EventBookingCancelled = "booking_cancelled"
)

type Hospital struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone,omitempty"`
	HasICU   bool   `json:"has_icu,omitempty"`
	Distance string `json:"distance,omitempty"`
}

type Doctor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Hospital  string `json:"hospital,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

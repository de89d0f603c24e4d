package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/example/mediride/internal/models"
)

// Typed wrappers for every backend operation the views consume. Paths must
// match the backend contract exactly.

var (
	ErrMissingField = errors.New("all required fields must be filled")
	ErrPastSchedule = errors.New("scheduled date must not be before today")
)

type BookingRequest struct {
	PatientName     string `json:"patient_name"`
	PatientPhone    string `json:"patient_phone"`
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
	Notes           string `json:"notes,omitempty"`
	ScheduledTime   string `json:"scheduled_time,omitempty"`
}

func (r BookingRequest) validate() error {
	if r.PatientName == "" || r.PatientPhone == "" || r.PickupLocation == "" || r.DropoffLocation == "" {
		return ErrMissingField
	}
	return nil
}

// CombineSchedule merges a local date ("2006-01-02") and clock ("15:04")
// into one timestamp for scheduled_time. Dates before today are rejected
// locally; the backend stays the final arbiter of validity.
func CombineSchedule(date, clock string, now time.Time) (time.Time, error) {
	if date == "" || clock == "" {
		return time.Time{}, ErrMissingField
	}
	ts, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid schedule: %w", err)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if ts.Before(today) {
		return time.Time{}, ErrPastSchedule
	}
	return ts, nil
}

func (c *Client) CreateInstantBooking(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	req.ScheduledTime = ""
	var b models.Booking
	if err := c.DoAuthed(ctx, http.MethodPost, "/api/bookings/instant/", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CreateScheduledBooking(ctx context.Context, req BookingRequest, scheduled time.Time) (*models.Booking, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	req.ScheduledTime = scheduled.Format(time.RFC3339)
	var b models.Booking
	if err := c.DoAuthed(ctx, http.MethodPost, "/api/bookings/scheduled/", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBookings returns the caller's role-scoped bookings, optionally
// filtered by status.
func (c *Client) ListBookings(ctx context.Context, status string) ([]models.Booking, error) {
	qs := BuildQueryString([]Param{{Key: "status", Value: status}})
	var out []models.Booking
	if err := c.DoAuthed(ctx, http.MethodGet, "/api/bookings/"+qs, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var b models.Booking
	if err := c.DoAuthed(ctx, http.MethodGet, "/api/bookings/"+bookingID+"/", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) BookingBids(ctx context.Context, bookingID string) ([]models.Bid, error) {
	var out []models.Bid
	if err := c.DoAuthed(ctx, http.MethodGet, "/api/bookings/"+bookingID+"/bids/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type PlaceBidRequest struct {
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"bid_amount"`
	Notes     string  `json:"notes,omitempty"`
}

// PlaceBid submits a driver's bid on an open booking. The amount is
// validated locally; whether the booking is still open only the backend
// knows, and its rejection is surfaced as-is.
func (c *Client) PlaceBid(ctx context.Context, req PlaceBidRequest) (*models.Bid, error) {
	if req.BookingID == "" {
		return nil, ErrMissingField
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("bid amount must be greater than zero")
	}
	var b models.Bid
	if err := c.DoAuthed(ctx, http.MethodPost, "/api/bids/", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// AcceptBid is the patient self-serve accept of one bid on their own
// booking. A second accept on a decided booking is rejected by the
// backend and surfaced as an error, never retried.
func (c *Client) AcceptBid(ctx context.Context, bidID string) error {
	return c.DoAuthed(ctx, http.MethodPost, "/api/bookings/bids/"+bidID+"/accept/", nil, nil)
}

type approveBidRequest struct {
	BidID     string `json:"bid_id"`
	BookingID string `json:"booking_id"`
}

// ApproveBid is the admin approval path; same invariant as AcceptBid.
func (c *Client) ApproveBid(ctx context.Context, bidID, bookingID string) error {
	return c.DoAuthed(ctx, http.MethodPost, "/api/admin/approve-bid", approveBidRequest{BidID: bidID, BookingID: bookingID}, nil)
}

// AcceptBooking is the driver's non-bidding direct accept. It races with
// any in-flight bids for the same open booking; the backend is the sole
// arbiter of which wins.
func (c *Client) AcceptBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var b models.Booking
	if err := c.DoAuthed(ctx, http.MethodPost, "/api/bookings/"+bookingID+"/accept/", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CompleteBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var b models.Booking
	if err := c.DoAuthed(ctx, http.MethodPost, "/api/bookings/"+bookingID+"/complete/", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var b models.Booking
	if err := c.DoAuthed(ctx, http.MethodPost, "/api/bookings/"+bookingID+"/cancel/", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the backend and returns the session blob to
// cache. Token issuance itself is entirely the backend's concern.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*models.Session, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingField
	}
	var s models.Session
	if err := c.Do(ctx, http.MethodPost, "/api/auth/login/", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Hospitals(ctx context.Context, search string) ([]models.Hospital, error) {
	qs := BuildQueryString([]Param{{Key: "search", Value: search}})
	var out []models.Hospital
	if err := c.Do(ctx, http.MethodGet, "/api/hospitals/"+qs, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Doctors(ctx context.Context, specialty string) ([]models.Doctor, error) {
	qs := BuildQueryString([]Param{{Key: "specialty", Value: specialty}})
	var out []models.Doctor
	if err := c.Do(ctx, http.MethodGet, "/api/doctors/"+qs, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/mediride/internal/apiclient"
	"github.com/example/mediride/internal/bidding"
	"github.com/example/mediride/internal/demo"
	"github.com/example/mediride/internal/models"
	"github.com/example/mediride/internal/observability"
)

// bookingView decorates a booking with the shared status presentation so
// every page renders the same label and badge color.
type bookingView struct {
	models.Booking
	StatusLabel string `json:"status_label"`
	StatusColor string `json:"status_color"`
}

func viewOf(b models.Booking) bookingView {
	return bookingView{Booking: b, StatusLabel: bidding.StatusLabel(b.Status), StatusColor: bidding.StatusColor(b.Status)}
}

func viewsOf(bookings []models.Booking) []bookingView {
	out := make([]bookingView, len(bookings))
	for i, b := range bookings {
		out[i] = viewOf(b)
	}
	return out
}

type bookingListResponse struct {
	Source   demo.Source   `json:"source"`
	Bookings []bookingView `json:"bookings"`
}

func (s *Server) handleCreateInstant(w http.ResponseWriter, r *http.Request) {
	var req apiclient.BookingRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	booking, err := s.backendFor(r).CreateInstantBooking(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	observability.BookingsCreated.WithLabelValues(string(models.BookingEmergency)).Inc()
	s.publish(models.BookingEvent{Type: models.EventBookingCreated, BookingID: booking.ID, Role: models.RolePatient})
	respondJSON(w, http.StatusCreated, booking)
}

// scheduledBookingRequest carries the form's separate local date and time
// fields; they are combined into one timestamp here, before anything goes
// to the backend.
type scheduledBookingRequest struct {
	apiclient.BookingRequest
	ScheduledDate  string `json:"scheduled_date"`
	ScheduledClock string `json:"scheduled_clock"`
}

func (s *Server) handleCreateScheduled(w http.ResponseWriter, r *http.Request) {
	var req scheduledBookingRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	ts, err := apiclient.CombineSchedule(req.ScheduledDate, req.ScheduledClock, time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	booking, err := s.backendFor(r).CreateScheduledBooking(r.Context(), req.BookingRequest, ts)
	if err != nil {
		respondError(w, err)
		return
	}
	observability.BookingsCreated.WithLabelValues(string(models.BookingScheduled)).Inc()
	s.publish(models.BookingEvent{Type: models.EventBookingCreated, BookingID: booking.ID, Role: models.RolePatient})
	respondJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.backendFor(r).ListBookings(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		if s.demoFallback && isTransportFailure(err) {
			observability.DemoFallback.Inc()
			s.logger.Warn("serving demo bookings, backend unreachable", "error", err)
			respondJSON(w, http.StatusOK, bookingListResponse{Source: demo.SourceDemo, Bookings: viewsOf(demo.Bookings())})
			return
		}
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bookingListResponse{Source: demo.SourceLive, Bookings: viewsOf(bookings)})
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.backendFor(r).GetBooking(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, viewOf(*booking))
}

// handleDriverAccept is the driver's non-bidding direct accept. It races
// with any in-flight bids on the same booking; the backend alone decides
// which wins, and its rejection is passed through untouched.
func (s *Server) handleDriverAccept(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	booking, err := s.backendFor(r).AcceptBooking(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	s.publish(models.BookingEvent{Type: models.EventBookingAccepted, BookingID: id, Role: models.RoleDriver})
	respondJSON(w, http.StatusOK, viewOf(*booking))
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	client := s.backendFor(r)
	if _, err := client.CompleteBooking(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	// render from canonical state, not the mutation response
	booking, err := client.GetBooking(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	s.publish(models.BookingEvent{Type: models.EventBookingCompleted, BookingID: id, Role: models.RoleDriver})
	s.captureFare(r, id)
	respondJSON(w, http.StatusOK, viewOf(*booking))
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	client := s.backendFor(r)
	if _, err := client.CancelBooking(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	booking, err := client.GetBooking(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	s.publish(models.BookingEvent{Type: models.EventBookingCancelled, BookingID: id})
	s.releaseFare(r, id)
	respondJSON(w, http.StatusOK, viewOf(*booking))
}

// publish sends a lifecycle event to the audit topic, best-effort.
func (s *Server) publish(ev models.BookingEvent) {
	if s.Events == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := s.Events.Publish(ev); err != nil {
		s.logger.Warn("event publish failed", "type", ev.Type, "booking_id", ev.BookingID, "error", err)
	}
}

func (s *Server) captureFare(r *http.Request, bookingID string) {
	if s.Payments == nil {
		return
	}
	if v, ok := s.fareHolds.LoadAndDelete(bookingID); ok {
		if err := s.Payments.CaptureFare(r.Context(), v.(string)); err != nil {
			s.logger.Warn("fare capture failed", "booking_id", bookingID, "error", err)
		}
	}
}

func (s *Server) releaseFare(r *http.Request, bookingID string) {
	if s.Payments == nil {
		return
	}
	if v, ok := s.fareHolds.LoadAndDelete(bookingID); ok {
		if err := s.Payments.ReleaseFare(r.Context(), v.(string)); err != nil {
			s.logger.Warn("fare release failed", "booking_id", bookingID, "error", err)
		}
	}
}

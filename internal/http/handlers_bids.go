package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/example/mediride/internal/apiclient"
	"github.com/example/mediride/internal/bidding"
	"github.com/example/mediride/internal/demo"
	"github.com/example/mediride/internal/models"
	"github.com/example/mediride/internal/observability"
)

// bidListResponse is the one shape every bid view receives: a fresh full
// ranking with the recommended lowest bid flagged.
type bidListResponse struct {
	Source    demo.Source         `json:"source"`
	BookingID string              `json:"booking_id"`
	Bids      []bidding.RankedBid `json:"bids"`
}

func (s *Server) handleBookingBids(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	bids, err := s.backendFor(r).BookingBids(r.Context(), id)
	if err != nil {
		if s.demoFallback && isTransportFailure(err) {
			observability.DemoFallback.Inc()
			s.logger.Warn("serving demo bids, backend unreachable", "booking_id", id, "error", err)
			respondJSON(w, http.StatusOK, bidListResponse{Source: demo.SourceDemo, BookingID: id, Bids: bidding.RankedView(demo.Bids(id))})
			return
		}
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bidListResponse{Source: demo.SourceLive, BookingID: id, Bids: bidding.RankedView(bids)})
}

func (s *Server) handlePlaceBid(w http.ResponseWriter, r *http.Request) {
	var req apiclient.PlaceBidRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Amount <= 0 {
		// local validation, no network call
		respondError(w, bidding.ErrInvalidAmount)
		return
	}
	client := s.backendFor(r)
	bid, err := client.PlaceBid(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	observability.BidsPlaced.Inc()
	s.publish(models.BookingEvent{Type: models.EventBidPlaced, BookingID: req.BookingID, BidID: bid.ID, Role: models.RoleDriver, Amount: req.Amount})
	s.broadcastBids(r.Context(), client, req.BookingID)
	respondJSON(w, http.StatusCreated, bid)
}

// handleAcceptBid is the patient self-serve accept. A repeat accept on a
// decided booking comes back from the backend as a conflict and is
// surfaced as-is, never retried.
func (s *Server) handleAcceptBid(w http.ResponseWriter, r *http.Request) {
	bidID := mux.Vars(r)["bidId"]
	client := s.backendFor(r)
	if err := client.AcceptBid(r.Context(), bidID); err != nil {
		respondError(w, err)
		return
	}
	observability.BidsApproved.Inc()
	s.finishApproval(w, r, client, bidID, "")
}

type approveBidRequest struct {
	BidID     string `json:"bid_id"`
	BookingID string `json:"booking_id"`
}

func (s *Server) handleApproveBid(w http.ResponseWriter, r *http.Request) {
	var req approveBidRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.BidID == "" || req.BookingID == "" {
		respondError(w, apiclient.ErrMissingField)
		return
	}
	client := s.backendFor(r)
	if err := client.ApproveBid(r.Context(), req.BidID, req.BookingID); err != nil {
		respondError(w, err)
		return
	}
	observability.BidsApproved.Inc()
	s.finishApproval(w, r, client, req.BidID, req.BookingID)
}

// finishApproval re-fetches canonical state after either approval path,
// since the backend's side effects (driver assignment, closing the
// booking to bids) are not reflected in the mutation response.
func (s *Server) finishApproval(w http.ResponseWriter, r *http.Request, client *apiclient.Client, bidID, bookingID string) {
	ctx := r.Context()

	if bookingID == "" {
		// self-serve path only knows the bid id; resolve the booking from
		// the caller's own list
		bookings, err := client.ListBookings(ctx, "")
		if err == nil {
		resolve:
			for _, b := range bookings {
				bids, err := client.BookingBids(ctx, b.ID)
				if err != nil {
					continue
				}
				for _, bid := range bids {
					if bid.ID == bidID {
						bookingID = b.ID
						break resolve
					}
				}
			}
		}
	}
	if bookingID == "" {
		// approval succeeded but canonical state could not be resolved;
		// the caller re-fetches on its next load
		respondJSON(w, http.StatusOK, map[string]string{"status": "approved", "bid_id": bidID})
		return
	}

	booking, err := client.GetBooking(ctx, bookingID)
	if err != nil {
		respondError(w, err)
		return
	}
	bids, err := client.BookingBids(ctx, bookingID)
	if err != nil {
		respondError(w, err)
		return
	}

	s.publish(models.BookingEvent{Type: models.EventBidApproved, BookingID: bookingID, BidID: bidID})
	s.Push.Broadcast(bookingID, bidding.RankedView(bids))
	s.holdFare(ctx, bookingID, bids)

	respondJSON(w, http.StatusOK, struct {
		Booking bookingView         `json:"booking"`
		Bids    []bidding.RankedBid `json:"bids"`
	}{Booking: viewOf(*booking), Bids: bidding.RankedView(bids)})
}

func (s *Server) holdFare(ctx context.Context, bookingID string, bids []models.Bid) {
	if s.Payments == nil {
		return
	}
	winner, err := bidding.ApprovedBid(bids)
	if err != nil || winner == nil {
		return
	}
	intentID, err := s.Payments.HoldFare(ctx, winner.Amount, "")
	if err != nil {
		s.logger.Warn("fare hold failed", "booking_id", bookingID, "error", err)
		return
	}
	s.fareHolds.Store(bookingID, intentID)
}

func (s *Server) broadcastBids(ctx context.Context, client *apiclient.Client, bookingID string) {
	if s.Push.WatcherCount(bookingID) == 0 {
		return
	}
	bids, err := client.BookingBids(ctx, bookingID)
	if err != nil {
		s.logger.Warn("bid re-fetch for broadcast failed", "booking_id", bookingID, "error", err)
		return
	}
	s.Push.Broadcast(bookingID, bidding.RankedView(bids))
}

var upgrader = websocket.Upgrader{}

// handleBidFeed subscribes a viewer to live ranked-bid updates for one
// booking. The initial frame is the current ranking; further frames are
// pushed as bids arrive or get approved.
func (s *Server) handleBidFeed(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	client := s.backendFor(r)
	bids, err := client.BookingBids(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written its own error response
		s.logger.Warn("websocket upgrade failed", "booking_id", id, "error", err)
		return
	}
	sess := s.Push.Watch(id, conn)
	if err := sess.Send(bidding.RankedView(bids)); err != nil {
		s.Push.Unwatch(id, sess)
		return
	}

	// reader loop only detects close
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.Push.Unwatch(id, sess)
				return
			}
		}
	}()
}

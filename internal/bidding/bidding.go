package bidding

import (
	"errors"
	"sort"

	"github.com/example/mediride/internal/models"
)

var (
	ErrBookingClosed  = errors.New("booking is no longer open for bidding")
	ErrAlreadyDecided = errors.New("booking already has an approved bid")
	ErrInvalidAmount  = errors.New("bid amount must be greater than zero")
)

// Rank returns a fresh copy of bids sorted ascending by amount, lowest
// price first. Ties break on created_at ascending, then id, so the order
// is deterministic for a given bid set. Every view that shows bids to a
// decision-maker goes through this one function.
func Rank(bids []models.Bid) []models.Bid {
	out := make([]models.Bid, len(bids))
	copy(out, bids)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount < out[j].Amount
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// RankedBid is a bid annotated for display. Lowest marks the recommended
// entry; it is advisory only and carries no permission.
type RankedBid struct {
	models.Bid
	Lowest bool `json:"lowest"`
}

// RankedView ranks bids and flags the first entry as the lowest bid.
func RankedView(bids []models.Bid) []RankedBid {
	ranked := Rank(bids)
	out := make([]RankedBid, len(ranked))
	for i, b := range ranked {
		out[i] = RankedBid{Bid: b, Lowest: i == 0}
	}
	return out
}

// ValidateBid checks a bid submission locally before any network call.
// The backend remains the final arbiter of whether the booking is open.
func ValidateBid(booking models.Booking, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !booking.Status.OpenForBidding() {
		return ErrBookingClosed
	}
	return nil
}

// ApprovedBid returns the single approved bid, if any. More than one
// approved bid violates the backend's invariant and is reported as an
// error rather than silently picking one.
func ApprovedBid(bids []models.Bid) (*models.Bid, error) {
	var found *models.Bid
	for i := range bids {
		if bids[i].Status != models.BidApproved {
			continue
		}
		if found != nil {
			return nil, ErrAlreadyDecided
		}
		found = &bids[i]
	}
	return found, nil
}

// CanApprove checks whether approving a bid on the booking is permitted:
// the booking must still be open and no other bid already approved.
func CanApprove(booking models.Booking, bids []models.Bid) error {
	if !booking.Status.OpenForBidding() {
		return ErrBookingClosed
	}
	if w, err := ApprovedBid(bids); err != nil {
		return err
	} else if w != nil {
		return ErrAlreadyDecided
	}
	return nil
}

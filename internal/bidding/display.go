package bidding

import "github.com/example/mediride/internal/models"

// Shared status presentation so every view renders the same label and
// badge color for a given state.

func StatusLabel(s models.BookingStatus) string {
	switch s {
	case models.BookingPending:
		return "Awaiting bids"
	case models.BookingOpen:
		return "Open for bids"
	case models.BookingConfirmed:
		return "Driver assigned"
	case models.BookingCompleted:
		return "Completed"
	case models.BookingCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

func StatusColor(s models.BookingStatus) string {
	switch s {
	case models.BookingPending, models.BookingOpen:
		return "amber"
	case models.BookingConfirmed:
		return "blue"
	case models.BookingCompleted:
		return "green"
	case models.BookingCancelled:
		return "red"
	default:
		return "gray"
	}
}

func BidStatusLabel(s models.BidStatus) string {
	switch s {
	case models.BidPending:
		return "Pending"
	case models.BidApproved:
		return "Approved"
	case models.BidRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

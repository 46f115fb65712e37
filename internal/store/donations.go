package store

import (
	"errors"

	"github.com/safepaws-ai/safepaws-backend/internal/docstore"
)

// Donation statuses.
const (
	DonationPending = "pending"
	DonationPaid    = "paid"
)

// ErrDonationAlreadyPaid is returned when a payment webhook is delivered
// twice for the same PaymentIntent. The handler should treat this as
// idempotent success — a duplicate delivery must not double-credit a
// campaign.
var ErrDonationAlreadyPaid = errors.New("store: donation already marked paid")

// Donation is one contribution, pending until the payment provider confirms
// it. Amount is in paise (minor currency units).
type Donation struct {
	ID            string `json:"id"`
	Donor         string `json:"donor"`
	Email         string `json:"email"`
	Amount        int64  `json:"amount"`
	CampaignID    string `json:"campaign_id,omitempty"`
	Status        string `json:"status"`
	PaymentIntent string `json:"payment_intent,omitempty"`
	CreatedAt     string `json:"created_at"`
	PaidAt        string `json:"paid_at,omitempty"`
}

// NewDonationParams carries the caller-supplied fields for a new pledge.
type NewDonationParams struct {
	Donor         string
	Email         string
	Amount        int64
	CampaignID    string
	PaymentIntent string
}

// ─── METHODS ──────────────────────────────────────────────────────────────────

// CreateDonation records a pending pledge tied to a PaymentIntent.
func (s *Store) CreateDonation(p NewDonationParams) (Donation, error) {
	d := Donation{
		ID:            s.newID("DN"),
		Donor:         p.Donor,
		Email:         p.Email,
		Amount:        p.Amount,
		CampaignID:    p.CampaignID,
		Status:        DonationPending,
		PaymentIntent: p.PaymentIntent,
		CreatedAt:     s.timestamp(),
	}
	list := s.ListDonations()
	list = append(list, d)
	if err := docstore.Write(s.b, colDonations, list); err != nil {
		return Donation{}, err
	}
	return d, nil
}

// ListDonations returns every donation record.
func (s *Store) ListDonations() []Donation {
	return docstore.Read(s.b, colDonations, []Donation{})
}

// MarkDonationPaid confirms the donation matching a PaymentIntent and
// credits its campaign. Idempotent: a second delivery of the same event
// returns the record with ErrDonationAlreadyPaid and credits nothing.
func (s *Store) MarkDonationPaid(paymentIntent string) (Donation, error) {
	list := s.ListDonations()
	for i := range list {
		if list[i].PaymentIntent != paymentIntent {
			continue
		}
		if list[i].Status == DonationPaid {
			return list[i], ErrDonationAlreadyPaid
		}
		list[i].Status = DonationPaid
		list[i].PaidAt = s.timestamp()
		if err := docstore.Write(s.b, colDonations, list); err != nil {
			return Donation{}, err
		}
		if err := s.addCampaignFunds(list[i].CampaignID, list[i].Amount); err != nil {
			return Donation{}, err
		}
		return list[i], nil
	}
	return Donation{}, ErrNotFound
}

// TotalRaised sums confirmed donations, in paise.
func (s *Store) TotalRaised() int64 {
	var total int64
	for _, d := range s.ListDonations() {
		if d.Status == DonationPaid {
			total += d.Amount
		}
	}
	return total
}

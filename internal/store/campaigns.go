package store

import (
	"time"

	"github.com/safepaws-ai/safepaws-backend/internal/docstore"
)

// Campaign statuses. Scheduled campaigns roll over automatically based on
// their date: past-dated → Overdue, today → In Progress. Completed is set
// when the vaccination count reaches the target.
const (
	CampaignScheduled  = "Scheduled"
	CampaignInProgress = "In Progress"
	CampaignCompleted  = "Completed"
	CampaignOverdue    = "Overdue"
)

// Campaign is one vaccination drive in a zone. Raised tracks donation money
// (in paise) earmarked for the campaign.
type Campaign struct {
	ID         string    `json:"id"`
	Zone       string    `json:"zone"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Coords     []float64 `json:"coords,omitempty"`
	Target     int       `json:"target"`
	Vaccinated int       `json:"vaccinated"`
	Status     string    `json:"status"`
	Raised     int64     `json:"raised"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  string    `json:"created_at"`
}

// NewCampaignParams carries the caller-supplied fields for a new drive.
type NewCampaignParams struct {
	Zone      string
	Date      string
	Coords    []float64
	Target    int
	CreatedBy string
}

// ─── METHODS ──────────────────────────────────────────────────────────────────

// CreateCampaign schedules a new vaccination drive.
func (s *Store) CreateCampaign(p NewCampaignParams) (Campaign, error) {
	c := Campaign{
		ID:        s.newID("VC"),
		Zone:      p.Zone,
		Date:      p.Date,
		Coords:    p.Coords,
		Target:    p.Target,
		Status:    CampaignScheduled,
		CreatedBy: p.CreatedBy,
		CreatedAt: s.timestamp(),
	}
	list := s.rawCampaigns()
	list = append(list, c)
	if err := docstore.Write(s.b, colCampaigns, list); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

func (s *Store) rawCampaigns() []Campaign {
	return docstore.Read(s.b, colCampaigns, []Campaign{})
}

// ListCampaigns returns every drive with date-based status rollover applied.
// Rollover is persisted when it changes anything, so repeated listings are
// stable within a day.
func (s *Store) ListCampaigns() ([]Campaign, error) {
	list := s.rawCampaigns()
	today := s.now().Format("2006-01-02")

	changed := false
	for i := range list {
		if list[i].Status != CampaignScheduled {
			continue
		}
		campDate, err := time.Parse("2006-01-02", list[i].Date)
		if err != nil {
			continue // malformed date never blocks a listing
		}
		switch {
		case list[i].Date == today:
			list[i].Status = CampaignInProgress
			changed = true
		case campDate.Before(s.now().Truncate(24 * time.Hour)):
			list[i].Status = CampaignOverdue
			changed = true
		}
	}

	if changed {
		if err := docstore.Write(s.b, colCampaigns, list); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// GetCampaign looks up one drive by ID.
func (s *Store) GetCampaign(id string) (Campaign, error) {
	for _, c := range s.rawCampaigns() {
		if c.ID == id {
			return c, nil
		}
	}
	return Campaign{}, ErrNotFound
}

// RecordVaccinations adds to a drive's vaccinated count and completes the
// campaign once the target is reached.
func (s *Store) RecordVaccinations(id string, count int) (Campaign, error) {
	list := s.rawCampaigns()
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i].Vaccinated += count
		if list[i].Target > 0 && list[i].Vaccinated >= list[i].Target {
			list[i].Status = CampaignCompleted
		}
		if err := docstore.Write(s.b, colCampaigns, list); err != nil {
			return Campaign{}, err
		}
		return list[i], nil
	}
	return Campaign{}, ErrNotFound
}

// addCampaignFunds credits a paid donation to its campaign. Called from
// MarkDonationPaid; missing campaign IDs are ignored (the donation still
// counts toward the global total).
func (s *Store) addCampaignFunds(id string, amount int64) error {
	if id == "" {
		return nil
	}
	list := s.rawCampaigns()
	for i := range list {
		if list[i].ID == id {
			list[i].Raised += amount
			return docstore.Write(s.b, colCampaigns, list)
		}
	}
	return nil
}

package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListCampaigns_DateRollover(t *testing.T) {
	s := newTestStore(t) // fixed clock: 2026-08-27

	past, err := s.CreateCampaign(NewCampaignParams{Zone: "Adyar", Date: "2026-08-20", Target: 100})
	require.NoError(t, err)
	today, err := s.CreateCampaign(NewCampaignParams{Zone: "T. Nagar", Date: "2026-08-27", Target: 50})
	require.NoError(t, err)
	future, err := s.CreateCampaign(NewCampaignParams{Zone: "Velachery", Date: "2026-09-15", Target: 80})
	require.NoError(t, err)

	list, err := s.ListCampaigns()
	require.NoError(t, err)

	byID := map[string]Campaign{}
	for _, c := range list {
		byID[c.ID] = c
	}
	require.Equal(t, CampaignOverdue, byID[past.ID].Status)
	require.Equal(t, CampaignInProgress, byID[today.ID].Status)
	require.Equal(t, CampaignScheduled, byID[future.ID].Status)

	// Rollover is persisted, so a direct lookup agrees with the listing.
	got, err := s.GetCampaign(past.ID)
	require.NoError(t, err)
	require.Equal(t, CampaignOverdue, got.Status)
}

func TestRecordVaccinations_CompletesAtTarget(t *testing.T) {
	s := newTestStore(t)

	c, err := s.CreateCampaign(NewCampaignParams{Zone: "Adyar", Date: "2026-09-15", Target: 10})
	require.NoError(t, err)

	c, err = s.RecordVaccinations(c.ID, 6)
	require.NoError(t, err)
	require.Equal(t, 6, c.Vaccinated)
	require.Equal(t, CampaignScheduled, c.Status)

	c, err = s.RecordVaccinations(c.ID, 5)
	require.NoError(t, err)
	require.Equal(t, 11, c.Vaccinated)
	require.Equal(t, CampaignCompleted, c.Status)

	_, err = s.RecordVaccinations("VC-0-dead", 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddCampaignFunds(t *testing.T) {
	s := newTestStore(t)

	c, err := s.CreateCampaign(NewCampaignParams{Zone: "Adyar", Date: "2026-09-15", Target: 10})
	require.NoError(t, err)

	require.NoError(t, s.addCampaignFunds(c.ID, 50000))
	require.NoError(t, s.addCampaignFunds(c.ID, 25000))

	got, err := s.GetCampaign(c.ID)
	require.NoError(t, err)
	require.Equal(t, int64(75000), got.Raised)

	// Unknown and empty campaign IDs are ignored, not errors.
	require.NoError(t, s.addCampaignFunds("VC-0-dead", 100))
	require.NoError(t, s.addCampaignFunds("", 100))
}

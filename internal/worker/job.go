package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/safepaws-ai/safepaws-backend/internal/geo"
	"github.com/safepaws-ai/safepaws-backend/internal/notify"
	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// GeoService is the slice of the geo client the dispatch job needs. A local
// interface keeps the job testable without network access.
type GeoService interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
	Route(ctx context.Context, from, to geo.Point) (*geo.RouteResult, error)
}

// Job holds the dependencies for the SOS dispatch pipeline. Each step is a
// separate method so they can be tested independently and so Run reads like
// a checklist.
type Job struct {
	store   *store.Store
	geo     GeoService
	mailer  notify.EmailSender
	sms     notify.SMSSender
	shelter geo.Point
	logger  *slog.Logger
}

// NewJob constructs a Job with all required dependencies. shelter is the
// base location routes are computed from.
func NewJob(
	st *store.Store,
	geoSvc GeoService,
	mailer notify.EmailSender,
	sms notify.SMSSender,
	shelter geo.Point,
	logger *slog.Logger,
) *Job {
	return &Job{
		store:   st,
		geo:     geoSvc,
		mailer:  mailer,
		sms:     sms,
		shelter: shelter,
		logger:  logger,
	}
}

// Run executes the full dispatch for a single SOS:
//
//  1. Load the report; skip if it is no longer open (idempotency).
//  2. Reverse-geocode the coordinates when the report has no address.
//  3. Compute the route from the shelter (best effort).
//  4. Alert every active volunteer and vet — email, SMS, and an in-app
//     notification. Channel failures are logged and ignored.
//  5. Mark the SOS alerted.
//
// Only store failures and "no responders" are returned as errors; the
// Runner retries those. Notification-channel failures never fail the job.
func (j *Job) Run(ctx context.Context, sosID string) error {
	log := j.logger.With("sos_id", sosID)
	log.Info("dispatch: starting")

	// ── 1. Load and guard ──────────────────────────────────────────────────────
	rec, err := j.store.GetSOS(sosID)
	if err != nil {
		return fmt.Errorf("dispatch: get sos: %w", err)
	}
	if rec.Status != store.SOSOpen {
		// Duplicate enqueue (channel + poller) — already handled.
		log.Debug("dispatch: sos no longer open, skipping", "status", rec.Status)
		return nil
	}

	// ── 2. Resolve address ─────────────────────────────────────────────────────
	address := rec.Address
	if address == "" && len(rec.Coords) == 2 {
		resolved, err := j.geo.ReverseGeocode(ctx, rec.Coords[0], rec.Coords[1])
		if err != nil || resolved == "" {
			// Fail-soft: render the raw coordinates instead.
			address = fmt.Sprintf("Coordinates: %.6f, %.6f", rec.Coords[0], rec.Coords[1])
		} else {
			address = resolved
		}
	}

	// ── 3. Route from the shelter (best effort) ────────────────────────────────
	var distanceKm, durationMin float64
	if len(rec.Coords) == 2 {
		route, err := j.geo.Route(ctx, j.shelter, geo.Point{Lat: rec.Coords[0], Lon: rec.Coords[1]})
		if err != nil {
			log.Warn("dispatch: route calculation failed", "error", err)
		} else {
			distanceKm = route.DistanceKm
			durationMin = route.DurationMin
		}
	}

	// ── 4. Alert responders ────────────────────────────────────────────────────
	responders := append(j.store.UsersByRole(store.RoleVolunteer), j.store.UsersByRole(store.RoleVet)...)
	if len(responders) == 0 {
		return fmt.Errorf("dispatch: no active responders to alert for sos %s", sosID)
	}

	subject := fmt.Sprintf("Emergency SOS (%s)", rec.Severity)
	body := alertBody(rec, address, distanceKm, durationMin)

	for _, u := range responders {
		if err := j.mailer.SendEmail(ctx, u.Email, subject, body); err != nil {
			log.Error("dispatch: email send failed", "to", u.Email, "error", err)
		}
		if u.Phone != "" {
			smsText := fmt.Sprintf("%s emergency at %s: %s", rec.Severity, address, rec.Desc)
			if err := j.sms.SendSMS(ctx, u.Phone, smsText); err != nil {
				log.Error("dispatch: sms send failed", "to", u.Phone, "error", err)
			}
		}
		if _, err := j.store.AppendNotification(u.Email, subject, body); err != nil {
			log.Error("dispatch: notification append failed", "to", u.Email, "error", err)
		}
	}
	log.Info("dispatch: responders alerted", "count", len(responders))

	// ── 5. Mark alerted ────────────────────────────────────────────────────────
	alertAddr := ""
	if rec.Address == "" {
		alertAddr = address
	}
	if _, err := j.store.MarkSOSAlerted(sosID, store.AlertResult{
		Address:     alertAddr,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
	}); err != nil {
		return fmt.Errorf("dispatch: mark alerted: %w", err)
	}

	log.Info("dispatch: complete")
	return nil
}

// alertBody renders the notification text shared by email and in-app
// channels.
func alertBody(rec store.SOS, address string, distanceKm, durationMin float64) string {
	body := fmt.Sprintf("A %s severity emergency has been reported at %s.<br><br>%s",
		rec.Severity, address, rec.Desc)
	if distanceKm > 0 {
		body += fmt.Sprintf("<br><br>Distance from shelter: %.1f km (~%.0f min)", distanceKm, durationMin)
	}
	return body
}

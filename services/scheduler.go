package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"esports-tournament-system/models"
)

// advanceTournamentStatuses flips upcoming tournaments to ongoing once
// their start date passes and ongoing tournaments to completed once their
// end date passes. Cancelled tournaments are left alone.
func (s *TournamentService) advanceTournamentStatuses(now time.Time) {
	tournaments, err := s.Store.GetTournaments()
	if err != nil {
		log.Printf("[SCHEDULER] fetch failed: %v", err)
		return
	}
	for i := range tournaments {
		t := tournaments[i]
		switch t.Status {
		case models.TournamentStatusUpcoming:
			if !t.StartDate.IsZero() && t.StartDate.Before(now) {
				t.Status = models.TournamentStatusOngoing
			}
		case models.TournamentStatusOngoing:
			if !t.EndDate.IsZero() && t.EndDate.Before(now) {
				t.Status = models.TournamentStatusCompleted
			}
		default:
			continue
		}
		if t.Status == tournaments[i].Status {
			continue
		}
		if err := s.Store.UpdateTournament(&t); err != nil {
			log.Printf("[SCHEDULER] failed to move tournament %d to %s: %v", t.ID, t.Status, err)
		} else {
			log.Printf("[SCHEDULER] tournament %q is now %s", t.Name, t.Status)
		}
	}
}

// StartStatusScheduler runs the status flips on a one-minute timer.
func (s *TournamentService) StartStatusScheduler() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			s.advanceTournamentStatuses(time.Now())
		}),
	)
	if err != nil {
		return nil, err
	}
	return sched, nil
}

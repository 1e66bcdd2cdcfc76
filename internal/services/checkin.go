package services

import (
	"math/rand"
	"time"

	"github.com/go-mkbot/mkcore/internal/clock"
	"github.com/go-mkbot/mkcore/internal/models"
	"github.com/go-mkbot/mkcore/internal/store"
)

// streakCutoffSeconds is the longest gap (36h) between check-ins that
// still continues a streak. A gap of exactly the cutoff continues; one
// second more resets to 1.
const streakCutoffSeconds = 129600

// dayKeyFormat renders a clock instant as the calendar-day key.
const dayKeyFormat = "2006-01-02"

// Reward ranges by daily rank, inclusive bounds.
var rewardRanges = []struct {
	min, max int64
}{
	{90, 125}, // rank 1
	{75, 89},  // rank 2
	{50, 74},  // rank 3
	{15, 49},  // everyone after the podium
}

// CheckinReport is the result of a check-in (or of finding one already
// recorded for today, in which case Already is set and nothing moved).
type CheckinReport struct {
	UserID         string `json:"user_id"`
	Day            string `json:"day"`
	Rank           int    `json:"rank"`
	Reward         int64  `json:"reward"`
	StreakDays     int64  `json:"streak_days"`
	CumulativeDays int64  `json:"cumulative_days"`
	Timestamp      int64  `json:"timestamp"`
	Already        bool   `json:"already"`
}

// CheckinStatusReport is the read-only view used to render status cards.
type CheckinStatusReport struct {
	UserID         string                `json:"user_id"`
	Day            string                `json:"day"`
	Today          *models.CheckinRecord `json:"today,omitempty"`
	StreakDays     int64                 `json:"streak_days"`
	CumulativeDays int64                 `json:"cumulative_days"`
}

// CheckinService records daily check-ins: one per user per calendar
// day, ranked in arrival order, rewarded by rank, with streak tracking.
type CheckinService struct {
	store    store.Store
	clock    clock.Clock
	currency *CurrencyService

	// randInt is swappable so tests can pin rewards.
	randInt func(n int64) int64
}

func NewCheckinService(s store.Store, c clock.Clock, currency *CurrencyService) *CheckinService {
	return &CheckinService{
		store:    s,
		clock:    c,
		currency: currency,
		randInt:  rand.Int63n,
	}
}

func (s *CheckinService) day(now int64) string {
	return time.Unix(now, 0).Format(dayKeyFormat)
}

func (s *CheckinService) rewardFor(rank int) int64 {
	r := rewardRanges[len(rewardRanges)-1]
	if rank >= 1 && rank <= 3 {
		r = rewardRanges[rank-1]
	}
	return r.min + s.randInt(r.max-r.min+1)
}

// dayCounterKey holds the day's rank counter inside the day scope. User
// ids are numeric, so the underscore prefix cannot collide.
const dayCounterKey = "_count"

// Checkin records today's check-in for userID. Repeated calls on the
// same calendar day return the stored record unchanged and move nothing.
func (s *CheckinService) Checkin(userID string) (*CheckinReport, error) {
	now := s.clock.Now()
	day := s.day(now)
	dayScope := scopeCheckinDay(day)

	report := &CheckinReport{UserID: userID, Day: day}

	// Rank assignment and record insertion happen in one update on the
	// day scope, so two arrivals can never claim the same rank.
	err := s.store.Update(dayScope, func(doc store.Doc) error {
		var existing models.CheckinRecord
		if store.Value(doc, userID, &existing) {
			report.Already = true
			report.Rank = existing.Rank
			report.Reward = existing.Reward
			report.Timestamp = existing.Timestamp
			return nil
		}

		count := store.ValueOr(doc, dayCounterKey, int64(0))
		rank := int(count) + 1

		rec := models.CheckinRecord{
			Rank:      rank,
			Reward:    s.rewardFor(rank),
			Timestamp: now,
		}
		doc.SetValue(dayCounterKey, count+1)
		doc.SetValue(userID, rec)

		report.Rank = rec.Rank
		report.Reward = rec.Reward
		report.Timestamp = rec.Timestamp
		return nil
	})
	if err != nil {
		return nil, err
	}

	if report.Already {
		streak := store.Get(s.store, scopeCheckinStreaks, userID, models.StreakState{})
		report.StreakDays = streak.Count
		report.CumulativeDays = store.Get(s.store, scopeCheckinTotals, userID, int64(0))
		return report, nil
	}

	if _, err := s.currency.Credit(userID, report.Reward); err != nil {
		return nil, err
	}

	err = s.store.Update(scopeCheckinStreaks, func(doc store.Doc) error {
		st := store.ValueOr(doc, userID, models.StreakState{})
		gap := now - st.LastCheckinEpoch
		if st.LastCheckinEpoch == 0 || gap > streakCutoffSeconds {
			st.Count = 1
		} else {
			st.Count++
		}
		st.LastCheckinEpoch = now
		doc.SetValue(userID, st)
		report.StreakDays = st.Count
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.store.Update(scopeCheckinTotals, func(doc store.Doc) error {
		total := store.ValueOr(doc, userID, int64(0)) + 1
		doc.SetValue(userID, total)
		report.CumulativeDays = total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Status returns today's record (if any) plus the user's counters
// without mutating anything.
func (s *CheckinService) Status(userID string) *CheckinStatusReport {
	now := s.clock.Now()
	day := s.day(now)

	report := &CheckinStatusReport{
		UserID:         userID,
		Day:            day,
		CumulativeDays: store.Get(s.store, scopeCheckinTotals, userID, int64(0)),
	}
	streak := store.Get(s.store, scopeCheckinStreaks, userID, models.StreakState{})
	report.StreakDays = streak.Count

	rec := store.Get(s.store, scopeCheckinDay(day), userID, models.CheckinRecord{})
	if rec.Rank > 0 {
		report.Today = &rec
	}
	return report
}

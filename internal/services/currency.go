package services

import (
	"math"
	"sort"

	"github.com/go-mkbot/mkcore/internal/clock"
	"github.com/go-mkbot/mkcore/internal/models"
	"github.com/go-mkbot/mkcore/internal/store"
)

// Interest accrues per half-hour unit (whole 2-hour blocks halved) at a
// flat rate chosen by the highest day threshold the deposit has met.
var interestTiers = []struct {
	minDays float64
	rate    float64
}{
	{30, 0.0019},
	{14, 0.0015},
	{7, 0.001},
	{3, 0.0008},
	{0, 0.00025},
}

// DepositReport describes a completed deposit.
type DepositReport struct {
	UserID    string `json:"user_id"`
	Deposited int64  `json:"deposited"`
	Liquid    int64  `json:"liquid"`
	Reserved  int64  `json:"reserved"`
}

// WithdrawReport describes a completed withdrawal with its interest.
type WithdrawReport struct {
	UserID       string  `json:"user_id"`
	Withdrawn    int64   `json:"withdrawn"`
	Interest     int64   `json:"interest"`
	ElapsedHours float64 `json:"elapsed_hours"`
	Liquid       int64   `json:"liquid"`
	Reserved     int64   `json:"reserved"`
}

// BalanceReport is the read-only account card.
type BalanceReport struct {
	UserID         string `json:"user_id"`
	Liquid         int64  `json:"liquid"`
	Reserved       int64  `json:"reserved"`
	CumulativeDays int64  `json:"cumulative_days"`
	StreakDays     int64  `json:"streak_days"`
}

// LeaderboardEntry is one ranked wallet.
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// LeaderboardReport ranks every wallet by liquid balance with the
// caller's own position annotated (0 when the caller has no wallet).
type LeaderboardReport struct {
	Entries    []LeaderboardEntry `json:"entries"`
	CallerRank int                `json:"caller_rank"`
}

// CurrencyService operates the two-account ledger: a liquid wallet and
// an interest-bearing reserve per user.
type CurrencyService struct {
	store store.Store
	clock clock.Clock
}

func NewCurrencyService(s store.Store, c clock.Clock) *CurrencyService {
	return &CurrencyService{store: s, clock: c}
}

// ensureWallet reads userID's wallet from doc, assigning the next
// insertion sequence when the wallet does not exist yet.
func ensureWallet(doc store.Doc, userID string) models.Wallet {
	var w models.Wallet
	if store.Value(doc, userID, &w) {
		return w
	}
	var maxSeq int64
	for key := range doc {
		var other models.Wallet
		if store.Value(doc, key, &other) && other.Seq > maxSeq {
			maxSeq = other.Seq
		}
	}
	return models.Wallet{Seq: maxSeq + 1}
}

// Credit adds amount to userID's liquid balance, creating the wallet on
// first touch. Used by the check-in ledger for rewards.
func (s *CurrencyService) Credit(userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	var balance int64
	err := s.store.Update(scopeWallets, func(doc store.Doc) error {
		w := ensureWallet(doc, userID)
		w.Balance += amount
		doc.SetValue(userID, w)
		balance = w.Balance
		return nil
	})
	return balance, err
}

// Deposit moves amount from liquid to reserved. With all set, the whole
// liquid balance moves. The interest clock anchors to the first deposit
// into an empty reserve and is left alone while the reserve stays
// nonzero.
func (s *CurrencyService) Deposit(userID string, amount int64, all bool) (*DepositReport, error) {
	report := &DepositReport{UserID: userID}

	err := s.store.Update(scopeWallets, func(doc store.Doc) error {
		w := ensureWallet(doc, userID)
		if all {
			amount = w.Balance
		}
		if amount <= 0 {
			return ErrInvalidAmount
		}
		if amount > w.Balance {
			return ErrInsufficientFunds
		}
		w.Balance -= amount
		doc.SetValue(userID, w)
		report.Deposited = amount
		report.Liquid = w.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	err = s.store.Update(scopeReserves, func(doc store.Doc) error {
		r := store.ValueOr(doc, userID, models.Reserve{})
		if r.Reserved == 0 {
			r.DepositEpoch = now
		}
		r.Reserved += report.Deposited
		doc.SetValue(userID, r)
		report.Reserved = r.Reserved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// interestFor computes the accrued interest on reserved over
// elapsedSeconds. Zero when less than one half-hour unit has passed.
func interestFor(reserved, elapsedSeconds int64) (interest int64, elapsedHours float64) {
	elapsedHours = float64(elapsedSeconds) / 3600
	elapsedDays := float64(elapsedSeconds) / 86400
	halfHourUnits := int64(math.Floor(elapsedHours / 2))
	if halfHourUnits == 0 {
		return 0, elapsedHours
	}

	rate := interestTiers[len(interestTiers)-1].rate
	for _, tier := range interestTiers {
		if elapsedDays >= tier.minDays && tier.minDays > 0 {
			rate = tier.rate
			break
		}
	}
	return int64(math.Ceil(float64(reserved) * float64(halfHourUnits) * rate)), elapsedHours
}

// Withdraw takes amount out of the reserve, paying interest accrued on
// the whole reserved balance since the deposit epoch. The interest
// clock restarts on every withdrawal, partial or full. With all set,
// the entire reserve is withdrawn.
func (s *CurrencyService) Withdraw(userID string, amount int64, all bool) (*WithdrawReport, error) {
	now := s.clock.Now()
	report := &WithdrawReport{UserID: userID}

	err := s.store.Update(scopeReserves, func(doc store.Doc) error {
		r := store.ValueOr(doc, userID, models.Reserve{})
		if r.Reserved == 0 || r.DepositEpoch == 0 {
			return ErrNoDeposit
		}
		if all {
			amount = r.Reserved
		}
		if amount <= 0 {
			return ErrInvalidAmount
		}
		if amount > r.Reserved {
			return ErrInsufficientFunds
		}

		// Zero elapsed time is a valid same-instant round trip (interest
		// is simply zero); only a deposit epoch in the future is anomalous.
		elapsed := now - r.DepositEpoch
		if elapsed < 0 {
			return ErrClockAnomaly
		}

		interest, hours := interestFor(r.Reserved, elapsed)
		report.Withdrawn = amount
		report.Interest = interest
		report.ElapsedHours = hours

		r.Reserved -= amount
		r.DepositEpoch = now
		doc.SetValue(userID, r)
		report.Reserved = r.Reserved
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.store.Update(scopeWallets, func(doc store.Doc) error {
		w := ensureWallet(doc, userID)
		w.Balance += report.Withdrawn + report.Interest
		doc.SetValue(userID, w)
		report.Liquid = w.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Balance returns the account card for a user. Unknown users resolve to
// zeroes, never an error.
func (s *CurrencyService) Balance(userID string) *BalanceReport {
	wallet := store.Get(s.store, scopeWallets, userID, models.Wallet{})
	reserve := store.Get(s.store, scopeReserves, userID, models.Reserve{})
	streak := store.Get(s.store, scopeCheckinStreaks, userID, models.StreakState{})

	return &BalanceReport{
		UserID:         userID,
		Liquid:         wallet.Balance,
		Reserved:       reserve.Reserved,
		CumulativeDays: store.Get(s.store, scopeCheckinTotals, userID, int64(0)),
		StreakDays:     streak.Count,
	}
}

// Leaderboard ranks all wallets by liquid balance descending. Ties keep
// insertion order (earlier wallets first), so rankings are stable.
func (s *CurrencyService) Leaderboard(callerID string) *LeaderboardReport {
	type row struct {
		userID string
		wallet models.Wallet
	}

	var rows []row
	for _, userID := range s.store.Keys(scopeWallets) {
		w := store.Get(s.store, scopeWallets, userID, models.Wallet{})
		if w.Seq == 0 {
			continue
		}
		rows = append(rows, row{userID: userID, wallet: w})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].wallet.Balance != rows[j].wallet.Balance {
			return rows[i].wallet.Balance > rows[j].wallet.Balance
		}
		return rows[i].wallet.Seq < rows[j].wallet.Seq
	})

	report := &LeaderboardReport{}
	for i, r := range rows {
		report.Entries = append(report.Entries, LeaderboardEntry{
			Rank:    i + 1,
			UserID:  r.userID,
			Balance: r.wallet.Balance,
		})
		if r.userID == callerID {
			report.CallerRank = i + 1
		}
	}
	return report
}

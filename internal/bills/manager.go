// Package bills runs the weekly bill cycle: a batch of open bills is
// generated each week, paid against the player's cash balance, and retired
// when the week advances.
package bills

import (
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"sort"

	"github.com/google/uuid"

	"lifesim/internal/game"
)

var ErrBillNotFound = errors.New("bill not found")

type Bill struct {
	ID      string  `json:"id"`
	Amount  float64 `json:"amount"`
	DueWeek int     `json:"due_week"`
	Paid    bool    `json:"paid"`
}

// AmountPolicy produces the amount for the index-th bill of a week. It must
// be a pure function of its arguments so a seeded policy regenerates the
// same batch.
type AmountPolicy func(week, index int) float64

// DefaultPolicy draws amounts uniformly from [min, max), deterministically
// per (seed, week, index).
func DefaultPolicy(seed int64, min, max float64) AmountPolicy {
	if max < min {
		min, max = max, min
	}
	if min < 0 {
		min = 0
	}
	return func(week, index int) float64 {
		r := mathrand.New(mathrand.NewSource(seed + int64(week)*7919 + int64(index)))
		return min + r.Float64()*(max-min)
	}
}

// Manager owns the active bill set for one session. It is not safe for
// concurrent use; the session serializes all game-state mutation.
type Manager struct {
	log     *slog.Logger
	policy  AmountPolicy
	perWeek int
	week    int
	active  []Bill
}

func NewManager(week, perWeek int, policy AmountPolicy, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		log:     logger,
		policy:  policy,
		perWeek: perWeek,
		week:    week,
	}
	m.generate(week)
	return m
}

func (m *Manager) Week() int {
	return m.week
}

func (m *Manager) generate(week int) {
	for i := 0; i < m.perWeek; i++ {
		amount := m.policy(week, i)
		if amount < 0 {
			amount = 0
		}
		m.active = append(m.active, Bill{
			ID:      uuid.NewString(),
			Amount:  amount,
			DueWeek: week,
		})
	}
	m.log.Info("bills generated", "week", week, "count", m.perWeek)
}

// AllBills returns a copy of the active set, open and paid alike.
func (m *Manager) AllBills() []Bill {
	out := make([]Bill, len(m.active))
	copy(out, m.active)
	return out
}

// UnpaidBills returns a copy of the open bills in the active set.
func (m *Manager) UnpaidBills() []Bill {
	var out []Bill
	for _, b := range m.active {
		if !b.Paid {
			out = append(out, b)
		}
	}
	return out
}

func (m *Manager) BillByID(id string) (Bill, error) {
	for _, b := range m.active {
		if b.ID == id {
			return b, nil
		}
	}
	return Bill{}, fmt.Errorf("%w: %s", ErrBillNotFound, id)
}

// PayBill debits the bill amount and marks it paid. On any failure both the
// cash balance and the bill are left untouched; there is no partial payment.
func (m *Manager) PayBill(p *game.Player, id string) error {
	for i := range m.active {
		b := &m.active[i]
		if b.ID != id {
			continue
		}
		if b.Paid {
			return fmt.Errorf("%w: %s already paid", ErrBillNotFound, id)
		}
		if err := debit(p, b.Amount); err != nil {
			return err
		}
		b.Paid = true
		m.log.Info("bill paid", "id", id, "amount", b.Amount, "cash", p.Cash)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrBillNotFound, id)
}

// PayAllResult reports which bills a PayAll run settled and which it had to
// skip for lack of funds.
type PayAllResult struct {
	Paid    []Bill `json:"paid"`
	Skipped []Bill `json:"skipped"`
}

// PayAll pays open bills cheapest-first (ties broken by id), which clears
// as many bills as the balance allows. Payments already committed stand; a
// bill that cannot be afforded is skipped, not retried.
func (m *Manager) PayAll(p *game.Player) PayAllResult {
	order := make([]int, 0, len(m.active))
	for i, b := range m.active {
		if !b.Paid {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		ba, bb := m.active[order[a]], m.active[order[b]]
		if ba.Amount != bb.Amount {
			return ba.Amount < bb.Amount
		}
		return ba.ID < bb.ID
	})

	var out PayAllResult
	for _, i := range order {
		b := &m.active[i]
		if err := debit(p, b.Amount); err != nil {
			out.Skipped = append(out.Skipped, *b)
			continue
		}
		b.Paid = true
		out.Paid = append(out.Paid, *b)
	}
	m.log.Info("pay all", "paid", len(out.Paid), "skipped", len(out.Skipped), "cash", p.Cash)
	return out
}

// debit settles a bill amount; a zero-amount bill needs no cash movement.
func debit(p *game.Player, amount float64) error {
	if amount == 0 {
		return nil
	}
	return p.Debit(amount)
}

// AdvanceWeek retires the whole active set, paid or not, and generates the
// next week's batch. Retirement never touches the cash balance: bills
// carried past their due week are simply not re-billed.
func (m *Manager) AdvanceWeek() []Bill {
	retired := len(m.active)
	m.active = m.active[:0]
	m.week++
	m.generate(m.week)
	m.log.Info("week advanced", "week", m.week, "retired", retired)
	return m.AllBills()
}

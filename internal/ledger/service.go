package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cashbook-dev/cashbook/internal/id"
	"github.com/cashbook-dev/cashbook/internal/model"
)

// DefaultMode is used when a transaction is added without a mode.
const DefaultMode = model.ModeCash

// Default layouts for the date and time stamped on new transactions.
const (
	DefaultDateLayout = "02/01/2006"
	DefaultTimeLayout = "15:04:05"
)

// Gateway persists the two ledger records. Save and Clear failures are
// non-fatal: implementations log them and the Service keeps its in-memory
// state as the truth. Loads never fail; absence and decode failures come
// back as nil / empty.
type Gateway interface {
	SaveOpeningBalance(ctx context.Context, ob model.OpeningBalance) error
	LoadOpeningBalance(ctx context.Context) *model.OpeningBalance
	SaveTransactions(ctx context.Context, txns []model.Transaction) error
	LoadTransactions(ctx context.Context) []model.Transaction
	ClearOpeningBalance(ctx context.Context) error
	ClearTransactions(ctx context.Context) error
}

// Options configures a Service. Zero values pick defaults.
type Options struct {
	Now        func() time.Time
	DateLayout string
	TimeLayout string
	Logger     *zap.Logger
}

// Service is the single writer of a Ledger. Each mutation validates first,
// then updates memory, then persists through the Gateway.
type Service struct {
	gw      Gateway
	ids     *id.Generator
	dateFmt string
	timeFmt string
	log     *zap.Logger

	state   Ledger
	version uint64
	durable bool
}

// NewService creates a Service over an empty ledger.
func NewService(gw Gateway, opts Options) *Service {
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultDateLayout
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = DefaultTimeLayout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		gw:      gw,
		ids:     id.NewGenerator(opts.Now),
		dateFmt: opts.DateLayout,
		timeFmt: opts.TimeLayout,
		log:     opts.Logger,
		durable: true,
	}
}

// Open creates a Service and loads the persisted ledger through gw.
func Open(ctx context.Context, gw Gateway, opts Options) *Service {
	s := NewService(gw, opts)
	s.state = Ledger{
		Opening:      gw.LoadOpeningBalance(ctx),
		Transactions: gw.LoadTransactions(ctx),
	}
	for _, t := range s.state.Transactions {
		s.ids.Observe(t.ID)
	}
	s.log.Debug("ledger loaded",
		zap.String("state", string(s.state.State())),
		zap.Int("transactions", len(s.state.Transactions)))
	return s
}

// Ledger returns a snapshot of the current state.
func (s *Service) Ledger() Ledger {
	return s.state.Clone()
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	return s.state.State()
}

// Balances returns the current cash, online and total balances.
func (s *Service) Balances() model.Balances {
	return s.state.Balances()
}

// Running returns the running-balance projection, most recent first.
func (s *Service) Running() []model.RunningEntry {
	return s.state.Running()
}

// Durable reports whether the last write reached storage. After a failed
// write memory is ahead of storage until the next successful save.
func (s *Service) Durable() bool {
	return s.durable
}

// SetOpeningBalance sets the opening balance from raw user input. Blank or
// non-numeric fields count as zero. At least one must be positive; that is
// the only check, so a negative component is kept when the other is positive.
func (s *Service) SetOpeningBalance(ctx context.Context, cashInput, onlineInput string) (model.OpeningBalance, error) {
	if s.state.Opening != nil {
		return model.OpeningBalance{}, &PreconditionError{Op: "set opening balance", State: s.State(), Err: ErrBalanceSet}
	}

	cash := parseLenient(cashInput)
	online := parseLenient(onlineInput)

	if !cash.IsPositive() && !online.IsPositive() {
		return model.OpeningBalance{}, invalid("opening balance", ErrOpeningBalanceRequired)
	}

	ob := model.OpeningBalance{Cash: cash, Online: online}
	s.state.Opening = &ob
	s.version++
	s.wrote("save opening balance", s.gw.SaveOpeningBalance(ctx, ob))
	return ob, nil
}

// AddTransaction validates raw user input, appends a new transaction and
// persists the full list. An empty mode means DefaultMode.
//
// Checks run in order: ledger state, title, amount presence, amount value,
// mode, type.
func (s *Service) AddTransaction(ctx context.Context, title, amount, mode, txType string) (model.Transaction, error) {
	if s.state.Opening == nil {
		return model.Transaction{}, &PreconditionError{Op: "add transaction", State: s.State(), Err: ErrNoBalance}
	}

	cleanTitle := strings.TrimSpace(title)
	if cleanTitle == "" {
		return model.Transaction{}, invalid("title", ErrMissingTitle)
	}
	if strings.TrimSpace(amount) == "" {
		return model.Transaction{}, invalid("amount", ErrMissingAmount)
	}
	amt, err := ParseAmount(amount)
	if err != nil || !amt.IsPositive() {
		return model.Transaction{}, invalid("amount", ErrInvalidAmount)
	}

	m := DefaultMode
	if strings.TrimSpace(mode) != "" {
		if m, err = model.ParseMode(mode); err != nil {
			return model.Transaction{}, invalid("mode", ErrInvalidMode)
		}
	}
	t, err := model.ParseType(txType)
	if err != nil {
		return model.Transaction{}, invalid("type", ErrInvalidType)
	}

	txID, at := s.ids.Next()
	txn := model.Transaction{
		ID:     txID,
		Title:  cleanTitle,
		Amount: amt,
		Mode:   m,
		Type:   t,
		Date:   at.Format(s.dateFmt),
		Time:   at.Format(s.timeFmt),
	}

	updated := make([]model.Transaction, 0, len(s.state.Transactions)+1)
	updated = append(updated, s.state.Transactions...)
	updated = append(updated, txn)
	s.state.Transactions = updated
	s.version++
	s.wrote("save transactions", s.gw.SaveTransactions(ctx, updated))
	return txn, nil
}

// Restore loads a ledger taken from a backup into an empty Service and
// persists it. The restored data must pass Reconcile.
func (s *Service) Restore(ctx context.Context, l Ledger) error {
	if s.state.Opening != nil || len(s.state.Transactions) > 0 {
		return &PreconditionError{Op: "restore", State: s.State(), Err: ErrBalanceSet}
	}
	if l.Opening == nil {
		return invalid("opening balance", ErrOpeningBalanceRequired)
	}
	if !l.Opening.Cash.IsPositive() && !l.Opening.Online.IsPositive() {
		return invalid("opening balance", ErrOpeningBalanceRequired)
	}
	if verrs := Reconcile(l); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, v := range verrs {
			msgs[i] = v.Error()
		}
		return invalid("backup", errors.New(strings.Join(msgs, "; ")))
	}

	s.state = l.Clone()
	for _, t := range s.state.Transactions {
		s.ids.Observe(t.ID)
	}
	s.version++

	obErr := s.gw.SaveOpeningBalance(ctx, *s.state.Opening)
	txErr := s.gw.SaveTransactions(ctx, s.state.Transactions)
	s.wrote("restore", errors.Join(obErr, txErr))
	return nil
}

// BeginReset starts a reset. The returned plan carries a snapshot of the
// ledger for a caller that wants to export before clearing. Nothing is
// cleared until Confirm is called; dropping the plan cancels the reset.
func (s *Service) BeginReset() *ResetPlan {
	snap := s.state.Clone()
	return &ResetPlan{
		svc:      s,
		version:  s.version,
		Snapshot: snap,
	}
}

// Reset clears the ledger without an export step.
func (s *Service) Reset(ctx context.Context) error {
	return s.BeginReset().Confirm(ctx)
}

// ResetPlan is a reset that has been started but not yet confirmed.
type ResetPlan struct {
	svc     *Service
	version uint64
	done    bool

	// Snapshot is the ledger as it was when the reset began.
	Snapshot Ledger
}

// Confirm clears both records and the in-memory state. It fails with a
// PreconditionError if the ledger was mutated after BeginReset or if the
// plan was already confirmed.
func (p *ResetPlan) Confirm(ctx context.Context) error {
	s := p.svc
	if p.done || s.version != p.version {
		return &PreconditionError{Op: "reset", State: s.State(), Err: ErrStaleReset}
	}

	txErr := s.gw.ClearTransactions(ctx)
	obErr := s.gw.ClearOpeningBalance(ctx)

	s.state = Ledger{}
	s.version++
	p.done = true
	s.wrote("reset", errors.Join(txErr, obErr))
	return nil
}

// Opening returns a copy of the opening balance and whether one is set.
func (s *Service) Opening() (model.OpeningBalance, bool) {
	if s.state.Opening == nil {
		return model.OpeningBalance{Cash: decimal.Zero, Online: decimal.Zero}, false
	}
	return *s.state.Opening, true
}

func (s *Service) wrote(op string, err error) {
	s.durable = err == nil
	if err != nil {
		s.log.Debug("ledger change kept in memory only", zap.String("op", op), zap.Error(err))
	}
}

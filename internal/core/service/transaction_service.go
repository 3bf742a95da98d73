package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

type TransactionService struct {
	txs        ports.TransactionRepository
	users      ports.UserRepository
	categories ports.CategoryRepository
	idem       ports.IdempotencyStore
	logger     zerolog.Logger
	now        func() time.Time
}

// NewTransactionService wires the service. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewTransactionService(
	txs ports.TransactionRepository,
	users ports.UserRepository,
	categories ports.CategoryRepository,
	idem ports.IdempotencyStore,
	logger zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		txs:        txs,
		users:      users,
		categories: categories,
		idem:       idem,
		logger:     logger,
		now:        time.Now,
	}
}

// Create records a transaction for the route user. A replayed Idempotency-Key
// returns the transaction created by the first request.
func (s *TransactionService) Create(ctx context.Context, in ports.CreateTransactionInput) (*domain.Transaction, error) {
	username := strings.TrimSpace(in.Username)
	typ := strings.TrimSpace(in.Type)
	rawAmount := strings.TrimSpace(in.Amount)
	if username == "" || typ == "" || rawAmount == "" {
		return nil, domain.ErrMissingAttributes
	}
	if username != in.RouteUsername {
		return nil, domain.ErrUsernameMismatch
	}

	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByType(ctx, typ); err != nil {
		return nil, err
	}

	if existing := s.replay(ctx, username, in.IdempotencyKey); existing != nil {
		return existing, nil
	}

	t := &domain.Transaction{
		Username: username,
		Type:     typ,
		Amount:   amount,
		Date:     s.now().UTC(),
	}
	if err := s.txs.Create(ctx, t); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to create transaction")
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if s.idem != nil && in.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, username, in.IdempotencyKey, t.ID); err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Str("username", username).Str("type", typ).Str("id", t.ID).Msg("transaction created")
	return t, nil
}

// replay returns the transaction a previous request with the same key
// produced, or nil. Store failures degrade to a normal insert.
func (s *TransactionService) replay(ctx context.Context, username, key string) *domain.Transaction {
	if s.idem == nil || key == "" {
		return nil
	}

	id, ok, err := s.idem.Lookup(ctx, username, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !ok {
		return nil
	}

	existing, err := s.txs.FindByID(ctx, id)
	if err != nil {
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Str("id", id).Msg("idempotent replay")
	return existing
}

func (s *TransactionService) ListAll(ctx context.Context) ([]*domain.Transaction, error) {
	return s.list(ctx, ports.TransactionFilter{})
}

// ListByUser applies the date and amount query filters.
func (s *TransactionService) ListByUser(ctx context.Context, username string, q ports.TransactionQuery) ([]*domain.Transaction, error) {
	filter, err := parseQuery(q)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, err
	}
	filter.Usernames = []string{username}
	return s.list(ctx, filter)
}

func (s *TransactionService) ListByUserCategory(ctx context.Context, username, category string) ([]*domain.Transaction, error) {
	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByType(ctx, category); err != nil {
		return nil, err
	}
	return s.list(ctx, ports.TransactionFilter{Usernames: []string{username}, Type: category})
}

// ListByGroup returns the transactions of every group member, optionally
// restricted to one category.
func (s *TransactionService) ListByGroup(ctx context.Context, group *domain.Group, category string) ([]*domain.Transaction, error) {
	if category != "" {
		if _, err := s.categories.FindByType(ctx, category); err != nil {
			return nil, err
		}
	}

	members, err := s.users.FindByEmails(ctx, group.Emails())
	if err != nil {
		return nil, fmt.Errorf("list group transactions: %w", err)
	}
	if len(members) == 0 {
		return []*domain.Transaction{}, nil
	}

	usernames := make([]string, 0, len(members))
	for _, u := range members {
		usernames = append(usernames, u.Username)
	}
	return s.list(ctx, ports.TransactionFilter{Usernames: usernames, Type: category})
}

// Delete removes one of username's own transactions. A transaction owned by
// someone else reads as not found.
func (s *TransactionService) Delete(ctx context.Context, username, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrMissingAttributes
	}
	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		return err
	}

	n, err := s.txs.DeleteOwned(ctx, id, username)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// DeleteMany deletes nothing unless every id exists.
func (s *TransactionService) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return domain.ErrMissingAttributes
	}
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return domain.ErrMissingAttributes
		}
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	found, err := s.txs.FindByIDs(ctx, unique)
	if err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	if len(found) != len(unique) {
		return domain.ErrTransactionNotFound
	}

	if _, err := s.txs.DeleteByIDs(ctx, unique); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}

// list runs the query and joins each transaction with its category color.
func (s *TransactionService) list(ctx context.Context, filter ports.TransactionFilter) ([]*domain.Transaction, error) {
	txs, err := s.txs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	colors := make(map[string]string, len(cats))
	for _, c := range cats {
		colors[c.Type] = c.Color
	}
	for _, t := range txs {
		t.Color = colors[t.Type]
	}
	return txs, nil
}

// parseQuery converts the raw query parameters. date is a whole day and
// excludes from/upTo; upTo includes its whole day.
func parseQuery(q ports.TransactionQuery) (ports.TransactionFilter, error) {
	var f ports.TransactionFilter

	if q.Date != "" && (q.From != "" || q.UpTo != "") {
		return f, domain.ErrInvalidFilter
	}

	day := func(raw string) (time.Time, error) {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, domain.ErrInvalidDate
		}
		return d, nil
	}
	endOfDay := func(d time.Time) time.Time {
		return d.Add(24*time.Hour - time.Millisecond)
	}

	if q.Date != "" {
		d, err := day(q.Date)
		if err != nil {
			return f, err
		}
		f.DateFrom, f.DateTo = d, endOfDay(d)
	}
	if q.From != "" {
		d, err := day(q.From)
		if err != nil {
			return f, err
		}
		f.DateFrom = d
	}
	if q.UpTo != "" {
		d, err := day(q.UpTo)
		if err != nil {
			return f, err
		}
		f.DateTo = endOfDay(d)
	}

	amount := func(raw string) (*float64, error) {
		v, err := parseAmount(raw)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	if q.Min != "" {
		v, err := amount(q.Min)
		if err != nil {
			return f, err
		}
		f.MinAmount = v
	}
	if q.Max != "" {
		v, err := amount(q.Max)
		if err != nil {
			return f, err
		}
		f.MaxAmount = v
	}

	return f, nil
}

// parseAmount accepts finite decimal amounts only. NaN and infinities cannot
// be rendered as JSON.
func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, domain.ErrInvalidAmount
	}
	return v, nil
}

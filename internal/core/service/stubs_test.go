package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the resource service tests
// ---------------------------------------------------------------------------

func seedUser(r *stubUserRepo, username, email string, role domain.Role) *domain.User {
	r.nextID++
	u := &domain.User{
		ID:       "user-" + strconv.Itoa(r.nextID),
		Username: username,
		Email:    email,
		Role:     role,
	}
	r.users[u.ID] = u
	return cloneUser(u)
}

type stubCategoryRepo struct {
	cats []*domain.Category // oldest first
}

func newStubCategoryRepo(types ...string) *stubCategoryRepo {
	r := &stubCategoryRepo{}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, t := range types {
		r.cats = append(r.cats, &domain.Category{
			Type:      t,
			Color:     "color-" + t,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	return r
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	for _, existing := range r.cats {
		if existing.Type == c.Type {
			return domain.ErrCategoryExists
		}
	}
	clone := *c
	r.cats = append(r.cats, &clone)
	return nil
}

func (r *stubCategoryRepo) FindByType(_ context.Context, typ string) (*domain.Category, error) {
	for _, c := range r.cats {
		if c.Type == typ {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(r.cats))
	for _, c := range r.cats {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, oldType string, c *domain.Category) error {
	for _, existing := range r.cats {
		if existing.Type == oldType {
			existing.Type = c.Type
			existing.Color = c.Color
			return nil
		}
	}
	return domain.ErrCategoryNotFound
}

func (r *stubCategoryRepo) DeleteByTypes(_ context.Context, types []string) (int64, error) {
	drop := make(map[string]bool, len(types))
	for _, t := range types {
		drop[t] = true
	}
	kept := r.cats[:0]
	var n int64
	for _, c := range r.cats {
		if drop[c.Type] {
			n++
			continue
		}
		kept = append(kept, c)
	}
	r.cats = kept
	return n, nil
}

func (r *stubCategoryRepo) types() []string {
	out := make([]string, 0, len(r.cats))
	for _, c := range r.cats {
		out = append(out, c.Type)
	}
	return out
}

type stubTransactionRepo struct {
	txs     []*domain.Transaction
	nextID  int
	creates int
	filters []ports.TransactionFilter
}

func newStubTransactionRepo() *stubTransactionRepo {
	return &stubTransactionRepo{}
}

func (r *stubTransactionRepo) add(username, typ string, amount float64, date time.Time) *domain.Transaction {
	r.nextID++
	t := &domain.Transaction{
		ID:       "tx-" + strconv.Itoa(r.nextID),
		Username: username,
		Type:     typ,
		Amount:   amount,
		Date:     date,
	}
	r.txs = append(r.txs, t)
	return t
}

func (r *stubTransactionRepo) Create(_ context.Context, t *domain.Transaction) error {
	r.creates++
	stored := r.add(t.Username, t.Type, t.Amount, t.Date)
	t.ID = stored.ID
	return nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	for _, t := range r.txs {
		if t.ID == id {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (r *stubTransactionRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for _, id := range ids {
		if t, err := r.FindByID(context.Background(), id); err == nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTransactionRepo) List(_ context.Context, f ports.TransactionFilter) ([]*domain.Transaction, error) {
	r.filters = append(r.filters, f)
	users := make(map[string]bool, len(f.Usernames))
	for _, u := range f.Usernames {
		users[u] = true
	}
	out := []*domain.Transaction{}
	for _, t := range r.txs {
		switch {
		case len(users) > 0 && !users[t.Username]:
		case f.Type != "" && t.Type != f.Type:
		case !f.DateFrom.IsZero() && t.Date.Before(f.DateFrom):
		case !f.DateTo.IsZero() && t.Date.After(f.DateTo):
		case f.MinAmount != nil && t.Amount < *f.MinAmount:
		case f.MaxAmount != nil && t.Amount > *f.MaxAmount:
		default:
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubTransactionRepo) SetType(_ context.Context, from []string, to string) (int64, error) {
	match := make(map[string]bool, len(from))
	for _, f := range from {
		match[f] = true
	}
	var n int64
	for _, t := range r.txs {
		if match[t.Type] {
			t.Type = to
			n++
		}
	}
	return n, nil
}

func (r *stubTransactionRepo) deleteWhere(match func(*domain.Transaction) bool) int64 {
	kept := r.txs[:0]
	var n int64
	for _, t := range r.txs {
		if match(t) {
			n++
			continue
		}
		kept = append(kept, t)
	}
	r.txs = kept
	return n
}

func (r *stubTransactionRepo) DeleteOwned(_ context.Context, id, username string) (int64, error) {
	return r.deleteWhere(func(t *domain.Transaction) bool { return t.ID == id && t.Username == username }), nil
}

func (r *stubTransactionRepo) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	match := make(map[string]bool, len(ids))
	for _, id := range ids {
		match[id] = true
	}
	return r.deleteWhere(func(t *domain.Transaction) bool { return match[t.ID] }), nil
}

func (r *stubTransactionRepo) DeleteByUsername(_ context.Context, username string) (int64, error) {
	return r.deleteWhere(func(t *domain.Transaction) bool { return t.Username == username }), nil
}

type stubIdempotency struct {
	keys      map[string]string
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, username, key string) (string, bool, error) {
	if s.lookupErr != nil {
		return "", false, s.lookupErr
	}
	id, ok := s.keys[username+":"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, username, key, id string) error {
	s.keys[username+":"+key] = id
	return nil
}

type stubGroupRepo struct {
	groups map[string]*domain.Group
}

func newStubGroupRepo() *stubGroupRepo {
	return &stubGroupRepo{groups: make(map[string]*domain.Group)}
}

func cloneGroup(g *domain.Group) *domain.Group {
	clone := *g
	clone.Members = append([]domain.Member(nil), g.Members...)
	return &clone
}

func (r *stubGroupRepo) seed(name string, emails ...string) *domain.Group {
	g := &domain.Group{ID: "group-" + name, Name: name}
	for _, e := range emails {
		g.Members = append(g.Members, domain.Member{Email: e})
	}
	r.groups[name] = g
	return cloneGroup(g)
}

func (r *stubGroupRepo) Create(_ context.Context, g *domain.Group) error {
	if _, ok := r.groups[g.Name]; ok {
		return domain.ErrGroupExists
	}
	r.groups[g.Name] = cloneGroup(g)
	return nil
}

func (r *stubGroupRepo) FindByName(_ context.Context, name string) (*domain.Group, error) {
	g, ok := r.groups[name]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	return cloneGroup(g), nil
}

func (r *stubGroupRepo) FindByMemberEmails(_ context.Context, emails []string) ([]*domain.Group, error) {
	var out []*domain.Group
	for _, g := range r.groups {
		for _, e := range emails {
			if g.HasMember(e) {
				out = append(out, cloneGroup(g))
				break
			}
		}
	}
	return out, nil
}

func (r *stubGroupRepo) List(_ context.Context) ([]*domain.Group, error) {
	names := make([]string, 0, len(r.groups))
	for n := range r.groups {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*domain.Group, 0, len(names))
	for _, n := range names {
		out = append(out, cloneGroup(r.groups[n]))
	}
	return out, nil
}

func (r *stubGroupRepo) SetMembers(_ context.Context, name string, members []domain.Member) error {
	g, ok := r.groups[name]
	if !ok {
		return domain.ErrGroupNotFound
	}
	g.Members = append([]domain.Member(nil), members...)
	return nil
}

func (r *stubGroupRepo) PullMember(_ context.Context, email string) (bool, error) {
	var pulled bool
	for _, g := range r.groups {
		kept := g.Members[:0]
		for _, m := range g.Members {
			if m.Email == email {
				pulled = true
				continue
			}
			kept = append(kept, m)
		}
		g.Members = kept
	}
	return pulled, nil
}

func (r *stubGroupRepo) DeleteByName(_ context.Context, name string) (int64, error) {
	if _, ok := r.groups[name]; !ok {
		return 0, nil
	}
	delete(r.groups, name)
	return 1, nil
}

func (r *stubGroupRepo) DeleteEmpty(_ context.Context) (int64, error) {
	var n int64
	for name, g := range r.groups {
		if len(g.Members) == 0 {
			delete(r.groups, name)
			n++
		}
	}
	return n, nil
}

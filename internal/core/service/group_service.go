package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

type GroupService struct {
	groups   ports.GroupRepository
	users    ports.UserRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewGroupService(groups ports.GroupRepository, users ports.UserRepository, logger zerolog.Logger) *GroupService {
	return &GroupService{
		groups:   groups,
		users:    users,
		validate: validator.New(),
		logger:   logger,
	}
}

// Create makes a group holding the creator plus every requested user that
// exists and is not yet grouped.
func (s *GroupService) Create(ctx context.Context, creator domain.Identity, name string, emails []string) (*ports.GroupChange, error) {
	name = strings.TrimSpace(name)
	if name == "" || emails == nil {
		return nil, domain.ErrMissingAttributes
	}
	requested, err := s.normalize(emails)
	if err != nil {
		return nil, err
	}

	if _, err := s.groups.FindByName(ctx, name); err == nil {
		return nil, domain.ErrGroupExists
	} else if !errors.Is(err, domain.ErrGroupNotFound) {
		return nil, fmt.Errorf("create group: %w", err)
	}

	grouped, err := s.groups.FindByMemberEmails(ctx, []string{creator.Email})
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	if len(grouped) > 0 {
		return nil, domain.ErrAlreadyInGroup
	}

	others := requested[:0:0]
	for _, e := range requested {
		if e != creator.Email {
			others = append(others, e)
		}
	}
	c, err := s.classify(ctx, others)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	if len(c.valid) == 0 {
		return nil, domain.ErrNoValidMembers
	}

	g := &domain.Group{
		Name:    name,
		Members: append([]domain.Member{{Email: creator.Email, UserID: creator.ID}}, c.valid...),
	}
	if err := s.groups.Create(ctx, g); err != nil {
		if errors.Is(err, domain.ErrGroupExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.logger.Info().Str("group", name).Int("members", len(g.Members)).Msg("group created")
	return &ports.GroupChange{Group: g, AlreadyInGroup: c.grouped, MembersNotFound: c.missing}, nil
}

func (s *GroupService) List(ctx context.Context) ([]*domain.Group, error) {
	return s.groups.List(ctx)
}

func (s *GroupService) Find(ctx context.Context, name string) (*domain.Group, error) {
	return s.groups.FindByName(ctx, name)
}

// Add appends every requested user that exists and is not yet grouped.
func (s *GroupService) Add(ctx context.Context, group *domain.Group, emails []string) (*ports.GroupChange, error) {
	if emails == nil {
		return nil, domain.ErrMissingAttributes
	}
	requested, err := s.normalize(emails)
	if err != nil {
		return nil, err
	}

	c, err := s.classify(ctx, requested)
	if err != nil {
		return nil, fmt.Errorf("add to group: %w", err)
	}
	if len(c.valid) == 0 {
		return nil, domain.ErrNoValidMembers
	}

	members := append(append([]domain.Member{}, group.Members...), c.valid...)
	if err := s.groups.SetMembers(ctx, group.Name, members); err != nil {
		return nil, fmt.Errorf("add to group: %w", err)
	}

	updated := &domain.Group{ID: group.ID, Name: group.Name, Members: members}
	s.logger.Info().Str("group", group.Name).Int("added", len(c.valid)).Msg("members added")
	return &ports.GroupChange{Group: updated, AlreadyInGroup: c.grouped, MembersNotFound: c.missing}, nil
}

// Remove drops the requested members. The group always keeps at least one
// member: when every member is named, the first one stays.
func (s *GroupService) Remove(ctx context.Context, group *domain.Group, emails []string) (*ports.GroupChange, error) {
	if emails == nil {
		return nil, domain.ErrMissingAttributes
	}
	requested, err := s.normalize(emails)
	if err != nil {
		return nil, err
	}
	if len(group.Members) <= 1 {
		return nil, domain.ErrLastMember
	}

	found, err := s.users.FindByEmails(ctx, requested)
	if err != nil {
		return nil, fmt.Errorf("remove from group: %w", err)
	}
	exists := make(map[string]bool, len(found))
	for _, u := range found {
		exists[u.Email] = true
	}

	var missing, notIn []string
	drop := make(map[string]bool, len(requested))
	for _, e := range requested {
		switch {
		case !exists[e]:
			missing = append(missing, e)
		case !group.HasMember(e):
			notIn = append(notIn, e)
		default:
			drop[e] = true
		}
	}
	if len(drop) == 0 {
		return nil, domain.ErrNoValidMembers
	}
	if len(drop) == len(group.Members) {
		delete(drop, group.Members[0].Email)
	}

	members := make([]domain.Member, 0, len(group.Members)-len(drop))
	for _, m := range group.Members {
		if !drop[m.Email] {
			members = append(members, m)
		}
	}
	if err := s.groups.SetMembers(ctx, group.Name, members); err != nil {
		return nil, fmt.Errorf("remove from group: %w", err)
	}

	updated := &domain.Group{ID: group.ID, Name: group.Name, Members: members}
	s.logger.Info().Str("group", group.Name).Int("removed", len(drop)).Msg("members removed")
	return &ports.GroupChange{Group: updated, MembersNotFound: missing, NotInGroup: notIn}, nil
}

func (s *GroupService) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrMissingAttributes
	}
	n, err := s.groups.DeleteByName(ctx, name)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if n == 0 {
		return domain.ErrGroupNotFound
	}
	s.logger.Info().Str("group", name).Msg("group deleted")
	return nil
}

// normalize trims and dedupes emails, rejecting blanks and malformed ones.
func (s *GroupService) normalize(emails []string) ([]string, error) {
	out := make([]string, 0, len(emails))
	seen := make(map[string]bool, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			return nil, domain.ErrMissingAttributes
		}
		if err := s.validate.Var(e, "email"); err != nil {
			return nil, domain.ErrInvalidEmail
		}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out, nil
}

type classification struct {
	valid   []domain.Member
	grouped []string
	missing []string
}

// classify splits emails into joinable users, users already in a group and
// unknown addresses, preserving request order.
func (s *GroupService) classify(ctx context.Context, emails []string) (*classification, error) {
	c := &classification{}
	if len(emails) == 0 {
		return c, nil
	}

	users, err := s.users.FindByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byEmail[u.Email] = u
	}

	groups, err := s.groups.FindByMemberEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	inGroup := make(map[string]bool)
	for _, g := range groups {
		for _, m := range g.Members {
			inGroup[m.Email] = true
		}
	}

	for _, e := range emails {
		u, ok := byEmail[e]
		switch {
		case !ok:
			c.missing = append(c.missing, e)
		case inGroup[e]:
			c.grouped = append(c.grouped, e)
		default:
			c.valid = append(c.valid, domain.Member{Email: e, UserID: u.ID})
		}
	}
	return c, nil
}

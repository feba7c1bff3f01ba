package services

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
)

type txKey struct{}

// fakeStore is an in-memory stand-in for the postgres adapters. WithinTx
// holds a single lock for the whole body and restores a snapshot when the
// body fails, which gives serializable, all-or-nothing transactions.
type fakeStore struct {
	mu          sync.Mutex
	polls       map[uuid.UUID]*domain.Poll
	users       map[uuid.UUID]*domain.User
	ballots     map[uuid.UUID]*domain.Ballot
	collections map[uuid.UUID]*domain.Collection
	memberships map[uuid.UUID]*domain.Membership

	// hideBallots makes Exists report false so the ballot insert is the
	// first thing to notice a duplicate.
	hideBallots bool
	// beforeCommit runs inside a transaction after the body succeeded.
	beforeCommit func()
	txCount      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		polls:       map[uuid.UUID]*domain.Poll{},
		users:       map[uuid.UUID]*domain.User{},
		ballots:     map[uuid.UUID]*domain.Ballot{},
		collections: map[uuid.UUID]*domain.Collection{},
		memberships: map[uuid.UUID]*domain.Membership{},
	}
}

type fakeSnapshot struct {
	polls       map[uuid.UUID]*domain.Poll
	users       map[uuid.UUID]*domain.User
	ballots     map[uuid.UUID]*domain.Ballot
	collections map[uuid.UUID]*domain.Collection
	memberships map[uuid.UUID]*domain.Membership
}

func (f *fakeStore) snapshot() fakeSnapshot {
	s := fakeSnapshot{
		polls:       make(map[uuid.UUID]*domain.Poll, len(f.polls)),
		users:       make(map[uuid.UUID]*domain.User, len(f.users)),
		ballots:     maps.Clone(f.ballots),
		collections: make(map[uuid.UUID]*domain.Collection, len(f.collections)),
		memberships: maps.Clone(f.memberships),
	}
	for k, v := range f.polls {
		s.polls[k] = clonePoll(v)
	}
	for k, v := range f.users {
		u := *v
		s.users[k] = &u
	}
	for k, v := range f.collections {
		c := *v
		s.collections[k] = &c
	}
	return s
}

func (f *fakeStore) restore(s fakeSnapshot) {
	f.polls, f.users, f.ballots, f.collections, f.memberships = s.polls, s.users, s.ballots, s.collections, s.memberships
}

func clonePoll(p *domain.Poll) *domain.Poll {
	c := *p
	c.Choices = slices.Clone(p.Choices)
	return &c
}

func (f *fakeStore) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	f.mu.Lock()
	return f.mu.Unlock
}

func (f *fakeStore) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.txCount++
	snap := f.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		f.restore(snap)
		return err
	}
	if f.beforeCommit != nil {
		f.beforeCommit()
	}
	return nil
}

// Seeding helpers, used outside transactions.

func (f *fakeStore) addUser(balance int64) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Balance: balance}
	f.users[u.ID] = u
	c := *u
	return &c
}

func (f *fakeStore) addPoll(start, end time.Time, requiredPoints int64, labels ...string) *domain.Poll {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &domain.Poll{
		ID:             uuid.New(),
		Title:          "poll",
		StartAt:        start,
		EndAt:          end,
		RequiredPoints: requiredPoints,
		Status:         domain.DeriveStatus(time.Now(), start, end),
	}
	for i, l := range labels {
		p.Choices = append(p.Choices, domain.Choice{ID: uuid.New(), PollID: p.ID, Label: l, Position: i})
	}
	f.polls[p.ID] = p
	return clonePoll(p)
}

func (f *fakeStore) addCollection() *domain.Collection {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &domain.Collection{ID: uuid.New(), CreatorID: uuid.New(), Title: "collection"}
	f.collections[c.ID] = c
	cp := *c
	return &cp
}

func (f *fakeStore) poll(id uuid.UUID) *domain.Poll {
	f.mu.Lock()
	defer f.mu.Unlock()
	return clonePoll(f.polls[id])
}

func (f *fakeStore) user(id uuid.UUID) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *f.users[id]
	return &u
}

func (f *fakeStore) collection(id uuid.UUID) *domain.Collection {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *f.collections[id]
	return &c
}

func (f *fakeStore) ballotCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ballots)
}

type fakePolls struct{ *fakeStore }

func (r fakePolls) Save(ctx context.Context, poll *domain.Poll) error {
	defer r.lock(ctx)()
	r.polls[poll.ID] = clonePoll(poll)
	return nil
}

func (r fakePolls) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	defer r.lock(ctx)()
	p, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return clonePoll(p), nil
}

func (r fakePolls) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	return r.GetByID(ctx, id)
}

func (r fakePolls) List(ctx context.Context, filter ports.PollFilter) ([]*domain.Poll, error) {
	defer r.lock(ctx)()
	var out []*domain.Poll
	for _, p := range r.polls {
		if filter.Status != nil && p.CurrentStatus(filter.Now) != *filter.Status {
			continue
		}
		out = append(out, clonePoll(p))
	}
	slices.SortFunc(out, func(a, b *domain.Poll) int { return b.CreatedAt.Compare(a.CreatedAt) })
	out = out[min(filter.Offset, len(out)):]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r fakePolls) UpdateMetadata(ctx context.Context, poll *domain.Poll) error {
	defer r.lock(ctx)()
	p, ok := r.polls[poll.ID]
	if !ok {
		return domain.ErrPollNotFound
	}
	p.Title, p.Description = poll.Title, poll.Description
	p.StartAt, p.EndAt = poll.StartAt, poll.EndAt
	p.RequiredPoints, p.Status = poll.RequiredPoints, poll.Status
	p.CoverImageURL, p.Featured, p.UpdatedAt = poll.CoverImageURL, poll.Featured, poll.UpdatedAt
	return nil
}

func (r fakePolls) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.lock(ctx)()
	if _, ok := r.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(r.polls, id)
	return nil
}

func (r fakePolls) IncrementTally(ctx context.Context, pollID, choiceID uuid.UUID) error {
	defer r.lock(ctx)()
	p, ok := r.polls[pollID]
	if !ok {
		return domain.ErrPollNotFound
	}
	for i := range p.Choices {
		if p.Choices[i].ID == choiceID {
			p.Choices[i].VoteCount++
			p.TotalVotes++
			return nil
		}
	}
	return domain.ErrUnknownChoice
}

func (r fakePolls) ReconcileStatuses(ctx context.Context, now time.Time) (int64, error) {
	defer r.lock(ctx)()
	var n int64
	for _, p := range r.polls {
		if st := p.CurrentStatus(now); st != p.Status {
			p.Status = st
			n++
		}
	}
	return n, nil
}

type fakeUsers struct{ *fakeStore }

func (r fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	defer r.lock(ctx)()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r fakeUsers) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r fakeUsers) DebitPoints(ctx context.Context, id uuid.UUID, amount int64) error {
	defer r.lock(ctx)()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.Balance < amount {
		return domain.ErrInsufficientPoints
	}
	u.Balance -= amount
	return nil
}

type fakeBallots struct{ *fakeStore }

func (r fakeBallots) Create(ctx context.Context, b *domain.Ballot) error {
	defer r.lock(ctx)()
	if _, ok := r.ballots[b.ID]; ok {
		return domain.ErrBallotExists
	}
	c := *b
	r.ballots[b.ID] = &c
	return nil
}

func (r fakeBallots) Exists(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	defer r.lock(ctx)()
	if r.hideBallots {
		return false, nil
	}
	_, ok := r.ballots[domain.BallotID(pollID, userID)]
	return ok, nil
}

func (r fakeBallots) GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (*domain.Ballot, error) {
	defer r.lock(ctx)()
	b, ok := r.ballots[domain.BallotID(pollID, userID)]
	if !ok {
		return nil, domain.ErrBallotNotFound
	}
	c := *b
	return &c, nil
}

type fakeCollections struct{ *fakeStore }

func (r fakeCollections) GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	defer r.lock(ctx)()
	c, ok := r.collections[id]
	if !ok {
		return nil, domain.ErrCollectionNotFound
	}
	cp := *c
	return &cp, nil
}

func (r fakeCollections) AddMembership(ctx context.Context, m *domain.Membership) (bool, error) {
	defer r.lock(ctx)()
	if _, ok := r.memberships[m.ID]; ok {
		return false, nil
	}
	c := *m
	r.memberships[m.ID] = &c
	return true, nil
}

func (r fakeCollections) RemoveMembership(ctx context.Context, kind domain.MembershipKind, userID, collectionID uuid.UUID) (bool, error) {
	defer r.lock(ctx)()
	id := domain.MembershipID(kind, userID, collectionID)
	if _, ok := r.memberships[id]; !ok {
		return false, nil
	}
	delete(r.memberships, id)
	return true, nil
}

func (r fakeCollections) HasMembership(ctx context.Context, kind domain.MembershipKind, userID, collectionID uuid.UUID) (bool, error) {
	defer r.lock(ctx)()
	_, ok := r.memberships[domain.MembershipID(kind, userID, collectionID)]
	return ok, nil
}

func (r fakeCollections) AdjustCounter(ctx context.Context, kind domain.MembershipKind, collectionID uuid.UUID, delta int64) (int64, error) {
	defer r.lock(ctx)()
	c, ok := r.collections[collectionID]
	if !ok {
		return 0, domain.ErrCollectionNotFound
	}
	if kind == domain.MembershipLike {
		c.LikeCount += delta
		return c.LikeCount, nil
	}
	c.SaveCount += delta
	return c.SaveCount, nil
}

func (r fakeCollections) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	defer r.lock(ctx)()
	c, ok := r.collections[id]
	if !ok {
		return domain.ErrCollectionNotFound
	}
	c.ViewCount++
	return nil
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

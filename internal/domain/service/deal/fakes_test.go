package deal_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"gig_market/internal/domain"
	"gig_market/internal/domain/entity"
	servicedeal "gig_market/internal/domain/service/deal"
	"gig_market/internal/domain/value"
	"gig_market/pkg/errcodes"
)

// fakeDealRepo повторяет контракт постгресового репозитория, включая
// условные переходы: проигравший CAS получает Conflict, как и в SQL.
type fakeDealRepo struct {
	mu        sync.Mutex
	deals     map[value.DealID]entity.Deal
	revisions map[value.DealID][]entity.DealRevision
}

func newFakeDealRepo() *fakeDealRepo {
	return &fakeDealRepo{
		deals:     make(map[value.DealID]entity.Deal),
		revisions: make(map[value.DealID][]entity.DealRevision),
	}
}

func (r *fakeDealRepo) Create(_ context.Context, deal *entity.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deals[deal.ID] = *deal

	return nil
}

func (r *fakeDealRepo) GetByID(_ context.Context, id value.DealID) (*entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deal, ok := r.deals[id]
	if !ok {
		return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	return &deal, nil
}

func (r *fakeDealRepo) GetByIDs(_ context.Context, ids []value.DealID) ([]*entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deals := make([]*entity.Deal, 0, len(ids))

	for _, id := range ids {
		if deal, ok := r.deals[id]; ok {
			deal := deal
			deals = append(deals, &deal)
		}
	}

	return deals, nil
}

func (r *fakeDealRepo) ListByProfile(
	_ context.Context,
	profileID value.ProfileID,
	filter servicedeal.Filter,
) ([]entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deals []entity.Deal

	for _, deal := range r.deals {
		if !deal.HasParticipant(profileID) {
			continue
		}

		if filter.Status != "" && deal.Status != filter.Status {
			continue
		}

		deals = append(deals, deal)
	}

	sort.Slice(deals, func(i, j int) bool {
		return deals[i].CreatedAt.Before(deals[j].CreatedAt)
	})

	return deals, nil
}

func (r *fakeDealRepo) Resolve(_ context.Context, params servicedeal.ResolveParams) (*entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deal, ok := r.deals[params.DealID]
	if !ok {
		return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	if !deal.Status.IsOpen() ||
		deal.AwaitingResponseFrom != params.Actor ||
		deal.Revision != params.ExpectedRevision {
		return nil, domain.NewError(errcodes.Conflict, "deal was modified concurrently")
	}

	deal.Status = params.Status
	deal.UpdatedAt = time.Now().UTC()

	if params.Status == value.DealStatusDeclined {
		deal.DeclineReason = params.DeclineReason
		deal.DeclinedBy = params.Actor
	}

	if params.ApplyOffer != nil {
		deal.Fee = params.ApplyOffer.Fee
		deal.Extras = params.ApplyOffer.Extras.Clone()
		deal.Notes = params.ApplyOffer.Notes
	}

	r.deals[deal.ID] = deal

	return &deal, nil
}

func (r *fakeDealRepo) Counter(_ context.Context, params servicedeal.CounterParams) (*entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deal, ok := r.deals[params.DealID]
	if !ok {
		return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	if !deal.Status.IsOpen() ||
		deal.AwaitingResponseFrom != params.Actor ||
		deal.Revision != params.ExpectedRevision {
		return nil, domain.NewError(errcodes.Conflict, "deal was modified concurrently")
	}

	deal.Status = value.DealStatusNegotiating
	deal.Revision = params.Revision.Revision
	deal.AwaitingResponseFrom = params.NextAwaiting
	deal.UpdatedAt = time.Now().UTC()

	r.deals[deal.ID] = deal
	r.revisions[deal.ID] = append(r.revisions[deal.ID], params.Revision)

	return &deal, nil
}

func (r *fakeDealRepo) LatestRevision(_ context.Context, id value.DealID) (*entity.DealRevision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	revisions := r.revisions[id]
	if len(revisions) == 0 {
		return nil, domain.NewError(errcodes.DealNotFound, "no revisions")
	}

	latest := revisions[len(revisions)-1]

	return &latest, nil
}

func (r *fakeDealRepo) ListRevisions(_ context.Context, id value.DealID) ([]entity.DealRevision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]entity.DealRevision(nil), r.revisions[id]...), nil
}

func (r *fakeDealRepo) DeletePending(_ context.Context, id value.DealID, initiator value.ProfileID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	deal, ok := r.deals[id]
	if !ok {
		return domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	if deal.InitiatorID != initiator || deal.Status != value.DealStatusPending {
		return domain.NewError(errcodes.Conflict, "deal is not a pending offer of the initiator")
	}

	delete(r.deals, id)

	return nil
}

func (r *fakeDealRepo) CompleteElapsed(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64

	for id, deal := range r.deals {
		if deal.Status == value.DealStatusAccepted && deal.Date.Before(before) {
			deal.Status = value.DealStatusCompleted
			r.deals[id] = deal
			count++
		}
	}

	return count, nil
}

type fakeThread struct {
	mu       sync.Mutex
	messages []entity.Message
	failing  bool
}

func (t *fakeThread) Send(_ context.Context, message entity.Message) (entity.Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.failing {
		return entity.Message{}, domain.NewError(errcodes.InternalServerError, "thread unavailable")
	}

	t.messages = append(t.messages, message)

	return message, nil
}

func (t *fakeThread) Thread(_ context.Context, a, b value.ProfileID) ([]entity.Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var messages []entity.Message

	for _, message := range t.messages {
		between := (message.FromProfileID == a && message.ToProfileID == b) ||
			(message.FromProfileID == b && message.ToProfileID == a)
		if between {
			messages = append(messages, message)
		}
	}

	return messages, nil
}

type fakeDirectory struct {
	profiles map[value.ProfileID]entity.Profile
}

func newFakeDirectory(profiles ...entity.Profile) *fakeDirectory {
	directory := &fakeDirectory{profiles: make(map[value.ProfileID]entity.Profile, len(profiles))}

	for _, profile := range profiles {
		directory.profiles[profile.ID] = profile
	}

	return directory
}

func (d *fakeDirectory) GetByID(_ context.Context, id value.ProfileID) (entity.Profile, error) {
	profile, ok := d.profiles[id]
	if !ok {
		return entity.Profile{}, domain.NewError(errcodes.ProfileNotFound, "profile not found")
	}

	return profile, nil
}

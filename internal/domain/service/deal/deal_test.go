package deal_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"gig_market/internal/domain/entity"
	servicedeal "gig_market/internal/domain/service/deal"
	"gig_market/internal/domain/service/offercodec"
	"gig_market/internal/domain/value"
)

type fixture struct {
	service  *servicedeal.Service
	repo     *fakeDealRepo
	thread   *fakeThread
	promoter entity.Profile
	artist   entity.Profile
	venue    entity.Profile
	agent    entity.Profile
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:   newFakeDealRepo(),
		thread: &fakeThread{},
		now:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	f.promoter = entity.Profile{ID: value.NewProfileID(), Name: "Nightshift Events", Role: value.RolePromoter}
	f.artist = entity.Profile{ID: value.NewProfileID(), Name: "DJ Hart", Role: value.RoleArtist}
	f.venue = entity.Profile{ID: value.NewProfileID(), Name: "Club Ost", Role: value.RoleVenue}
	f.agent = entity.Profile{ID: value.NewProfileID(), Name: "Booking One", Role: value.RoleAgent}

	directory := newFakeDirectory(f.promoter, f.artist, f.venue, f.agent)

	f.service = servicedeal.NewService(f.repo, f.thread, directory).
		WithClock(func() time.Time { return f.now })

	return f
}

func (f *fixture) validTerms(t *testing.T) servicedeal.Terms {
	t.Helper()

	fee, err := value.ParseMoney(1500, "EUR")
	require.NoError(t, err)

	return servicedeal.Terms{
		EventName: "Open Air",
		VenueName: "Club Ost",
		Location:  value.Location{Zone: "Europe", Country: "Germany", City: "Berlin"},
		Date:      f.now.AddDate(0, 0, 14),
		Fee:       fee,
		Extras:    value.Extras{value.ExtraTravelIn: value.ExtraIncluded},
	}
}

func (f *fixture) createDeal(t *testing.T) *entity.Deal {
	t.Helper()

	deal, err := f.service.Create(context.Background(), f.promoter.ID, f.artist.ID, f.validTerms(t))
	require.NoError(t, err)

	return deal
}

func (f *fixture) counterOffer(t *testing.T, amount float64) offercodec.Offer {
	t.Helper()

	fee, err := value.ParseMoney(amount, "EUR")
	require.NoError(t, err)

	return offercodec.Offer{Fee: fee, Notes: "counter terms"}
}

func TestCreate(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	rq.Equal(value.DealStatusPending, deal.Status)
	rq.Equal(f.artist.ID, deal.AwaitingResponseFrom)
	rq.Equal(0, deal.Revision)

	// Оффер продублирован системным сообщением в тред.
	rq.Len(f.thread.messages, 1)
	rq.True(f.thread.messages[0].IsSystem)
	rq.Equal(deal.ID, f.thread.messages[0].DealID)

	event, err := offercodec.DecodeSystemEvent(f.thread.messages[0].Payload)
	rq.NoError(err)
	rq.Equal(offercodec.EventOffer, event.Kind)

	_, err = f.service.GetByID(ctx, deal.ID, f.promoter.ID)
	rq.NoError(err)
}

func TestCreateRejectsRolePairing(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	testCases := []struct {
		name      string
		initiator value.ProfileID
		recipient value.ProfileID
	}{
		{name: "Artist initiates", initiator: f.artist.ID, recipient: f.promoter.ID},
		{name: "Demand to demand", initiator: f.promoter.ID, recipient: f.venue.ID},
		{name: "Supply to supply", initiator: f.agent.ID, recipient: f.artist.ID},
		{name: "Self deal", initiator: f.promoter.ID, recipient: f.promoter.ID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Create(ctx, tc.initiator, tc.recipient, f.validTerms(t))
			rq.Error(err)
			rq.True(failure.IsInvalidArgumentError(err) || failure.IsForbiddenError(err))
		})
	}
}

func TestCreateRejectsUnknownProfiles(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), f.promoter.ID, value.NewProfileID(), f.validTerms(t))
	rq.Error(err)
	rq.True(failure.IsNotFoundError(err))
}

func TestCreateSurvivesThreadOutage(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)

	f.thread.failing = true

	deal, err := f.service.Create(context.Background(), f.promoter.ID, f.artist.ID, f.validTerms(t))
	rq.NoError(err)

	stored, err := f.service.GetByID(context.Background(), deal.ID, f.promoter.ID)
	rq.NoError(err)
	rq.Equal(value.DealStatusPending, stored.Status)
}

func TestGetByIDHidesDealFromStrangers(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)

	deal := f.createDeal(t)

	_, err := f.service.GetByID(context.Background(), deal.ID, f.venue.ID)
	rq.Error(err)
	rq.True(failure.IsNotFoundError(err))
}

func TestListScopedToParticipant(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	_, err := f.service.Create(ctx, f.venue.ID, f.agent.ID, f.validTerms(t))
	rq.NoError(err)

	promoterDeals, err := f.service.List(ctx, f.promoter.ID, servicedeal.Filter{})
	rq.NoError(err)
	rq.Len(promoterDeals, 1)
	rq.Equal(deal.ID, promoterDeals[0].ID)

	artistDeals, err := f.service.List(ctx, f.artist.ID, servicedeal.Filter{})
	rq.NoError(err)
	rq.Len(artistDeals, 1)

	declined, err := f.service.List(ctx, f.promoter.ID, servicedeal.Filter{Status: value.DealStatusDeclined})
	rq.NoError(err)
	rq.Empty(declined)
}

func TestAccept(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	accepted, err := f.service.Accept(ctx, deal.ID, f.artist.ID)
	rq.NoError(err)
	rq.Equal(value.DealStatusAccepted, accepted.Status)

	// Принять можно только один раз.
	_, err = f.service.Accept(ctx, deal.ID, f.artist.ID)
	rq.Error(err)
	rq.True(failure.IsConflictError(err))
}

func TestAcceptOnlyByAwaitingSide(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	_, err := f.service.Accept(ctx, deal.ID, f.promoter.ID)
	rq.Error(err)
	rq.True(failure.IsForbiddenError(err))

	_, err = f.service.Accept(ctx, deal.ID, f.venue.ID)
	rq.Error(err)
	rq.True(failure.IsForbiddenError(err))
}

func TestAcceptAppliesLatestRevision(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	_, _, err := f.service.Counter(ctx, deal.ID, f.artist.ID, f.counterOffer(t, 2500))
	rq.NoError(err)

	accepted, err := f.service.Accept(ctx, deal.ID, f.promoter.ID)
	rq.NoError(err)
	rq.Equal(value.DealStatusAccepted, accepted.Status)
	rq.Equal(int64(250000), accepted.Fee.AmountMinor)
	rq.Equal("counter terms", accepted.Notes)
}

func TestDeclineRequiresReason(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	_, err := f.service.Decline(ctx, deal.ID, f.artist.ID, "   ")
	rq.Error(err)
	rq.True(failure.IsInvalidArgumentError(err))

	declined, err := f.service.Decline(ctx, deal.ID, f.artist.ID, "date clashes with tour")
	rq.NoError(err)
	rq.Equal(value.DealStatusDeclined, declined.Status)
	rq.Equal("date clashes with tour", declined.DeclineReason)
	rq.Equal(f.artist.ID, declined.DeclinedBy)
}

func TestCounterFlipsTurn(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	updated, message, err := f.service.Counter(ctx, deal.ID, f.artist.ID, f.counterOffer(t, 2000))
	rq.NoError(err)
	rq.Equal(value.DealStatusNegotiating, updated.Status)
	rq.Equal(1, updated.Revision)
	rq.Equal(f.promoter.ID, updated.AwaitingResponseFrom)

	rq.Equal(offercodec.TypeCounterOffer, offercodec.PayloadType(message.Payload))
	rq.Contains(message.Text, "Fee: 2000.00 EUR")

	// Автор контроффера не может ответить сам себе.
	_, _, err = f.service.Counter(ctx, deal.ID, f.artist.ID, f.counterOffer(t, 1900))
	rq.Error(err)
	rq.True(failure.IsForbiddenError(err))

	// Вторая сторона продолжает раунд.
	updated, _, err = f.service.Counter(ctx, deal.ID, f.promoter.ID, f.counterOffer(t, 1750))
	rq.NoError(err)
	rq.Equal(2, updated.Revision)
	rq.Equal(f.artist.ID, updated.AwaitingResponseFrom)

	revisions, err := f.service.Revisions(ctx, deal.ID, f.promoter.ID)
	rq.NoError(err)
	rq.Len(revisions, 2)
	rq.Equal(f.artist.ID, revisions[0].ProposedBy)
	rq.Equal(f.promoter.ID, revisions[1].ProposedBy)
}

func TestCounterValidatesOffer(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	_, _, err := f.service.Counter(ctx, deal.ID, f.artist.ID, offercodec.Offer{})
	rq.Error(err)
	rq.True(failure.IsInvalidArgumentError(err))

	offer := f.counterOffer(t, 2000)
	offer.Extras = value.Extras{"jacuzzi": "backstage"}

	_, _, err = f.service.Counter(ctx, deal.ID, f.artist.ID, offer)
	rq.Error(err)
	rq.True(failure.IsInvalidArgumentError(err))
}

func TestConcurrentResolution(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	// Обе горутины действуют от имени стороны, чья очередь отвечать.
	// Выиграть CAS может только одна.
	var wg sync.WaitGroup

	errs := make([]error, 2)

	wg.Add(2)

	go func() {
		defer wg.Done()
		_, errs[0] = f.service.Accept(ctx, deal.ID, f.artist.ID)
	}()

	go func() {
		defer wg.Done()
		_, errs[1] = f.service.Decline(ctx, deal.ID, f.artist.ID, "changed my mind")
	}()

	wg.Wait()

	succeeded := 0

	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}

		rq.True(failure.IsConflictError(err))
	}

	rq.Equal(1, succeeded)

	final, err := f.service.GetByID(ctx, deal.ID, f.promoter.ID)
	rq.NoError(err)
	rq.False(final.Status.IsOpen())
}

func TestDelete(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	// Удалять может только инициатор.
	err := f.service.Delete(ctx, deal.ID, f.artist.ID)
	rq.Error(err)
	rq.True(failure.IsForbiddenError(err))

	rq.NoError(f.service.Delete(ctx, deal.ID, f.promoter.ID))

	_, err = f.service.GetByID(ctx, deal.ID, f.promoter.ID)
	rq.Error(err)
	rq.True(failure.IsNotFoundError(err))
}

func TestDeleteOnlyPending(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	_, _, err := f.service.Counter(ctx, deal.ID, f.artist.ID, f.counterOffer(t, 2000))
	rq.NoError(err)

	err = f.service.Delete(ctx, deal.ID, f.promoter.ID)
	rq.Error(err)
	rq.True(failure.IsConflictError(err))
}

func TestCompleteElapsed(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	_, err := f.service.Accept(ctx, deal.ID, f.artist.ID)
	rq.NoError(err)

	// Дата ещё не прошла.
	count, err := f.service.CompleteElapsed(ctx)
	rq.NoError(err)
	rq.Zero(count)

	f.now = f.now.AddDate(0, 1, 0)

	count, err = f.service.CompleteElapsed(ctx)
	rq.NoError(err)
	rq.Equal(int64(1), count)

	completed, err := f.service.GetByID(ctx, deal.ID, f.promoter.ID)
	rq.NoError(err)
	rq.Equal(value.DealStatusCompleted, completed.Status)
}

func TestFullNegotiationScenario(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	_, _, err := f.service.Counter(ctx, deal.ID, f.artist.ID, f.counterOffer(t, 2500))
	rq.NoError(err)

	_, _, err = f.service.Counter(ctx, deal.ID, f.promoter.ID, f.counterOffer(t, 2000))
	rq.NoError(err)

	accepted, err := f.service.Accept(ctx, deal.ID, f.artist.ID)
	rq.NoError(err)
	rq.Equal(value.DealStatusAccepted, accepted.Status)
	rq.Equal(2, accepted.Revision)
	rq.Equal(int64(200000), accepted.Fee.AmountMinor)

	// После акцепта никакие ответы больше не принимаются.
	_, _, err = f.service.Counter(ctx, deal.ID, f.promoter.ID, f.counterOffer(t, 1500))
	rq.Error(err)
	rq.True(failure.IsConflictError(err))
}

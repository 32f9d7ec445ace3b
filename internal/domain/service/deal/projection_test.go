package deal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gig_market/internal/domain/entity"
	servicedeal "gig_market/internal/domain/service/deal"
	"gig_market/internal/domain/value"
)

func TestProjectThread(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	_, _, err := f.service.Counter(ctx, deal.ID, f.artist.ID, f.counterOffer(t, 2200))
	rq.NoError(err)

	_, err = f.service.Accept(ctx, deal.ID, f.promoter.ID)
	rq.NoError(err)

	// Обычный чат без ссылки на сделку в таймлайн не попадает.
	_, err = f.thread.Send(ctx, entity.Message{
		ID:            value.NewMessageID(),
		FromProfileID: f.promoter.ID,
		ToProfileID:   f.artist.ID,
		Text:          "see you at soundcheck",
		CreatedAt:     f.now,
	})
	rq.NoError(err)

	entries, err := f.service.ProjectThread(ctx, f.promoter.ID, f.artist.ID)
	rq.NoError(err)
	rq.Len(entries, 3)

	offer := entries[0]
	rq.Equal(servicedeal.IconOffer, offer.Icon)
	rq.Equal(servicedeal.LabelSentOffer, offer.ActionLabel)
	rq.Equal("You", offer.ActorName)
	rq.Nil(offer.CounterOffer)

	counter := entries[1]
	rq.Equal(servicedeal.IconCounter, counter.Icon)
	rq.Equal(servicedeal.LabelCounterOffered, counter.ActionLabel)
	rq.Equal("DJ Hart", counter.ActorName)
	rq.NotNil(counter.CounterOffer)
	rq.Equal(int64(220000), counter.CounterOffer.Fee.AmountMinor)

	accepted := entries[2]
	rq.Equal(servicedeal.IconAccepted, accepted.Icon)
	rq.Equal(servicedeal.LabelAcceptedOffer, accepted.ActionLabel)
	rq.Equal("You", accepted.ActorName)
}

func TestProjectThreadDeclined(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	_, err := f.service.Decline(ctx, deal.ID, f.artist.ID, "fee too low")
	rq.NoError(err)

	// С точки зрения артиста отказ подписан "You".
	entries, err := f.service.ProjectThread(ctx, f.artist.ID, f.promoter.ID)
	rq.NoError(err)
	rq.Len(entries, 2)

	rq.Equal(servicedeal.IconDeclined, entries[0].Icon)
	rq.Equal(servicedeal.LabelDeclinedOffer, entries[0].ActionLabel)
	rq.Equal("You", entries[0].ActorName)

	// А с точки зрения промоутера отказал контрагент.
	entries, err = f.service.ProjectThread(ctx, f.promoter.ID, f.artist.ID)
	rq.NoError(err)
	rq.Equal("DJ Hart", entries[0].ActorName)
}

func TestProjectThreadSurvivesDeletedDeal(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	deal := f.createDeal(t)

	rq.NoError(f.service.Delete(ctx, deal.ID, f.promoter.ID))

	// Сообщение-оффер пережило удаление сделки и проецируется как
	// исторический оффер.
	entries, err := f.service.ProjectThread(ctx, f.promoter.ID, f.artist.ID)
	rq.NoError(err)
	rq.Len(entries, 1)
	rq.Equal(servicedeal.IconOffer, entries[0].Icon)
	rq.Equal(servicedeal.LabelSentOffer, entries[0].ActionLabel)
}

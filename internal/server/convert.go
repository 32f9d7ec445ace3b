package server

import (
	"fmt"
	"time"

	"git.appkode.ru/pub/go/failure"

	"gig_market/internal/domain/entity"
	servicedeal "gig_market/internal/domain/service/deal"
	"gig_market/internal/domain/service/offercodec"
	"gig_market/internal/domain/value"
	"gig_market/pkg/errcodes"
	"gig_market/pkg/rest"
)

const dateLayout = "2006-01-02"

func newRESTDeal(deal entity.Deal) rest.Deal {
	return rest.Deal{
		ID:                   deal.ID.String(),
		InitiatorProfileID:   deal.InitiatorID.String(),
		RecipientProfileID:   deal.RecipientID.String(),
		AwaitingResponseFrom: deal.AwaitingResponseFrom.String(),
		EventName:            deal.EventName,
		VenueName:            deal.VenueName,
		Location: rest.Location{
			Zone:    deal.Location.Zone,
			Country: deal.Location.Country,
			City:    deal.Location.City,
		},
		Date:            deal.Date.Format(dateLayout),
		EventStartTime:  deal.EventWindow.Start.String(),
		EventEndTime:    deal.EventWindow.End.String(),
		SetStartTime:    deal.SetWindow.Start.String(),
		SetEndTime:      deal.SetWindow.End.String(),
		SetDuration:     deal.SetDurationMinutes(),
		Fee:             deal.Fee.Amount(),
		Currency:        deal.Fee.Currency.String(),
		PerformanceType: deal.Performance.String(),
		Extras:          newRESTExtras(deal.Extras),
		Notes:           deal.Notes,
		Status:          deal.Status.String(),
		DeclineReason:   deal.DeclineReason,
		DeclinedBy:      deal.DeclinedBy.String(),
		Revision:        deal.Revision,
		CreatedAt:       deal.CreatedAt,
		UpdatedAt:       deal.UpdatedAt,
	}
}

func newRESTRevision(revision entity.DealRevision) rest.DealRevision {
	return rest.DealRevision{
		Revision:   revision.Revision,
		ProposedBy: revision.ProposedBy.String(),
		MessageID:  revision.MessageID.String(),
		Fee:        revision.Fee.Amount(),
		Currency:   revision.Fee.Currency.String(),
		Extras:     newRESTExtras(revision.Extras),
		Notes:      revision.Notes,
		CreatedAt:  revision.CreatedAt,
	}
}

func newRESTMessage(message entity.Message) rest.Message {
	return rest.Message{
		ID:              message.ID.String(),
		FromProfileID:   message.FromProfileID.String(),
		ToProfileID:     message.ToProfileID.String(),
		Text:            message.Text,
		DealID:          message.DealID.String(),
		IsSystemMessage: message.IsSystem,
		CreatedAt:       message.CreatedAt,
	}
}

func newRESTTimelineEntry(entry servicedeal.TimelineEntry) rest.TimelineEntry {
	restEntry := rest.TimelineEntry{
		Message:     newRESTMessage(entry.Message),
		Icon:        entry.Icon,
		ActorName:   entry.ActorName,
		ActionLabel: entry.ActionLabel,
	}

	if entry.CounterOffer != nil {
		restEntry.CounterOffer = &rest.CounterOffer{
			Fee:      entry.CounterOffer.Fee.Amount(),
			Currency: entry.CounterOffer.Fee.Currency.String(),
			Extras:   newRESTExtras(entry.CounterOffer.Extras),
			Notes:    entry.CounterOffer.Notes,
		}
	}

	return restEntry
}

func newRESTProfile(profile entity.Profile) rest.Profile {
	return rest.Profile{
		ID:   profile.ID.String(),
		Name: profile.Name,
		Role: profile.Role.String(),
		Location: rest.Location{
			Zone:    profile.Location.Zone,
			Country: profile.Location.Country,
			City:    profile.Location.City,
		},
		AvatarURL: profile.AvatarURL,
	}
}

func newRESTExtras(extras value.Extras) map[string]string {
	if len(extras) == 0 {
		return nil
	}

	result := make(map[string]string, len(extras))
	for k, v := range extras {
		result[string(k)] = v
	}

	return result
}

func newDomainTerms(request rest.CreateDealRequest) (servicedeal.Terms, error) {
	date, err := time.Parse(dateLayout, request.Date)
	if err != nil {
		return servicedeal.Terms{}, failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("time.Parse date: %w", err),
			failure.WithCode(errcodes.InvalidEventDate),
		)
	}

	fee, err := value.ParseMoney(request.Fee, request.Currency)
	if err != nil {
		return servicedeal.Terms{}, failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseMoney: %w", err),
			failure.WithCode(errcodes.InvalidFee),
		)
	}

	performance, err := value.ParsePerformanceType(request.PerformanceType)
	if err != nil {
		return servicedeal.Terms{}, failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParsePerformanceType: %w", err),
			failure.WithCode(errcodes.InvalidPerformanceType),
		)
	}

	eventWindow, err := newDomainWindow(request.EventStartTime, request.EventEndTime)
	if err != nil {
		return servicedeal.Terms{}, err
	}

	setWindow, err := newDomainWindow(request.SetStartTime, request.SetEndTime)
	if err != nil {
		return servicedeal.Terms{}, err
	}

	extras, err := newDomainExtras(request.Extras)
	if err != nil {
		return servicedeal.Terms{}, err
	}

	return servicedeal.Terms{
		EventName: request.EventName,
		VenueName: request.VenueName,
		Location: value.Location{
			Zone:    request.Location.Zone,
			Country: request.Location.Country,
			City:    request.Location.City,
		},
		Date:        date,
		EventWindow: eventWindow,
		SetWindow:   setWindow,
		Fee:         fee,
		Performance: performance,
		Extras:      extras,
		Notes:       request.Notes,
	}, nil
}

func newDomainOffer(request rest.CounterOffer) (offercodec.Offer, error) {
	fee, err := value.ParseMoney(request.Fee, request.Currency)
	if err != nil {
		return offercodec.Offer{}, failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseMoney: %w", err),
			failure.WithCode(errcodes.InvalidFee),
		)
	}

	extras, err := newDomainExtras(request.Extras)
	if err != nil {
		return offercodec.Offer{}, err
	}

	return offercodec.Offer{
		Fee:    fee,
		Extras: extras,
		Notes:  request.Notes,
	}, nil
}

func newDomainWindow(start, end string) (value.TimeWindow, error) {
	s, err := value.ParseClockTime(start)
	if err != nil {
		return value.TimeWindow{}, failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseClockTime: %w", err),
			failure.WithCode(errcodes.InvalidTimeWindow),
		)
	}

	e, err := value.ParseClockTime(end)
	if err != nil {
		return value.TimeWindow{}, failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseClockTime: %w", err),
			failure.WithCode(errcodes.InvalidTimeWindow),
		)
	}

	return value.TimeWindow{Start: s, End: e}, nil
}

func newDomainExtras(extras map[string]string) (value.Extras, error) {
	if len(extras) == 0 {
		return nil, nil
	}

	result := make(value.Extras, len(extras))

	for k, v := range extras {
		key, err := value.ParseExtraKey(k)
		if err != nil {
			return nil, failure.NewInvalidArgumentErrorFromError(
				fmt.Errorf("value.ParseExtraKey: %w", err),
				failure.WithCode(errcodes.InvalidExtras),
			)
		}

		if v == "" {
			v = value.ExtraIncluded
		}

		result[key] = v
	}

	return result, nil
}

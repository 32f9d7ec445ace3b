package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"gig_market/internal/domain/entity"
	servicedeal "gig_market/internal/domain/service/deal"
	"gig_market/internal/domain/service/offercodec"
	"gig_market/internal/domain/value"
	"gig_market/pkg/contextx"
	"gig_market/pkg/errcodes"
	"gig_market/pkg/httpx/reply"
	"gig_market/pkg/httpx/req"
	"gig_market/pkg/lox"
	"gig_market/pkg/rest"
)

type dealService interface {
	Create(ctx context.Context, initiatorID, recipientID value.ProfileID, terms servicedeal.Terms) (*entity.Deal, error)
	GetByID(ctx context.Context, id value.DealID, requesterID value.ProfileID) (*entity.Deal, error)
	List(ctx context.Context, profileID value.ProfileID, filter servicedeal.Filter) ([]entity.Deal, error)
	Revisions(ctx context.Context, id value.DealID, requesterID value.ProfileID) ([]entity.DealRevision, error)
	Accept(ctx context.Context, id value.DealID, actorID value.ProfileID) (*entity.Deal, error)
	Decline(ctx context.Context, id value.DealID, actorID value.ProfileID, reason string) (*entity.Deal, error)
	Counter(ctx context.Context, id value.DealID, actorID value.ProfileID, offer offercodec.Offer) (*entity.Deal, entity.Message, error)
	Delete(ctx context.Context, id value.DealID, actorID value.ProfileID) error
	ProjectThread(ctx context.Context, viewerID, counterpartID value.ProfileID) ([]servicedeal.TimelineEntry, error)
}

type DealServer struct {
	dealService dealService
}

func NewDealServer(dealService dealService) DealServer {
	return DealServer{
		dealService: dealService,
	}
}

// actingProfileID — действующий профиль из заголовка X-Profile-Id.
// Все операции движка требуют явного actingProfileId.
func actingProfileID(ctx context.Context) (value.ProfileID, error) {
	userID, err := contextx.UserIDFromContext(ctx)
	if err != nil {
		return "", failure.NewForbiddenError(
			"acting profile is not identified",
			failure.WithCode(errcodes.Forbidden),
		)
	}

	profileID, err := value.ParseProfileID(userID.String())
	if err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseProfileID: %w", err),
			failure.WithCode(errcodes.InvalidProfileID),
		)
	}

	return profileID, nil
}

func dealIDFromPath(r *http.Request) (value.DealID, error) {
	id, err := value.ParseDealID(r.PathValue("id"))
	if err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseDealID: %w", err),
			failure.WithCode(errcodes.InvalidDealID),
		)
	}

	return id, nil
}

func (s DealServer) postV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actorID, err := actingProfileID(ctx)
	if err != nil {
		return err
	}

	var request rest.CreateDealRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	recipientID, err := value.ParseProfileID(request.RecipientProfileID)
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseProfileID: %w", err),
			failure.WithCode(errcodes.InvalidProfileID),
		)
	}

	terms, err := newDomainTerms(request)
	if err != nil {
		return fmt.Errorf("newDomainTerms: %w", err)
	}

	deal, err := s.dealService.Create(ctx, actorID, recipientID, terms)
	if err != nil {
		return fmt.Errorf("dealService.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTDeal(*deal))

	return nil
}

func (s DealServer) getV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actorID, err := actingProfileID(ctx)
	if err != nil {
		return err
	}

	id, err := dealIDFromPath(r)
	if err != nil {
		return err
	}

	deal, err := s.dealService.GetByID(ctx, id, actorID)
	if err != nil {
		return fmt.Errorf("dealService.GetByID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(*deal))

	return nil
}

func (s DealServer) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actorID, err := actingProfileID(ctx)
	if err != nil {
		return err
	}

	var filter servicedeal.Filter

	if rawStatus := r.URL.Query().Get("status"); rawStatus != "" {
		status, err := value.ParseDealStatus(rawStatus)
		if err != nil {
			return failure.NewInvalidArgumentErrorFromError(
				fmt.Errorf("value.ParseDealStatus: %w", err),
				failure.WithCode(errcodes.ValidationError),
			)
		}

		filter.Status = status
	}

	deals, err := s.dealService.List(ctx, actorID, filter)
	if err != nil {
		return fmt.Errorf("dealService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(deals, newRESTDeal))

	return nil
}

func (s DealServer) getV1DealRevisions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actorID, err := actingProfileID(ctx)
	if err != nil {
		return err
	}

	id, err := dealIDFromPath(r)
	if err != nil {
		return err
	}

	revisions, err := s.dealService.Revisions(ctx, id, actorID)
	if err != nil {
		return fmt.Errorf("dealService.Revisions: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(revisions, newRESTRevision))

	return nil
}

func (s DealServer) postV1DealAccept(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actorID, err := actingProfileID(ctx)
	if err != nil {
		return err
	}

	id, err := dealIDFromPath(r)
	if err != nil {
		return err
	}

	deal, err := s.dealService.Accept(ctx, id, actorID)
	if err != nil {
		return fmt.Errorf("dealService.Accept: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(*deal))

	return nil
}

func (s DealServer) postV1DealDecline(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actorID, err := actingProfileID(ctx)
	if err != nil {
		return err
	}

	id, err := dealIDFromPath(r)
	if err != nil {
		return err
	}

	var request rest.DeclineDealRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	deal, err := s.dealService.Decline(ctx, id, actorID, request.Reason)
	if err != nil {
		return fmt.Errorf("dealService.Decline: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(*deal))

	return nil
}

func (s DealServer) postV1DealCounter(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actorID, err := actingProfileID(ctx)
	if err != nil {
		return err
	}

	id, err := dealIDFromPath(r)
	if err != nil {
		return err
	}

	var request rest.CounterOffer
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	offer, err := newDomainOffer(request)
	if err != nil {
		return fmt.Errorf("newDomainOffer: %w", err)
	}

	_, message, err := s.dealService.Counter(ctx, id, actorID, offer)
	if err != nil {
		return fmt.Errorf("dealService.Counter: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTMessage(message))

	return nil
}

func (s DealServer) deleteV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actorID, err := actingProfileID(ctx)
	if err != nil {
		return err
	}

	id, err := dealIDFromPath(r)
	if err != nil {
		return err
	}

	if err := s.dealService.Delete(ctx, id, actorID); err != nil {
		return fmt.Errorf("dealService.Delete: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s DealServer) getV1DealTimeline(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actorID, err := actingProfileID(ctx)
	if err != nil {
		return err
	}

	counterpartID, err := value.ParseProfileID(r.URL.Query().Get("counterpartId"))
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseProfileID: %w", err),
			failure.WithCode(errcodes.InvalidProfileID),
		)
	}

	entries, err := s.dealService.ProjectThread(ctx, actorID, counterpartID)
	if err != nil {
		return fmt.Errorf("dealService.ProjectThread: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(entries, newRESTTimelineEntry))

	return nil
}

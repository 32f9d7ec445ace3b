package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"gig_market/internal/domain"
	"gig_market/internal/domain/entity"
	"gig_market/internal/domain/value"
	"gig_market/pkg/errcodes"
	"gig_market/pkg/httpx/reply"
)

type profileDirectory interface {
	GetByID(ctx context.Context, id value.ProfileID) (entity.Profile, error)
}

type ProfileServer struct {
	directory profileDirectory
}

func NewProfileServer(directory profileDirectory) ProfileServer {
	return ProfileServer{
		directory: directory,
	}
}

func (s ProfileServer) getV1Profile(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParseProfileID(r.PathValue("id"))
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseProfileID: %w", err),
			failure.WithCode(errcodes.InvalidProfileID),
		)
	}

	profile, err := s.directory.GetByID(ctx, id)
	if err != nil {
		if code, ok := domain.GetCode(err); ok && code == errcodes.ProfileNotFound {
			return failure.NewNotFoundErrorFromError(
				fmt.Errorf("directory.GetByID: %w", err),
				failure.WithCode(errcodes.ProfileNotFound),
			)
		}

		return fmt.Errorf("directory.GetByID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTProfile(profile))

	return nil
}

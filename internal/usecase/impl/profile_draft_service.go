package impl

import (
	"log/slog"
	"sync"

	"bistro/internal/domain/entity"
	"bistro/internal/usecase"
)

// profileDraftService implements the ProfileDraftUsecase interface.
type profileDraftService struct {
	mu     sync.RWMutex
	draft  entity.ProfileDraft
	logger *slog.Logger
}

// NewProfileDraftService is the constructor for profileDraftService.
func NewProfileDraftService(logger *slog.Logger) usecase.ProfileDraftUsecase {
	return &profileDraftService{
		draft:  entity.DefaultProfileDraft(),
		logger: logger,
	}
}

// UpdateUserInfo merges patch onto the draft. An unknown delivery mode is ignored.
func (srv *profileDraftService) UpdateUserInfo(patch entity.ProfileDraftPatch) entity.ProfileDraft {
	if patch.DeliveryMode != nil && !patch.DeliveryMode.IsValid() {
		srv.logger.Debug("Ignoring unknown delivery mode", "deliveryMode", string(*patch.DeliveryMode))
		patch.DeliveryMode = nil
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.draft = patch.Apply(srv.draft)

	return srv.draft
}

// HasUserInfo is true once name and phone are filled in, plus address and city for delivery.
func (srv *profileDraftService) HasUserInfo() bool {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	draft := srv.draft
	if draft.Name == "" || draft.Phone == "" {
		return false
	}

	if draft.DeliveryMode == entity.DeliveryModePickup {
		return true
	}

	return draft.Address != "" && draft.City != ""
}

func (srv *profileDraftService) Draft() entity.ProfileDraft {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return srv.draft
}

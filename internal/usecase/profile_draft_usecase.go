package usecase

import (
	"bistro/internal/domain/entity"
)

// ProfileDraftUsecase holds the checkout identity last entered, in memory only.
type ProfileDraftUsecase interface {
	// UpdateUserInfo merges the non-nil fields of patch onto the draft and returns the result.
	UpdateUserInfo(patch entity.ProfileDraftPatch) entity.ProfileDraft

	// HasUserInfo reports whether the draft is complete enough to place an order.
	HasUserInfo() bool

	Draft() entity.ProfileDraft
}

package handler

import (
	"net/http"

	"bistro/internal/delivery/api/response"
	"bistro/internal/domain/entity"
	"bistro/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ProfileDraftHandler exposes the checkout identity draft.
type ProfileDraftHandler struct {
	draftUC usecase.ProfileDraftUsecase
}

// NewProfileDraftHandler is the constructor for ProfileDraftHandler
func NewProfileDraftHandler(draftUC usecase.ProfileDraftUsecase) *ProfileDraftHandler {
	return &ProfileDraftHandler{draftUC: draftUC}
}

// ProfileDraftView is the draft with its completeness flag
type ProfileDraftView struct {
	entity.ProfileDraft
	HasUserInfo bool `json:"has_user_info"`
}

// GetDraft returns the current draft
func (h *ProfileDraftHandler) GetDraft(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.view(h.draftUC.Draft()))
}

// UpdateDraft merges the provided fields onto the draft
func (h *ProfileDraftHandler) UpdateDraft(c echo.Context) error {
	var patch entity.ProfileDraftPatch
	if err := c.Bind(&patch); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	return response.Success(c, http.StatusOK, h.view(h.draftUC.UpdateUserInfo(patch)))
}

func (h *ProfileDraftHandler) view(draft entity.ProfileDraft) ProfileDraftView {
	return ProfileDraftView{ProfileDraft: draft, HasUserInfo: h.draftUC.HasUserInfo()}
}

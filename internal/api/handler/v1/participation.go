package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gathorapp/outings-api/internal/api/handler/v1/response"
	"github.com/gathorapp/outings-api/internal/domain"
	"github.com/gathorapp/outings-api/internal/service"
)

type ParticipationService interface {
	RequestJoin(ctx context.Context, outingID, userID uint) (domain.Participation, error)
	Approve(ctx context.Context, participationID, actingUserID uint) (domain.Participation, error)
	Reject(ctx context.Context, participationID, actingUserID uint) (domain.Participation, error)
	Withdraw(ctx context.Context, participationID, actingUserID uint) error
	ListByOuting(ctx context.Context, outingID uint) ([]domain.Participation, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Participation, error)
}

type ParticipationHandler struct {
	svc  ParticipationService
	uSvc UserService
}

func NewParticipationHandler(svc ParticipationService, uSvc UserService) *ParticipationHandler {
	return &ParticipationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleRequestJoin godoc
// @Summary      Request to join an outing
// @Description  Creates a PENDING participation for the authenticated user. The organizer decides on it later.
// @Tags         participations
// @Produce      json
// @Param        outingID  path      int  true  "outing ID"
// @Success      201       {object}  domain.Participation
// @Failure      400       {object}  response.Err
// @Failure      401       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /outings/{outingID}/participations [post]
// @Security     BearerAuth
func (h *ParticipationHandler) HandleRequestJoin(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	outingID, respErr := parseUintParam(ctx, "outingID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participation, err := h.svc.RequestJoin(ctx.Request.Context(), outingID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOutingNotFound):
			response.RenderErr(ctx, response.ErrNotFound("outing", "ID", outingID))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", user.ID))
		case errors.Is(err, service.ErrOrganizerCannotJoin):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrAlreadyRequested):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrOutingFull):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("HandleRequestJoin -> h.svc.RequestJoin -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, participation)
}

// HandleApprove godoc
// @Summary      Approve a pending participation
// @Description  Organizer-only. Fails with 409 when the outing is already full; the participation stays PENDING.
// @Tags         participations
// @Produce      json
// @Param        participationID  path      int  true  "participation ID"
// @Success      200              {object}  domain.Participation
// @Failure      400              {object}  response.Err
// @Failure      401              {object}  response.Err
// @Failure      403              {object}  response.Err
// @Failure      404              {object}  response.Err
// @Failure      409              {object}  response.Err
// @Failure      500              {object}  response.Err
// @Router       /participations/{participationID}/approve [post]
// @Security     BearerAuth
func (h *ParticipationHandler) HandleApprove(ctx *gin.Context) {
	h.decide(ctx, h.svc.Approve)
}

// HandleReject godoc
// @Summary      Reject a pending participation
// @Tags         participations
// @Produce      json
// @Param        participationID  path      int  true  "participation ID"
// @Success      200              {object}  domain.Participation
// @Failure      400              {object}  response.Err
// @Failure      401              {object}  response.Err
// @Failure      403              {object}  response.Err
// @Failure      404              {object}  response.Err
// @Failure      409              {object}  response.Err
// @Failure      500              {object}  response.Err
// @Router       /participations/{participationID}/reject [post]
// @Security     BearerAuth
func (h *ParticipationHandler) HandleReject(ctx *gin.Context) {
	h.decide(ctx, h.svc.Reject)
}

func (h *ParticipationHandler) decide(ctx *gin.Context, decision func(context.Context, uint, uint) (domain.Participation, error)) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participationID, respErr := parseUintParam(ctx, "participationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participation, err := decision(ctx.Request.Context(), participationID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrParticipationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("participation", "ID", participationID))
		case errors.Is(err, service.ErrOutingNotFound):
			response.RenderErr(ctx, response.ErrNotFound("outing", "participationID", participationID))
		case errors.Is(err, service.ErrNotOrganizer):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrParticipationNotPending):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrOutingFull):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("decide -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, participation)
}

// HandleWithdraw godoc
// @Summary      Withdraw an own participation
// @Description  Deletes the record whatever its status. Withdrawing an approved participation frees a seat.
// @Tags         participations
// @Produce      json
// @Param        participationID  path  int  true  "participation ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /participations/{participationID} [delete]
// @Security     BearerAuth
func (h *ParticipationHandler) HandleWithdraw(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participationID, respErr := parseUintParam(ctx, "participationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Withdraw(ctx.Request.Context(), participationID, user.ID); err != nil {
		switch {
		case errors.Is(err, service.ErrParticipationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("participation", "ID", participationID))
		case errors.Is(err, service.ErrNotParticipationOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("HandleWithdraw -> h.svc.Withdraw -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListByOuting godoc
// @Summary      List participations for an outing
// @Tags         participations
// @Produce      json
// @Param        outingID  path      int  true  "outing ID"
// @Success      200       {array}   domain.Participation
// @Failure      400       {object}  response.Err
// @Failure      401       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /outings/{outingID}/participations [get]
// @Security     BearerAuth
func (h *ParticipationHandler) HandleListByOuting(ctx *gin.Context) {
	outingID, respErr := parseUintParam(ctx, "outingID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participations, err := h.svc.ListByOuting(ctx.Request.Context(), outingID)
	if err != nil {
		if errors.Is(err, service.ErrOutingNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("outing", "ID", outingID))
			return
		}

		err = fmt.Errorf("HandleListByOuting -> h.svc.ListByOuting -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participations)
}

// HandleListMine godoc
// @Summary      List the authenticated user's participations
// @Tags         participations
// @Produce      json
// @Success      200  {array}   domain.Participation
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /participations/mine [get]
// @Security     BearerAuth
func (h *ParticipationHandler) HandleListMine(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participations, err := h.svc.ListByUser(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("HandleListMine -> h.svc.ListByUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participations)
}

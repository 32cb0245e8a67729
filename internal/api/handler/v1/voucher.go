package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gathorapp/outings-api/internal/api/handler/v1/request"
	"github.com/gathorapp/outings-api/internal/api/handler/v1/response"
	"github.com/gathorapp/outings-api/internal/domain"
	"github.com/gathorapp/outings-api/internal/service"
)

type VoucherService interface {
	ListByUser(ctx context.Context, userID uint) ([]domain.Voucher, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]domain.Voucher, error)
	Redeem(ctx context.Context, code string, businessUserID uint) (domain.Voucher, error)
	CreateReward(ctx context.Context, reward domain.Reward, eventBusinessID uint) (domain.Reward, error)
	ListRewardsByEvent(ctx context.Context, eventID uint) ([]domain.Reward, error)
}

type VoucherHandler struct {
	svc       VoucherService
	outingSvc OutingService
	uSvc      UserService
}

func NewVoucherHandler(svc VoucherService, outingSvc OutingService, uSvc UserService) *VoucherHandler {
	return &VoucherHandler{
		svc:       svc,
		outingSvc: outingSvc,
		uSvc:      uSvc,
	}
}

// HandleListVouchers godoc
// @Summary      List the authenticated user's vouchers
// @Tags         vouchers
// @Produce      json
// @Param        active  query     bool  false  "only active vouchers"
// @Success      200     {array}   domain.Voucher
// @Failure      401     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /vouchers [get]
// @Security     BearerAuth
func (h *VoucherHandler) HandleListVouchers(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var (
		vouchers []domain.Voucher
		err      error
	)
	if ctx.Query("active") == "true" {
		vouchers, err = h.svc.ListActiveByUser(ctx.Request.Context(), user.ID)
	} else {
		vouchers, err = h.svc.ListByUser(ctx.Request.Context(), user.ID)
	}
	if err != nil {
		err = fmt.Errorf("HandleListVouchers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, vouchers)
}

// HandleRedeemVoucher godoc
// @Summary      Redeem a voucher by code
// @Description  Business-only. The voucher must belong to one of the caller's rewards and still be active.
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Param        request  body      request.RedeemVoucherRequest  true  "voucher code"
// @Success      200      {object}  domain.Voucher
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /vouchers/redeem [post]
// @Security     BearerAuth
func (h *VoucherHandler) HandleRedeemVoucher(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RedeemVoucherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	voucher, err := h.svc.Redeem(ctx.Request.Context(), req.Code, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVoucherNotFound):
			response.RenderErr(ctx, response.ErrNotFound("voucher", "code", req.Code))
		case errors.Is(err, service.ErrWrongBusiness):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrVoucherNotRedeemable):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("HandleRedeemVoucher -> h.svc.Redeem -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, voucher)
}

// HandleCreateReward godoc
// @Summary      Attach a reward to an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                          true  "event ID"
// @Param        request  body      request.CreateRewardRequest  true  "reward details"
// @Success      201      {object}  domain.Reward
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/rewards [post]
// @Security     BearerAuth
func (h *VoucherHandler) HandleCreateReward(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateRewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.outingSvc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("HandleCreateReward -> h.outingSvc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	reward, err := h.svc.CreateReward(ctx.Request.Context(), domain.Reward{
		Title:                req.Title,
		Description:          req.Description,
		RequiredParticipants: req.RequiredParticipants,
		EventID:              event.ID,
		BusinessID:           user.ID,
	}, event.BusinessID)
	if err != nil {
		if errors.Is(err, service.ErrWrongBusiness) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("HandleCreateReward -> h.svc.CreateReward -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, reward)
}

// HandleListRewards godoc
// @Summary      List rewards attached to an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200      {array}   domain.Reward
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/rewards [get]
// @Security     BearerAuth
func (h *VoucherHandler) HandleListRewards(ctx *gin.Context) {
	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.outingSvc.GetEvent(ctx.Request.Context(), eventID); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("HandleListRewards -> h.outingSvc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	rewards, err := h.svc.ListRewardsByEvent(ctx.Request.Context(), eventID)
	if err != nil {
		err = fmt.Errorf("HandleListRewards -> h.svc.ListRewardsByEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rewards)
}

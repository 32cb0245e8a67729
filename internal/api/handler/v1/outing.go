package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gathorapp/outings-api/internal/api/handler/v1/request"
	"github.com/gathorapp/outings-api/internal/api/handler/v1/response"
	"github.com/gathorapp/outings-api/internal/domain"
	"github.com/gathorapp/outings-api/internal/service"
)

type OutingService interface {
	CreateOuting(ctx context.Context, outing domain.Outing) (domain.Outing, error)
	GetOuting(ctx context.Context, id uint) (domain.Outing, error)
	ListOutings(ctx context.Context) ([]domain.Outing, error)
	ListByOrganizer(ctx context.Context, organizerID uint) ([]domain.Outing, error)
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

type OutingHandler struct {
	svc  OutingService
	uSvc UserService
}

func NewOutingHandler(svc OutingService, uSvc UserService) *OutingHandler {
	return &OutingHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateOuting godoc
// @Summary      Create a new outing
// @Tags         outings
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateOutingRequest  true  "outing details"
// @Success      201      {object}  domain.Outing
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /outings [post]
// @Security     BearerAuth
func (h *OutingHandler) HandleCreateOuting(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateOutingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	outingDate, err := time.Parse(time.RFC3339, req.OutingDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid outing_date: %v", err)))
		return
	}

	outing, err := h.svc.CreateOuting(ctx.Request.Context(), domain.Outing{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		OutingDate:      outingDate,
		MaxParticipants: req.MaxParticipants,
		OrganizerID:     user.ID,
		EventID:         req.EventID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMaxParticipantsLimit):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", *req.EventID))
		default:
			err = fmt.Errorf("HandleCreateOuting -> h.svc.CreateOuting -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, outing)
}

// HandleGetOuting godoc
// @Summary      Get an outing by ID
// @Tags         outings
// @Produce      json
// @Param        outingID  path      int  true  "outing ID"
// @Success      200       {object}  domain.Outing
// @Failure      400       {object}  response.Err
// @Failure      401       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /outings/{outingID} [get]
// @Security     BearerAuth
func (h *OutingHandler) HandleGetOuting(ctx *gin.Context) {
	outingID, respErr := parseUintParam(ctx, "outingID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	outing, err := h.svc.GetOuting(ctx.Request.Context(), outingID)
	if err != nil {
		if errors.Is(err, service.ErrOutingNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("outing", "ID", outingID))
			return
		}

		err = fmt.Errorf("HandleGetOuting -> h.svc.GetOuting -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, outing)
}

// HandleListOutings godoc
// @Summary      List all outings
// @Tags         outings
// @Produce      json
// @Success      200  {array}   domain.Outing
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /outings [get]
// @Security     BearerAuth
func (h *OutingHandler) HandleListOutings(ctx *gin.Context) {
	outings, err := h.svc.ListOutings(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleListOutings -> h.svc.ListOutings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, outings)
}

// HandleListMyOutings godoc
// @Summary      List outings organized by the authenticated user
// @Tags         outings
// @Produce      json
// @Success      200  {array}   domain.Outing
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /outings/mine [get]
// @Security     BearerAuth
func (h *OutingHandler) HandleListMyOutings(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	outings, err := h.svc.ListByOrganizer(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("HandleListMyOutings -> h.svc.ListByOrganizer -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, outings)
}

// HandleCreateEvent godoc
// @Summary      Create a business event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "event details"
// @Success      201      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *OutingHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid starts_at: %v", err)))
		return
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid ends_at: %v", err)))
		return
	}
	if !endsAt.After(startsAt) {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("ends_at must be after starts_at")))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), domain.Event{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		BusinessID:  user.ID,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotBusiness) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleListEvents godoc
// @Summary      List all events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [get]
// @Security     BearerAuth
func (h *OutingHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.ListEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

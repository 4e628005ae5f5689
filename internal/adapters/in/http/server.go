// Package http exposes the fulfillment core over REST. Handlers translate
// requests into commands and queries; every state-changing route resolves the
// authenticated actor first and passes it into the command explicitly.
package http

import (
	"errors"
	"net/http"

	"grocery/internal/core/application/usecases/commands"
	"grocery/internal/core/application/usecases/queries"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/core/ports"
	"grocery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP surface of the fulfillment core.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	claimOrderHandler       commands.ClaimOrderCommandHandler
	startShoppingHandler    commands.StartShoppingCommandHandler
	submitReceiptHandler    commands.SubmitReceiptCommandHandler
	reviewReceiptHandler    commands.ReviewReceiptCommandHandler
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler
	cancelOrderHandler      commands.CancelOrderCommandHandler

	// Query handlers
	getOrderHandler           queries.GetOrderQueryHandler
	getAuditTrailHandler      queries.GetAuditTrailQueryHandler
	getClaimableOrdersHandler queries.GetClaimableOrdersQueryHandler

	// Receipt images are stored before the submission command runs
	images ports.ImageStore
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	claimOrderHandler commands.ClaimOrderCommandHandler,
	startShoppingHandler commands.StartShoppingCommandHandler,
	submitReceiptHandler commands.SubmitReceiptCommandHandler,
	reviewReceiptHandler commands.ReviewReceiptCommandHandler,
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getAuditTrailHandler queries.GetAuditTrailQueryHandler,
	getClaimableOrdersHandler queries.GetClaimableOrdersQueryHandler,
	images ports.ImageStore,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		claimOrderHandler:         claimOrderHandler,
		startShoppingHandler:      startShoppingHandler,
		submitReceiptHandler:      submitReceiptHandler,
		reviewReceiptHandler:      reviewReceiptHandler,
		completeDeliveryHandler:   completeDeliveryHandler,
		cancelOrderHandler:        cancelOrderHandler,
		getOrderHandler:           getOrderHandler,
		getAuditTrailHandler:      getAuditTrailHandler,
		getClaimableOrdersHandler: getClaimableOrdersHandler,
		images:                    images,
	}
}

// RegisterRoutes attaches all routes to the echo instance. The health probe
// stays outside the authenticated group.
func (s *Server) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1", auth)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/claimable", s.GetClaimableOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/audit", s.GetAuditTrail)
	api.POST("/orders/:id/accept", s.AcceptOrder)
	api.PATCH("/orders/:id/status", s.PatchOrderStatus)
	api.POST("/orders/:id/approve-receipt", s.ApproveReceipt)
	api.POST("/orders/:id/reject-receipt", s.RejectReceipt)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/receipts", s.SubmitReceipt)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	var body NewOrder
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	items, err := toItems(body.Items)
	if err != nil {
		return badRequest(ctx, "Invalid order items: "+err.Error())
	}

	estimate, err := kernel.MoneyFromMinor(body.EstimateMinor)
	if err != nil {
		return badRequest(ctx, "Invalid estimate: "+err.Error())
	}

	policy, err := order.ReceiptPolicyFromString(body.ReceiptPolicy)
	if err != nil {
		return badRequest(ctx, "Invalid receipt policy: "+err.Error())
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), actor, items,
		estimate, policy, body.DeliveryAddress)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	placed, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrderState(placed))
}

// AcceptOrder handles POST /api/v1/orders/:id/accept - a shopper claims the order.
// A lost claim race responds 409 without mutating anything.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	actor, orderID, err := s.actorAndOrderID(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, actor)
	if err != nil {
		return badRequest(ctx, "Invalid claim: "+err.Error())
	}

	claimed, err := s.claimOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderState(claimed))
}

// PatchOrderStatus handles PATCH /api/v1/orders/:id/status - the bound
// shopper advances the order. Only the shopper-driven transitions are
// reachable here; receipt review has its own routes.
func (s *Server) PatchOrderStatus(ctx echo.Context) error {
	actor, orderID, err := s.actorAndOrderID(ctx)
	if err != nil {
		return err
	}

	var body OrderStatusPatch
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, err := order.StatusFromString(body.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+err.Error())
	}

	var updated *order.Order
	switch status {
	case order.Shopping:
		cmd, cmdErr := commands.NewStartShoppingCommand(orderID, actor)
		if cmdErr != nil {
			return badRequest(ctx, cmdErr.Error())
		}
		updated, err = s.startShoppingHandler.Handle(ctx.Request().Context(), cmd)
	case order.Delivered:
		cmd, cmdErr := commands.NewCompleteDeliveryCommand(orderID, actor)
		if cmdErr != nil {
			return badRequest(ctx, cmdErr.Error())
		}
		updated, err = s.completeDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	default:
		return badRequest(ctx, "Status "+body.Status+" cannot be requested directly")
	}
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderState(updated))
}

// SubmitReceipt handles POST /api/v1/receipts - the bound shopper uploads a
// receipt image for an order. The image lands in object storage first; the
// submission command then runs against the stored reference, so a failed
// submission never leaves the image unreferenced for long.
func (s *Server) SubmitReceipt(ctx echo.Context) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	orderID, err := kernel.UUIDFromString(ctx.FormValue("order_id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		return badRequest(ctx, "Missing receipt image")
	}

	src, err := file.Open()
	if err != nil {
		return badRequest(ctx, "Unreadable receipt image")
	}
	defer src.Close()

	imageRef, err := s.images.Put(ctx.Request().Context(), file.Filename,
		file.Header.Get(echo.HeaderContentType), file.Size, src)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to store receipt image",
		})
	}

	cmd, err := commands.NewSubmitReceiptCommand(orderID, actor, imageRef)
	if err != nil {
		return badRequest(ctx, "Invalid submission: "+err.Error())
	}

	submitted, err := s.submitReceiptHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrderState(submitted))
}

// ApproveReceipt handles POST /api/v1/orders/:id/approve-receipt.
func (s *Server) ApproveReceipt(ctx echo.Context) error {
	actor, orderID, err := s.actorAndOrderID(ctx)
	if err != nil {
		return err
	}

	var body ReviewRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var correctedTotal *kernel.Money
	if body.CorrectedTotalMinor != nil {
		total, moneyErr := kernel.MoneyFromMinor(*body.CorrectedTotalMinor)
		if moneyErr != nil {
			return badRequest(ctx, "Invalid corrected total: "+moneyErr.Error())
		}
		correctedTotal = &total
	}

	cmd, err := commands.NewReviewReceiptCommand(orderID, actor,
		commands.VerdictApprove, "", correctedTotal)
	if err != nil {
		return badRequest(ctx, "Invalid review: "+err.Error())
	}

	reviewed, err := s.reviewReceiptHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderState(reviewed))
}

// RejectReceipt handles POST /api/v1/orders/:id/reject-receipt.
// The order returns to Shopping so the shopper can resubmit.
func (s *Server) RejectReceipt(ctx echo.Context) error {
	actor, orderID, err := s.actorAndOrderID(ctx)
	if err != nil {
		return err
	}

	var body ReviewRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewReviewReceiptCommand(orderID, actor,
		commands.VerdictReject, body.Reason, nil)
	if err != nil {
		return badRequest(ctx, "Invalid review: "+err.Error())
	}

	reviewed, err := s.reviewReceiptHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderState(reviewed))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	actor, orderID, err := s.actorAndOrderID(ctx)
	if err != nil {
		return err
	}

	var body CancelRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor, body.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid cancellation: "+err.Error())
	}

	cancelled, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderState(cancelled))
}

// GetOrder handles GET /api/v1/orders/:id - a full order snapshot including
// the active receipt.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	snapshot, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, snapshot)
}

// GetAuditTrail handles GET /api/v1/orders/:id/audit - the order's audit
// trail in chronological order.
func (s *Server) GetAuditTrail(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	query, err := queries.NewGetAuditTrailQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	trail, err := s.getAuditTrailHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, trail)
}

// GetClaimableOrders handles GET /api/v1/orders/claimable - the open orders
// a shopper can claim, oldest first.
func (s *Server) GetClaimableOrders(ctx echo.Context) error {
	query := queries.NewGetClaimableOrdersQuery()

	claimable, err := s.getClaimableOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, claimable)
}

// actorAndOrderID resolves the authenticated actor and the :id path param.
func (s *Server) actorAndOrderID(ctx echo.Context) (kernel.Actor, kernel.UUID, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, err
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	return actor, orderID, nil
}

// toItems converts request items into domain line items.
func toItems(items []NewOrderItem) ([]order.Item, error) {
	converted := make([]order.Item, 0, len(items))
	for _, line := range items {
		var priceMin, priceMax *kernel.Money
		if line.PriceMinMinor != nil {
			bound, err := kernel.MoneyFromMinor(*line.PriceMinMinor)
			if err != nil {
				return nil, err
			}
			priceMin = &bound
		}
		if line.PriceMaxMinor != nil {
			bound, err := kernel.MoneyFromMinor(*line.PriceMaxMinor)
			if err != nil {
				return nil, err
			}
			priceMax = &bound
		}

		item, err := order.NewItem(line.Name, line.Quantity, priceMin, priceMax)
		if err != nil {
			return nil, err
		}
		converted = append(converted, item)
	}
	return converted, nil
}

// badRequest responds with a 400 and the given message. The returned error
// is always non-nil so callers up the stack stop processing; the response is
// already committed, so echo will not write it twice.
func badRequest(ctx echo.Context, message string) error {
	if err := ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	}); err != nil {
		return err
	}
	return echo.ErrBadRequest
}

// domainError maps a use case error onto the HTTP status that matches its
// kind. Unrecognized errors are internal and deliberately unspecific.
func domainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code: http.StatusNotFound, Message: err.Error(),
		})
	case errors.Is(err, errs.ErrForbidden):
		return ctx.JSON(http.StatusForbidden, Error{
			Code: http.StatusForbidden, Message: err.Error(),
		})
	case errors.Is(err, errs.ErrAlreadyAssigned):
		return ctx.JSON(http.StatusConflict, Error{
			Code: http.StatusConflict, Message: err.Error(),
		})
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code: http.StatusBadRequest, Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code: http.StatusInternalServerError, Message: "Internal error",
		})
	}
}

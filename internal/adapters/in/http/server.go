package http

import (
	"context"
	"errors"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/generated/servers"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var _ servers.ServerInterface = (*Server)(nil)

type createOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
}

type populateOrdersHandler interface {
	Handle(ctx context.Context, cmd commands.PopulateOrdersCommand) (commands.PopulateOrdersResult, error)
}

type orderStatusHandler interface {
	Handle(ctx context.Context, query queries.GetOrderStatusQuery) (queries.GetOrderStatusQueryResponse, error)
}

type metricsHandler interface {
	Handle(ctx context.Context, query queries.GetMetricsQuery) (queries.GetMetricsQueryResponse, error)
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler    createOrderHandler
	populateOrdersHandler populateOrdersHandler

	// Query handlers
	orderStatusHandler orderStatusHandler
	metricsHandler     metricsHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler createOrderHandler,
	populateOrdersHandler populateOrdersHandler,
	orderStatusHandler orderStatusHandler,
	metricsHandler metricsHandler,
) *Server {
	return &Server{
		createOrderHandler:    createOrderHandler,
		populateOrdersHandler: populateOrdersHandler,
		orderStatusHandler:    orderStatusHandler,
		metricsHandler:        metricsHandler,
	}
}

// CreateOrder handles POST /orders - stores a new order and queues it for processing.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body servers.CreateOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{Error: "Invalid request body"})
	}

	amount, err := kernel.NewAmount(body.TotalAmount)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{Error: err.Error()})
	}

	cmd, err := commands.NewCreateOrderCommand(body.OrderId, body.UserId, body.ItemIds, amount)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{Error: err.Error()})
	}

	o, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return ctx.JSON(statusFor(err), servers.Error{Error: err.Error()})
	}

	return ctx.JSON(http.StatusCreated, servers.OrderCreated{
		Message: "Order created",
		OrderId: o.OrderID(),
	})
}

// GetOrderStatus handles GET /orders/{order_id}.
func (s *Server) GetOrderStatus(ctx echo.Context, orderID string) error {
	query, err := queries.NewGetOrderStatusQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{Error: err.Error()})
	}

	resp, err := s.orderStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, servers.Error{Error: "Order not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, servers.Error{Error: "Failed to retrieve order"})
	}

	return ctx.JSON(http.StatusOK, toOrderStatus(resp))
}

// GetMetrics handles GET /orders/metrics.
func (s *Server) GetMetrics(ctx echo.Context, params servers.GetMetricsParams) error {
	includeOrderIDs := params.GetOrderIds != nil && *params.GetOrderIds

	resp, err := s.metricsHandler.Handle(ctx.Request().Context(), queries.NewGetMetricsQuery(includeOrderIDs))
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, servers.Error{Error: "Failed to compute metrics"})
	}

	return ctx.JSON(http.StatusOK, servers.Metrics{
		TotalOrders:                       resp.TotalOrders,
		AverageProcessingTime:             resp.AverageProcessingTime,
		AverageProcessingTimeFromCreation: resp.AverageProcessingTimeFromCreation,
		Pending:                           toBucket(resp.Pending),
		Processing:                        toBucket(resp.Processing),
		Completed:                         toBucket(resp.Completed),
	})
}

// PopulateOrders handles POST /orders/populate - creates a batch of simulated orders.
func (s *Server) PopulateOrders(ctx echo.Context) error {
	var body servers.PopulateOrdersJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{Error: "Invalid request body"})
	}

	var batchID string
	if body.BatchId != nil {
		batchID = *body.BatchId
	}

	cmd, err := commands.NewPopulateOrdersCommand(body.TotalEntries, batchID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{Error: err.Error()})
	}

	result, err := s.populateOrdersHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return ctx.JSON(statusFor(err), servers.Error{Error: err.Error()})
	}

	failures := result.Errors
	if failures == nil {
		failures = []string{}
	}

	return ctx.JSON(http.StatusCreated, servers.PopulateResult{
		BatchId:      result.BatchID,
		TotalEntries: result.TotalEntries,
		SuccessCount: result.SuccessCount,
		FailureCount: result.FailureCount,
		Errors:       failures,
	})
}

// statusFor maps use case errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, order.ErrDuplicateOrderID),
		errors.Is(err, commands.ErrInvalidBatchSize),
		errors.Is(err, commands.ErrBatchCollision),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, ports.ErrQueueFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func toOrderStatus(resp queries.GetOrderStatusQueryResponse) servers.OrderStatus {
	return servers.OrderStatus{
		OrderId:             resp.OrderID,
		UserId:              resp.UserID,
		ItemIds:             resp.ItemIDs,
		TotalAmount:         resp.TotalAmount.InexactFloat64(),
		Status:              servers.OrderStatusStatus(resp.Status),
		CreatedAt:           resp.CreatedAt,
		ProcessingStartedAt: resp.ProcessingStartedAt,
		CompletedAt:         resp.CompletedAt,
		PendingDuration:     seconds(resp.PendingDuration),
		ProcessingDuration:  seconds(resp.ProcessingDuration),
		TotalDuration:       seconds(resp.TotalDuration),
	}
}

func toBucket(b queries.StatusBucket) servers.StatusBucket {
	ids := b.OrderIDs
	if ids == nil {
		ids = []string{}
	}
	return servers.StatusBucket{Count: b.Count, OrderIds: ids}
}

// Package servers holds the transport types and echo routing for the operations
// described in api/openapi.yaml, laid out the way oapi-codegen emits them.
package servers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

// Defines values for OrderStatusStatus.
const (
	Completed  OrderStatusStatus = "Completed"
	Pending    OrderStatusStatus = "Pending"
	Processing OrderStatusStatus = "Processing"
)

// Error defines model for Error.
type Error struct {
	Error string `json:"error"`
}

// Metrics defines model for Metrics.
type Metrics struct {
	AverageProcessingTime             float64      `json:"average_processing_time"`
	AverageProcessingTimeFromCreation float64      `json:"average_processing_time_from_creation"`
	Completed                         StatusBucket `json:"completed"`
	Pending                           StatusBucket `json:"pending"`
	Processing                        StatusBucket `json:"processing"`
	TotalOrders                       int64        `json:"total_orders"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	ItemIds     []int64         `json:"item_ids"`
	OrderId     string          `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	UserId      int64           `json:"user_id"`
}

// OrderCreated defines model for OrderCreated.
type OrderCreated struct {
	Message string `json:"message"`
	OrderId string `json:"order_id"`
}

// OrderStatus defines model for OrderStatus.
type OrderStatus struct {
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	ItemIds     []int64    `json:"item_ids"`
	OrderId     string     `json:"order_id"`

	// PendingDuration Seconds between creation and processing start.
	PendingDuration *float64 `json:"pending_duration,omitempty"`

	// ProcessingDuration Seconds between processing start and completion.
	ProcessingDuration  *float64          `json:"processing_duration,omitempty"`
	ProcessingStartedAt *time.Time        `json:"processing_started_at"`
	Status              OrderStatusStatus `json:"status"`

	// TotalDuration Seconds between creation and completion.
	TotalDuration *float64 `json:"total_duration,omitempty"`
	TotalAmount   float64  `json:"total_amount"`
	UserId        int64    `json:"user_id"`
}

// OrderStatusStatus defines model for OrderStatus.Status.
type OrderStatusStatus string

// PopulateRequest defines model for PopulateRequest.
type PopulateRequest struct {
	BatchId      *string `json:"batch_id,omitempty"`
	TotalEntries int     `json:"total_entries"`
}

// PopulateResult defines model for PopulateResult.
type PopulateResult struct {
	BatchId      string   `json:"batch_id"`
	Errors       []string `json:"errors"`
	FailureCount int      `json:"failure_count"`
	SuccessCount int      `json:"success_count"`
	TotalEntries int      `json:"total_entries"`
}

// StatusBucket defines model for StatusBucket.
type StatusBucket struct {
	Count    int64    `json:"count"`
	OrderIds []string `json:"order_ids"`
}

// GetMetricsParams defines parameters for GetMetrics.
type GetMetricsParams struct {
	GetOrderIds *bool `form:"getOrderIds,omitempty" json:"getOrderIds,omitempty"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// PopulateOrdersJSONRequestBody defines body for PopulateOrders for application/json ContentType.
type PopulateOrdersJSONRequestBody = PopulateRequest

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Create an order
	// (POST /orders)
	CreateOrder(ctx echo.Context) error
	// Aggregate order metrics
	// (GET /orders/metrics)
	GetMetrics(ctx echo.Context, params GetMetricsParams) error
	// Create a batch of simulated orders
	// (POST /orders/populate)
	PopulateOrders(ctx echo.Context) error
	// Order status
	// (GET /orders/{order_id})
	GetOrderStatus(ctx echo.Context, orderId string) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

// GetMetrics converts echo context to params.
func (w *ServerInterfaceWrapper) GetMetrics(ctx echo.Context) error {
	var err error

	var params GetMetricsParams

	err = runtime.BindQueryParameter("form", true, false, "getOrderIds", ctx.QueryParams(), &params.GetOrderIds)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter getOrderIds: %s", err))
	}

	return w.Handler.GetMetrics(ctx, params)
}

// PopulateOrders converts echo context to params.
func (w *ServerInterfaceWrapper) PopulateOrders(ctx echo.Context) error {
	return w.Handler.PopulateOrders(ctx)
}

// GetOrderStatus converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrderStatus(ctx echo.Context) error {
	var err error

	var orderId string

	err = runtime.BindStyledParameterWithOptions("simple", "order_id", ctx.Param("order_id"), &orderId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter order_id: %s", err))
	}

	return w.Handler.GetOrderStatus(ctx, orderId)
}

// EchoRouter is the subset of echo.Echo and echo.Group used for registration.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the paths.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/orders/metrics", wrapper.GetMetrics)
	router.POST(baseURL+"/orders/populate", wrapper.PopulateOrders)
	router.GET(baseURL+"/orders/:order_id", wrapper.GetOrderStatus)
}

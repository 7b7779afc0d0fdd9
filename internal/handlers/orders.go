package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tienda-backend/internal/sales"
	"tienda-backend/internal/store"
)

/* =========================
   REQUEST DTOs
========================= */

type createOrderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unitPrice" binding:"min=0"`
}

type shippingRequest struct {
	RecipientName  string `json:"recipientName"`
	Phone          string `json:"phone"`
	StreetAddress  string `json:"streetAddress"`
	PostalCode     string `json:"postalCode"`
	Neighborhood   string `json:"neighborhood"`
	City           string `json:"city"`
	AdditionalInfo string `json:"additionalInfo"`
}

type createOrderRequest struct {
	Items              []createOrderItemRequest `json:"items" binding:"required,dive"`
	CustomerName       string                   `json:"customerName"`
	CustomerEmail      string                   `json:"customerEmail"`
	CustomerPhone      string                   `json:"customerPhone"`
	DeliveryMethodCode string                   `json:"deliveryMethodCode" binding:"required"`
	SelectedAddressID  string                   `json:"selectedAddressId"`
	Shipping           *shippingRequest         `json:"shipping"`
	CouponCode         string                   `json:"couponCode"`
	DiscountRate       float64                  `json:"discountRate"`
	Notes              string                   `json:"notes"`
}

type changeStatusRequest struct {
	StatusID string `json:"statusId" binding:"required"`
	Notes    string `json:"notes"`
}

type selectPaymentRequest struct {
	PaymentMethodCode string `json:"paymentMethodCode" binding:"required"`
	Notes             string `json:"notes"`
}

type paymentWebhookRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	Status    string `json:"status" binding:"required"`
	PaymentID string `json:"paymentId"`
}

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(db *mongo.Database, svc *sales.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var userID *primitive.ObjectID
		if value, ok := c.Get("userId"); ok {
			id := value.(primitive.ObjectID)
			userID = &id
		}

		input := sales.CreateOrderInput{
			CustomerName:       req.CustomerName,
			CustomerEmail:      req.CustomerEmail,
			CustomerPhone:      req.CustomerPhone,
			DeliveryMethodCode: req.DeliveryMethodCode,
			SelectedAddressID:  req.SelectedAddressID,
			CouponCode:         req.CouponCode,
			DiscountRate:       req.DiscountRate,
			Notes:              req.Notes,
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, sales.CreateOrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		if req.Shipping != nil {
			input.Shipping = &sales.ShippingInput{
				RecipientName:  req.Shipping.RecipientName,
				Phone:          req.Shipping.Phone,
				StreetAddress:  req.Shipping.StreetAddress,
				PostalCode:     req.Shipping.PostalCode,
				Neighborhood:   req.Shipping.Neighborhood,
				City:           req.Shipping.City,
				AdditionalInfo: req.Shipping.AdditionalInfo,
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		order, err := svc.CreateOrder(ctx, input, userID)
		if err != nil {
			respondSalesError(c, route, err)
			return
		}

		if userID != nil {
			log.Println("[ORDER] [INFO] order created for user:", userID.Hex())
		} else {
			log.Println("[ORDER] [INFO] guest order created")
		}

		c.JSON(http.StatusCreated, gin.H{"order": order})
	}
}

/* =========================
   STATUS & PAYMENT
========================= */

func ChangeOrderStatus(svc *sales.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /api/orders/:id/status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var req changeStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		statusID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.StatusID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid status id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := svc.ChangeStatus(ctx, orderID, statusID, req.Notes)
		if err != nil {
			respondSalesError(c, route, err)
			return
		}

		log.Println("[ORDER] [INFO] status changed for order:", orderID.Hex())
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

func SelectPaymentMethod(svc *sales.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders/:id/payment-method"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var req selectPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := svc.SelectPaymentMethod(ctx, orderID, req.PaymentMethodCode, req.Notes)
		if err != nil {
			respondSalesError(c, route, err)
			return
		}

		log.Println("[PAYMENT] [INFO] payment method selected for order:", orderID.Hex())
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// PaymentWebhook receives gateway notifications. Only approved
// payments move the order; everything else is acknowledged and logged
// so the gateway stops retrying.
func PaymentWebhook(svc *sales.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/payments/webhook"
		defer handlePanic(c, route)

		var req paymentWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		orderID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.OrderID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		if !strings.EqualFold(req.Status, "approved") {
			log.Println("[PAYMENT] [INFO] ignoring webhook with status:", req.Status)
			c.JSON(http.StatusOK, gin.H{"message": "ignored"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := svc.ConfirmGatewayPayment(ctx, orderID, req.PaymentID)
		if err != nil {
			respondSalesError(c, route, err)
			return
		}

		log.Println("[PAYMENT] [INFO] gateway payment confirmed for order:", orderID.Hex())
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

/* =========================
   LISTING
========================= */

func GetOrders(orders *store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		filter := bson.M{}
		if statusID := strings.TrimSpace(c.Query("statusId")); statusID != "" {
			id, err := primitive.ObjectIDFromHex(statusID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid statusId")
				return
			}
			filter["statusId"] = id
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, total, err := orders.ListOrders(ctx, filter, page, limit)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":  list,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

func GetOrder(orders *store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := orders.FindOrderByID(ctx, orderID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if order == nil {
			respondWithError(c, http.StatusNotFound, route, "Orden no encontrada")
			return
		}

		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

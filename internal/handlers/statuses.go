package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tienda-backend/internal/sales"
)

type statusRequest struct {
	Code            string   `json:"code" binding:"required,min=2"`
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	Color           string   `json:"color"`
	Order           int      `json:"order" binding:"min=0"`
	IsActive        *bool    `json:"isActive"`
	IsDefault       bool     `json:"isDefault"`
	CanTransitionTo []string `json:"canTransitionTo"`
}

func (r statusRequest) toInput() sales.StatusInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return sales.StatusInput{
		Code:            r.Code,
		Name:            r.Name,
		Description:     r.Description,
		Color:           r.Color,
		Order:           r.Order,
		IsActive:        active,
		IsDefault:       r.IsDefault,
		CanTransitionTo: r.CanTransitionTo,
	}
}

func GetOrderStatuses(svc *sales.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/order-statuses"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		statuses, err := svc.ListStatuses(ctx)
		if err != nil {
			respondSalesError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": statuses})
	}
}

func GetOrderStatus(svc *sales.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/order-statuses/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status, err := svc.GetStatus(ctx, id)
		if err != nil {
			respondSalesError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": status})
	}
}

func CreateOrderStatus(svc *sales.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order-statuses"
		defer handlePanic(c, route)

		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status, err := svc.CreateStatus(ctx, req.toInput())
		if err != nil {
			respondSalesError(c, route, err)
			return
		}

		log.Println("[STATUS] [INFO] status created:", status.Code)
		c.JSON(http.StatusCreated, gin.H{"status": status})
	}
}

func UpdateOrderStatus(svc *sales.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/order-statuses/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status, err := svc.EditStatus(ctx, id, req.toInput())
		if err != nil {
			respondSalesError(c, route, err)
			return
		}

		log.Println("[STATUS] [INFO] status updated:", status.Code)
		c.JSON(http.StatusOK, gin.H{"status": status})
	}
}

func SetDefaultOrderStatus(svc *sales.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order-statuses/:id/default"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := svc.SetDefaultStatus(ctx, id); err != nil {
			respondSalesError(c, route, err)
			return
		}

		log.Println("[STATUS] [INFO] default status set:", id.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "default status updated"})
	}
}

func DeleteOrderStatus(svc *sales.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/order-statuses/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := svc.RemoveStatus(ctx, id); err != nil {
			respondSalesError(c, route, err)
			return
		}

		log.Println("[STATUS] [INFO] status deleted:", id.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "status deleted"})
	}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/store"
)

func GetNeighborhoods(reference *store.Reference) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/neighborhoods"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		neighborhoods, err := reference.ListNeighborhoods(ctx)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": neighborhoods})
	}
}

func GetDeliveryMethods(reference *store.Reference) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/delivery-methods"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		methods, err := reference.ListDeliveryMethods(ctx)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": methods})
	}
}

func GetPaymentMethods(reference *store.Reference) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/payment-methods"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		methods, err := reference.ListPaymentMethods(ctx)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": methods})
	}
}

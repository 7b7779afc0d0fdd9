package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tienda-backend/internal/models"
	"tienda-backend/internal/store"
)

type addressRequest struct {
	RecipientName  string `json:"recipientName" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	StreetAddress  string `json:"streetAddress" binding:"required"`
	PostalCode     string `json:"postalCode"`
	Neighborhood   string `json:"neighborhood" binding:"required"`
	City           string `json:"city"`
	AdditionalInfo string `json:"additionalInfo"`
	Alias          string `json:"alias"`
	IsDefault      bool   `json:"isDefault"`
}

func customerFromContext(c *gin.Context, customers *store.Customers) (*models.Customer, bool) {
	userIDValue, ok := c.Get("userId")
	if !ok {
		log.Println("[ADDRESS] [ERROR] userId missing in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	userID := userIDValue.(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	customer, err := customers.FindByUserID(ctx, userID)
	if err != nil {
		log.Println("[ADDRESS] [ERROR] customer lookup failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return nil, false
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return nil, false
	}
	return customer, true
}

func GetAddresses(customers *store.Customers) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, ok := customerFromContext(c, customers)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"addresses": customer.Addresses})
	}
}

func CreateAddress(customers *store.Customers, reference *store.Reference) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, ok := customerFromContext(c, customers)
		if !ok {
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		address, ok := buildAddress(c, ctx, reference, req)
		if !ok {
			return
		}
		address.ID = uuid.NewString()

		if req.IsDefault {
			for i := range customer.Addresses {
				customer.Addresses[i].IsDefault = false
			}
		}
		if len(customer.Addresses) == 0 {
			address.IsDefault = true
		}

		customer.Addresses = append(customer.Addresses, address)
		if err := customers.SaveAddresses(ctx, customer.ID, customer.Addresses); err != nil {
			log.Println("[ADDRESS] [ERROR] insert address failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[ADDRESS] [INFO] address created:", address.ID)
		c.JSON(http.StatusCreated, gin.H{"address": address})
	}
}

func UpdateAddress(customers *store.Customers, reference *store.Reference) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, ok := customerFromContext(c, customers)
		if !ok {
			return
		}

		addressID := strings.TrimSpace(c.Param("id"))
		if addressID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		index := -1
		for i, addr := range customer.Addresses {
			if addr.ID == addressID {
				index = i
				break
			}
		}
		if index == -1 {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		address, ok := buildAddress(c, ctx, reference, req)
		if !ok {
			return
		}
		address.ID = addressID

		if req.IsDefault {
			for i := range customer.Addresses {
				customer.Addresses[i].IsDefault = false
			}
		}
		customer.Addresses[index] = address

		if err := customers.SaveAddresses(ctx, customer.ID, customer.Addresses); err != nil {
			log.Println("[ADDRESS] [ERROR] update address failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[ADDRESS] [INFO] address updated:", addressID)
		c.JSON(http.StatusOK, gin.H{"address": address})
	}
}

func DeleteAddress(customers *store.Customers) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, ok := customerFromContext(c, customers)
		if !ok {
			return
		}

		addressID := strings.TrimSpace(c.Param("id"))
		if addressID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
			return
		}

		updated := make([]models.Address, 0, len(customer.Addresses))
		found := false
		for _, addr := range customer.Addresses {
			if addr.ID == addressID {
				found = true
				continue
			}
			updated = append(updated, addr)
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := customers.SaveAddresses(ctx, customer.ID, updated); err != nil {
			log.Println("[ADDRESS] [ERROR] delete address failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[ADDRESS] [INFO] address deleted:", addressID)
		c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
	}
}

// buildAddress validates the request against the neighborhood catalog
// and derives the city when the client omitted it.
func buildAddress(c *gin.Context, ctx context.Context, reference *store.Reference, req addressRequest) (models.Address, bool) {
	neighborhood, err := reference.FindNeighborhoodByName(ctx, req.Neighborhood)
	if err != nil {
		log.Println("[ADDRESS] [ERROR] neighborhood lookup failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return models.Address{}, false
	}
	if neighborhood == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Barrio '" + strings.TrimSpace(req.Neighborhood) + "' no encontrado"})
		return models.Address{}, false
	}

	city := strings.TrimSpace(req.City)
	if city == "" {
		city = neighborhood.City
	}

	return models.Address{
		RecipientName:  strings.TrimSpace(req.RecipientName),
		Phone:          strings.TrimSpace(req.Phone),
		StreetAddress:  strings.TrimSpace(req.StreetAddress),
		PostalCode:     strings.TrimSpace(req.PostalCode),
		Neighborhood:   neighborhood.Name,
		City:           city,
		AdditionalInfo: strings.TrimSpace(req.AdditionalInfo),
		Alias:          strings.TrimSpace(req.Alias),
		IsDefault:      req.IsDefault,
	}, true
}

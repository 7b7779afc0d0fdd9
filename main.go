package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/config"
	"tienda-backend/internal/database"
	"tienda-backend/internal/handlers"
	"tienda-backend/internal/middleware"
	"tienda-backend/internal/notify"
	"tienda-backend/internal/sales"
	"tienda-backend/internal/store"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureStatusIndexes(db); err != nil {
		log.Printf("⚠️ status index warning: %v", err)
	}
	if err := database.EnsureCustomerIndexes(db); err != nil {
		log.Printf("⚠️ customer index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}
	if err := database.EnsureSeedData(db); err != nil {
		log.Printf("⚠️ seed warning: %v", err)
	}

	products := store.NewProducts(db)
	customers := store.NewCustomers(db)
	coupons := store.NewCoupons(db)
	reference := store.NewReference(db)
	statuses := store.NewStatuses(db)
	orders := store.NewOrders(db)

	svc := sales.New(sales.Config{
		Products:         products,
		Customers:        customers,
		Coupons:          coupons,
		Deliveries:       reference,
		Payments:         reference,
		Barrios:          reference,
		Statuses:         statuses,
		Orders:           orders,
		Notifier:         notify.NewTelegram(config.AppEnv.TelegramBotToken, config.AppEnv.TelegramChatID),
		CashCeiling:      config.AppEnv.CashCeiling,
		GatewayMinAmount: config.AppEnv.GatewayMinAmount,
	})

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(db))
	r.POST("/auth/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))

	r.GET("/api/products", handlers.GetProducts(products))
	r.GET("/api/neighborhoods", handlers.GetNeighborhoods(reference))
	r.GET("/api/delivery-methods", handlers.GetDeliveryMethods(reference))
	r.GET("/api/payment-methods", handlers.GetPaymentMethods(reference))

	r.POST("/api/orders", middleware.OptionalUserAuth(config.AppEnv.JWTSecret), handlers.CreateOrder(db, svc))
	r.POST("/api/orders/:id/payment-method", middleware.OptionalUserAuth(config.AppEnv.JWTSecret), handlers.SelectPaymentMethod(svc))
	r.POST("/api/payments/webhook", handlers.PaymentWebhook(svc))

	user := r.Group("/user")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/addresses", handlers.GetAddresses(customers))
		user.POST("/addresses", handlers.CreateAddress(customers, reference))
		user.PUT("/addresses/:id", handlers.UpdateAddress(customers, reference))
		user.DELETE("/addresses/:id", handlers.DeleteAddress(customers))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/orders", handlers.GetOrders(orders))
		admin.GET("/orders/:id", handlers.GetOrder(orders))
		admin.PATCH("/orders/:id/status", handlers.ChangeOrderStatus(svc))

		admin.GET("/order-statuses", handlers.GetOrderStatuses(svc))
		admin.GET("/order-statuses/:id", handlers.GetOrderStatus(svc))
		admin.POST("/order-statuses", handlers.CreateOrderStatus(svc))
		admin.PUT("/order-statuses/:id", handlers.UpdateOrderStatus(svc))
		admin.POST("/order-statuses/:id/default", handlers.SetDefaultOrderStatus(svc))
		admin.DELETE("/order-statuses/:id", handlers.DeleteOrderStatus(svc))

		admin.POST("/products", handlers.CreateProduct(products))
		admin.PUT("/products/:id", handlers.UpdateProduct(products))
		admin.DELETE("/products/:id", handlers.DeleteProduct(products))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

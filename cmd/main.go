package main

import (
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/harborcre/api-brokerage/internal/activity"
	"github.com/harborcre/api-brokerage/internal/auth"
	"github.com/harborcre/api-brokerage/internal/broker"
	"github.com/harborcre/api-brokerage/internal/client"
	"github.com/harborcre/api-brokerage/internal/commission"
	"github.com/harborcre/api-brokerage/internal/contact"
	"github.com/harborcre/api-brokerage/internal/deal"
	"github.com/harborcre/api-brokerage/internal/email"
	"github.com/harborcre/api-brokerage/internal/httpmetrics"
	"github.com/harborcre/api-brokerage/internal/maptile"
	"github.com/harborcre/api-brokerage/internal/payment"
	"github.com/harborcre/api-brokerage/internal/property"
	"github.com/harborcre/api-brokerage/internal/quickbooks"
	"github.com/harborcre/api-brokerage/internal/sitesubmit"
	"github.com/harborcre/api-brokerage/internal/utils/db"

	"github.com/gorilla/mux"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file, using process environment")
	}
	if os.Getenv("ENV") == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	gdb, err := db.GetDB()
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}

	if err := migrateAll(gdb); err != nil {
		logrus.WithError(err).Fatal("auto-migration failed")
	}

	// Redis backs the map tile cache; the API works without it.
	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	} else {
		logrus.Warn("REDIS_ADDR unset, map tile cache disabled")
	}
	tileCache := maptile.NewCache(rdb, maptile.DefaultTTL)

	// Handlers
	brokerHandler := broker.NewHandler(gdb)
	clientHandler := client.NewHandler(gdb)
	contactHandler := contact.NewHandler(gdb)
	propertyHandler := property.NewHandler(gdb, tileCache)
	dealHandler := deal.NewHandler(gdb)
	splitHandler := commission.NewHandler(gdb)
	paymentHandler := payment.NewHandler(gdb)
	activityHandler := activity.NewHandler(gdb)
	siteSubmitHandler := sitesubmit.NewHandler(gdb)
	mapHandler := maptile.NewHandler(gdb, tileCache)
	emailHandler := email.NewHandler(gdb, email.NewSenderFromEnv())
	qbClient := quickbooks.NewClientFromEnv(gdb)
	qbHandler := quickbooks.NewHandler(gdb, qbClient)

	// Background jobs
	c := cron.New()
	if _, err := c.AddFunc("15 2 * * *", paymentHandler.SweepOverdue); err != nil {
		logrus.WithError(err).Fatal("could not schedule overdue sweep")
	}
	if _, err := c.AddFunc("@every 30m", qbClient.RefreshJob); err != nil {
		logrus.WithError(err).Fatal("could not schedule quickbooks refresh")
	}
	c.Start()
	defer c.Stop()

	// Router
	r := mux.NewRouter()
	r.Use(httpmetrics.Middleware)
	r.Handle("/metrics", httpmetrics.Handler()).Methods("GET")

	// Public routes
	r.HandleFunc("/login", brokerHandler.Login).Methods("POST")

	api := r.NewRoute().Subrouter()
	api.Use(auth.Middleware)

	// Broker routes (creation and deletion are admin-only)
	admin := api.NewRoute().Subrouter()
	admin.Use(auth.RequireAdmin)
	admin.HandleFunc("/brokers", brokerHandler.Create).Methods("POST")
	admin.HandleFunc("/brokers/{id}/reset", brokerHandler.FlagReset).Methods("PUT")

	api.HandleFunc("/brokers", brokerHandler.List).Methods("GET")
	api.HandleFunc("/brokers/{id}", brokerHandler.GetByID).Methods("GET")
	api.HandleFunc("/brokers/{id}", brokerHandler.Update).Methods("PUT")
	api.HandleFunc("/brokers/{id}", brokerHandler.Delete).Methods("DELETE")
	api.HandleFunc("/brokers/{id}/payments", paymentHandler.ListByBroker).Methods("GET")
	api.HandleFunc("/brokers/{id}/summary", paymentHandler.Summary).Methods("GET")

	// Client routes
	api.HandleFunc("/clients", clientHandler.Create).Methods("POST")
	api.HandleFunc("/clients", clientHandler.List).Methods("GET")
	api.HandleFunc("/clients/{id}", clientHandler.GetByID).Methods("GET")
	api.HandleFunc("/clients/{id}", clientHandler.Update).Methods("PUT")
	api.HandleFunc("/clients/{id}", clientHandler.Delete).Methods("DELETE")
	api.HandleFunc("/clients/{id}/contacts", clientHandler.ListContacts).Methods("GET")
	api.HandleFunc("/clients/{id}/deals", clientHandler.ListDeals).Methods("GET")

	// Contact routes
	api.HandleFunc("/contacts", contactHandler.Create).Methods("POST")
	api.HandleFunc("/contacts", contactHandler.List).Methods("GET")
	api.HandleFunc("/contacts/{id}", contactHandler.GetByID).Methods("GET")
	api.HandleFunc("/contacts/{id}", contactHandler.Update).Methods("PUT")
	api.HandleFunc("/contacts/{id}", contactHandler.Delete).Methods("DELETE")
	api.HandleFunc("/contacts/{id}/activities", activityHandler.ListByContact).Methods("GET")

	// Property routes
	api.HandleFunc("/properties", propertyHandler.Create).Methods("POST")
	api.HandleFunc("/properties", propertyHandler.List).Methods("GET")
	api.HandleFunc("/properties/{id}", propertyHandler.GetByID).Methods("GET")
	api.HandleFunc("/properties/{id}", propertyHandler.Update).Methods("PUT")
	api.HandleFunc("/properties/{id}", propertyHandler.Delete).Methods("DELETE")

	// Map browser
	api.HandleFunc("/map/properties", mapHandler.Viewport).Methods("GET")

	// Deal routes (reorder before {id} so mux matches the literal first)
	api.HandleFunc("/deals/reorder", dealHandler.Reorder).Methods("PUT")
	api.HandleFunc("/deals", dealHandler.Create).Methods("POST")
	api.HandleFunc("/deals", dealHandler.List).Methods("GET")
	api.HandleFunc("/deals/{id}", dealHandler.GetByID).Methods("GET")
	api.HandleFunc("/deals/{id}", dealHandler.Update).Methods("PUT")
	api.HandleFunc("/deals/{id}", dealHandler.Delete).Methods("DELETE")
	api.HandleFunc("/deals/{id}/stage", dealHandler.UpdateStage).Methods("PUT")
	api.HandleFunc("/deals/{id}/commission", dealHandler.Commission).Methods("GET")
	api.HandleFunc("/deals/{id}/splits", splitHandler.Create).Methods("POST")
	api.HandleFunc("/deals/{id}/splits", splitHandler.ListByDeal).Methods("GET")
	api.HandleFunc("/splits/{id}", splitHandler.Update).Methods("PUT")
	api.HandleFunc("/splits/{id}", splitHandler.Delete).Methods("DELETE")
	api.HandleFunc("/deals/{id}/payments/generate", dealHandler.GeneratePayments).Methods("POST")
	api.HandleFunc("/deals/{id}/payments", paymentHandler.ListByDeal).Methods("GET")
	api.HandleFunc("/deals/{id}/activities", activityHandler.ListByDeal).Methods("GET")

	// Payment routes
	api.HandleFunc("/payments/{id}/receive", paymentHandler.Receive).Methods("PUT")
	api.HandleFunc("/payments/{id}/invoice", qbHandler.CreateInvoice).Methods("POST")
	api.HandleFunc("/payments/{id}/invoice", qbHandler.DeleteInvoice).Methods("DELETE")

	// Site submit routes
	api.HandleFunc("/site-submits", siteSubmitHandler.Create).Methods("POST")
	api.HandleFunc("/site-submits", siteSubmitHandler.List).Methods("GET")
	api.HandleFunc("/site-submits/{id}", siteSubmitHandler.GetByID).Methods("GET")
	api.HandleFunc("/site-submits/{id}", siteSubmitHandler.Update).Methods("PUT")
	api.HandleFunc("/site-submits/{id}", siteSubmitHandler.Delete).Methods("DELETE")

	// Activity routes
	api.HandleFunc("/activities", activityHandler.Create).Methods("POST")
	api.HandleFunc("/activities", activityHandler.List).Methods("GET")
	api.HandleFunc("/activities/{id}", activityHandler.GetByID).Methods("GET")
	api.HandleFunc("/activities/{id}", activityHandler.Update).Methods("PUT")
	api.HandleFunc("/activities/{id}", activityHandler.Delete).Methods("DELETE")

	// Email
	api.HandleFunc("/emails/send", emailHandler.Send).Methods("POST")

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logrus.WithField("port", port).Info("server listening")
	logrus.Fatal(http.ListenAndServe(":"+port, handler))
}

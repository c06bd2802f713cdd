package db

import (
	"context"
	"log"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	EventsCollection        *mongo.Collection
	OrdersCollection        *mongo.Collection
	PaymentsCollection      *mongo.Collection
	TicketsCollection       *mongo.Collection
	SubscriptionsCollection *mongo.Collection
	OrganizerAppsCollection *mongo.Collection
	IdempotencyCollection   *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ClientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), ClientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database("eventra").Collection("users")
	EventsCollection = Client.Database("eventra").Collection("events")
	OrdersCollection = Client.Database("eventra").Collection("orders")
	PaymentsCollection = Client.Database("eventra").Collection("payments")
	TicketsCollection = Client.Database("eventra").Collection("tickets")
	SubscriptionsCollection = Client.Database("eventra").Collection("subscriptions")
	OrganizerAppsCollection = Client.Database("eventra").Collection("organizer_applications")
	IdempotencyCollection = Client.Database("eventra").Collection("idempotency")
}

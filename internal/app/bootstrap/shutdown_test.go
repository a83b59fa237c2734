package bootstrap

import (
	"context"
	"testing"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestShutdown_StopsKeyLimiter(t *testing.T) {
	// mongo.Connect does not dial until the first operation.
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Fatalf("mongo.Connect: %v", err)
	}
	defer client.Disconnect(context.Background())

	deps := DBDeps{MongoClient: client, MongoDatabase: client.Database("habitica_shutdown_test")}
	if _, err := BuildHandler(&config.CoreConfig{Env: "dev"}, validAppConfig(), deps, testLogger()); err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	if keyLimiter == nil {
		t.Fatal("BuildHandler did not create the key limiter")
	}

	if err := Shutdown(context.Background(), &config.CoreConfig{}, validAppConfig(), DBDeps{}, testLogger()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if keyLimiter != nil {
		t.Error("Shutdown left the key limiter running")
	}
	// A second Shutdown is a no-op.
	if err := Shutdown(context.Background(), &config.CoreConfig{}, validAppConfig(), DBDeps{}, testLogger()); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}

// Command routesdoc prints the service's route table as Markdown (or JSON
// with -json). No database traffic happens: the Mongo client is created but
// never used.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/AlCa38/habitica/internal/app/bootstrap"
	"github.com/AlCa38/habitica/internal/app/system/auth"
	"github.com/AlCa38/habitica/internal/app/system/metrics"
	"github.com/go-chi/docgen"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	asJSON := flag.Bool("json", false, "print JSON instead of Markdown")
	flag.Parse()

	logger := zap.NewNop()
	ctx := context.Background()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	cfg := bootstrap.AppConfig{
		MongoDatabase: "habitica",
		SessionKey:    strings.Repeat("x", 32),
		SessionName:   "habitica-session",
		NewsFeedLimit: 10,
		AuditLogAdmin: "off",
	}
	sm, err := auth.NewSessionManager(cfg.SessionKey, cfg.SessionName, "", 0, false, logger)
	if err != nil {
		log.Fatal(err)
	}
	deps := bootstrap.DBDeps{MongoClient: client, MongoDatabase: client.Database(cfg.MongoDatabase)}
	r := bootstrap.NewRouter(cfg, deps, sm, metrics.New(), logger)

	if *asJSON {
		fmt.Println(docgen.JSONRoutesDoc(r))
		return
	}
	fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
		ProjectPath: "github.com/AlCa38/habitica",
		Intro:       "Routes served by the news announcements service.",
	}))
}

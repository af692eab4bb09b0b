// Command create-user provisions a login for the catalog API.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"perfume-catalog/internal/config"
	"perfume-catalog/internal/repository/sqlstore"
	"perfume-catalog/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	username := flag.String("username", "", "login name")
	email := flag.String("email", "", "contact address")
	password := flag.String("password", "", "plaintext password (or CATALOG_NEW_USER_PASSWORD)")
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("CATALOG_NEW_USER_PASSWORD")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	db, err := sqlstore.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := sqlstore.Migrate(ctx, db); err != nil {
		logger.Fatalf("migrate database: %v", err)
	}

	users, err := service.NewUserService(sqlstore.NewUserRepository(db))
	if err != nil {
		logger.Fatalf("setup users: %v", err)
	}

	user, err := users.Create(ctx, *username, *email, *password)
	if err != nil {
		logger.Fatalf("create user: %v", err)
	}
	logger.WithFields(logrus.Fields{"id": user.ID, "username": user.Username}).Info("user created")
}

// Command createstaff provisions a staff account that can sign in with a
// password through /api/auth/token/.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/njprem/rs1500_BackEnd/internal/config"
	"github.com/njprem/rs1500_BackEnd/internal/logging"
	"github.com/njprem/rs1500_BackEnd/internal/repository/postgres"
	"github.com/njprem/rs1500_BackEnd/internal/service"
	"github.com/njprem/rs1500_BackEnd/internal/transport/mail"
	"github.com/njprem/rs1500_BackEnd/internal/util"
)

func main() {
	email := flag.String("email", "", "staff email address")
	password := flag.String("password", os.Getenv("STAFF_PASSWORD"), "staff password (defaults to $STAFF_PASSWORD)")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Environment, cfg.LogLevel, nil)
	defer logger.Sync()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	auth := service.NewAuthService(
		postgres.NewUserRepo(db),
		postgres.NewSessionRepo(db),
		postgres.NewHotelAccountRepo(db),
		postgres.NewHotelRepo(db),
		nil,
		mail.NewLogMailer(logger),
		util.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		logger,
		service.AuthConfig{},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	user, err := auth.CreateStaff(ctx, *email, *password)
	if err != nil {
		logger.Fatal("create staff", zap.Error(err))
	}
	logger.Info("staff account ready", zap.String("email", user.Email), zap.String("user_id", user.ID.String()))
}

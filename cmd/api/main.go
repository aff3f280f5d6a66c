package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/njprem/rs1500_BackEnd/internal/config"
	"github.com/njprem/rs1500_BackEnd/internal/events"
	"github.com/njprem/rs1500_BackEnd/internal/logging"
	"github.com/njprem/rs1500_BackEnd/internal/media"
	"github.com/njprem/rs1500_BackEnd/internal/repository/minio"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
	"github.com/njprem/rs1500_BackEnd/internal/repository/postgres"
	"github.com/njprem/rs1500_BackEnd/internal/repository/redis"
	"github.com/njprem/rs1500_BackEnd/internal/service"
	transport "github.com/njprem/rs1500_BackEnd/internal/transport/http"
	"github.com/njprem/rs1500_BackEnd/internal/transport/mail"
	"github.com/njprem/rs1500_BackEnd/internal/util"
)

func main() {
	cfg := config.Load()

	var sink zapcore.WriteSyncer
	if cfg.LogstashTCPAddr != "" {
		w, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr, logging.WithDialTimeout(3*time.Second))
		if err != nil {
			panic(err)
		}
		defer w.Close()
		sink = w
	}
	logger := logging.New(cfg.Environment, cfg.LogLevel, sink)
	defer logger.Sync()

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()
	if cfg.RunMigrations {
		if err := postgres.Migrate(db, cfg.MigrationsPath, logger); err != nil {
			logger.Fatal("migrate database", zap.Error(err))
		}
	}

	ctx := context.Background()

	var throttle ports.OTPThrottle
	if cfg.RedisAddr != "" {
		client := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable; OTP throttling fails open until it recovers", zap.Error(err))
		}
		throttle = redis.NewOTPThrottle(client, cfg.OTPRequestsPerWindow, cfg.OTPRequestWindow)
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.NATSURL != "" {
		nats, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, logger.Named("events"))
		if err != nil {
			logger.Warn("nats unavailable; events disabled", zap.Error(err))
		} else {
			publisher = nats
		}
	}
	defer publisher.Close()

	minioClient, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		logger.Fatal("create minio client", zap.Error(err))
	}
	storage := minio.NewStorage(minioClient, cfg.MinIOPublicURL)
	if err := storage.EnsureBucket(ctx, cfg.MinIOBucketMedia); err != nil {
		logger.Fatal("ensure media bucket", zap.Error(err))
	}

	mailer := newMailer(cfg, logger)

	users := postgres.NewUserRepo(db)
	sessions := postgres.NewSessionRepo(db)
	codes := postgres.NewOneTimeCodeRepo(db)
	hotels := postgres.NewHotelRepo(db)
	accounts := postgres.NewHotelAccountRepo(db)
	amenities := postgres.NewAmenityRepo(db)
	facilities := postgres.NewFacilityRepo(db)
	mappings := postgres.NewFacilityMappingRepo(db)
	hotelImages := postgres.NewHotelImageRepo(db)
	rooms := postgres.NewRoomTypeRepo(db)
	roomImages := postgres.NewRoomImageRepo(db)
	policies := postgres.NewHotelPolicyRepo(db)
	reviews := postgres.NewReviewRepo(db)
	bookings := postgres.NewBookingRepo(db)
	reservations := postgres.NewReservationRepo(db)
	partnerRequests := postgres.NewPartnerRequestRepo(db)

	tokens := util.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	signer := util.NewApprovalSigner(cfg.ApprovalSigningSecret, cfg.ApprovalLinkTTL)

	otpService := service.NewOTPService(codes, throttle, logger, service.OTPConfig{
		TTL:         cfg.OTPTTL,
		MaxAttempts: cfg.OTPMaxAttempts,
	})
	authService := service.NewAuthService(users, sessions, accounts, hotels, otpService, mailer, tokens, logger, service.AuthConfig{
		GoogleClientID:  cfg.GoogleClientID,
		PartnerRedirect: cfg.PartnerPortalRedirect,
	})
	approvalService := service.NewApprovalService(hotels, hotelImages, rooms, policies, signer, mailer, publisher, logger, service.ApprovalConfig{
		PublicBaseURL: cfg.PublicBaseURL,
		OwnerEmail:    cfg.ApprovalOwnerEmail,
	})
	hotelService := service.NewHotelService(hotels, hotelImages, rooms, roomImages, reviews, policies, mappings, approvalService, logger)
	imageService := service.NewHotelImageService(hotelImages, hotels, storage,
		media.NewScaleProcessor(cfg.ImageMaxDimension, cfg.ImageMaxBytes), cfg.MinIOBucketMedia, logger)

	e := transport.NewRouter(cfg.AllowOrigins, logger)
	transport.RegisterSwagger(e)
	transport.RegisterAuth(e, authService)
	transport.RegisterApprovals(e, authService, approvalService)
	transport.RegisterHotels(e, authService, hotelService)
	transport.RegisterCatalogue(e, authService, transport.CatalogueServices{
		Amenities:  service.NewAmenityService(amenities),
		Facilities: service.NewFacilityService(facilities),
		Mappings:   service.NewFacilityMappingService(mappings),
		RoomTypes:  service.NewRoomTypeService(rooms, hotels),
		RoomImages: service.NewRoomImageService(roomImages, rooms, hotels),
		Policies:   service.NewPolicyService(policies),
	})
	transport.RegisterMedia(e, authService, imageService)
	transport.RegisterBookings(e, authService,
		service.NewBookingService(bookings, rooms),
		service.NewReservationService(reservations, rooms, hotels, publisher, logger))
	transport.RegisterReviews(e, authService,
		service.NewReviewService(reviews, hotels),
		service.NewPartnerRequestService(partnerRequests, publisher, logger))

	go func() {
		logger.Info("api listening", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	logger.Info("api stopped")
}

// newMailer prefers MailerSend, then SMTP. Without either, mail is only
// logged, which keeps local development working.
func newMailer(cfg config.Config, logger *zap.Logger) mail.Mailer {
	switch {
	case cfg.MailerSendAPIKey != "":
		return mail.NewMailerSendMailer(cfg.MailerSendAPIKey, cfg.MailerSendFromName, cfg.SMTPFrom)
	case cfg.SMTPHost != "":
		return mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	}
	logger.Warn("no mail transport configured; emails are logged only")
	return mail.NewLogMailer(logger)
}

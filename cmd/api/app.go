package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hireflow/ats-platform/internal/config"
	"hireflow/ats-platform/internal/repositories"
	"hireflow/ats-platform/internal/services"
)

// application holds the wired service graph shared by every subcommand.
type application struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.Logger

	auth          services.AuthService
	organizations services.OrganizationService
	users         services.UserService
	matchingCfg   services.MatchingConfigService
	jobs          services.JobService
	resumes       services.ResumeService
	matcher       services.MatchService
	interviews    services.InterviewService
	templates     services.TemplateService
	notifications services.NotificationService
	analytics     services.AnalyticsService
	storage       services.StorageService
	worker        services.Worker
	scheduler     services.Scheduler
}

func newApplication(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) (*application, error) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	orgRepo := repositories.NewOrganizationRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	matchRepo := repositories.NewJobMatchRepository(db)
	configRepo := repositories.NewMatchingConfigRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	templateRepo := repositories.NewInterviewTemplateRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	statsRepo := repositories.NewAnalyticsRepository(db)
	log.Info("✅ Repositories initialized successfully")

	// Initialize AI provider
	ai, err := services.NewAIProvider(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI provider: %w", err)
	}
	log.Info("✅ AI provider initialized successfully", zap.String("provider", cfg.AI.Provider))

	// Initialize Qdrant
	var index services.CandidateIndex
	if cfg.Qdrant.Enabled {
		qdrantIndex, err := services.NewCandidateIndex(cfg.Qdrant, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Qdrant: %w", err)
		}
		if err := qdrantIndex.InitCollection(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize Qdrant collection: %w", err)
		}
		index = qdrantIndex
		log.Info("✅ Qdrant initialized successfully")
	} else {
		log.Warn("⚠️  Qdrant disabled, candidate suggestions are unavailable")
	}

	// Initialize mail and notifications
	mailer, err := services.NewMailer(services.NewMailSender(cfg.Email, log), log)
	if err != nil {
		return nil, err
	}
	notifications := services.NewNotificationService(notificationRepo, userRepo, mailer, cfg.Server.FrontendURL, log)

	// Initialize services
	storage := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storage.EnsureUploadDir(); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	hasher := services.NewPasswordHasher(cfg.Auth.BcryptCost)
	matchingCfg := services.NewMatchingConfigService(configRepo)

	matcher := services.NewMatchService(
		jobRepo,
		resumeRepo,
		matchRepo,
		matchingCfg,
		services.NewMatchAnalyzer(ai, cfg.AI.Timeout, log),
		notifications,
		ai,
		index,
		log,
	)

	interviews := services.NewInterviewService(
		interviewRepo,
		matchRepo,
		templateRepo,
		jobRepo,
		resumeRepo,
		services.NewInterviewAnalyzer(ai, cfg.AI.Timeout, log),
		notifications,
		log,
	)

	processor := services.NewResumeProcessor(
		resumeRepo,
		services.NewResumeAnalyzer(ai, cfg.AI.Timeout, log),
		ai,
		index,
		log,
	)
	worker := services.NewWorker(resumeRepo, processor, cfg.Worker, log)

	resumes := services.NewResumeService(
		resumeRepo,
		userRepo,
		jobRepo,
		matchRepo,
		storage,
		services.NewDocumentParser(),
		hasher,
		interviews,
		notifications,
		worker,
		processor,
		index,
		log,
	)
	log.Info("✅ Services initialized successfully")

	return &application{
		cfg:           cfg,
		db:            db,
		log:           log,
		auth:          services.NewAuthService(userRepo, hasher, notifications, cfg.Auth, log),
		organizations: services.NewOrganizationService(orgRepo, userRepo, log),
		users:         services.NewUserService(userRepo, orgRepo, hasher, log),
		matchingCfg:   matchingCfg,
		jobs:          services.NewJobService(jobRepo, orgRepo, log),
		resumes:       resumes,
		matcher:       matcher,
		interviews:    interviews,
		templates:     services.NewTemplateService(templateRepo, log),
		notifications: notifications,
		analytics:     services.NewAnalyticsService(statsRepo, orgRepo, jobRepo, resumeRepo, matchRepo, interviewRepo, log),
		storage:       storage,
		worker:        worker,
		scheduler: services.NewScheduler(
			cfg.Scheduler.MaintenanceSpec,
			services.NewMaintenance(interviews, notifications, log),
			log,
		),
	}, nil
}

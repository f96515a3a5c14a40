// Package container builds the application graph once at startup and hands it
// to the router and background workers.
package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/config"
	"github.com/oksasatya/hireboard/internal/application"
	repo "github.com/oksasatya/hireboard/internal/domain/repository"
	"github.com/oksasatya/hireboard/internal/infrastructure/gcs"
	"github.com/oksasatya/hireboard/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/hireboard/internal/infrastructure/postgres"
	"github.com/oksasatya/hireboard/internal/infrastructure/search"
	"github.com/oksasatya/hireboard/pkg/helpers"
	"github.com/oksasatya/hireboard/pkg/mailer"
	mailtpl "github.com/oksasatya/hireboard/pkg/mailer/templates"
)

// Infra holds the external clients opened by main. Any of them may be nil;
// the container falls back to in-process alternatives.
type Infra struct {
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	GCS     *storage.Client
	ES      *elasticsearch.Client
	Rabbit  *helpers.RabbitPublisher
	Mailgun *mailer.Mailgun
}

type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	Redis  *redis.Client
	JWT    *helpers.JWTManager

	Accounts     repo.AccountRepository
	Jobs         repo.JobRepository
	Referrals    repo.ReferralRepository
	Applications repo.ApplicationRepository
	Audit        repo.AuditRepository

	Notifier application.Notifier
	Resumes  *application.ResumeStore
	Index    application.JobIndex

	AuthSvc        *application.AuthService
	ProfileSvc     *application.ProfileService
	JobSvc         *application.JobService
	ReferralSvc    *application.ReferralService
	ApplicationSvc *application.ApplicationService
	Sweeper        *application.ExpirySweeper
}

// New wires repositories, adapters and services. Postgres is used when a pool
// is supplied, otherwise everything lives in memory.
func New(cfg *config.Config, logger *logrus.Logger, infra Infra) *Container {
	c := &Container{
		Cfg:    cfg,
		Logger: logger,
		Redis:  infra.Redis,
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL),
	}

	if infra.Pool != nil {
		c.Accounts = pginfra.NewAccountRepository(infra.Pool)
		c.Jobs = pginfra.NewJobRepository(infra.Pool)
		c.Referrals = pginfra.NewReferralRepository(infra.Pool)
		c.Applications = pginfra.NewApplicationRepository(infra.Pool)
		c.Audit = pginfra.NewAuditRepository(infra.Pool)
	} else {
		store := memory.NewStore()
		c.Accounts = store.Accounts()
		c.Jobs = store.Jobs()
		c.Referrals = store.Referrals()
		c.Applications = store.Applications()
		c.Audit = store.Audit()
	}

	c.Notifier = buildNotifier(cfg, logger, infra)

	c.Resumes = &application.ResumeStore{MaxBytes: cfg.MaxResumeBytes}
	if infra.GCS != nil && cfg.GCSBucket != "" {
		c.Resumes.Objects = gcs.NewObjectStore(infra.GCS, cfg.GCSBucket)
	}
	if infra.ES != nil {
		c.Index = search.NewJobIndex(infra.ES, cfg.ESJobsIndex)
	}

	c.AuthSvc = application.NewAuthService(c.Accounts, c.Audit, c.JWT, c.Notifier, cfg, logger)
	c.ProfileSvc = application.NewProfileService(c.Accounts, c.Resumes, logger)
	c.JobSvc = application.NewJobService(c.Jobs, c.Accounts, c.Index, logger)
	c.ReferralSvc = application.NewReferralService(c.Referrals, logger)
	c.ApplicationSvc = application.NewApplicationService(c.Applications, c.Jobs, c.Referrals, c.Accounts, c.Resumes, c.Notifier, cfg, logger)
	c.Sweeper = application.NewExpirySweeper(c.Referrals, cfg.SweepInterval, logger)
	return c
}

func buildNotifier(cfg *config.Config, logger *logrus.Logger, infra Infra) application.Notifier {
	switch {
	case !cfg.MailSendEnabled:
		return &application.LogNotifier{Logger: logger}
	case cfg.MailUseQueue && infra.Rabbit != nil:
		return &application.QueueNotifier{Pub: infra.Rabbit}
	case infra.Mailgun != nil:
		return &application.DirectNotifier{Sender: infra.Mailgun, Resolver: mailtpl.IPAPIResolver{}}
	default:
		logger.Warn("no mail transport configured; emails will only be logged")
		return &application.LogNotifier{Logger: logger}
	}
}

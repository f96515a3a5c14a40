package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/hireboard/config"
	"github.com/oksasatya/hireboard/internal/application"
	"github.com/oksasatya/hireboard/internal/container"
	"github.com/oksasatya/hireboard/internal/domain/entity"
	pginfra "github.com/oksasatya/hireboard/internal/infrastructure/postgres"
	"github.com/oksasatya/hireboard/pkg/helpers"
)

const seedOTP = "424242"

// Seeds a demo recruiter with one job, a demo job seeker with one referral.
// Re-running logs the existing accounts in and adds nothing.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	cfg.MailSendEnabled = false

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	c := container.New(cfg, helpers.NewLogger(cfg.AppName+"-seed", cfg.Env), container.Infra{Pool: pool})
	c.AuthSvc.GenOTP = func() (string, error) { return seedOTP, nil }

	recruiter, created := ensureAccount(ctx, c.AuthSvc, application.CompleteInput{
		Email: "recruiter@hireboard.dev",
		Role:  entity.RoleRecruiter,
		Recruiter: &entity.RecruiterProfile{
			Name:           "Demo Recruiter",
			PhoneNumber:    "5550100",
			Designation:    "Head of Talent",
			CompanyName:    "Hireboard Labs",
			CompanyWebsite: "https://hireboard.dev",
		},
	}, "password123")
	fmt.Printf("recruiter: id=%s email=%s password=password123\n", recruiter.ID, recruiter.Email)
	if created {
		job, err := c.JobSvc.Create(ctx, recruiter.ID, application.JobInput{
			Title:          "Backend Engineer (Go)",
			Description:    "Design and run the services behind the job board.",
			Location:       "Remote",
			EmploymentType: entity.FullTime,
			SalaryMin:      90000,
			SalaryMax:      130000,
			Skills:         []string{"go", "postgres", "redis"},
		})
		if err != nil {
			log.Fatalf("failed to seed job: %v", err)
		}
		fmt.Printf("job: id=%s title=%q\n", job.ID, job.Title)
	}

	seeker, created := ensureAccount(ctx, c.AuthSvc, application.CompleteInput{
		Email: "seeker@hireboard.dev",
		Role:  entity.RoleJobSeeker,
		JobSeeker: &entity.JobSeekerProfile{
			Name:        "Demo Seeker",
			PhoneNumber: "5550101",
			Skills:      []string{"go", "kubernetes"},
			Experience:  "4 years building APIs",
			Education:   entity.Education{Degree: "BSc Computer Science", Institution: "State University"},
			Location:    "Berlin",
		},
	}, "password123")
	fmt.Printf("job seeker: id=%s email=%s password=password123\n", seeker.ID, seeker.Email)
	if created {
		ref, err := c.ReferralSvc.Create(ctx, application.Actor{ID: seeker.ID, Role: entity.RoleJobSeeker}, application.ReferralInput{
			CompanyName: "Initech",
			JobTitle:    "Site Reliability Engineer",
			Description: "I can refer strong candidates to the SRE team.",
			Location:    "Austin",
			Deadline:    time.Now().Add(30 * 24 * time.Hour),
		})
		if err != nil {
			log.Fatalf("failed to seed referral: %v", err)
		}
		fmt.Printf("referral: id=%s deadline=%s\n", ref.ID, ref.Deadline.Format(time.RFC3339))
	}
}

func ensureAccount(ctx context.Context, auth *application.AuthService, in application.CompleteInput, password string) (*entity.Account, bool) {
	begin := application.SignupInput{Email: in.Email, Role: in.Role}
	if in.Role == entity.RoleRecruiter {
		begin.Password = password
	} else {
		in.Password = password
	}

	_, err := auth.BeginSignup(ctx, begin)
	if errors.Is(err, application.ErrAlreadyRegistered) {
		res, err := auth.Login(ctx, application.LoginInput{Email: in.Email, Password: password, Role: in.Role})
		if err != nil {
			log.Fatalf("%s exists but login failed: %v", in.Email, err)
		}
		return res.Account, false
	}
	if err != nil {
		log.Fatalf("signup %s: %v", in.Email, err)
	}

	in.OTP = seedOTP
	res, err := auth.CompleteSignup(ctx, in)
	if err != nil {
		log.Fatalf("verify %s: %v", in.Email, err)
	}
	return res.Account, true
}

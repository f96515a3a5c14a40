package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/internal/application"
	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/interface/middleware"
	"github.com/oksasatya/hireboard/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger logrus.FieldLogger
}

func NewAuthHandler(svc *application.AuthService, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type userSignupRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type recruiterSignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// Profile fields are checked by the service so that every missing field is
// reported at once.
type userCompleteRequest struct {
	Email       string           `json:"email"`
	OTP         string           `json:"otp"`
	Password    string           `json:"password"`
	Name        string           `json:"name"`
	PhoneNumber string           `json:"phoneNumber"`
	Skills      []string         `json:"skills"`
	Experience  string           `json:"experience"`
	Education   entity.Education `json:"education"`
	Location    string           `json:"location"`
}

type recruiterCompleteRequest struct {
	Email          string `json:"email"`
	OTP            string `json:"otp"`
	Name           string `json:"name"`
	PhoneNumber    string `json:"phoneNumber"`
	Designation    string `json:"designation"`
	CompanyName    string `json:"companyName"`
	CompanyWebsite string `json:"companyWebsite"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,role"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Role      string    `json:"role"`
	UserID    string    `json:"userId"`
}

func toSession(res *application.AuthResult) sessionResponse {
	return sessionResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, Role: res.Account.Role.String(), UserID: res.Account.ID}
}

func (h *AuthHandler) signup(c *gin.Context, email, password string, role entity.Role) {
	res, err := h.Svc.BeginSignup(c.Request.Context(), application.SignupInput{
		Email:     email,
		Role:      role,
		Password:  password,
		ClientIP:  middleware.ClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"email": res.Email, "expiresAt": res.ExpiresAt}, "otp sent", nil)
}

// UserSignup POST /auth/user/signup
func (h *AuthHandler) UserSignup(c *gin.Context) {
	var req userSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.signup(c, req.Email, "", entity.RoleJobSeeker)
}

// RecruiterSignup POST /auth/recruiter/signup
func (h *AuthHandler) RecruiterSignup(c *gin.Context) {
	var req recruiterSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.signup(c, req.Email, req.Password, entity.RoleRecruiter)
}

// UserVerifyAndComplete POST /auth/user/verify-and-complete
func (h *AuthHandler) UserVerifyAndComplete(c *gin.Context) {
	var req userCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.complete(c, application.CompleteInput{
		Email:    req.Email,
		Role:     entity.RoleJobSeeker,
		OTP:      req.OTP,
		Password: req.Password,
		JobSeeker: &entity.JobSeekerProfile{
			Name:        req.Name,
			PhoneNumber: req.PhoneNumber,
			Skills:      req.Skills,
			Experience:  req.Experience,
			Education:   req.Education,
			Location:    req.Location,
		},
	})
}

// RecruiterVerify POST /auth/recruiter/verify
func (h *AuthHandler) RecruiterVerify(c *gin.Context) {
	var req recruiterCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.complete(c, application.CompleteInput{
		Email: req.Email,
		Role:  entity.RoleRecruiter,
		OTP:   req.OTP,
		Recruiter: &entity.RecruiterProfile{
			Name:           req.Name,
			PhoneNumber:    req.PhoneNumber,
			Designation:    req.Designation,
			CompanyName:    req.CompanyName,
			CompanyWebsite: req.CompanyWebsite,
		},
	})
}

func (h *AuthHandler) complete(c *gin.Context, in application.CompleteInput) {
	in.ClientIP = middleware.ClientIP(c)
	in.UserAgent = c.GetHeader("User-Agent")
	res, err := h.Svc.CompleteSignup(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toSession(res), "account verified", nil)
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	role, _ := entity.ParseRole(req.Role)
	res, err := h.Svc.Login(c.Request.Context(), application.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
		ClientIP:  middleware.ClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toSession(res), "login successful", nil)
}

// Verify GET /auth/verify (behind Auth)
func (h *AuthHandler) Verify(c *gin.Context) {
	data := gin.H{
		"valid":  true,
		"role":   middleware.RoleFrom(c).String(),
		"userId": c.GetString(middleware.CtxAccountID),
	}
	if acc := middleware.AccountFrom(c); acc != nil {
		data["email"] = acc.Email
	}
	response.Success(c, http.StatusOK, data, "token valid", nil)
}

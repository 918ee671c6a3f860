package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"residence-be-svc/internal/config"
	"residence-be-svc/internal/metrics"
	"residence-be-svc/internal/models"
	"residence-be-svc/internal/models/response"
	"residence-be-svc/internal/repository"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

const minPasswordLength = 8

// RegisterServiceProviderRequest is the self-registration payload of a service provider
type RegisterServiceProviderRequest struct {
	Name                string                `json:"name" binding:"required"`
	Username            string                `json:"username" binding:"required"`
	Email               string                `json:"email" binding:"required,email"`
	Phone               string                `json:"phone" binding:"required"`
	Password            string                `json:"password" binding:"required"`
	IDDocumentType      models.IDDocumentType `json:"idDocumentType"`
	CNICNumber          *string               `json:"cnicNumber"`
	PassportNumber      *string               `json:"passportNumber"`
	DriverLicenseNumber *string               `json:"driverLicenseNumber"`
	ServiceCategory     string                `json:"serviceCategory" binding:"required"`
	Keywords            string                `json:"keywords"`
	ShortIntro          string                `json:"shortIntro"`
	Experience          string                `json:"experience"`
	PreviousWork        string                `json:"previousWork"`
	Certifications      string                `json:"certifications"`
	Availability        string                `json:"availability"`
	ServiceArea         string                `json:"serviceArea"`
	AdditionalNotes     string                `json:"additionalNotes"`
	ProfilePhoto        *string               `json:"profilePhoto"`
}

// RegisterResidentRequest is the self-registration payload of a resident
type RegisterResidentRequest struct {
	Name                  string                `json:"name"`
	Apartment             string                `json:"apartment"`
	Phone                 string                `json:"phone"`
	Email                 string                `json:"email"`
	Password              string                `json:"password"`
	Username              string                `json:"username"`
	FamilyMembers         int                   `json:"familyMembers"`
	IDDocumentType        models.IDDocumentType `json:"idDocumentType"`
	CNICNumber            *string               `json:"cnicNumber"`
	PassportNumber        *string               `json:"passportNumber"`
	DriverLicenseNumber   *string               `json:"driverLicenseNumber"`
	OwnershipType         string                `json:"ownershipType"`
	EmergencyContact      *string               `json:"emergencyContact"`
	EmergencyContactPhone *string               `json:"emergencyContactPhone"`
	Occupation            *string               `json:"occupation"`
	WorkAddress           *string               `json:"workAddress"`
	MonthlyIncome         *float64              `json:"monthlyIncome"`
	PreviousAddress       *string               `json:"previousAddress"`
	AdditionalNotes       *string               `json:"additionalNotes"`
}

// AuthService defines the interface for login, registration and token verification
type AuthService interface {
	AdminLogin(ctx context.Context, username, password string) (*response.LoginResponse, error)
	ServiceProviderLogin(ctx context.Context, email, password string) (*response.LoginResponse, error)
	ResidentLogin(ctx context.Context, email, password string) (*response.LoginResponse, error)
	RegisterServiceProvider(ctx context.Context, req *RegisterServiceProviderRequest) (*models.ServiceProvider, error)
	RegisterResident(ctx context.Context, req *RegisterResidentRequest) (*models.Resident, error)
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
	Logout(ctx context.Context, token string) error
	SeedAdmin(ctx context.Context, seed config.SeedConfig) error
}

// authService implements AuthService
type authService struct {
	adminRepo    repository.AdminRepository
	residentRepo repository.ResidentRepository
	providerRepo repository.ServiceProviderRepository
	accounts     repository.AccountStore
	tokens       TokenService
	blacklist    TokenBlacklist
	logger       *logger.Logger
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	adminRepo repository.AdminRepository,
	residentRepo repository.ResidentRepository,
	providerRepo repository.ServiceProviderRepository,
	tokens TokenService,
	blacklist TokenBlacklist,
	logger *logger.Logger,
) AuthService {
	return &authService{
		adminRepo:    adminRepo,
		residentRepo: residentRepo,
		providerRepo: providerRepo,
		accounts:     repository.NewAccountStore(adminRepo, residentRepo, providerRepo),
		tokens:       tokens,
		blacklist:    blacklist,
		logger:       logger,
	}
}

// AdminLogin authenticates a super admin by username
func (s *authService) AdminLogin(ctx context.Context, username, password string) (*response.LoginResponse, error) {
	admin, err := s.adminRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, utils.Internal("Failed to login", err)
	}
	if admin == nil || !admin.IsSuperAdmin || !utils.CheckPassword(admin.Password, password) {
		metrics.LoginAttemptsTotal.WithLabelValues(string(models.RoleAdmin), "rejected").Inc()
		return nil, utils.Unauthenticated("Username or password is incorrect")
	}

	return s.issue(admin, map[string]interface{}{
		"id":           admin.ID,
		"username":     admin.Username,
		"email":        admin.Email,
		"name":         admin.Name,
		"isSuperAdmin": admin.IsSuperAdmin,
	})
}

// ServiceProviderLogin authenticates an approved service provider by email
func (s *authService) ServiceProviderLogin(ctx context.Context, email, password string) (*response.LoginResponse, error) {
	provider, err := s.providerRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, utils.Internal("Failed to login", err)
	}
	if provider == nil || !utils.CheckPassword(provider.Password, password) {
		metrics.LoginAttemptsTotal.WithLabelValues(string(models.RoleServiceProvider), "rejected").Inc()
		return nil, utils.Unauthenticated("Email or password is incorrect")
	}
	if provider.Status != models.ServiceProviderApproved {
		metrics.LoginAttemptsTotal.WithLabelValues(string(models.RoleServiceProvider), "forbidden").Inc()
		return nil, utils.Forbidden("Your account is not active or pending approval")
	}

	return s.issue(provider, map[string]interface{}{
		"id":              provider.ID,
		"username":        provider.Username,
		"email":           provider.Email,
		"name":            provider.Name,
		"status":          provider.Status,
		"serviceCategory": provider.ServiceCategory,
		"phone":           provider.Phone,
	})
}

// ResidentLogin authenticates a resident by email. Only active, approved residents
// with registered credentials get a token.
func (s *authService) ResidentLogin(ctx context.Context, email, password string) (*response.LoginResponse, error) {
	resident, err := s.residentRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, utils.Internal("Failed to login", err)
	}
	if resident == nil || !resident.HasCredentials() || !utils.CheckPassword(*resident.Password, password) {
		metrics.LoginAttemptsTotal.WithLabelValues(string(models.RoleResident), "rejected").Inc()
		return nil, utils.Unauthenticated("Email or password is incorrect")
	}

	switch {
	case resident.ApprovalStatus == models.ApprovalRejected:
		metrics.LoginAttemptsTotal.WithLabelValues(string(models.RoleResident), "forbidden").Inc()
		return nil, utils.Forbidden("Your registration has been rejected")
	case resident.ApprovalStatus != models.ApprovalApproved:
		metrics.LoginAttemptsTotal.WithLabelValues(string(models.RoleResident), "forbidden").Inc()
		return nil, utils.Forbidden("Your account is pending approval")
	case resident.Status != models.ResidentStatusActive:
		metrics.LoginAttemptsTotal.WithLabelValues(string(models.RoleResident), "forbidden").Inc()
		return nil, utils.Forbidden("Your account is not active")
	}

	return s.issue(resident, map[string]interface{}{
		"id":             resident.ID,
		"name":           resident.Name,
		"email":          resident.Email,
		"apartment":      resident.Apartment,
		"status":         resident.Status,
		"approvalStatus": resident.ApprovalStatus,
	})
}

func (s *authService) issue(account models.Account, user map[string]interface{}) (*response.LoginResponse, error) {
	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}
	metrics.LoginAttemptsTotal.WithLabelValues(string(account.AccountRole()), "success").Inc()
	return &response.LoginResponse{Token: token, User: user}, nil
}

// RegisterServiceProvider creates a pending service provider. No token is issued
// because a pending account cannot log in.
func (s *authService) RegisterServiceProvider(ctx context.Context, req *RegisterServiceProviderRequest) (*models.ServiceProvider, error) {
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	if len(req.Password) < minPasswordLength {
		return nil, utils.InvalidArgument("Password must be at least 8 characters")
	}
	if req.IDDocumentType != "" && !req.IDDocumentType.Valid() {
		return nil, utils.InvalidArgument("Invalid ID document type")
	}

	if existing, err := s.providerRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, utils.InvalidArgument("Service Provider with this email already exists")
	} else if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, utils.Internal("Failed to register service provider", err)
	}
	if existing, err := s.providerRepo.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, utils.InvalidArgument("Service Provider with this username already exists")
	} else if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, utils.Internal("Failed to register service provider", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.Internal("Failed to register service provider", err)
	}

	docType := req.IDDocumentType
	if docType == "" {
		docType = models.IDDocumentCNIC
	}

	provider := &models.ServiceProvider{
		Name:                strings.TrimSpace(req.Name),
		Username:            username,
		Email:               email,
		Phone:               strings.TrimSpace(req.Phone),
		Password:            hash,
		IDDocumentType:      docType,
		CNICNumber:          req.CNICNumber,
		PassportNumber:      req.PassportNumber,
		DriverLicenseNumber: req.DriverLicenseNumber,
		ServiceCategory:     strings.TrimSpace(req.ServiceCategory),
		Keywords:            req.Keywords,
		ShortIntro:          req.ShortIntro,
		Experience:          req.Experience,
		PreviousWork:        req.PreviousWork,
		Certifications:      req.Certifications,
		Availability:        req.Availability,
		ServiceArea:         req.ServiceArea,
		AdditionalNotes:     req.AdditionalNotes,
		ProfilePhoto:        req.ProfilePhoto,
		Status:              models.ServiceProviderPending,
	}

	if err := s.providerRepo.Create(ctx, provider); err != nil {
		return nil, utils.Internal("Failed to register service provider", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"service_provider_id": provider.ID,
		"category":            provider.ServiceCategory,
	}).Info("Service provider registered")

	return provider, nil
}

// RegisterResident creates a pending resident with credentials, or attaches the
// credentials to an admin-created resident with the same email that has none yet.
func (s *authService) RegisterResident(ctx context.Context, req *RegisterResidentRequest) (*models.Resident, error) {
	if err := validateResidentRegistration(req); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	apartment := strings.TrimSpace(req.Apartment)
	username := strings.TrimSpace(req.Username)

	existing, err := s.residentRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, utils.Internal("Failed to register resident", err)
	}
	if existing != nil && existing.HasCredentials() {
		return nil, utils.InvalidArgument("Resident with this email already exists")
	}

	if existing == nil || existing.Apartment != apartment {
		taken, err := s.residentRepo.FindByApartment(ctx, apartment)
		if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
			return nil, utils.Internal("Failed to register resident", err)
		}
		if taken != nil {
			return nil, utils.InvalidArgument("Apartment is already registered")
		}
	}

	if username != "" {
		taken, err := s.residentRepo.FindByUsername(ctx, username)
		if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
			return nil, utils.Internal("Failed to register resident", err)
		}
		if taken != nil && (existing == nil || taken.ID != existing.ID) {
			return nil, utils.InvalidArgument("Username is already taken")
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.Internal("Failed to register resident", err)
	}

	if existing != nil {
		existing.Password = &hash
		if username != "" {
			existing.Username = &username
		}
		existing.Name = strings.TrimSpace(req.Name)
		existing.Phone = strings.TrimSpace(req.Phone)
		existing.Apartment = apartment
		applyResidentKYC(existing, req)
		if err := s.residentRepo.Update(ctx, existing); err != nil {
			return nil, utils.Internal("Failed to register resident", err)
		}
		s.logger.WithField("resident_id", existing.ID).Info("Credentials attached to existing resident")
		return existing, nil
	}

	resident := &models.Resident{
		Name:           strings.TrimSpace(req.Name),
		Apartment:      apartment,
		Phone:          strings.TrimSpace(req.Phone),
		Email:          email,
		Password:       &hash,
		Status:         models.ResidentStatusPending,
		ApprovalStatus: models.ApprovalPending,
		FamilyMembers:  req.FamilyMembers,
		IDDocumentType: models.IDDocumentCNIC,
		OwnershipType:  models.OwnershipOwner,
	}
	if username != "" {
		resident.Username = &username
	}
	applyResidentKYC(resident, req)

	if err := s.residentRepo.Create(ctx, resident); err != nil {
		return nil, utils.Internal("Failed to register resident", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"resident_id": resident.ID,
		"apartment":   resident.Apartment,
	}).Info("Resident registered")

	return resident, nil
}

func validateResidentRegistration(req *RegisterResidentRequest) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Apartment) == "" ||
		strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return utils.InvalidArgument("Name, apartment, phone, email and password are required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		return utils.InvalidArgument("Invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return utils.InvalidArgument("Password must be at least 8 characters")
	}
	if req.IDDocumentType != "" && !req.IDDocumentType.Valid() {
		return utils.InvalidArgument("Invalid ID document type")
	}
	switch req.OwnershipType {
	case "", models.OwnershipOwner, models.OwnershipTenant, models.OwnershipRented:
	default:
		return utils.InvalidArgument("Ownership type must be owner, tenant or rented")
	}
	return nil
}

func applyResidentKYC(r *models.Resident, req *RegisterResidentRequest) {
	if req.FamilyMembers > 0 {
		r.FamilyMembers = req.FamilyMembers
	}
	if req.IDDocumentType != "" {
		r.IDDocumentType = req.IDDocumentType
	}
	if req.OwnershipType != "" {
		r.OwnershipType = req.OwnershipType
	}
	r.CNICNumber = req.CNICNumber
	r.PassportNumber = req.PassportNumber
	r.DriverLicenseNumber = req.DriverLicenseNumber
	r.EmergencyContact = req.EmergencyContact
	r.EmergencyContactPhone = req.EmergencyContactPhone
	r.Occupation = req.Occupation
	r.WorkAddress = req.WorkAddress
	r.MonthlyIncome = req.MonthlyIncome
	r.PreviousAddress = req.PreviousAddress
	r.AdditionalNotes = req.AdditionalNotes
}

// Authenticate resolves a raw token to the identity of a live account.
// The blacklist is consulted before the signature is trusted.
func (s *authService) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, utils.Unauthenticated("No token provided")
	}

	revoked, err := s.blacklist.IsRevoked(ctx, token)
	if err != nil {
		return nil, utils.Internal("Failed to check token status", err)
	}
	if revoked {
		return nil, utils.Unauthenticated("Token has been invalidated")
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return nil, utils.Forbidden("Invalid token")
	}

	account, err := s.accounts.FindAccount(ctx, role, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, utils.Unauthenticated("User not found")
		}
		return nil, utils.Internal("Failed to load user", err)
	}

	identity := account.Identity()
	return &identity, nil
}

// Logout revokes the token; revoking twice is harmless
func (s *authService) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return utils.InvalidArgument("No token provided")
	}
	if err := s.blacklist.Revoke(ctx, token); err != nil {
		return utils.Internal("Failed to logout", err)
	}
	metrics.TokensRevokedTotal.Inc()
	return nil
}

// SeedAdmin creates the bootstrap super admin when it does not exist yet
func (s *authService) SeedAdmin(ctx context.Context, seed config.SeedConfig) error {
	if seed.AdminUsername == "" || seed.AdminPassword == "" {
		return nil
	}

	existing, err := s.adminRepo.FindByUsername(ctx, seed.AdminUsername)
	if err == nil && existing != nil {
		s.logger.WithField("username", seed.AdminUsername).Debug("Seed admin already exists")
		return nil
	}
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(seed.AdminPassword)
	if err != nil {
		return err
	}

	email := seed.AdminEmail
	if email == "" {
		email = seed.AdminUsername + "@localhost"
	}

	admin := &models.Admin{
		Name:         "Super Admin",
		Email:        normalizeEmail(email),
		Username:     seed.AdminUsername,
		Password:     hash,
		Status:       models.AdminStatusActive,
		IsSuperAdmin: true,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return err
	}

	s.logger.WithField("username", admin.Username).Info("Seed super admin created")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

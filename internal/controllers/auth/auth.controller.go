package authController

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"
	"hotelparadise/internal/types"
	"hotelparadise/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const MinPasswordLength = 6

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"rol"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type FCMTokenRequest struct {
	FCMToken string `json:"fcmToken"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type AuthControllerInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	RegisterHousekeeper(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, authHeader string) (*AuthResponse, error)
	Logout(ctx context.Context, authHeader string) error
	UpdateFCMToken(ctx context.Context, user *User, req FCMTokenRequest) (*User, error)
}

// AuthController drives the session lifecycle: a user has no session, an
// active one, or one superseded by a newer login.
type AuthController struct {
	userRepo    repositories.UserRepository
	session     *services.SessionService
	tokens      *services.TokenService
	passwords   *services.PasswordService
	transaction *services.TransactionService
	db          database.DB
	log         logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) AuthControllerInterface {
	return &AuthController{
		userRepo:    repos.User,
		session:     services.Session,
		tokens:      services.Token,
		passwords:   services.Password,
		transaction: services.Transaction,
		db:          db,
		log:         logger.New("authController"),
	}
}

func (ac *AuthController) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	role := RoleHousekeeper
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := ParseRole(req.Role)
		if !ok {
			return nil, types.NewValidationError("invalid role %q", req.Role)
		}
		role = parsed
	}

	return ac.register(ctx, req, role)
}

// RegisterHousekeeper ignores any requested role.
func (ac *AuthController) RegisterHousekeeper(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return ac.register(ctx, req, RoleHousekeeper)
}

func (ac *AuthController) register(ctx context.Context, req RegisterRequest, role Role) (*AuthResponse, error) {
	log := ac.log.Function("register").TraceFromContext(ctx)

	name := utils.CleanText(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if name == "" {
		return nil, types.NewValidationError("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, types.NewValidationError("a valid email is required")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, types.NewValidationError("password must be at least %d characters", MinPasswordLength)
	}

	var response *AuthResponse
	err := ac.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		exists, err := ac.userRepo.ExistsByEmail(ctx, tx, email)
		if err != nil {
			return err
		}
		if exists {
			return types.NewValidationError("email %s is already registered", email)
		}

		hash, err := ac.passwords.Hash(req.Password)
		if err != nil {
			return err
		}

		user := &User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			Status:       true,
		}
		if err := ac.userRepo.Create(ctx, tx, user); err != nil {
			return err
		}

		response, err = ac.issueSession(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("User registered", "userID", response.User.ID, "role", role)
	return response, nil
}

// Login supersedes any previous session. Revocation and issuance commit
// separately; if the second step fails the user has no live token and logs in
// again.
func (ac *AuthController) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	log := ac.log.Function("Login").TraceFromContext(ctx)

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, types.NewValidationError("email and password are required")
	}

	user, err := ac.userRepo.GetWithCredentials(ctx, ac.db.SQL, req.Email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewAuthenticationError("invalid credentials")
		}
		return nil, log.Err("failed to load user", err)
	}

	match, err := ac.passwords.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, log.Err("failed to verify password", err, "userID", user.ID)
	}
	if !match {
		log.Info("Rejected login", "userID", user.ID)
		return nil, types.NewAuthenticationError("invalid credentials")
	}
	if !user.Status {
		return nil, types.NewAuthenticationError("user is inactive")
	}

	if err := ac.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return ac.session.RevokeAll(ctx, tx, user.ID)
	}); err != nil {
		return nil, err
	}

	var response *AuthResponse
	if err := ac.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		response, err = ac.issueSession(ctx, tx, user)
		return err
	}); err != nil {
		return nil, log.Err("failed to issue session after revocation", err, "userID", user.ID)
	}

	log.Info("User logged in", "userID", user.ID)
	return response, nil
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself stays live and is returned unchanged.
func (ac *AuthController) Refresh(ctx context.Context, authHeader string) (*AuthResponse, error) {
	log := ac.log.Function("Refresh").TraceFromContext(ctx)

	raw, ok := utils.BearerToken(authHeader)
	if !ok {
		return nil, types.NewValidationError("missing or malformed authorization header")
	}

	user, err := ac.session.Authenticate(ctx, raw, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	if err := ac.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return ac.session.RevokeAll(ctx, tx, user.ID, TokenTypeAccess)
	}); err != nil {
		return nil, err
	}

	var access string
	if err := ac.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		access, err = ac.tokens.IssueAccess(user)
		if err != nil {
			return err
		}
		return ac.session.Record(ctx, tx, user, access, TokenTypeAccess)
	}); err != nil {
		return nil, log.Err("failed to issue access token after revocation", err, "userID", user.ID)
	}

	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: raw,
		User:         user.ToResponse(),
	}, nil
}

func (ac *AuthController) Logout(ctx context.Context, authHeader string) error {
	raw, ok := utils.BearerToken(authHeader)
	if !ok {
		return types.NewValidationError("missing or malformed authorization header")
	}

	token, err := ac.session.RevokeOne(ctx, ac.db.SQL, raw)
	if err != nil {
		return err
	}

	ac.log.Function("Logout").TraceFromContext(ctx).Info("User logged out", "userID", token.UserID)
	return nil
}

// UpdateFCMToken stores the device push address; a blank value clears it.
func (ac *AuthController) UpdateFCMToken(ctx context.Context, user *User, req FCMTokenRequest) (*User, error) {
	fcmToken := utils.OptionalText(&req.FCMToken)

	if err := ac.userRepo.UpdateFCMToken(ctx, ac.db.SQL, user, fcmToken); err != nil {
		return nil, err
	}

	return user, nil
}

func (ac *AuthController) issueSession(ctx context.Context, tx *gorm.DB, user *User) (*AuthResponse, error) {
	access, err := ac.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, err := ac.tokens.IssueRefresh(user)
	if err != nil {
		return nil, err
	}

	if err := ac.session.Record(ctx, tx, user, access, TokenTypeAccess); err != nil {
		return nil, err
	}
	if err := ac.session.Record(ctx, tx, user, refresh, TokenTypeRefresh); err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.ToResponse(),
	}, nil
}

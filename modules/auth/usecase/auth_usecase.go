package usecase

import (
	"context"
	"errors"

	"go-rbac-api/common"
	"go-rbac-api/domain"
	"go-rbac-api/pkg/log"
	"go-rbac-api/pkg/metrics"
	"go-rbac-api/pkg/utils"
	"go-rbac-api/validator"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Hasher interface {
	Hash(password string) (hash string, salt string, err error)
	Compare(hash, salt, password string) bool
}

type JWTProvider interface {
	Generate(tokenType domain.TokenType, userID string) (string, error)
	Verify(tokenType domain.TokenType, tokenStr string) (*domain.JwtClaims, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByRefreshToken(ctx context.Context, token string) (*domain.User, error)
	SetRefreshToken(ctx context.Context, userID string, token string) error
}

type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}

type Options struct {
	// SignupRolesEnabled lets callers pick their own roles at registration.
	SignupRolesEnabled bool
}

type authUsecase struct {
	userRepo    UserRepository
	roleRepo    RoleRepository
	authorizer  domain.Authorizer
	jwtProvider JWTProvider
	hasher      Hasher
	validator   validator.Validator
	metrics     *metrics.Metrics
	logger      log.Logger
	opts        Options

	// decoy credentials are compared when the email is unknown.
	decoyHash string
	decoySalt string
}

func NewAuthUsecase(
	userRepo UserRepository,
	roleRepo RoleRepository,
	authorizer domain.Authorizer,
	jwtProvider JWTProvider,
	hasher Hasher,
	v validator.Validator,
	m *metrics.Metrics,
	logger log.Logger,
	opts Options,
) domain.AuthUsecase {
	uc := &authUsecase{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		authorizer:  authorizer,
		jwtProvider: jwtProvider,
		hasher:      hasher,
		validator:   v,
		metrics:     m,
		logger:      logger,
		opts:        opts,
	}
	uc.decoyHash, uc.decoySalt, _ = hasher.Hash(uuid.NewString())
	return uc
}

func (a *authUsecase) Register(ctx context.Context, req *domain.RegisterRequest) (user *domain.User, err error) {
	defer func() { a.metrics.ObserveAuth("signup", err) }()

	if req == nil {
		return nil, domain.ErrInvalidInput.WithReason("request body is required")
	}
	if err := a.validator.ValidateStruct(req); err != nil {
		return nil, domain.ErrInvalidInput.WithError(a.validator.Translate(err)).WithWrap(err)
	}

	roles, err := a.resolveSignupRoles(ctx, req.Roles)
	if err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(req.Email)
	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, salt, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, domain.ErrPasswordHashFailed.WithWrap(err)
	}

	user = &domain.User{
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Image:     req.Image,
		Roles:     domain.StringSlice(roles),
		Password:  hash,
		Salt:      salt,
	}
	if err := a.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same email
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, domain.ErrUserCreationFailed.WithWrap(err)
	}

	a.logger.InfoContext(ctx, "User registered",
		log.String("user_id", user.ID),
		log.String("email", utils.MaskEmail(user.Email)),
		log.Any("roles", roles))
	return user.Sanitize(), nil
}

// resolveSignupRoles defaults to [user]. Requested roles must be known names
// that exist as active roles.
func (a *authUsecase) resolveSignupRoles(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return []string{string(domain.RoleUser)}, nil
	}
	if !a.opts.SignupRolesEnabled {
		return nil, domain.ErrSignupRolesDisabled
	}

	names, err := domain.ParseRoleNames(requested)
	if err != nil {
		return nil, err
	}
	roles := lo.Uniq(domain.RoleNamesToStrings(names))
	for _, name := range roles {
		if _, err := a.roleRepo.FindByName(ctx, name); err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return nil, domain.ErrInvalidInput.WithReasonf("role %q does not exist", name)
			}
			return nil, domain.ErrInternalServerError.WithWrap(err)
		}
	}
	return roles, nil
}

func (a *authUsecase) Authenticate(ctx context.Context, req *domain.LoginRequest) (resp *domain.AuthResponse, err error) {
	defer func() { a.metrics.ObserveAuth("signin", err) }()

	if req == nil || req.Email == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput.WithReason("email and password are required")
	}

	email := domain.NormalizeEmail(req.Email)
	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			a.hasher.Compare(a.decoyHash, a.decoySalt, req.Password)
			a.logger.InfoContext(ctx, "Sign in rejected", log.String("email", utils.MaskEmail(email)))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	if !a.hasher.Compare(user.Password, user.Salt, req.Password) {
		a.logger.InfoContext(ctx, "Sign in rejected", log.String("email", utils.MaskEmail(email)))
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := a.jwtProvider.Generate(domain.TokenTypeAccess, user.ID)
	if err != nil {
		return nil, a.tokenError(err)
	}
	refreshToken, err := a.jwtProvider.Generate(domain.TokenTypeRefresh, user.ID)
	if err != nil {
		return nil, a.tokenError(err)
	}

	// One live refresh token per user, a new sign in replaces the previous one
	if err := a.userRepo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	return &domain.AuthResponse{
		User:         user.Sanitize(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (a *authUsecase) SignOut(ctx context.Context, refreshToken string) (err error) {
	defer func() { a.metrics.ObserveAuth("signout", err) }()

	if refreshToken == "" {
		return domain.ErrInvalidInput.WithReason("refresh token is required")
	}

	user, err := a.userRepo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrRefreshTokenNotFound
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}

	if err := a.userRepo.SetRefreshToken(ctx, user.ID, ""); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrRefreshTokenNotFound
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}
	return nil
}

func (a *authUsecase) RefreshToken(ctx context.Context, refreshToken string) (resp *domain.RefreshResponse, err error) {
	defer func() { a.metrics.ObserveAuth("refresh", err) }()

	if refreshToken == "" {
		return nil, domain.ErrInvalidInput.WithReason("refresh token is required")
	}

	// Verify reports a missing secret as a configuration error before touching the token
	claims, err := a.jwtProvider.Verify(domain.TokenTypeRefresh, refreshToken)
	if err != nil {
		return nil, a.tokenError(err)
	}

	// Look up by the stored value so a token replaced by a newer sign in is dead
	user, err := a.userRepo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	if claims.Subject != user.ID {
		a.logger.WarnContext(ctx, "Refresh token subject mismatch",
			log.String("subject", claims.Subject),
			log.String("user_id", user.ID))
		return nil, domain.ErrTokenSubjectMismatch
	}

	accessToken, err := a.jwtProvider.Generate(domain.TokenTypeAccess, user.ID)
	if err != nil {
		return nil, a.tokenError(err)
	}
	return &domain.RefreshResponse{AccessToken: accessToken}, nil
}

func (a *authUsecase) Permissions(ctx context.Context, user *domain.User) ([]string, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	perms, err := a.authorizer.GetUserPermissions(ctx, user.Roles)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return perms, nil
}

// tokenError passes configuration and token errors through and hides the rest.
func (a *authUsecase) tokenError(err error) error {
	if common.HasErrorID(err, domain.ErrConfiguration.ID()) || common.HasErrorID(err, domain.ErrInvalidToken.ID()) {
		return err
	}
	return domain.ErrInternalServerError.WithWrap(err)
}

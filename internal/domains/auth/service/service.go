package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"littlelemon/config"
	"littlelemon/infras/jwt"
	"littlelemon/infras/otel"
	"littlelemon/internal/domains/auth/model/dto"
	userModel "littlelemon/internal/domains/user/model"
	userDto "littlelemon/internal/domains/user/model/dto"
	userRepo "littlelemon/internal/domains/user/repository"
	userService "littlelemon/internal/domains/user/service"
	"littlelemon/shared"
	"littlelemon/shared/cache"
	"littlelemon/shared/constant"
	gDto "littlelemon/shared/dto"
	"littlelemon/shared/failure"
	"littlelemon/shared/password"
	"littlelemon/shared/timezone"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	messageInvalidCredentials = "Unable to log in with provided credentials."
	messageUsernameTaken      = "A user with that username already exists."
	messageWrongPassword      = "current password is incorrect"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (userDto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	ObtainToken(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.LoginResponse, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
	EnsureSuperuser(ctx context.Context) error
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exists, err := s.userRepo.Exist(ctx, byUsername(*req.Username))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, failure.FieldError(dto.FieldUsername, messageUsernameTaken) //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(*req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(hashedPassword)

	user.ID, err = s.userRepo.Insert(ctx, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	userService.InvalidateUsers(ctx, s.cache)

	log.Info().Int64("id", user.ID).Str("username", user.Username).Msg("user registered")

	res.FromModel(user, nil)

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.authenticate(ctx, req)
	if err != nil {
		return res, err
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Username, user.Role())
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.touchLastLogin(ctx, user)

	res.FromTokenPair(tokenPair)

	return res, nil
}

// ObtainToken answers only the access token, for clients of the api-token-auth endpoint.
func (s *serviceImpl) ObtainToken(ctx context.Context, req dto.LoginRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ObtainToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	login, err := s.Login(ctx, req)
	if err != nil {
		return res, err
	}

	res.Token = login.AccessToken

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tokenPair, err := s.jwtService.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") //nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

// Logout revokes the access token the caller authenticated with.
func (s *serviceImpl) Logout(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Logout")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tokenID, _ := ctx.Value(constant.ContextKeyTokenID).(string)
	if tokenID == "" {
		return failure.Unauthorized(constant.ResponseErrorUnauthenticated) //nolint:wrapcheck
	}

	claims := &jwt.Claims{}
	claims.ID = tokenID
	claims.Username, _ = ctx.Value(constant.ContextKeyUsername).(string)

	if expiresAt, ok := ctx.Value(constant.ContextKeyTokenExp).(time.Time); ok {
		claims.ExpiresAt = gojwt.NewNumericDate(expiresAt)
	}

	if err = s.jwtService.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}

	return nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(int64)
	username, _ := ctx.Value(constant.ContextKeyUsername).(string)
	filter := shared.FilterByID(userID, userModel.FieldID, userModel.TableName)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == 0 {
		return failure.NotFound(constant.ResponseErrorNotFound) //nolint:wrapcheck
	}

	if err := password.Verify(req.CurrentPassword, user.Password); err != nil {
		return failure.FieldError("current_password", messageWrongPassword) //nolint:wrapcheck
	}

	if problems := password.Validate(req.NewPassword, user.Username); len(problems) > 0 {
		return failure.Validation(map[string][]string{dto.FieldNewPassword: problems}) //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatedFields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashedPassword}, username)

	if err = s.userRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// EnsureSuperuser creates the configured staff account when it does not exist yet.
// Nothing happens when no superuser is configured.
func (s *serviceImpl) EnsureSuperuser(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EnsureSuperuser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	superuser := s.cfg.App.Superuser
	if superuser.Username == "" || superuser.Password == "" {
		return nil
	}

	exists, err := s.userRepo.Exist(ctx, byUsername(superuser.Username))
	if err != nil {
		return fmt.Errorf("failed to check if superuser exists: %w", err)
	}

	if exists {
		log.Debug().Str("username", superuser.Username).Msg("superuser already exists")

		return nil
	}

	hashedPassword, err := password.Hash(superuser.Password)
	if err != nil {
		return fmt.Errorf("failed to hash superuser password: %w", err)
	}

	req := dto.RegisterRequest{Username: &superuser.Username, Email: &superuser.Email}

	user := req.ToUserModel(hashedPassword)
	user.IsStaff = true
	user.CreatedBy = constant.ContextSystem
	user.ModifiedBy = constant.ContextSystem

	if _, err = s.userRepo.Insert(ctx, user); err != nil {
		return fmt.Errorf("failed to create superuser: %w", err)
	}

	userService.InvalidateUsers(ctx, s.cache)

	log.Info().Str("username", superuser.Username).Msg("superuser created")

	return nil
}

// authenticate answers the same failure for an unknown user, a wrong password and an inactive account.
func (s *serviceImpl) authenticate(ctx context.Context, req dto.LoginRequest) (userModel.User, error) {
	user, err := s.userRepo.Get(ctx, byUsername(req.Username))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == 0 {
		log.Warn().Str("username", req.Username).Msg("login attempt with non-existent username")

		return user, failure.FieldError(failure.NonFieldErrors, messageInvalidCredentials) //nolint:wrapcheck
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		if !errors.Is(err, password.ErrInvalidPassword) {
			log.Error().Err(err).Int64("id", user.ID).Msg("failed to verify password")
		}

		log.Warn().Str("username", req.Username).Msg("login attempt with wrong password")

		return user, failure.FieldError(failure.NonFieldErrors, messageInvalidCredentials) //nolint:wrapcheck
	}

	if !user.IsActive {
		log.Warn().Str("username", req.Username).Msg("login attempt on inactive account")

		return user, failure.FieldError(failure.NonFieldErrors, messageInvalidCredentials) //nolint:wrapcheck
	}

	return user, nil
}

// touchLastLogin records the login time; a failure does not fail the login.
func (s *serviceImpl) touchLastLogin(ctx context.Context, user userModel.User) {
	updatedFields := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}, user.Username)

	if err := s.userRepo.Update(ctx, updatedFields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Int64("id", user.ID).Msg("failed to update last login")
	}
}

func byUsername(username string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldUsername,
				Operator: gDto.FilterOperatorEq,
				Value:    username,
				Table:    userModel.TableName,
			},
		},
	}
}

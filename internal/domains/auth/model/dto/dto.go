package dto

import (
	"littlelemon/infras/jwt"
	userModel "littlelemon/internal/domains/user/model"
	gModel "littlelemon/shared/model"
	"littlelemon/shared/password"
	"regexp"
	"time"
)

const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldNewPassword = "new_password"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type RegisterRequest struct {
	Username *string `json:"username" validate:"required,notblank,max=150"`
	Email    *string `json:"email"    validate:"omitempty,email,max=254"`
	Password *string `json:"password" validate:"required"`
}

func (r *RegisterRequest) Check() map[string][]string {
	fields := map[string][]string{}

	if !usernamePattern.MatchString(*r.Username) {
		fields[FieldUsername] = []string{"username may contain only letters, numbers, and @/./+/-/_ characters"}
	}

	if problems := password.Validate(*r.Password, *r.Username); len(problems) > 0 {
		fields[FieldPassword] = problems
	}

	return fields
}

func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	user := userModel.User{
		Username: *r.Username,
		Password: hashedPassword,
		IsActive: true,
		Metadata: gModel.NewMetadata(*r.Username),
	}

	if r.Email != nil {
		user.Email = *r.Email
	}

	return user
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.TokenType = tokenPair.TokenType
	l.ExpiresIn = tokenPair.ExpiresIn
}

// TokenResponse is the single bearer token answered by the api-token-auth endpoint.
type TokenResponse struct {
	Token string `json:"token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required"`
}

func (r *ChangePasswordRequest) Check() map[string][]string {
	if problems := password.Validate(r.NewPassword, ""); len(problems) > 0 {
		return map[string][]string{FieldNewPassword: problems}
	}

	return nil
}

type UpdatePasswordRequest struct {
	Password string `db:"password"`
}

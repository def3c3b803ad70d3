package echoapi

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mwalimu/ratiba/core"
	"github.com/mwalimu/ratiba/core/actor"
)

var (
	appJWTConfig = middleware.JWTConfig{
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "actorToken",
		Claims:        new(Claims),
	}
	jwtIssuer          string
	jwtExpirationDelta time.Duration
)

// Claims represents the authorization claims transmitted via a JWT.
// Auth itself is external; the API only verifies and trusts these claims.
type Claims struct {
	jwt.StandardClaims
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	IsStudent   bool     `json:"is_student,omitempty"`
	IsTeacher   bool     `json:"is_teacher,omitempty"`
	IsRegistrar bool     `json:"is_registrar,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// configureAuth finalizes the JWT middleware config from the app config.
func configureAuth(conf *core.Config) echo.MiddlewareFunc {
	appJWTConfig.SigningKey = []byte(conf.SecretKey)
	jwtIssuer = conf.AppName
	jwtExpirationDelta = conf.Server.JWTExpirationDelta
	return middleware.JWTWithConfig(appJWTConfig)
}

// GetActorClaims builds Claims for an actor; used by tests and by the
// external auth service contract.
func GetActorClaims(act actor.Actor) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    jwtIssuer,
			Subject:   act.ID,
			Audience:  "Ratiba",
			ExpiresAt: now.Add(jwtExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:        act.Name,
		Email:       act.Email,
		IsStudent:   act.IsStudent(),
		IsTeacher:   act.IsTeacher(),
		IsRegistrar: act.IsRegistrar(),
		Roles:       act.Roles,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)
	return token.SignedString(appJWTConfig.SigningKey.([]byte))
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextActor builds the viewer Actor from the verified claims.
func getContextActor(ctx echo.Context) (actor.Actor, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return actor.Actor{}, err
	}
	return actor.Actor{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Roles: claims.Roles,
	}, nil
}

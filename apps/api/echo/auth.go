package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
)

const (
	RoleGrader     = "grader"
	RoleInstructor = "instructor"

	tokenContextKey = "graderToken"
	tokenAudience   = "Grading"
)

// Grader is the subject of an API token.
type Grader struct {
	ID    string
	Name  string
	Email string
	Roles []string
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

func (c Claims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, want := range roles {
		for _, role := range c.Roles {
			if role == want {
				return true
			}
		}
	}
	return false
}

func (c Claims) Person() core.Person {
	return core.Person{ID: c.Subject, Name: c.Name, Email: c.Email}
}

type jwtAuth struct {
	conf   *core.Config
	config middleware.JWTConfig
}

func newJWTAuth(conf *core.Config) *jwtAuth {
	return &jwtAuth{
		conf: conf,
		config: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    tokenContextKey,
			Claims:        new(Claims),
		},
	}
}

func (a *jwtAuth) NewClaims(g Grader) *Claims {
	now := time.Now()
	roles := g.Roles
	if len(roles) == 0 {
		roles = []string{RoleGrader}
	}
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.conf.AppName,
			Subject:   g.ID,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(a.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  g.Name,
		Email: g.Email,
		Roles: roles,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func (a *jwtAuth) GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.config.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.config.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// GenerateToken signs a token for the grader with the app secret key.
// Graders without roles get the grader role.
func GenerateToken(conf *core.Config, g Grader) (string, error) {
	a := newJWTAuth(conf)
	return a.GenerateToken(a.NewClaims(g))
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func contextHasAnyRole(ctx echo.Context, roles ...string) bool {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return false
	}
	return claims.HasAnyRole(roles...)
}

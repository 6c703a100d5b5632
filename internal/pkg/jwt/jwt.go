package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies access tokens minted by the external identity service
// and exposes the claims the workforce core cares about. Token issuance
// lives outside this backend.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	ClaimsFromContext(ctx context.Context) (Claims, error)
}

// Claims is the subset of JWT claims the core consumes.
type Claims struct {
	UserID     string
	EmployeeID string
	Role       string
}

type JWTService struct {
	secretKey string
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		secretKey: secretKey,
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// ClaimsFromContext extracts the verified claims placed in the request
// context by the jwtauth verifier middleware.
func (j *JWTService) ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, _ := claims["user_id"].(string)
	employeeID, _ := claims["employee_id"].(string)
	role, _ := claims["role"].(string)

	if userID == "" {
		return Claims{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	return Claims{
		UserID:     userID,
		EmployeeID: employeeID,
		Role:       role,
	}, nil
}

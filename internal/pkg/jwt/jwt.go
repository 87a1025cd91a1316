package jwt

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	ClaimEmployeeCode = "employee_code"
	ClaimRole         = "role"
	ClaimType         = "type"

	TokenTypeAccess = "access"
)

type Service interface {
	GenerateAccessToken(employeeCode string, role employee.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

// GenerateAccessToken issues a token carrying the caller identity read by the
// HTTP middleware. Login is handled elsewhere; this serves operators and tests.
func (j *JWTService) GenerateAccessToken(employeeCode string, role employee.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		ClaimEmployeeCode: employeeCode,
		ClaimRole:         string(role),
		ClaimType:         TokenTypeAccess,
		"exp":             expiresAt,
	})
	return tokenString, expiresAt, err
}

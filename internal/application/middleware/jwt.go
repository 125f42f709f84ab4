package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/infrastructure/config"
	"github.com/bivex/habitpass/internal/infrastructure/logging"
)

// Token types carried in the "typ" claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// JWTClaims represents the JWT claims structure
type JWTClaims struct {
	UserID string `json:"sub"`
	JTI    string `json:"jti"` // JWT ID for revocation
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// JWTMiddleware handles JWT validation and revocation checking
type JWTMiddleware struct {
	secret          []byte
	issuer          string
	blocklist       *redis.Client
	accessTTL       time.Duration
	refreshTTL      time.Duration
	blocklistPrefix string
	logger          *zap.Logger
}

// NewJWTMiddleware creates a new JWT middleware. A nil redis client disables revocation.
func NewJWTMiddleware(cfg config.JWTConfig, redisClient *redis.Client) *JWTMiddleware {
	return &JWTMiddleware{
		secret:          []byte(cfg.Secret),
		issuer:          cfg.Issuer,
		blocklist:       redisClient,
		accessTTL:       cfg.AccessTTL,
		refreshTTL:      cfg.RefreshTTL,
		blocklistPrefix: "jwt:blocked:",
		logger:          logging.Logger,
	}
}

// AccessTTL returns the lifetime of access tokens
func (j *JWTMiddleware) AccessTTL() time.Duration {
	return j.accessTTL
}

// Authenticate validates the access token and sets user context
func (j *JWTMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "Missing authorization header"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := j.ParseToken(parts[1])
		if err != nil || claims.Type != TokenTypeAccess {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "Invalid token"})
			c.Abort()
			return
		}

		revoked, err := j.IsRevoked(c.Request.Context(), claims.JTI)
		if err != nil {
			j.logger.Error("failed to check token blocklist", zap.Error(err))
			// Fail closed
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "SERVICE_UNAVAILABLE", "message": "Token validation unavailable"})
			c.Abort()
			return
		}
		if revoked {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "TOKEN_REVOKED", "message": "Token has been revoked"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("jti", claims.JTI)

		c.Next()
	}
}

// GenerateAccessToken creates a new access token
func (j *JWTMiddleware) GenerateAccessToken(userID string) (string, string, error) {
	return j.generate(userID, TokenTypeAccess, j.accessTTL)
}

// GenerateRefreshToken creates a new refresh token with longer TTL
func (j *JWTMiddleware) GenerateRefreshToken(userID string) (string, string, error) {
	return j.generate(userID, TokenTypeRefresh, j.refreshTTL)
}

func (j *JWTMiddleware) generate(userID, tokenType string, ttl time.Duration) (string, string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := &JWTClaims{
		UserID: userID,
		JTI:    jti,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    j.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", "", err
	}

	return tokenString, jti, nil
}

// ParseToken parses a token string and returns the claims without checking the blocklist
func (j *JWTMiddleware) ParseToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	}, jwt.WithIssuer(j.issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsRevoked checks the blocklist for jti
func (j *JWTMiddleware) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if j.blocklist == nil {
		return false, nil
	}
	blocked, err := j.blocklist.Get(ctx, j.blocklistPrefix+jti).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return blocked != "", nil
}

// RevokeToken adds a token to the blocklist
func (j *JWTMiddleware) RevokeToken(ctx context.Context, jti string, remainingTTL time.Duration) error {
	if j.blocklist == nil {
		return nil
	}
	return j.blocklist.Set(ctx, j.blocklistPrefix+jti, "1", remainingTTL).Err()
}

// UserIDFromContext returns the authenticated user id set by Authenticate
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

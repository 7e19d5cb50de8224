package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/training-registration-api/internal/models"
	appErrors "github.com/noah-isme/training-registration-api/pkg/errors"
)

const (
	sessionIssuer      = "training-registration"
	msgInvalidPassword = "Senha incorreta"
)

type gateMetrics interface {
	RecordGateAttempt(success bool)
}

// GateConfig defines the HR gate secret and session signing.
type GateConfig struct {
	Password      string
	PasswordHash  string
	SessionSecret string
	SessionTTL    time.Duration
	Delay         time.Duration
}

// AccessGate guards the HR dashboard with a single shared password. It is a UI convenience, not security.
type AccessGate struct {
	cfg     GateConfig
	metrics gateMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewAccessGate constructs the gate.
func NewAccessGate(cfg GateConfig, metrics gateMetrics, logger *zap.Logger) *AccessGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	return &AccessGate{cfg: cfg, metrics: metrics, logger: logger, now: time.Now}
}

// Authenticate reports whether candidate equals the configured secret.
func (g *AccessGate) Authenticate(candidate string) bool {
	if g.cfg.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(g.cfg.PasswordHash), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(g.cfg.Password)) == 1
}

// Open sets the HR flag on session when candidate matches. A mismatch leaves session untouched.
func (g *AccessGate) Open(session *models.Session, candidate string) bool {
	if !g.Authenticate(candidate) {
		return false
	}
	session.Set(models.SessionAuthenticatedKey, "true")
	return true
}

// Login waits the configured delay, opens a fresh session and returns its signed token.
func (g *AccessGate) Login(ctx context.Context, candidate string) (string, error) {
	if err := sleepContext(ctx, g.cfg.Delay); err != nil {
		return "", err
	}

	session := models.NewSession()
	opened := g.Open(session, candidate)
	if g.metrics != nil {
		g.metrics.RecordGateAttempt(opened)
	}
	if !opened {
		g.logger.Info("hr gate rejected password")
		return "", appErrors.Clone(appErrors.ErrInvalidCredentials, msgInvalidPassword)
	}

	token, err := g.IssueSession(session)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue session")
	}
	g.logger.Info("hr gate opened")
	return token, nil
}

// IssueSession signs the session values into an HS256 token.
func (g *AccessGate) IssueSession(session *models.Session) (string, error) {
	issuedAt := g.now().UTC()
	claims := &models.SessionClaims{
		Values: session.Values(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(g.cfg.SessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(g.cfg.SessionSecret))
}

// ParseSession validates a session token and returns its values.
func (g *AccessGate) ParseSession(tokenString string) (*models.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(g.cfg.SessionSecret), nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(g.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session claims")
	}
	return models.SessionFromValues(claims.Values), nil
}

// Package service implements authentication for agent accounts.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	directoryrepo "tripdesk_backend/internal/directory/repository"
	"tripdesk_backend/internal/auth/transport"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/config"
	"tripdesk_backend/platform/logger"
)

const accessTokenType = "access"

const msgInvalidCredentials = "invalid credentials"

// Service authenticates agents against the directory and issues JWTs.
type Service struct {
	agents directoryrepo.Repository
	cfg    config.AuthServiceConfig
	log    *logger.Logger
}

// New creates an auth service.
func New(agents directoryrepo.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{agents: agents, cfg: cfg, log: log}
}

// Login verifies credentials and issues a signed access token. It also
// stamps the agent's last-login time, which feeds the assignment
// engine's recent-activity filter.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	agent, err := s.agents.GetByEmail(ctx, email)
	if err != nil {
		// Same response for unknown email and wrong password.
		s.log.AuthEvent("login_failed", email, false, "unknown email")
		return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte(req.Password)); err != nil {
		s.log.AuthEvent("login_failed", email, false, "wrong password")
		return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if !agent.IsActive {
		s.log.AuthEvent("login_rejected_inactive", email, false, "account deactivated")
		return transport.LoginResponse{}, apperr.Forbidden("account is deactivated")
	}

	if err := s.agents.TouchLastLogin(ctx, agent.ID); err != nil {
		return transport.LoginResponse{}, err
	}

	ttl := s.cfg.GetAccessTokenTTL()
	accessToken, err := s.signJWT(agent.ID, []string{agent.Role}, ttl)
	if err != nil {
		return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}

	s.log.AuthEvent("login", email, true, "")

	return transport.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(ttl.Seconds()),
		Agent: transport.AgentClaims{
			ID:    agent.ID,
			Name:  agent.Name,
			Email: agent.Email,
			Role:  agent.Role,
		},
	}, nil
}

// Me returns the authenticated agent's profile.
func (s *Service) Me(ctx context.Context, agentID uuid.UUID) (transport.AgentClaims, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return transport.AgentClaims{}, err
	}
	return transport.AgentClaims{
		ID:    agent.ID,
		Name:  agent.Name,
		Email: agent.Email,
		Role:  agent.Role,
	}, nil
}

func (s *Service) signJWT(agentID uuid.UUID, roles []string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   agentID.String(),
		"type":  accessTokenType,
		"roles": roles,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

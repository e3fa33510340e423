package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tripdesk_backend/internal/auth/transport"
	directoryrepo "tripdesk_backend/internal/directory/repository"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"
)

const testSecret = "test-secret"

type fakeAgents struct {
	directoryrepo.Repository
	byEmail     map[string]directoryrepo.Agent
	lastLoginID *uuid.UUID
}

func (f *fakeAgents) GetByEmail(ctx context.Context, email string) (directoryrepo.Agent, error) {
	agent, ok := f.byEmail[email]
	if !ok {
		return directoryrepo.Agent{}, apperr.NotFound("agent not found")
	}
	return agent, nil
}

func (f *fakeAgents) GetByID(ctx context.Context, id uuid.UUID) (directoryrepo.Agent, error) {
	for _, agent := range f.byEmail {
		if agent.ID == id {
			return agent, nil
		}
	}
	return directoryrepo.Agent{}, apperr.NotFound("agent not found")
}

func (f *fakeAgents) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	f.lastLoginID = &id
	return nil
}

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return testSecret }
func (testConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }

func newTestService(agents *fakeAgents) *Service {
	return New(agents, testConfig{}, logger.New("test"))
}

func seedAgent(t *testing.T, agents *fakeAgents, email, password, role string, active bool) directoryrepo.Agent {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	agent := directoryrepo.Agent{
		ID:           uuid.New(),
		Name:         "Test Agent",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	}
	agents.byEmail[email] = agent
	return agent
}

func TestLoginSuccess(t *testing.T) {
	agents := &fakeAgents{byEmail: make(map[string]directoryrepo.Agent)}
	agent := seedAgent(t, agents, "alice@example.com", "s3cret", "agent", true)
	svc := newTestService(agents)

	resp, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "  Alice@Example.com ",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Agent.ID != agent.ID {
		t.Errorf("response agent = %s, want %s", resp.Agent.ID, agent.ID)
	}
	if agents.lastLoginID == nil || *agents.lastLoginID != agent.ID {
		t.Error("last login was not stamped")
	}

	// Token must be verifiable with the configured secret and carry the
	// agent's role.
	token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != agent.ID.String() {
		t.Errorf("token sub = %v, want %s", claims["sub"], agent.ID)
	}
	if claims["type"] != "access" {
		t.Errorf("token type = %v, want access", claims["type"])
	}
	roles, _ := claims["roles"].([]interface{})
	if len(roles) != 1 || roles[0] != "agent" {
		t.Errorf("token roles = %v, want [agent]", claims["roles"])
	}
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	agents := &fakeAgents{byEmail: make(map[string]directoryrepo.Agent)}
	seedAgent(t, agents, "alice@example.com", "s3cret", "agent", true)
	svc := newTestService(agents)

	_, unknownErr := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cret",
	})
	_, wrongErr := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})

	for _, err := range []error{unknownErr, wrongErr} {
		if apperr.GetKind(err) != apperr.KindUnauthorized {
			t.Errorf("error kind = %v, want %v", apperr.GetKind(err), apperr.KindUnauthorized)
		}
	}
	// Unknown email and wrong password must present the same message.
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("failure messages differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	agents := &fakeAgents{byEmail: make(map[string]directoryrepo.Agent)}
	seedAgent(t, agents, "alice@example.com", "s3cret", "agent", false)
	svc := newTestService(agents)

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Errorf("error kind = %v, want %v", apperr.GetKind(err), apperr.KindForbidden)
	}
	if agents.lastLoginID != nil {
		t.Error("deactivated login still stamped last login")
	}
}

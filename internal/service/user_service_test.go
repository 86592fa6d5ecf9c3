package service

import (
	"context"
	"testing"
	"time"

	"github.com/quiz-platform/backend/internal/domain"
	"github.com/quiz-platform/backend/internal/infrastructure"
)

func newUserService() (*UserService, *fakeUserRepo) {
	userRepo := newFakeUserRepo()
	jwtConfig := &infrastructure.JWTConfig{
		SecretKey:          "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "test",
	}
	return NewUserService(userRepo, jwtConfig, testTracer(), testLogger()), userRepo
}

func registerTestUser(t *testing.T, svc *UserService) (*domain.User, *TokenPair) {
	t.Helper()
	user, tokens, err := svc.Register(context.Background(), &domain.UserCreateRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return user, tokens
}

func TestRegisterAssignsUserRole(t *testing.T) {
	svc, _ := newUserService()

	user, tokens := registerTestUser(t, svc)
	if user.Role != domain.RoleUser {
		t.Fatalf("role = %s, want user", user.Role)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected token pair, got %+v", tokens)
	}
}

func TestRegisterDuplicateEmailFails(t *testing.T) {
	svc, _ := newUserService()
	registerTestUser(t, svc)

	_, _, err := svc.Register(context.Background(), &domain.UserCreateRequest{
		Email:    "alice@example.com",
		Username: "alice2",
		Password: "another-password",
	})
	if err != domain.ErrUserAlreadyExists {
		t.Fatalf("err = %v, want ErrUserAlreadyExists", err)
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	svc, _ := newUserService()
	registerTestUser(t, svc)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "alice@example.com", "secret-password"); err != nil {
		t.Fatalf("valid login returned error: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice@example.com", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "secret-password"); err != domain.ErrInvalidCredentials {
		t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateAccessTokenRoundTrip(t *testing.T) {
	svc, _ := newUserService()
	user, tokens := registerTestUser(t, svc)

	userID, role, err := svc.ValidateAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken returned error: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("userID = %s, want %s", userID, user.ID)
	}
	if role != domain.RoleUser {
		t.Fatalf("role = %s, want user", role)
	}
}

func TestValidateAccessTokenRejectsRefreshToken(t *testing.T) {
	svc, _ := newUserService()
	_, tokens := registerTestUser(t, svc)

	if _, _, err := svc.ValidateAccessToken(tokens.RefreshToken); err != domain.ErrInvalidToken {
		t.Fatalf("refresh-as-access err = %v, want ErrInvalidToken", err)
	}
	if _, _, err := svc.ValidateAccessToken("garbage"); err != domain.ErrInvalidToken {
		t.Fatalf("garbage token err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenIssuesNewPair(t *testing.T) {
	svc, _ := newUserService()
	user, tokens := registerTestUser(t, svc)

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken returned error: %v", err)
	}

	userID, _, err := svc.ValidateAccessToken(refreshed.AccessToken)
	if err != nil {
		t.Fatalf("refreshed access token invalid: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("userID = %s, want %s", userID, user.ID)
	}
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc, _ := newUserService()
	_, tokens := registerTestUser(t, svc)

	if _, err := svc.RefreshToken(context.Background(), tokens.AccessToken); err != domain.ErrInvalidToken {
		t.Fatalf("access-as-refresh err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenPicksUpRoleChange(t *testing.T) {
	svc, userRepo := newUserService()
	user, tokens := registerTestUser(t, svc)

	stored, _ := userRepo.FindByID(user.ID)
	stored.Role = domain.RoleAdmin
	if err := userRepo.Update(stored); err != nil {
		t.Fatalf("update user: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken returned error: %v", err)
	}

	_, role, err := svc.ValidateAccessToken(refreshed.AccessToken)
	if err != nil {
		t.Fatalf("refreshed access token invalid: %v", err)
	}
	if role != domain.RoleAdmin {
		t.Fatalf("role = %s, want admin after promotion", role)
	}
}

package service

import (
	"errors"
	"testing"

	"github.com/megano-shop/internal/config"
	"github.com/megano-shop/internal/repository"
)

func newUserAuthServiceForTest(t *testing.T) *UserAuthService {
	db := setupPipelineTest(t, "user_auth_service")
	cfg := config.JWTConfig{SecretKey: "unit-test-secret", ExpireHours: 1}
	return NewUserAuthService(cfg, repository.NewUserRepository(db))
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := newUserAuthServiceForTest(t)

	user, token, err := svc.SignUp("alice", "s3cret-pass", "Alice Example")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if user.ID == 0 || token == "" {
		t.Fatalf("sign up should return persisted user and token, got id=%d token=%q", user.ID, token)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Fatalf("password must not be stored in clear text")
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "alice" {
		t.Fatalf("claims want user %d alice got %+v", user.ID, claims)
	}

	if _, _, err := svc.SignUp("alice", "other-pass", ""); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate username want ErrUserExists got %v", err)
	}

	if _, _, err := svc.SignIn("alice", "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong password want ErrInvalidPassword got %v", err)
	}
	if _, _, err := svc.SignIn("nobody", "whatever"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("unknown user want ErrInvalidPassword got %v", err)
	}

	signedIn, token2, err := svc.SignIn("alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if signedIn.ID != user.ID || token2 == "" {
		t.Fatalf("sign in should return the stored user and a token")
	}
}

func TestChangePassword(t *testing.T) {
	svc := newUserAuthServiceForTest(t)

	user, _, err := svc.SignUp("carol", "old-pass", "Carol")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong", "new-pass"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("wrong current password want ErrPasswordMismatch got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "old-pass", ""); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("empty new password want ErrInvalidPassword got %v", err)
	}
	if err := svc.ChangePassword(9999, "old-pass", "new-pass"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user want ErrUserNotFound got %v", err)
	}

	if err := svc.ChangePassword(user.ID, "old-pass", "new-pass"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, err := svc.SignIn("carol", "old-pass"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("old password should stop working, got %v", err)
	}
	if _, _, err := svc.SignIn("carol", "new-pass"); err != nil {
		t.Fatalf("new password should sign in, got %v", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc := newUserAuthServiceForTest(t)

	if _, err := svc.ParseToken("not-a-token"); err == nil {
		t.Fatalf("garbage token should fail to parse")
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newUserAuthServiceForTest(t)

	user, _, err := svc.SignUp("bob", "s3cret-pass", "Bob")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	updated, err := svc.UpdateProfile(user.ID, ProfileInput{Email: "bob@example.com", Phone: "70000000001"})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.Email != "bob@example.com" || updated.Phone != "70000000001" {
		t.Fatalf("profile not updated, got %+v", updated)
	}
	if updated.FullName != "Bob" {
		t.Fatalf("untouched fields must survive update, got %q", updated.FullName)
	}

	if _, err := svc.GetProfile(9999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user want ErrUserNotFound got %v", err)
	}
}

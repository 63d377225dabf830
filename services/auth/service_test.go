package auth

import (
	"context"
	"testing"

	userRepo "bookwala/database/repository/user"
	"bookwala/models"
)

// memUsers is a map-backed user repository.
type memUsers struct {
	byID map[string]models.User
}

func newMemUsers() *memUsers { return &memUsers{byID: make(map[string]models.User)} }

func (m *memUsers) Create(ctx context.Context, u *models.User) error {
	for _, existing := range m.byID {
		if existing.Phone == u.Phone || (u.Email != "" && existing.Email == u.Email) {
			return userRepo.ErrDuplicate
		}
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, userRepo.ErrNotFound
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (m *memUsers) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Phone == phone {
			copied := u
			return &copied, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (m *memUsers) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	u, ok := m.byID[id]
	if !ok {
		return userRepo.ErrNotFound
	}
	u.PasswordHash = hash
	m.byID[id] = u
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := &DefaultAuthService{Repo: newMemUsers()}

	created, err := svc.Register(ctx, "ali@example.com", "supersecret", "Ali", "+923001234567", models.RoleCustomer, "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Token == "" {
		t.Fatal("register issued no token")
	}
	if created.User.PasswordHash == "supersecret" {
		t.Fatal("password stored in plaintext")
	}

	// Email login.
	byEmail, err := svc.Login(ctx, "Ali@Example.com", "supersecret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if byEmail.User.ID != created.User.ID {
		t.Fatal("login resolved the wrong account")
	}

	// Phone login.
	byPhone, err := svc.LoginWithPhone(ctx, "+923001234567", "supersecret")
	if err != nil {
		t.Fatalf("phone login: %v", err)
	}
	if byPhone.User.ID != created.User.ID {
		t.Fatal("phone login resolved the wrong account")
	}

	if _, err := svc.Login(ctx, "ali@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("bad password: got %v, want %v", err, ErrInvalidCredentials)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "supersecret"); err != ErrInvalidCredentials {
		t.Fatalf("unknown email must not leak existence: got %v", err)
	}
}

func TestRegisterRejectsDuplicatesAndWeakPasswords(t *testing.T) {
	ctx := context.Background()
	svc := &DefaultAuthService{Repo: newMemUsers()}

	if _, err := svc.Register(ctx, "a@example.com", "short", "A", "+1", models.RoleCustomer, ""); err != ErrWeakPassword {
		t.Fatalf("weak password: got %v, want %v", err, ErrWeakPassword)
	}

	if _, err := svc.Register(ctx, "a@example.com", "longenough", "A", "+1", models.RoleCustomer, ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "a@example.com", "longenough", "B", "+2", models.RoleCustomer, ""); err != ErrUserExists {
		t.Fatalf("duplicate email: got %v, want %v", err, ErrUserExists)
	}
}

func TestRegisterVendorBinding(t *testing.T) {
	ctx := context.Background()
	svc := &DefaultAuthService{Repo: newMemUsers()}

	vendor, err := svc.Register(ctx, "owner@example.com", "longenough", "Owner", "+1", models.RoleVendor, "ace_padel_dha")
	if err != nil {
		t.Fatalf("register vendor: %v", err)
	}
	if vendor.User.VendorID != "ace_padel_dha" {
		t.Fatalf("vendor binding = %q, want ace_padel_dha", vendor.User.VendorID)
	}

	// Customers never carry a venue binding, even when one is supplied.
	customer, err := svc.Register(ctx, "c@example.com", "longenough", "C", "+2", models.RoleCustomer, "ace_padel_dha")
	if err != nil {
		t.Fatalf("register customer: %v", err)
	}
	if customer.User.VendorID != "" {
		t.Fatalf("customer carries vendor binding %q", customer.User.VendorID)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := &DefaultAuthService{Repo: newMemUsers()}

	created, err := svc.Register(ctx, "a@example.com", "oldpassword", "A", "+1", models.RoleCustomer, "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	id := created.User.ID

	// Only the account owner may rotate.
	if err := svc.ChangePassword(ctx, "someone-else", id, "oldpassword", "newpassword"); err != ErrForbidden {
		t.Fatalf("cross-account rotation: got %v, want %v", err, ErrForbidden)
	}
	if err := svc.ChangePassword(ctx, id, id, "wrong", "newpassword"); err != ErrInvalidCredentials {
		t.Fatalf("wrong old password: got %v, want %v", err, ErrInvalidCredentials)
	}
	if err := svc.ChangePassword(ctx, id, id, "oldpassword", "new"); err != ErrWeakPassword {
		t.Fatalf("weak new password: got %v, want %v", err, ErrWeakPassword)
	}

	if err := svc.ChangePassword(ctx, id, id, "oldpassword", "newpassword"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Login(ctx, "a@example.com", "oldpassword"); err != ErrInvalidCredentials {
		t.Fatal("old password still accepted")
	}
	if _, err := svc.Login(ctx, "a@example.com", "newpassword"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestChatProvisionedAccountsCannotLogIn(t *testing.T) {
	ctx := context.Background()
	repo := newMemUsers()
	repo.byID["chat-user"] = models.User{ID: "chat-user", Phone: "+923007777777", Role: models.RoleCustomer}
	svc := &DefaultAuthService{Repo: repo}

	if _, err := svc.LoginWithPhone(ctx, "+923007777777", "anything"); err != ErrInvalidCredentials {
		t.Fatalf("hashless account login: got %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestSetPasswordClaimsChatAccount(t *testing.T) {
	ctx := context.Background()
	repo := newMemUsers()
	repo.byID["chat-user"] = models.User{ID: "chat-user", Phone: "+923007777777", Role: models.RoleCustomer}
	svc := &DefaultAuthService{Repo: repo}

	// Only the account owner may set a first password.
	if err := svc.SetPassword(ctx, "someone-else", "chat-user", "firstpassword"); err != ErrForbidden {
		t.Fatalf("cross-account set: got %v, want %v", err, ErrForbidden)
	}
	if err := svc.SetPassword(ctx, "chat-user", "chat-user", "tiny"); err != ErrWeakPassword {
		t.Fatalf("weak password: got %v, want %v", err, ErrWeakPassword)
	}
	if err := svc.SetPassword(ctx, "nobody", "nobody", "firstpassword"); err != ErrUserNotFound {
		t.Fatalf("unknown account: got %v, want %v", err, ErrUserNotFound)
	}

	if err := svc.SetPassword(ctx, "chat-user", "chat-user", "firstpassword"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	result, err := svc.LoginWithPhone(ctx, "+923007777777", "firstpassword")
	if err != nil {
		t.Fatalf("login after set: %v", err)
	}
	if result.User.ID != "chat-user" {
		t.Fatal("login resolved the wrong account")
	}
}

package user

import (
	"errors"
	"testing"
)

func TestRegister_HashesPassword(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	created, err := svc.Register(User{Email: "ravi@example.com", Password: "hunter22", Role: RoleVendor})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.Password == "hunter22" {
		t.Fatal("password stored in the clear")
	}
	if created.ID == "" {
		t.Fatal("expected an id to be assigned")
	}

	if _, err := svc.Register(User{Email: "ravi@example.com", Password: "other", Role: RoleVendor}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate email must be rejected, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))
	if _, err := svc.Register(User{Email: "ravi@example.com", Password: "hunter22", Role: RoleVendor}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	u, err := svc.Authenticate("ravi@example.com", "hunter22")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if u.Email != "ravi@example.com" {
		t.Fatalf("unexpected user %+v", u)
	}

	if _, err := svc.Authenticate("ravi@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password must fail with ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must fail with ErrInvalidCredentials, got %v", err)
	}
}

func TestUpdateProfile_CompletionFlag(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))
	created, err := svc.Register(User{Email: "ravi@example.com", Password: "hunter22", Role: RoleSupplier})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	partial, err := svc.UpdateProfile(created.ID, User{FullName: "Ravi Kumar", Phone: "9876543210"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if partial.ProfileCompleted {
		t.Fatal("profile must not be complete without business name and address")
	}

	full, err := svc.UpdateProfile(created.ID, User{
		FullName:     "Ravi Kumar",
		Phone:        "9876543210",
		BusinessName: "Kumar Fresh Produce",
		Address:      "12 Market Rd",
		City:         "Pune",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !full.ProfileCompleted {
		t.Fatal("profile should be complete once all required fields are set")
	}
}

package users

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

func TestOnlyOneAdmin(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if has, _ := svc.HasAdmin(ctx); has {
		t.Fatal("fresh store should have no admin")
	}
	admin, err := svc.Register(ctx, RegisterInput{Username: "gerente", Password: "x", Role: "admin"})
	if err != nil || !admin.IsAdmin() {
		t.Fatalf("first admin: %+v, %v", admin, err)
	}
	if has, _ := svc.HasAdmin(ctx); !has {
		t.Error("HasAdmin should be true")
	}

	_, err = svc.Register(ctx, RegisterInput{Username: "outro", Password: "x", Role: "admin"})
	if !errors.Is(err, ErrAdminExists) || apperr.HTTPStatus(err) != 409 {
		t.Errorf("second admin: %v", err)
	}
}

func TestRegisterValidationAndConflicts(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: " ana ", Email: "ana@loja.com", Password: "segredo"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Username != "ana" || u.Role != models.RoleUser || u.ID == "" {
		t.Errorf("unexpected user %+v", u)
	}
	if u.Password == "segredo" {
		t.Error("password must be hashed")
	}

	cases := []RegisterInput{
		{Username: "", Password: "x"},
		{Username: "b", Password: ""},
		{Username: "c", Password: "x", Role: "root"},
	}
	for _, in := range cases {
		if _, err := svc.Register(ctx, in); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Register(%+v) = %v, want validation error", in, err)
		}
	}

	if _, err := svc.Register(ctx, RegisterInput{Username: "ana", Password: "y"}); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate username: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "ana2", Email: "ana@loja.com", Password: "y"}); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate email: %v", err)
	}
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()
	svc.Register(ctx, RegisterInput{Username: "ana", Email: "ana@loja.com", Password: "segredo"})

	for _, id := range []string{"ana", "ana@loja.com"} {
		if u, err := svc.Login(ctx, id, "segredo"); err != nil || u.Username != "ana" {
			t.Errorf("Login(%s) = %+v, %v", id, u, err)
		}
	}
	if _, err := svc.Login(ctx, "ana", "errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: %v", err)
	}
	if _, err := svc.Login(ctx, "ninguem", "segredo"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: %v", err)
	}
}

func TestDeleteAndList(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()
	svc.Register(ctx, RegisterInput{Username: "bruno", Password: "x"})
	svc.Register(ctx, RegisterInput{Username: "ana", Password: "x"})

	names, _ := svc.Usernames(ctx)
	if !reflect.DeepEqual(names, []string{"ana", "bruno"}) {
		t.Errorf("Usernames = %v", names)
	}

	if err := svc.Delete(ctx, "bruno"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "bruno"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

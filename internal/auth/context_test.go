package auth

import (
	"context"
	"testing"
)

func TestWithUserAndFromContext(t *testing.T) {
	ctx := WithUser(context.Background(), User{ID: "u1", Email: "clerk@ward.example", Name: "Clerk"})
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected user in context")
	}
	if got.ID != "u1" {
		t.Errorf("ID = %q, want %q", got.ID, "u1")
	}
	if got.Email != "clerk@ward.example" {
		t.Errorf("Email = %q", got.Email)
	}
	if UserID(ctx) != "u1" {
		t.Errorf("UserID = %q, want %q", UserID(ctx), "u1")
	}
}

func TestFromContextMissing(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no user in empty context")
	}
	if UserID(context.Background()) != "" {
		t.Error("expected empty UserID for empty context")
	}
}

package store

import (
	"testing"

	"github.com/google/uuid"

	"quotedesk/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := testCtx()

	username := "store-test-create"
	t.Cleanup(func() { cleanUsers(t, db, username) })

	user, err := s.Create(ctx, username, username+"@test.local", "testpass123", "Test User", models.RoleUser)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if user.Username != username {
		t.Errorf("username: got %q, want %q", user.Username, username)
	}
	if !user.IsActive {
		t.Error("expected new user to be active")
	}
	if user.PasswordHash == "" {
		t.Error("expected non-empty password hash")
	}
	if user.PasswordHash == "testpass123" {
		t.Error("password hash must not be plaintext")
	}
	if !s.CheckPassword(user, "testpass123") {
		t.Error("CheckPassword rejected the correct password")
	}
	if s.CheckPassword(user, "wrong") {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestUserStoreCreateDuplicate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := testCtx()

	username := "store-test-dup"
	t.Cleanup(func() { cleanUsers(t, db, username) })

	if _, err := s.Create(ctx, username, username+"@test.local", "pass", "Dup", models.RoleUser); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := s.Create(ctx, username, username+"@test.local", "pass", "Dup", models.RoleUser)
	if err == nil {
		t.Fatal("expected error for duplicate username")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestUserStoreFindByUsername(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := testCtx()

	username := "store-test-find"
	t.Cleanup(func() { cleanUsers(t, db, username) })

	// Not found case.
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		t.Fatalf("FindByUsername (not found): %v", err)
	}
	if user != nil {
		t.Error("expected nil for non-existent user")
	}

	created, err := s.Create(ctx, username, username+"@test.local", "pass", "Find Me", models.RoleUser)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	user, err = s.FindByUsername(ctx, username)
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != created.ID {
		t.Errorf("ID mismatch: got %s, want %s", user.ID, created.ID)
	}
}

func TestUserStoreGrants(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := testCtx()

	username := "store-test-grants"
	t.Cleanup(func() { cleanUsers(t, db, username) })

	user, err := s.Create(ctx, username, username+"@test.local", "pass", "Grants", models.RoleUser)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Fresh user has no grants and an empty, non-nil grant list.
	ok, err := s.HasGrant(ctx, user.ID, models.PermViewQuotations)
	if err != nil {
		t.Fatalf("HasGrant: %v", err)
	}
	if ok {
		t.Error("expected no grant for fresh user")
	}
	names, err := s.ExplicitGrants(ctx, user.ID)
	if err != nil {
		t.Fatalf("ExplicitGrants: %v", err)
	}
	if names == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(names) != 0 {
		t.Errorf("expected no grants, got %v", names)
	}

	perms, err := s.ListPermissions(ctx)
	if err != nil {
		t.Fatalf("ListPermissions: %v", err)
	}
	if len(perms) == 0 {
		t.Fatal("expected seeded permission catalog")
	}

	var viewID, createID uuid.UUID
	for _, p := range perms {
		switch p.Name {
		case models.PermViewQuotations:
			viewID = p.ID
		case models.PermCreateQuotations:
			createID = p.ID
		}
	}
	if viewID == uuid.Nil || createID == uuid.Nil {
		t.Fatal("quotation permissions missing from catalog")
	}

	if err := s.ReplaceGrants(ctx, user.ID, []uuid.UUID{viewID, createID}, user.ID); err != nil {
		t.Fatalf("ReplaceGrants: %v", err)
	}

	ok, err = s.HasGrant(ctx, user.ID, models.PermViewQuotations)
	if err != nil {
		t.Fatalf("HasGrant: %v", err)
	}
	if !ok {
		t.Error("expected grant after ReplaceGrants")
	}

	// Replacement is total: granting only view drops create.
	if err := s.ReplaceGrants(ctx, user.ID, []uuid.UUID{viewID}, user.ID); err != nil {
		t.Fatalf("ReplaceGrants: %v", err)
	}
	names, err = s.ExplicitGrants(ctx, user.ID)
	if err != nil {
		t.Fatalf("ExplicitGrants: %v", err)
	}
	if len(names) != 1 || names[0] != models.PermViewQuotations {
		t.Errorf("expected only %q, got %v", models.PermViewQuotations, names)
	}
}

package store

import (
	"errors"
	"testing"

	"quotedesk/internal/models"
)

func TestTemplateStoreDefaultFlip(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	ctx := testCtx()

	nameA := "store-test-template-a"
	nameB := "store-test-template-b"
	t.Cleanup(func() { cleanTemplates(t, db, nameA, nameB) })

	a, err := s.Create(ctx, &models.QuotationTemplate{Name: nameA, IsDefault: true})
	if err != nil {
		t.Fatalf("Create a: %v", err)
	}

	b, err := s.Create(ctx, &models.QuotationTemplate{Name: nameB, IsDefault: true})
	if err != nil {
		t.Fatalf("Create b: %v", err)
	}

	// Creating b as default must have demoted a.
	got, err := s.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID a: %v", err)
	}
	if got == nil {
		t.Fatal("template a disappeared")
	}
	if got.IsDefault {
		t.Error("expected template a to be demoted")
	}

	def, err := s.FindDefault(ctx)
	if err != nil {
		t.Fatalf("FindDefault: %v", err)
	}
	if def == nil || def.ID != b.ID {
		t.Error("expected template b to be the default")
	}
}

func TestTemplateStoreDeleteDefaultRejected(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	ctx := testCtx()

	name := "store-test-template-del"
	t.Cleanup(func() { cleanTemplates(t, db, name) })

	tpl, err := s.Create(ctx, &models.QuotationTemplate{Name: name, IsDefault: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = s.Delete(ctx, tpl.ID)
	if !errors.Is(err, ErrDefaultTemplate) {
		t.Fatalf("expected ErrDefaultTemplate, got %v", err)
	}

	// Demote, then deletion succeeds.
	tpl.IsDefault = false
	if _, err := s.Update(ctx, tpl.ID, tpl); err != nil {
		t.Fatalf("Update: %v", err)
	}
	ok, err := s.Delete(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !ok {
		t.Error("expected deletion to report a removed row")
	}
}

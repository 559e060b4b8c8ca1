package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotedesk/internal/models"
)

func TestTaskStoreTeamMembers(t *testing.T) {
	db := testDB(t)
	tasks := NewTaskStore(db)
	users := NewUserStore(db)
	ctx := testCtx()

	title := "store-test-task-members"
	username := "store-test-task-worker"
	t.Cleanup(func() {
		cleanTasks(t, db, title)
		cleanUsers(t, db, username)
	})

	worker, err := users.Create(ctx, username, username+"@test.local", "pass", "Worker", models.RoleUser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	task, err := tasks.Create(ctx, &models.Task{
		Title:    title,
		Priority: models.PriorityP2,
		Status:   models.TaskPending,
	}, []uuid.UUID{worker.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(task.TeamMembers) != 1 {
		t.Fatalf("expected 1 team member, got %d", len(task.TeamMembers))
	}
	if task.TeamMembers[0].UserID != worker.ID {
		t.Error("wrong member assigned")
	}

	// Adding the same member accumulates hours.
	if err := tasks.AddMember(ctx, task.ID, worker.ID, decimal.NewFromInt(3)); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := tasks.AddMember(ctx, task.ID, worker.ID, decimal.NewFromInt(2)); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	got, err := tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil {
		t.Fatal("task disappeared")
	}
	if want := "5"; !got.TotalHours.Equal(decimal.RequireFromString(want)) {
		t.Errorf("total hours: got %s, want %s", got.TotalHours, want)
	}
	if len(got.TeamMembers) != 1 {
		t.Fatalf("expected 1 team member after accumulate, got %d", len(got.TeamMembers))
	}
	if !got.TeamMembers[0].HoursWorked.Equal(decimal.NewFromInt(5)) {
		t.Errorf("member hours: got %s, want 5", got.TeamMembers[0].HoursWorked)
	}

	// Removing the member zeroes the task hours.
	ok, err := tasks.RemoveMember(ctx, task.ID, worker.ID)
	if err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if !ok {
		t.Fatal("expected member removal")
	}
	got, err = tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !got.TotalHours.IsZero() {
		t.Errorf("total hours after removal: got %s, want 0", got.TotalHours)
	}
}

func TestTaskStoreListFilters(t *testing.T) {
	db := testDB(t)
	tasks := NewTaskStore(db)
	ctx := testCtx()

	title := "store-test-task-filter"
	t.Cleanup(func() { cleanTasks(t, db, title) })

	created, err := tasks.Create(ctx, &models.Task{
		Title:    title,
		Priority: models.PriorityP1,
		Status:   models.TaskOngoing,
	}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := tasks.List(ctx, TaskFilters{Status: models.TaskOngoing, Priority: models.PriorityP1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, task := range list {
		if task.ID == created.ID {
			found = true
		}
		if task.Status != models.TaskOngoing {
			t.Errorf("filter leak: got status %q", task.Status)
		}
	}
	if !found {
		t.Error("created task missing from filtered list")
	}

	// Closed filter must exclude it.
	list, err = tasks.List(ctx, TaskFilters{Status: models.TaskClosed})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, task := range list {
		if task.ID == created.ID {
			t.Error("on-going task leaked into closed filter")
		}
	}
}

package store

import "testing"

func TestClassStoreCreateAndList(t *testing.T) {
	db := newTestDB(t)
	classes := NewClassStore(db)

	c, err := classes.Create("Vinyasa Flow", "Gabi", "all", 1, "09:00", 60)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !c.Active {
		t.Error("new class should be active")
	}

	if _, err := classes.Create("Restorative", "Gabi", "beginner", 0, "17:30", 75); err != nil {
		t.Fatalf("create second: %v", err)
	}

	list, err := classes.ListActive()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d classes, want 2", len(list))
	}
	if list[0].Weekday != 0 {
		t.Errorf("expected Sunday class first, got weekday %d", list[0].Weekday)
	}
}

func TestClassStoreSetActive(t *testing.T) {
	db := newTestDB(t)
	classes := NewClassStore(db)

	c, err := classes.Create("Power Hour", "Guest", "advanced", 3, "18:00", 60)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := classes.SetActive(c.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	list, err := classes.ListActive()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("deactivated class should not be listed, got %d", len(list))
	}
}

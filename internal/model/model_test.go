package model

import "testing"

func TestCategoryName(t *testing.T) {
	tests := []struct {
		id       int
		expected string
	}{
		{1, "ore carrier"},
		{4, "container ship"},
		{6, "passenger ship"},
		{0, "unknown"},
		{7, "unknown"},
	}

	for _, tt := range tests {
		if got := CategoryName(tt.id); got != tt.expected {
			t.Errorf("CategoryName(%d) = %q, expected %q", tt.id, got, tt.expected)
		}
	}
}

func TestCategoryFromClass(t *testing.T) {
	for class := 0; class < 6; class++ {
		if !ValidCategory(CategoryFromClass(class)) {
			t.Errorf("class %d should map to a known category", class)
		}
	}
	if ValidCategory(CategoryFromClass(6)) {
		t.Error("class 6 should not map to a known category")
	}
}

func TestAllCategories_Ordered(t *testing.T) {
	categories := AllCategories()
	if len(categories) != 6 {
		t.Fatalf("Expected 6 categories, got %d", len(categories))
	}
	for i, c := range categories {
		if c.ID != i+1 {
			t.Errorf("Expected id %d at position %d, got %d", i+1, i, c.ID)
		}
	}
}

func TestVideoStatus(t *testing.T) {
	tests := []struct {
		status   VideoStatus
		text     string
		terminal bool
	}{
		{VideoProcessing, "processing", false},
		{VideoCompleted, "completed", true},
		{VideoFailed, "failed", true},
		{VideoStatus(9), "unknown", false},
	}

	for _, tt := range tests {
		if tt.status.String() != tt.text {
			t.Errorf("status %d: expected %q, got %q", tt.status, tt.text, tt.status.String())
		}
		if tt.status.Terminal() != tt.terminal {
			t.Errorf("status %d: expected terminal=%v", tt.status, tt.terminal)
		}
	}
}

func TestUserHasPermission(t *testing.T) {
	admin := &User{Permissions: []string{"all"}}
	viewer := &User{Permissions: []string{"view", "upload"}}

	if !admin.HasPermission("admin") {
		t.Error("'all' should grant admin")
	}
	if !viewer.HasPermission("upload") {
		t.Error("viewer should have upload")
	}
	if viewer.HasPermission("admin") {
		t.Error("viewer should not have admin")
	}
}

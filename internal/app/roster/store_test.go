package roster

import (
	"testing"

	"github.com/dalemusser/peopledir/internal/domain/models"
	"github.com/google/go-cmp/cmp"
)

func ids(ms []models.Member) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func seed() Store {
	return NewStore([]models.Member{
		{ID: "1", Name: "Ann", Role: "Dev", Teams: "Team A"},
		{ID: "2", Name: "Bob", Role: "Design", Teams: "Team B"},
		{ID: "3", Name: "Cy", Role: "Dev", Teams: "Team B"},
	})
}

func TestNewStore_CollapsesDuplicateIDs(t *testing.T) {
	s := NewStore([]models.Member{
		{ID: "1", Name: "Ann"},
		{ID: "2", Name: "Bob"},
		{ID: "1", Name: "Ann B"},
	})
	if diff := cmp.Diff([]string{"1", "2"}, ids(s.All())); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if m, _ := s.Get("1"); m.Name != "Ann B" {
		t.Errorf("Get(1).Name: got %q, want %q", m.Name, "Ann B")
	}
}

func TestInsert(t *testing.T) {
	s := seed()
	s2 := s.Insert(models.Member{ID: "4", Name: "Dee"})

	if s.Len() != 3 {
		t.Errorf("original Len: got %d, want 3", s.Len())
	}
	if diff := cmp.Diff([]string{"1", "2", "3", "4"}, ids(s2.All())); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestInsert_ExistingIDReplacesInPlace(t *testing.T) {
	s := seed().Insert(models.Member{ID: "2", Name: "Bobby"})
	if diff := cmp.Diff([]string{"1", "2", "3"}, ids(s.All())); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if m, _ := s.Get("2"); m.Name != "Bobby" {
		t.Errorf("Get(2).Name: got %q, want %q", m.Name, "Bobby")
	}
}

func TestReplace_KeepsOrder(t *testing.T) {
	s := NewStore([]models.Member{
		{ID: "1", Name: "Ann"},
		{ID: "3", Name: "Cy"},
		{ID: "5", Name: "Eve"},
	})
	updated := models.Member{ID: "3", Name: "Cyrus", Role: "Lead", Email: "cy@example.com", Teams: "Team C"}

	s2, ok := s.Replace("3", updated)
	if !ok {
		t.Fatal("Replace(3): got false, want true")
	}
	want := []models.Member{
		{ID: "1", Name: "Ann"},
		updated,
		{ID: "5", Name: "Eve"},
	}
	if diff := cmp.Diff(want, s2.All()); diff != "" {
		t.Errorf("store mismatch (-want +got):\n%s", diff)
	}
	if m, _ := s.Get("3"); m.Name != "Cy" {
		t.Errorf("original store mutated: got %q, want %q", m.Name, "Cy")
	}
}

func TestReplace_MissingID(t *testing.T) {
	s := seed()
	s2, ok := s.Replace("9", models.Member{ID: "9"})
	if ok {
		t.Error("Replace(9): got true, want false")
	}
	if diff := cmp.Diff(ids(s.All()), ids(s2.All())); diff != "" {
		t.Errorf("store changed (-want +got):\n%s", diff)
	}
}

func TestReplace_NewIDStaysUnique(t *testing.T) {
	s, ok := seed().Replace("1", models.Member{ID: "3", Name: "Merged"})
	if !ok {
		t.Fatal("Replace: got false, want true")
	}
	if diff := cmp.Diff([]string{"2", "3"}, ids(s.All())); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if m, _ := s.Get("3"); m.Name != "Merged" {
		t.Errorf("Get(3).Name: got %q, want %q", m.Name, "Merged")
	}
}

func TestRemove(t *testing.T) {
	s := seed()
	s2 := s.Remove("2")
	if diff := cmp.Diff([]string{"1", "3"}, ids(s2.All())); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s2.Get("2"); ok {
		t.Error("Get(2) after Remove: got true, want false")
	}
	if s.Len() != 3 {
		t.Errorf("original Len: got %d, want 3", s.Len())
	}
	if got := s2.Remove("nope").Len(); got != 2 {
		t.Errorf("Remove(unknown) Len: got %d, want 2", got)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	s := seed()
	all := s.All()
	all[0].Name = "changed"
	if m, _ := s.Get("1"); m.Name != "Ann" {
		t.Errorf("store mutated through All: got %q", m.Name)
	}
}

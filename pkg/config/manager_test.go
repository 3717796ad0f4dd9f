package config

import (
	"fmt"
	"testing"
)

// mockSection is a test implementation of the Section interface
type mockSection struct {
	id          string
	title       string
	description string
	data        map[string]interface{}
	validateErr error
}

func (m *mockSection) ID() string                                { return m.id }
func (m *mockSection) Title() string                             { return m.title }
func (m *mockSection) Description() string                       { return m.description }
func (m *mockSection) Data() map[string]interface{}              { return m.data }
func (m *mockSection) SetData(data map[string]interface{}) error { m.data = data; return nil }
func (m *mockSection) Validate() error                           { return m.validateErr }
func (m *mockSection) Reset()                                    { m.data = make(map[string]interface{}) }

// mockStore is a test implementation of the Store interface
type mockStore struct {
	sections map[string]map[string]interface{}
	loadErr  error
	saveErr  error
}

func newMockStore() *mockStore {
	return &mockStore{
		sections: make(map[string]map[string]interface{}),
	}
}

func (m *mockStore) Load() error {
	return m.loadErr
}

func (m *mockStore) Save() error {
	return m.saveErr
}

func (m *mockStore) GetSection(sectionID string) (map[string]interface{}, error) {
	if data, exists := m.sections[sectionID]; exists {
		return data, nil
	}
	return make(map[string]interface{}), nil
}

func (m *mockStore) SetSection(sectionID string, data map[string]interface{}) error {
	m.sections[sectionID] = data
	return nil
}

func (m *mockStore) GetAll() (map[string]map[string]interface{}, error) {
	return m.sections, nil
}

func (m *mockStore) SetAll(data map[string]map[string]interface{}) error {
	m.sections = data
	return nil
}

func TestNewManager(t *testing.T) {
	store := newMockStore()
	manager := NewManager(store)

	if manager == nil {
		t.Fatal("NewManager returned nil")
	}

	if manager.Store() != store {
		t.Error("Manager does not reference correct store")
	}

	if len(manager.GetSections()) != 0 {
		t.Error("New manager should have no sections")
	}
}

func TestManager_RegisterSection(t *testing.T) {
	t.Run("registers section successfully", func(t *testing.T) {
		manager := NewManager(newMockStore())
		section := &mockSection{id: "memory", title: "Memory"}

		if err := manager.RegisterSection(section); err != nil {
			t.Fatalf("RegisterSection failed: %v", err)
		}

		retrieved, ok := manager.GetSection("memory")
		if !ok {
			t.Fatal("Section not found after registration")
		}
		if retrieved.ID() != "memory" {
			t.Error("Retrieved section has wrong ID")
		}
	})

	t.Run("prevents duplicate registration", func(t *testing.T) {
		manager := NewManager(newMockStore())
		if err := manager.RegisterSection(&mockSection{id: "memory"}); err != nil {
			t.Fatalf("First registration failed: %v", err)
		}
		if err := manager.RegisterSection(&mockSection{id: "memory"}); err == nil {
			t.Error("Expected error for duplicate registration")
		}
	})

	t.Run("maintains registration order", func(t *testing.T) {
		manager := NewManager(newMockStore())
		for _, id := range []string{"first", "second", "third"} {
			if err := manager.RegisterSection(&mockSection{id: id}); err != nil {
				t.Fatalf("RegisterSection(%s) failed: %v", id, err)
			}
		}

		sections := manager.GetSections()
		if len(sections) != 3 {
			t.Fatalf("Expected 3 sections, got %d", len(sections))
		}
		if sections[0].ID() != "first" || sections[1].ID() != "second" || sections[2].ID() != "third" {
			t.Error("Sections not in registration order")
		}
	})
}

func TestManager_GetSection_Missing(t *testing.T) {
	manager := NewManager(newMockStore())
	if _, ok := manager.GetSection("nonexistent"); ok {
		t.Error("Should return false for non-existent section")
	}
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("loads registered sections from store", func(t *testing.T) {
		store := newMockStore()
		store.sections["memory"] = map[string]interface{}{"backend": "sqlite"}

		manager := NewManager(store)
		section := &mockSection{id: "memory", data: make(map[string]interface{})}
		manager.RegisterSection(section)

		if err := manager.LoadAll(); err != nil {
			t.Fatalf("LoadAll failed: %v", err)
		}
		if section.data["backend"] != "sqlite" {
			t.Error("Section data not loaded correctly")
		}
	})

	t.Run("propagates store load error", func(t *testing.T) {
		store := newMockStore()
		store.loadErr = fmt.Errorf("load error")

		manager := NewManager(store)
		if err := manager.LoadAll(); err == nil {
			t.Error("Expected error from store")
		}
	})
}

func TestManager_SaveAll(t *testing.T) {
	t.Run("saves sections to store", func(t *testing.T) {
		store := newMockStore()
		manager := NewManager(store)
		manager.RegisterSection(&mockSection{
			id:   "memory",
			data: map[string]interface{}{"backend": "file"},
		})

		if err := manager.SaveAll(); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
		if store.sections["memory"]["backend"] != "file" {
			t.Error("Section data not saved correctly")
		}
	})

	t.Run("validates sections before saving", func(t *testing.T) {
		store := newMockStore()
		manager := NewManager(store)
		manager.RegisterSection(&mockSection{
			id:          "memory",
			data:        map[string]interface{}{},
			validateErr: fmt.Errorf("validation error"),
		})

		if err := manager.SaveAll(); err == nil {
			t.Error("Expected validation error")
		}
		if _, exists := store.sections["memory"]; exists {
			t.Error("Invalid section should not reach the store")
		}
	})

	t.Run("propagates store save error", func(t *testing.T) {
		store := newMockStore()
		store.saveErr = fmt.Errorf("save error")

		manager := NewManager(store)
		manager.RegisterSection(&mockSection{id: "memory", data: make(map[string]interface{})})

		if err := manager.SaveAll(); err == nil {
			t.Error("Expected error from store")
		}
	})
}

func TestManager_ResetAll(t *testing.T) {
	manager := NewManager(newMockStore())
	section := &mockSection{
		id:   "memory",
		data: map[string]interface{}{"backend": "sqlite"},
	}
	manager.RegisterSection(section)

	manager.ResetAll()

	if len(section.data) != 0 {
		t.Error("Section not reset")
	}
}

func TestManager_Concurrency(t *testing.T) {
	manager := NewManager(newMockStore())

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		i := i
		go func() {
			manager.RegisterSection(&mockSection{id: fmt.Sprintf("section%d", i)})
			manager.GetSections()
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	if got := len(manager.GetSections()); got != 10 {
		t.Errorf("Expected 10 sections, got %d", got)
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/entrhq/attic/pkg/memory"
)

const (
	// SectionIDMemory is the identifier for the long-term memory section
	SectionIDMemory = "memory"

	// BackendKindFile stores memory documents as JSON files on disk
	BackendKindFile = "file"

	// BackendKindSQLite stores memory documents in an embedded SQLite database
	BackendKindSQLite = "sqlite"

	// BackendKindInMemory stores memory documents in process memory only
	BackendKindInMemory = "in_memory"
)

// MemorySection configures the long-term memory backend: which kind of
// store backs /memories/ and where it lives on disk.
type MemorySection struct {
	backend      string
	basePath     string
	databasePath string
	agentID      string
	mu           sync.RWMutex
}

// NewMemorySection creates a memory section with file-backed defaults.
func NewMemorySection() *MemorySection {
	return &MemorySection{
		backend: BackendKindFile,
	}
}

// ID returns the section identifier.
func (s *MemorySection) ID() string {
	return SectionIDMemory
}

// Title returns the section title.
func (s *MemorySection) Title() string {
	return "Long-Term Memory"
}

// Description returns the section description.
func (s *MemorySection) Description() string {
	return "Configure where files written under /memories/ persist between sessions."
}

// Data returns the current configuration data.
func (s *MemorySection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"backend":       s.backend,
		"base_path":     s.basePath,
		"database_path": s.databasePath,
		"agent_id":      s.agentID,
	}
}

// SetData updates the configuration from the provided data.
func (s *MemorySection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range data {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid value type for '%s': expected string, got %T", key, value)
		}
		switch key {
		case "backend":
			s.backend = str
		case "base_path":
			s.basePath = str
		case "database_path":
			s.databasePath = str
		case "agent_id":
			s.agentID = str
		}
	}

	return nil
}

// Validate validates the current configuration.
func (s *MemorySection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.backend {
	case BackendKindFile, BackendKindSQLite, BackendKindInMemory:
		return nil
	case "":
		return fmt.Errorf("memory backend is not set")
	default:
		return fmt.Errorf("unknown memory backend '%s'", s.backend)
	}
}

// Reset resets the section to its file-backed defaults.
func (s *MemorySection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = BackendKindFile
	s.basePath = ""
	s.databasePath = ""
	s.agentID = ""
}

// Backend returns the configured backend kind.
func (s *MemorySection) Backend() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend
}

// AgentID returns the configured agent namespace.
func (s *MemorySection) AgentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agentID
}

// SetBackend sets the backend kind.
func (s *MemorySection) SetBackend(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = kind
}

// SetAgentID sets the agent namespace.
func (s *MemorySection) SetAgentID(agentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentID = agentID
}

// NewBackend builds the memory backend this section describes. Paths left
// empty default to locations under ~/.attic.
func (s *MemorySection) NewBackend() (memory.Backend, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.backend {
	case BackendKindFile:
		basePath := s.basePath
		if basePath == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get user home directory: %w", err)
			}
			basePath = filepath.Join(homeDir, ".attic", "memories")
		}
		return memory.NewFileBackend(basePath, s.agentID)

	case BackendKindSQLite:
		dbPath := s.databasePath
		if dbPath == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get user home directory: %w", err)
			}
			if err := os.MkdirAll(filepath.Join(homeDir, ".attic"), 0750); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
			dbPath = filepath.Join(homeDir, ".attic", "memories.db")
		}
		return memory.NewSQLBackend(dbPath, s.agentID)

	case BackendKindInMemory:
		return memory.NewKVBackend(memory.NewMapKVStore(), s.agentID), nil
	}

	return nil, fmt.Errorf("unknown memory backend '%s'", s.backend)
}

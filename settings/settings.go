// Package settings handles the persisted server settings document.
//
// The document is a single JSON file with flat scalar sections. Writes
// replace the whole document atomically; loads deep-merge the file over
// built-in defaults so keys absent from the saved document are filled in.
// There is no migration or versioning beyond that merge.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Section names, in canonical order.
const (
	SectionServer     = "server"
	SectionGUI        = "gui"
	SectionMonitoring = "monitoring"
	SectionLogging    = "logging"
	SectionSecurity   = "security"
	SectionBackup     = "backup"
)

// SectionNames lists all sections in canonical order.
func SectionNames() []string {
	return []string{
		SectionServer,
		SectionGUI,
		SectionMonitoring,
		SectionLogging,
		SectionSecurity,
		SectionBackup,
	}
}

// Document is the settings document. Each section is a flat map of
// scalar settings (string, bool, or number).
type Document struct {
	Server     map[string]any `json:"server"`
	GUI        map[string]any `json:"gui"`
	Monitoring map[string]any `json:"monitoring"`
	Logging    map[string]any `json:"logging"`
	Security   map[string]any `json:"security"`
	Backup     map[string]any `json:"backup"`
}

// Defaults returns a fresh document populated with built-in defaults.
func Defaults() *Document {
	return &Document{
		Server: map[string]any{
			"host":            "0.0.0.0",
			"port":            float64(9102),
			"max_connections": float64(50),
			"session_timeout": float64(300),
		},
		GUI: map[string]any{
			"theme":            "dark",
			"refresh_interval": float64(5),
			"show_mock_badge":  true,
		},
		Monitoring: map[string]any{
			"metrics_enabled":  true,
			"metrics_interval": float64(10),
			"history_samples":  float64(60),
		},
		Logging: map[string]any{
			"level":      "info",
			"max_lines":  float64(5000),
			"to_file":    false,
			"file_path":  "steward.log",
		},
		Security: map[string]any{
			"tls_enabled":     false,
			"auth_required":   true,
			"token_ttl_hours": float64(12),
		},
		Backup: map[string]any{
			"compression":     true,
			"dedup":           true,
			"retention_days":  float64(90),
			"verify_on_write": false,
		},
	}
}

// Section returns the named section map, or nil for an unknown name.
func (d *Document) Section(name string) map[string]any {
	switch name {
	case SectionServer:
		return d.Server
	case SectionGUI:
		return d.GUI
	case SectionMonitoring:
		return d.Monitoring
	case SectionLogging:
		return d.Logging
	case SectionSecurity:
		return d.Security
	case SectionBackup:
		return d.Backup
	default:
		return nil
	}
}

// Get looks up a value by dotted path "section.key".
func (d *Document) Get(path string) (any, bool) {
	section, key, ok := splitPath(path)
	if !ok {
		return nil, false
	}
	m := d.Section(section)
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// Set stores a value by dotted path "section.key".
// Returns an error for an unknown section or malformed path.
func (d *Document) Set(path string, value any) error {
	section, key, ok := splitPath(path)
	if !ok {
		return fmt.Errorf("invalid settings path %q (expected section.key)", path)
	}
	m := d.Section(section)
	if m == nil {
		return fmt.Errorf("unknown settings section %q", section)
	}
	m[key] = value
	return nil
}

// Keys returns the sorted keys of the named section.
func (d *Document) Keys(section string) []string {
	m := d.Section(section)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{}
	out.Server = cloneSection(d.Server)
	out.GUI = cloneSection(d.GUI)
	out.Monitoring = cloneSection(d.Monitoring)
	out.Logging = cloneSection(d.Logging)
	out.Security = cloneSection(d.Security)
	out.Backup = cloneSection(d.Backup)
	return out
}

func cloneSection(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func splitPath(path string) (section, key string, ok bool) {
	parts := strings.SplitN(path, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Load reads the settings document from path and merges it over defaults.
// A missing file is not an error: defaults are returned unchanged.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("cannot read settings file %q: %w", path, err)
	}

	var loaded Document
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	return Merge(Defaults(), &loaded), nil
}

// Merge overlays the file document over the base, section by section.
// Keys present in overlay win; keys only in base are kept; keys only in
// overlay are kept too. Neither input is modified.
func Merge(base, overlay *Document) *Document {
	out := base.Clone()
	for _, name := range SectionNames() {
		dst := out.Section(name)
		for k, v := range overlay.Section(name) {
			dst[k] = v
		}
	}
	return out
}

// Save writes the document to path as a whole-document replace.
// The write is atomic: a temp file in the same directory is renamed over
// the target so a crash never leaves a half-written document.
func Save(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

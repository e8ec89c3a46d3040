package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harbourline/steward/bridge"
	"github.com/harbourline/steward/types"
)

// State store keys the dashboard subscribes to. The poller writes
// operation results under these keys.
const (
	KeyServerStatus  = "server_status"
	KeyServerMetrics = "server_metrics"
	KeyStorageInfo   = "storage_info"
	KeyClients       = "clients"
	KeyLogs          = "logs"
)

// DataMsg carries one refreshed operation result into the dashboard.
type DataMsg struct {
	Key    string
	Result bridge.Result
}

// maxLogLines bounds the recent-log pane.
const maxLogLines = 8

// Model is the Bubble Tea model for the live dashboard.
type Model struct {
	width    int
	height   int
	quitting bool

	simulated bool
	updatedAt time.Time
	lastErr   string

	status  *types.ServerStatus
	metrics *types.ServerMetrics
	storage *types.StorageInfo
	clients []types.ClientRecord
	logs    []types.LogEntry
}

// NewModel creates an empty dashboard model.
func NewModel() Model {
	return Model{}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}

	case DataMsg:
		return m.applyData(msg), nil
	}

	return m, nil
}

func (m Model) applyData(msg DataMsg) Model {
	res := msg.Result
	m.updatedAt = time.Now()
	m.simulated = res.Mode == bridge.ModeMock

	if !res.Success {
		m.lastErr = res.Error
		return m
	}
	m.lastErr = ""

	switch msg.Key {
	case KeyServerStatus:
		if v, ok := res.Data.(*types.ServerStatus); ok {
			m.status = v
		}
	case KeyServerMetrics:
		if v, ok := res.Data.(*types.ServerMetrics); ok {
			m.metrics = v
		}
	case KeyStorageInfo:
		if v, ok := res.Data.(*types.StorageInfo); ok {
			m.storage = v
		}
	case KeyClients:
		if v, ok := res.Data.([]types.ClientRecord); ok {
			m.clients = v
		}
	case KeyLogs:
		if v, ok := res.Data.([]types.LogEntry); ok {
			m.logs = v
		}
	}
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := TitleStyle.Render("Steward — Backup Server Console")
	if m.simulated {
		title += "  " + SimulatedStyle.Render("[SIMULATED]")
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatRow())
	b.WriteString("\n\n")
	b.WriteString(m.renderClients())
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	if m.lastErr != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("error: " + m.lastErr))
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Press q or Ctrl+C to quit"))
	return b.String()
}

func (m Model) renderStatRow() string {
	state := "unknown"
	uptime := "-"
	connected := "-"
	if m.status != nil {
		state = string(m.status.State)
		uptime = formatUptime(m.status.UptimeSeconds)
		connected = fmt.Sprintf("%d", m.status.ConnectedClients)
	}

	cpu, mem := "-", "-"
	if m.metrics != nil {
		cpu = fmt.Sprintf("%.1f%%", m.metrics.CPUPercent)
		mem = fmt.Sprintf("%.1f%%", m.metrics.MemoryPercent)
	}

	disk := "-"
	if m.storage != nil {
		disk = fmt.Sprintf("%s / %s",
			humanBytes(m.storage.UsedBytes), humanBytes(m.storage.TotalBytes))
	}

	boxes := []string{
		m.renderStatBox("Server", StateStyle(state).Render(state)),
		m.renderStatBox("Uptime", uptime),
		m.renderStatBox("Clients", connected),
		m.renderStatBox("CPU", cpu),
		m.renderStatBox("Memory", mem),
		m.renderStatBox("Storage", disk),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m Model) renderStatBox(label, value string) string {
	content := StatValueStyle.Render(value) + "\n" + StatLabelStyle.Render(label)
	return StatBoxStyle.Render(content)
}

func (m Model) renderClients() string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Clients"))
	b.WriteString("\n")

	if len(m.clients) == 0 {
		b.WriteString(ValueStyle.Render("  (none)"))
		return BoxStyle.Render(b.String())
	}

	b.WriteString(fmt.Sprintf("  %-20s %-15s %-12s %-10s %s\n",
		"HOSTNAME", "ADDRESS", "STATUS", "BACKUPS", "SIZE"))
	for _, c := range m.clients {
		status := StateStyle(string(c.Status)).Render(fmt.Sprintf("%-12s", c.Status))
		b.WriteString(fmt.Sprintf("  %-20s %-15s %s %-10d %s\n",
			c.Hostname, c.Address, status, c.BackupCount, humanBytes(c.TotalBytes)))
	}
	return BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderLogs() string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Recent logs"))
	b.WriteString("\n")

	logs := m.logs
	if len(logs) > maxLogLines {
		logs = logs[len(logs)-maxLogLines:]
	}
	if len(logs) == 0 {
		b.WriteString(ValueStyle.Render("  (no log entries)"))
		return BoxStyle.Render(b.String())
	}

	for _, e := range logs {
		level := levelStyle(e.Level).Render(fmt.Sprintf("%-5s", e.Level))
		b.WriteString(fmt.Sprintf("  %s %s %-10s %s\n",
			e.Ts.Format("15:04:05"), level, e.Component, e.Message))
	}
	return BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func levelStyle(level types.LogLevel) lipgloss.Style {
	switch level {
	case types.LogLevelError:
		return ErrorStyle
	case types.LogLevelWarn:
		return WarningStyle
	default:
		return ValueStyle
	}
}

func formatUptime(seconds int64) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds) * time.Second
	if d >= 24*time.Hour {
		days := d / (24 * time.Hour)
		rem := d % (24 * time.Hour)
		return fmt.Sprintf("%dd%dh", days, rem/time.Hour)
	}
	if d >= time.Hour {
		return fmt.Sprintf("%dh%dm", d/time.Hour, (d%time.Hour)/time.Minute)
	}
	return fmt.Sprintf("%dm%ds", d/time.Minute, (d%time.Minute)/time.Second)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

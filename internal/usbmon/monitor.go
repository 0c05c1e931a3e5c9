package usbmon

import (
	"context"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/pilebones/go-udev/netlink"

	"hubportal/internal/config"
	"hubportal/internal/logging"
)

// dfuProductID is the USB product id the hub reports while in DFU mode.
const dfuProductID = "0008"

// Presence is the monitor's view of whether a hub is attached.
type Presence string

const (
	PresenceUnknown Presence = "unknown"
	PresencePresent Presence = "present"
	PresenceAbsent  Presence = "absent"
)

// Snapshot is a point-in-time device status.
type Snapshot struct {
	Monitoring bool      `json:"monitoring"`
	Presence   Presence  `json:"presence"`
	DFUMode    bool      `json:"dfu_mode"`
	LastEvent  string    `json:"last_event,omitempty"`
	LastSeen   time.Time `json:"last_seen,omitempty"`
}

// Monitor tracks hub attach/detach via udev netlink events.
type Monitor struct {
	logger   *slog.Logger
	vendorID string
	enabled  bool

	mu       sync.Mutex
	conn     *netlink.UEventConn
	quit     chan struct{}
	running  bool
	presence Presence
	dfuMode  bool
	lastEvt  string
	lastSeen time.Time
}

// NewMonitor creates a hub monitor. A disabled or unconfigured monitor still
// serves snapshots, permanently reporting unknown presence.
func NewMonitor(cfg *config.Config, logger *slog.Logger) *Monitor {
	vendor := strings.ToLower(strings.TrimSpace(cfg.Device.USBVendorID))
	return &Monitor{
		logger:   logging.NewComponentLogger(logger, "usb-monitor"),
		vendorID: vendor,
		enabled:  cfg.Device.MonitorEnabled && vendor != "",
		presence: PresenceUnknown,
	}
}

// Start begins listening for udev netlink events. Failure to open the
// netlink socket is non-fatal; the monitor keeps reporting unknown.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil || !m.enabled {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; device status will report unknown",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"))
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("usb monitor started",
		logging.String(logging.FieldEventType, "usb_monitor_started"),
		logging.String("vendor_id", m.vendorID))
	return nil
}

// Stop shuts down the monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("usb monitor stopped",
		logging.String(logging.FieldEventType, "usb_monitor_stopped"))
}

// Running reports whether the netlink loop is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Status returns the current device snapshot.
func (m *Monitor) Status() Snapshot {
	if m == nil {
		return Snapshot{Presence: PresenceUnknown}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Monitoring: m.running,
		Presence:   m.presence,
		DFUMode:    m.dfuMode,
		LastEvent:  m.lastEvt,
		LastSeen:   m.lastSeen,
	}
}

func (m *Monitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, m.buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("usb monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "usb_monitor_error"))
		}
	}
}

// buildMatcher matches USB device add/remove events; vendor filtering
// happens in handleEvent because remove events do not always carry the
// ID_VENDOR_ID property.
func (m *Monitor) buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "usb",
			"DEVTYPE":   "usb_device",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(uevent netlink.UEvent) {
	vendor := strings.ToLower(strings.TrimSpace(uevent.Env["ID_VENDOR_ID"]))
	product := strings.ToLower(strings.TrimSpace(uevent.Env["ID_MODEL_ID"]))
	action := string(uevent.Action)

	switch uevent.Action {
	case netlink.ADD:
		if vendor != m.vendorID {
			return
		}
		m.mu.Lock()
		m.presence = PresencePresent
		m.dfuMode = product == dfuProductID
		m.lastEvt = action
		m.lastSeen = time.Now()
		dfu := m.dfuMode
		m.mu.Unlock()

		m.logger.Info("hub attached",
			logging.String(logging.FieldEventType, "hub_attached"),
			logging.Bool("dfu_mode", dfu))
	case netlink.REMOVE:
		// Vendor properties are frequently missing on remove, so fall back
		// to matching when the last known state was present.
		if vendor != "" && vendor != m.vendorID {
			return
		}
		m.mu.Lock()
		if m.presence != PresencePresent {
			m.mu.Unlock()
			return
		}
		m.presence = PresenceAbsent
		m.dfuMode = false
		m.lastEvt = action
		m.lastSeen = time.Now()
		m.mu.Unlock()

		m.logger.Info("hub detached",
			logging.String(logging.FieldEventType, "hub_detached"))
	}
}

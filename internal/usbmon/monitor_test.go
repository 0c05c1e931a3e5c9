package usbmon

import (
	"context"
	"testing"

	"github.com/pilebones/go-udev/netlink"

	"hubportal/internal/logging"
	"hubportal/internal/testsupport"
)

func newMonitor(t *testing.T) *Monitor {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	cfg.Device.MonitorEnabled = true
	cfg.Device.USBVendorID = "0694"
	return NewMonitor(cfg, logging.NewNop())
}

func TestInitialStatusIsUnknown(t *testing.T) {
	t.Parallel()

	monitor := newMonitor(t)
	status := monitor.Status()
	if status.Presence != PresenceUnknown {
		t.Fatalf("presence = %s, want %s", status.Presence, PresenceUnknown)
	}
	if status.Monitoring {
		t.Fatal("monitor should not report running before Start")
	}
}

func TestAttachDetachCycle(t *testing.T) {
	t.Parallel()

	monitor := newMonitor(t)

	monitor.handleEvent(netlink.UEvent{
		Action: netlink.ADD,
		Env:    map[string]string{"ID_VENDOR_ID": "0694", "ID_MODEL_ID": "0009"},
	})
	status := monitor.Status()
	if status.Presence != PresencePresent {
		t.Fatalf("presence = %s, want %s", status.Presence, PresencePresent)
	}
	if status.DFUMode {
		t.Fatal("normal product id should not report DFU mode")
	}

	monitor.handleEvent(netlink.UEvent{Action: netlink.REMOVE, Env: map[string]string{}})
	status = monitor.Status()
	if status.Presence != PresenceAbsent {
		t.Fatalf("presence = %s, want %s", status.Presence, PresenceAbsent)
	}
}

func TestDFUModeDetection(t *testing.T) {
	t.Parallel()

	monitor := newMonitor(t)
	monitor.handleEvent(netlink.UEvent{
		Action: netlink.ADD,
		Env:    map[string]string{"ID_VENDOR_ID": "0694", "ID_MODEL_ID": "0008"},
	})
	if !monitor.Status().DFUMode {
		t.Fatal("expected DFU mode for DFU product id")
	}
}

func TestIgnoresOtherVendors(t *testing.T) {
	t.Parallel()

	monitor := newMonitor(t)
	monitor.handleEvent(netlink.UEvent{
		Action: netlink.ADD,
		Env:    map[string]string{"ID_VENDOR_ID": "046d", "ID_MODEL_ID": "c31c"},
	})
	if monitor.Status().Presence != PresenceUnknown {
		t.Fatal("unrelated vendor should not change presence")
	}

	// A remove for an unrelated vendor never flips state either.
	monitor.handleEvent(netlink.UEvent{
		Action: netlink.REMOVE,
		Env:    map[string]string{"ID_VENDOR_ID": "046d"},
	})
	if monitor.Status().Presence != PresenceUnknown {
		t.Fatal("unrelated remove should not change presence")
	}
}

func TestDisabledMonitorStartIsNoop(t *testing.T) {
	t.Parallel()

	cfg := testsupport.NewConfig(t)
	cfg.Device.MonitorEnabled = false
	monitor := NewMonitor(cfg, logging.NewNop())

	if err := monitor.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if monitor.Running() {
		t.Fatal("disabled monitor should not run")
	}
}

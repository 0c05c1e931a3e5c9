// Package usbmon watches udev netlink events for hub attach and detach so
// the editor can show whether a hub is plugged in. Netlink is best-effort:
// when the socket is unavailable the monitor degrades to an unknown state
// instead of failing startup.
package usbmon

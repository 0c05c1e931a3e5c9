package firmware

// Remediation texts surfaced with classified failures. These are written for
// a non-expert user standing next to the hub, so each one spells out the
// exact physical or shell steps to recover.

const dfuEntryGuidance = "No DFU USB device found. " +
	"Put the hub in DFU mode exactly as follows: " +
	"1) Unplug USB. 2) Turn the hub OFF. 3) Press and hold the Bluetooth button. " +
	"4) While holding it, plug in USB. 5) Keep holding until the Bluetooth LED flashes red/green/blue. " +
	"Then retry the firmware operation. " +
	"If the hub is still not detected, replug USB and verify it appears with: lsusb | grep 0694"

const prerequisitesGuidance = "Flashing prerequisites are missing (dfu-util/libusb). " +
	"Install the tools on Linux with: sudo apt update && sudo apt install -y dfu-util libusb-1.0-0. " +
	"Then put the hub in DFU mode: unplug USB, power OFF, hold the Bluetooth button, " +
	"plug in USB, keep holding until the LED flashes red/green/blue. " +
	"If permission is denied, run: pybricksdev udev | sudo tee /etc/udev/rules.d/99-pybricksdev.rules && " +
	"sudo udevadm control --reload-rules && sudo udevadm trigger"

const looseDfuGuidance = "No DFU device found. " +
	"Put the hub in DFU mode, connect it via USB, then try again."

const permissionGuidance = "USB permission denied. " +
	"Run: pybricksdev udev | sudo tee /etc/udev/rules.d/99-pybricksdev.rules, " +
	"then reload udev rules with: sudo udevadm control --reload-rules && sudo udevadm trigger, " +
	"and reconnect the hub."

const toolMissingGuidance = "pybricksdev is not installed. Install with: pip install pybricksdev"

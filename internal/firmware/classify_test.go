package firmware_test

import (
	"errors"
	"strings"
	"testing"

	"hubportal/internal/firmware"
	"hubportal/internal/services"
)

func TestClassifyExactNoDeviceSignatures(t *testing.T) {
	t.Parallel()

	for _, output := range []string{
		"Scanning...\nNo LEGO DFU USB device found\n",
		"No DFU devices found.",
	} {
		classified := firmware.Classify(output)
		if classified.Category != firmware.CategoryDeviceNotFound {
			t.Fatalf("output %q: category = %s, want %s", output, classified.Category, firmware.CategoryDeviceNotFound)
		}
		if !strings.Contains(classified.Message, "Bluetooth button") {
			t.Fatalf("expected DFU entry steps in message, got %q", classified.Message)
		}
	}
}

func TestClassifyPrerequisites(t *testing.T) {
	t.Parallel()

	for _, output := range []string{
		"No working DFU found.",
		"exec: dfu-util: not found",
	} {
		classified := firmware.Classify(output)
		if classified.Category != firmware.CategoryPrerequisitesMissing {
			t.Fatalf("output %q: category = %s, want %s", output, classified.Category, firmware.CategoryPrerequisitesMissing)
		}
		if !strings.Contains(classified.Message, "dfu-util") {
			t.Fatalf("expected install guidance, got %q", classified.Message)
		}
	}
}

func TestClassifyLooseNoDevice(t *testing.T) {
	t.Parallel()

	classified := firmware.Classify("something went wrong: No DFU target selected")
	if classified.Category != firmware.CategoryDeviceNotFound {
		t.Fatalf("category = %s, want %s", classified.Category, firmware.CategoryDeviceNotFound)
	}
}

func TestClassifyPermissionDenied(t *testing.T) {
	t.Parallel()

	classified := firmware.Classify("usb.core.USBError: Permission to access USB device denied")
	if classified.Category != firmware.CategoryPermissionDenied {
		t.Fatalf("category = %s, want %s", classified.Category, firmware.CategoryPermissionDenied)
	}
	if !strings.Contains(classified.Message, "udev") {
		t.Fatalf("expected udev guidance, got %q", classified.Message)
	}
}

// Classification order is fixed and first match wins. An output carrying
// both a permission signature and a loose DFU fragment must classify as
// device-not-found because the loose DFU rule runs first.
func TestClassifyOrderFirstMatchWins(t *testing.T) {
	t.Parallel()

	mixed := "Permission to access USB device denied while probing: No DFU interface"
	classified := firmware.Classify(mixed)
	if classified.Category != firmware.CategoryDeviceNotFound {
		t.Fatalf("category = %s, want %s (loose DFU rule outranks permission)", classified.Category, firmware.CategoryDeviceNotFound)
	}

	// Exact no-device signature outranks the prerequisites rule even when
	// dfu-util is mentioned too.
	mixed = "dfu-util reported: No DFU devices found."
	classified = firmware.Classify(mixed)
	if classified.Category != firmware.CategoryDeviceNotFound {
		t.Fatalf("category = %s, want %s (exact rule runs first)", classified.Category, firmware.CategoryDeviceNotFound)
	}
}

func TestClassifyUnknownCarriesRawOutput(t *testing.T) {
	t.Parallel()

	classified := firmware.Classify("Traceback (most recent call last):\n  ValueError: bad header")
	if classified.Category != firmware.CategoryUnknown {
		t.Fatalf("category = %s, want %s", classified.Category, firmware.CategoryUnknown)
	}
	if !strings.Contains(classified.Message, "ValueError: bad header") {
		t.Fatalf("expected raw output in message, got %q", classified.Message)
	}
}

func TestClassifyUnknownTruncatesLongOutput(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 5000)
	classified := firmware.Classify(long)
	if classified.Category != firmware.CategoryUnknown {
		t.Fatalf("category = %s, want %s", classified.Category, firmware.CategoryUnknown)
	}
	if len(classified.Message) > 2100 {
		t.Fatalf("message not truncated: %d bytes", len(classified.Message))
	}
}

func TestClassifiedErrorUnwrapsToSentinels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		category firmware.Category
		sentinel error
	}{
		{firmware.CategoryToolNotInstalled, services.ErrToolMissing},
		{firmware.CategoryTimeout, services.ErrTimeout},
		{firmware.CategoryDeviceNotFound, services.ErrExternalTool},
		{firmware.CategoryUnknown, services.ErrExternalTool},
	}
	for _, tc := range cases {
		err := &firmware.ClassifiedError{Category: tc.category, Message: "x"}
		if !errors.Is(err, tc.sentinel) {
			t.Fatalf("category %s: expected errors.Is %v", tc.category, tc.sentinel)
		}
	}
}

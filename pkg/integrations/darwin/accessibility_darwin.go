package darwin

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <stdlib.h>
#include <ApplicationServices/ApplicationServices.h>

extern char *seltext_copy_cfstring(CFStringRef s);

enum {
	AX_OK = 0,
	AX_NOT_TRUSTED = 1,
	AX_NO_FOCUSED_ELEMENT = 2,
	AX_NO_SELECTED_TEXT = 3,
	AX_BAD_ENCODING = 4,
};

static int seltext_ax_selected_text(char **out) {
	if (!AXIsProcessTrusted()) {
		return AX_NOT_TRUSTED;
	}

	AXUIElementRef system = AXUIElementCreateSystemWide();
	CFTypeRef focused = NULL;
	AXError err = AXUIElementCopyAttributeValue(system, kAXFocusedUIElementAttribute, &focused);
	CFRelease(system);
	if (err != kAXErrorSuccess || focused == NULL) {
		return AX_NO_FOCUSED_ELEMENT;
	}

	CFTypeRef selected = NULL;
	err = AXUIElementCopyAttributeValue((AXUIElementRef)focused, kAXSelectedTextAttribute, &selected);
	CFRelease(focused);
	if (err != kAXErrorSuccess || selected == NULL) {
		return AX_NO_SELECTED_TEXT;
	}

	*out = seltext_copy_cfstring((CFStringRef)selected);
	CFRelease(selected);
	if (*out == NULL) {
		return AX_BAD_ENCODING;
	}
	return AX_OK;
}
*/
import "C"

import (
	"github.com/pkg/errors"

	"seltext/pkg/selection"
)

// AccessibilityExtractor reads kAXSelectedTextAttribute of the focused
// UI element.
type AccessibilityExtractor struct{}

// NewAccessibilityExtractor creates the extractor
func NewAccessibilityExtractor() *AccessibilityExtractor {
	return &AccessibilityExtractor{}
}

// Name identifies the mechanism in logs
func (e *AccessibilityExtractor) Name() string {
	return "ax"
}

// Extract returns the selected text of the focused element
func (e *AccessibilityExtractor) Extract() (string, error) {
	var out *C.char

	switch rc := C.seltext_ax_selected_text(&out); rc {
	case C.AX_OK:
		return goString(out), nil
	case C.AX_NOT_TRUSTED:
		return "", errors.Wrap(selection.ErrExtractorUnavailable, "process is not trusted for accessibility")
	case C.AX_NO_FOCUSED_ELEMENT:
		return "", errors.Wrap(selection.ErrNoSelection, "no focused element")
	case C.AX_NO_SELECTED_TEXT:
		return "", errors.Wrap(selection.ErrNoSelection, "focused element exposes no selected text")
	default:
		return "", errors.Wrap(selection.ErrExtractorUnavailable, "selected text is not valid UTF-8")
	}
}

package darwin

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <stdlib.h>
#include <ApplicationServices/ApplicationServices.h>

char *seltext_copy_cfstring(CFStringRef s) {
	if (s == NULL || CFGetTypeID(s) != CFStringGetTypeID()) {
		return NULL;
	}
	CFIndex len = CFStringGetLength(s);
	CFIndex max = CFStringGetMaximumSizeForEncoding(len, kCFStringEncodingUTF8) + 1;
	char *buf = malloc(max);
	if (buf == NULL) {
		return NULL;
	}
	if (!CFStringGetCString(s, buf, max, kCFStringEncodingUTF8)) {
		free(buf);
		return NULL;
	}
	return buf;
}
*/
import "C"
import "unsafe"

// goString copies and frees a C string returned by the helpers
func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(s))
	return C.GoString(s)
}

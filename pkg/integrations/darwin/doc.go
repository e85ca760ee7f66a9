// Package darwin reads the frontmost window and the selected text on macOS
// through CoreGraphics and the Accessibility API. Every call needs the host
// process to be trusted under System Settings > Privacy > Accessibility.
package darwin

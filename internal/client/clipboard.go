package client

import (
	"log"
	"strings"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardOK   bool
)

// InitClipboard prepares the system clipboard. Without one (headless X, no
// pasteboard) copy and paste silently do nothing.
func InitClipboard() bool {
	clipboardOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			log.Printf("Clipboard unavailable: %v", err)
			return
		}
		clipboardOK = true
	})
	return clipboardOK
}

// CopyText puts text on the clipboard.
func CopyText(text string) bool {
	if !InitClipboard() {
		return false
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return true
}

// PasteText returns the clipboard text, trimmed.
func PasteText() string {
	if !InitClipboard() {
		return ""
	}
	return strings.TrimSpace(string(clipboard.Read(clipboard.FmtText)))
}

package hybrid

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"seltext/pkg/window"
)

// Detector chains several window detectors. The one that answered last is
// asked first on the next call, the rest are tried in registration order.
type Detector struct {
	mu        sync.Mutex
	detectors []window.Detector

	lastSuccessful int // index into detectors, -1 when none has succeeded
}

// NewDetector returns a chain of the available detectors in priority order.
func NewDetector(detectors ...window.Detector) (*Detector, error) {
	d := &Detector{lastSuccessful: -1}

	for _, det := range detectors {
		if det == nil || !det.IsAvailable() {
			continue
		}
		d.detectors = append(d.detectors, det)
		log.Printf("hybrid: window detector enabled: %s", det.GetDisplayServer())
	}

	if len(d.detectors) == 0 {
		return nil, fmt.Errorf("no window detector available")
	}
	return d, nil
}

// order returns detector indexes with the last successful one first
func (d *Detector) order() []int {
	d.mu.Lock()
	defer d.mu.Unlock()

	order := make([]int, 0, len(d.detectors))
	if d.lastSuccessful >= 0 {
		order = append(order, d.lastSuccessful)
	}
	for i := range d.detectors {
		if i != d.lastSuccessful {
			order = append(order, i)
		}
	}
	return order
}

// GetFocusedWindow returns the first usable answer from the chain
func (d *Detector) GetFocusedWindow() (*window.WindowInfo, error) {
	var errs []string

	for _, i := range d.order() {
		det := d.detectors[i]

		info, err := det.GetFocusedWindow()
		if err == nil && window.AppID(info) == "" {
			err = fmt.Errorf("no valid window information")
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", det.GetDisplayServer(), err))
			continue
		}

		d.mu.Lock()
		d.lastSuccessful = i
		d.mu.Unlock()
		return info, nil
	}

	return nil, fmt.Errorf("all detection methods failed: %s", strings.Join(errs, "; "))
}

// IsAvailable reports whether any detector in the chain is usable
func (d *Detector) IsAvailable() bool {
	for _, det := range d.detectors {
		if det.IsAvailable() {
			return true
		}
	}
	return false
}

// GetDisplayServer returns the display server of the preferred detector
func (d *Detector) GetDisplayServer() string {
	return d.detectors[d.order()[0]].GetDisplayServer()
}

// DetectorInfo describes one link of the chain
type DetectorInfo struct {
	DisplayServer string
	Available     bool
	Preferred     bool
}

// GetAllDetectors lists the chain in the order it will be tried
func (d *Detector) GetAllDetectors() []DetectorInfo {
	order := d.order()

	d.mu.Lock()
	last := d.lastSuccessful
	d.mu.Unlock()

	infos := make([]DetectorInfo, 0, len(order))
	for _, i := range order {
		infos = append(infos, DetectorInfo{
			DisplayServer: d.detectors[i].GetDisplayServer(),
			Available:     d.detectors[i].IsAvailable(),
			Preferred:     i == last,
		})
	}
	return infos
}

// Close closes every detector in the chain
func (d *Detector) Close() error {
	for _, det := range d.detectors {
		if err := det.Close(); err != nil {
			log.Printf("hybrid: error closing %s detector: %v", det.GetDisplayServer(), err)
		}
	}
	return nil
}

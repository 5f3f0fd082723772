// Package env sets up the process environment of the watch binaries.
package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// FallbackID is used when the machine ID is unavailable.
const FallbackID = "mwatch"

// MachineID retrieves the unique ID identifying the machine.
func MachineID() string {
	id, err := machineid.ID()
	if err != nil || id == "" {
		glog.Warningf("machine id unavailable, using %q: %v", FallbackID, err)
		return FallbackID
	}
	// topics are built from the ID, keep it short
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}

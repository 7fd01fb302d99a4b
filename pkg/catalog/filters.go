package catalog

import (
	"sort"
	"strings"
)

// The service tracks the pre-release signing windows of these OS families
// only.
var relevantOSNames = map[string]struct{}{
	"iOS":               {},
	"iPadOS":            {},
	"tvOS":              {},
	"Apple TV Software": {},
}

var relevantDeviceTypes = map[string]struct{}{
	"iPhone":    {},
	"iPad":      {},
	"iPad mini": {},
	"iPad Air":  {},
	"iPad Pro":  {},
	"Apple TV":  {},
}

// FilterFirmwares keeps the firmware entries worth harvesting: a recognized
// OS family, a present "sources" field, and a beta or release-candidate
// flag. Stable GA builds are excluded: their signing windows are not what
// this service tracks.
func FilterFirmwares(firmwares []Firmware) []Firmware {
	var result []Firmware
	for _, firmware := range firmwares {
		if _, ok := relevantOSNames[firmware.OSStr]; !ok {
			continue
		}
		if firmware.Sources == nil {
			continue
		}
		if !firmware.Beta && !firmware.RC {
			continue
		}
		result = append(result, firmware)
	}
	return result
}

// FilterDevices keeps the device entries worth harvesting: ARM architecture,
// a recognized device category and at least one board mapping.
func FilterDevices(devices []Device) []Device {
	var result []Device
	for _, device := range devices {
		if !strings.Contains(device.Arch, "arm") {
			continue
		}
		if _, ok := relevantDeviceTypes[device.Type]; !ok {
			continue
		}
		if len(device.Boards) == 0 {
			continue
		}
		result = append(result, device)
	}
	return result
}

// SortFirmwaresByBuildDesc sorts firmwares by build identifier, descending.
// This is a display/priority convention (newest-looking builds first), not a
// strict semantic version order.
func SortFirmwaresByBuildDesc(firmwares []Firmware) {
	sort.SliceStable(firmwares, func(i, j int) bool {
		return firmwares[i].Build > firmwares[j].Build
	})
}

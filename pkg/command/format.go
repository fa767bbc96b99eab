package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/urmzd/butler/pkg/device"
)

// formatStatus renders one human-readable line per adapter from the
// aggregated status snapshot. Unreachable adapters are reported, never
// omitted.
func formatStatus(results map[string]device.StatusResult) string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		res := results[name]
		if !res.Online || res.State == nil {
			lines = append(lines, fmt.Sprintf("%s: unreachable", name))
			continue
		}
		switch name {
		case adapterLights:
			lines = append(lines, formatLights(res.State))
		case adapterTV:
			lines = append(lines, formatTV(res.State))
		case adapterVacuum:
			lines = append(lines, formatVacuum(res.State))
		default:
			lines = append(lines, fmt.Sprintf("%s: online", name))
		}
	}
	return strings.Join(lines, "\n")
}

func formatLights(st device.State) string {
	on, total := 0, 0
	for _, v := range st {
		room, ok := v.(map[string]any)
		if !ok {
			continue
		}
		total++
		if lit, _ := room["on"].(bool); lit {
			on++
		}
	}
	return fmt.Sprintf("lights: %d/%d on", on, total)
}

func formatTV(st device.State) string {
	on, _ := st["on"].(bool)
	if !on {
		return "tv: off"
	}
	if app, ok := st["current_app"].(string); ok && app != "" {
		return fmt.Sprintf("tv: on (%s)", app)
	}
	return "tv: on"
}

func formatVacuum(st device.State) string {
	state, _ := st["state"].(string)
	battery, _ := st["battery"].(int)
	return fmt.Sprintf("vacuum: %s (battery %d%%)", state, battery)
}

// formatHealth summarizes a health report in one line.
func formatHealth(report *device.HealthReport) string {
	if report.Overall == device.HealthHealthy {
		return "All devices healthy"
	}
	offline := make([]string, 0, len(report.Devices))
	for name, h := range report.Devices {
		if !h.Online {
			offline = append(offline, name)
		}
	}
	sort.Strings(offline)
	return fmt.Sprintf("Degraded: %s offline", strings.Join(offline, ", "))
}

package command

import (
	"fmt"
	"strconv"

	"github.com/urmzd/butler/pkg/device"
	"github.com/urmzd/butler/pkg/intent"
)

// dispatchPlan is an intent lowered onto the registry's wire contract:
// one adapter call plus the success message to render afterwards.
type dispatchPlan struct {
	deviceType string
	command    string
	params     device.Params
	success    string
}

// Adapter names as registered in the registry.
const (
	adapterLights = "lights"
	adapterTV     = "tv"
	adapterVacuum = "vacuum"
)

// plan lowers an intent onto a concrete adapter call. A nil plan with
// ok=false means the intent cannot be dispatched as given.
func plan(in intent.Intent) (dispatchPlan, bool) {
	switch in.Device {
	case intent.DeviceLight:
		return planLight(in)
	case intent.DeviceTV:
		return planTV(in)
	case intent.DeviceVacuum:
		return planVacuum(in)
	}
	return dispatchPlan{}, false
}

func planLight(in intent.Intent) (dispatchPlan, bool) {
	switch in.Action {
	case intent.ActionOn, intent.ActionOff:
		on := in.Action == intent.ActionOn
		word := "on"
		if !on {
			word = "off"
		}
		if in.Room == "" || in.Room == intent.RoomAll {
			return dispatchPlan{
				deviceType: adapterLights,
				command:    device.CmdLightToggleAll,
				params:     device.Params{"state": on},
				success:    fmt.Sprintf("All lights turned %s", word),
			}, true
		}
		return dispatchPlan{
			deviceType: adapterLights,
			command:    device.CmdLightToggle,
			params:     device.Params{"room": in.Room, "state": on},
			success:    fmt.Sprintf("Light in %s turned %s", in.Room, word),
		}, true
	case intent.ActionBrightness:
		if !in.HasValue() || in.Room == "" || in.Room == intent.RoomAll {
			return dispatchPlan{}, false
		}
		return dispatchPlan{
			deviceType: adapterLights,
			command:    device.CmdLightBrightness,
			params:     device.Params{"room": in.Room, "brightness": *in.Value},
			success:    fmt.Sprintf("Brightness in %s set to %d%%", in.Room, *in.Value),
		}, true
	}
	return dispatchPlan{}, false
}

func planTV(in intent.Intent) (dispatchPlan, bool) {
	switch in.Action {
	case intent.ActionOn:
		return dispatchPlan{adapterTV, device.CmdTVOn, nil, "TV turned on"}, true
	case intent.ActionOff:
		return dispatchPlan{adapterTV, device.CmdTVOff, nil, "TV turned off"}, true
	case intent.ActionNetflix, intent.ActionYouTube:
		return dispatchPlan{
			deviceType: adapterTV,
			command:    device.CmdTVLaunchApp,
			params:     device.Params{"app": in.Action},
			success:    fmt.Sprintf("Launched %s on the TV", in.Action),
		}, true
	case intent.ActionVolumeUp:
		return dispatchPlan{adapterTV, device.CmdTVVolume, device.Params{"action": "up"}, "Volume up"}, true
	case intent.ActionVolumeDown:
		return dispatchPlan{adapterTV, device.CmdTVVolume, device.Params{"action": "down"}, "Volume down"}, true
	case intent.ActionVolumeSet:
		if !in.HasValue() {
			return dispatchPlan{}, false
		}
		return dispatchPlan{
			deviceType: adapterTV,
			command:    device.CmdTVVolume,
			params:     device.Params{"action": strconv.Itoa(*in.Value)},
			success:    fmt.Sprintf("Volume set to %d", *in.Value),
		}, true
	}
	return dispatchPlan{}, false
}

func planVacuum(in intent.Intent) (dispatchPlan, bool) {
	switch in.Action {
	case intent.ActionStart:
		return dispatchPlan{adapterVacuum, device.CmdVacuumStart, nil, "Vacuum started cleaning"}, true
	case intent.ActionPause:
		return dispatchPlan{adapterVacuum, device.CmdVacuumPause, nil, "Vacuum paused"}, true
	case intent.ActionStop:
		return dispatchPlan{adapterVacuum, device.CmdVacuumStop, nil, "Vacuum stopped"}, true
	case intent.ActionDock:
		return dispatchPlan{adapterVacuum, device.CmdVacuumDock, nil, "Vacuum returning to dock"}, true
	case intent.ActionFind:
		return dispatchPlan{adapterVacuum, device.CmdVacuumFind, nil, "Vacuum is beeping"}, true
	case intent.ActionFanPower:
		if !in.HasValue() {
			return dispatchPlan{}, false
		}
		return dispatchPlan{
			deviceType: adapterVacuum,
			command:    device.CmdVacuumFanPower,
			params:     device.Params{"power": *in.Value},
			success:    fmt.Sprintf("Fan power set to %d%%", *in.Value),
		}, true
	}
	return dispatchPlan{}, false
}

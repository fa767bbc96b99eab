package command

import (
	"strconv"
	"strings"

	"github.com/urmzd/butler/pkg/intent"
)

// Structured events skip the free-text parser: chat commands and
// callback-button ids resolve through these fixed tables instead.

var validRooms = func() map[string]struct{} {
	m := map[string]struct{}{intent.RoomAll: {}}
	for _, r := range intent.Rooms {
		m[r] = struct{}{}
	}
	return m
}()

func roomArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	room := strings.ToLower(args[0])
	if _, ok := validRooms[room]; ok {
		return room
	}
	return ""
}

func intArg(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// commandIntent resolves an explicit chat command into an intent.
// Unresolvable input yields DeviceUnknown, same as the parser.
func commandIntent(name string, args []string) intent.Intent {
	switch strings.ToLower(name) {
	case "light_on":
		return intent.Intent{Device: intent.DeviceLight, Action: intent.ActionOn, Room: roomArg(args)}
	case "light_off":
		return intent.Intent{Device: intent.DeviceLight, Action: intent.ActionOff, Room: roomArg(args)}
	case "light_brightness":
		// /light_brightness [room] <value>
		switch len(args) {
		case 1:
			if v := intArg(args[0]); v != nil {
				return intent.Intent{Device: intent.DeviceLight, Action: intent.ActionBrightness, Value: v}
			}
		case 2:
			room := roomArg(args[:1])
			if v := intArg(args[1]); v != nil && room != "" {
				return intent.Intent{Device: intent.DeviceLight, Action: intent.ActionBrightness, Room: room, Value: v}
			}
		}
	case "tv":
		if len(args) == 1 {
			switch strings.ToLower(args[0]) {
			case "on":
				return intent.Intent{Device: intent.DeviceTV, Action: intent.ActionOn}
			case "off":
				return intent.Intent{Device: intent.DeviceTV, Action: intent.ActionOff}
			case "netflix":
				return intent.Intent{Device: intent.DeviceTV, Action: intent.ActionNetflix}
			case "youtube":
				return intent.Intent{Device: intent.DeviceTV, Action: intent.ActionYouTube}
			}
		}
	case "tv_on":
		return intent.Intent{Device: intent.DeviceTV, Action: intent.ActionOn}
	case "tv_off":
		return intent.Intent{Device: intent.DeviceTV, Action: intent.ActionOff}
	case "tv_volume":
		if len(args) == 1 {
			switch strings.ToLower(args[0]) {
			case "up":
				return intent.Intent{Device: intent.DeviceTV, Action: intent.ActionVolumeUp}
			case "down":
				return intent.Intent{Device: intent.DeviceTV, Action: intent.ActionVolumeDown}
			default:
				if v := intArg(args[0]); v != nil {
					return intent.Intent{Device: intent.DeviceTV, Action: intent.ActionVolumeSet, Value: v}
				}
			}
		}
	case "vacuum_start":
		return intent.Intent{Device: intent.DeviceVacuum, Action: intent.ActionStart}
	case "vacuum_pause":
		return intent.Intent{Device: intent.DeviceVacuum, Action: intent.ActionPause}
	case "vacuum_stop":
		return intent.Intent{Device: intent.DeviceVacuum, Action: intent.ActionStop}
	case "vacuum_dock":
		return intent.Intent{Device: intent.DeviceVacuum, Action: intent.ActionDock}
	case "vacuum_find":
		return intent.Intent{Device: intent.DeviceVacuum, Action: intent.ActionFind}
	case "vacuum_fan":
		if len(args) == 1 {
			if v := intArg(args[0]); v != nil {
				return intent.Intent{Device: intent.DeviceVacuum, Action: intent.ActionFanPower, Value: v}
			}
		}
	case "status":
		return intent.Intent{Device: intent.DeviceStatus, Action: intent.ActionStatus}
	case "health":
		return intent.Intent{Device: intent.DeviceStatus, Action: intent.ActionHealth}
	}
	return intent.Intent{Device: intent.DeviceUnknown}
}

// callbackIntent resolves a callback-button id. The id set mirrors the
// inline menus the chat transport renders.
var callbackIntents = map[string]intent.Intent{
	"light_all_on":  {Device: intent.DeviceLight, Action: intent.ActionOn, Room: intent.RoomAll},
	"light_all_off": {Device: intent.DeviceLight, Action: intent.ActionOff, Room: intent.RoomAll},
	"tv_on":         {Device: intent.DeviceTV, Action: intent.ActionOn},
	"tv_off":        {Device: intent.DeviceTV, Action: intent.ActionOff},
	"tv_netflix":    {Device: intent.DeviceTV, Action: intent.ActionNetflix},
	"tv_youtube":    {Device: intent.DeviceTV, Action: intent.ActionYouTube},
	"vacuum_start":  {Device: intent.DeviceVacuum, Action: intent.ActionStart},
	"vacuum_pause":  {Device: intent.DeviceVacuum, Action: intent.ActionPause},
	"vacuum_stop":   {Device: intent.DeviceVacuum, Action: intent.ActionStop},
	"vacuum_dock":   {Device: intent.DeviceVacuum, Action: intent.ActionDock},
	"vacuum_find":   {Device: intent.DeviceVacuum, Action: intent.ActionFind},
	"status":        {Device: intent.DeviceStatus, Action: intent.ActionStatus},
}

func callbackIntent(id string) intent.Intent {
	if in, ok := callbackIntents[id]; ok {
		return in
	}
	return intent.Intent{Device: intent.DeviceUnknown}
}

// Package intent turns free text (typed or transcribed speech) into a
// canonical Intent using fixed keyword vocabularies. Matching is
// case-insensitive substring search in a fixed priority order, so the
// parser is deterministic, stateless and best-effort: the same utterance
// always yields the same intent, and anything outside the vocabularies
// comes back as DeviceUnknown.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// entry maps one synonym to a canonical token. Tables are ordered: the
// first synonym found as a substring wins.
type entry struct {
	keyword string
	token   string
}

// Device nouns, checked in priority order: light, tv, vacuum, status.
var (
	lightNouns  = []string{"свет", "лампа", "light"}
	tvNouns     = []string{"телевизор", "телек", "tv", "нетфликс", "netflix", "ютуб", "youtube"}
	vacuumNouns = []string{"пылесос", "робот", "vacuum"}
	statusNouns = []string{"статус", "состояние", "status"}
)

// Russian synonyms use stems so inflected forms still match
// ("на кухне", "в комнате").
var roomTable = []entry{
	{"ванн", RoomBathroom},
	{"bathroom", RoomBathroom},
	{"туалет", RoomToilet},
	{"toilet", RoomToilet},
	{"прихож", RoomHallway},
	{"коридор", RoomHallway},
	{"hallway", RoomHallway},
	{"кухн", RoomKitchen},
	{"kitchen", RoomKitchen},
	{"комнат", RoomRoom},
	{"зал", RoomRoom},
	{"room", RoomRoom},
	{"весь", RoomAll},
	{"все", RoomAll},
	{"all", RoomAll},
}

var lightActions = []entry{
	{"выключи", ActionOff},
	{"выключен", ActionOff},
	{"off", ActionOff},
	{"погаси", ActionOff},
	{"включи", ActionOn},
	{"включен", ActionOn},
	{"on", ActionOn},
	{"зажги", ActionOn},
	{"яркость", ActionBrightness},
	{"brightness", ActionBrightness},
}

var tvActions = []entry{
	{"нетфликс", ActionNetflix},
	{"netflix", ActionNetflix},
	{"ютуб", ActionYouTube},
	{"youtube", ActionYouTube},
	{"громче", ActionVolumeUp},
	{"volume_up", ActionVolumeUp},
	{"повысь", ActionVolumeUp},
	{"тише", ActionVolumeDown},
	{"volume_down", ActionVolumeDown},
	{"понизь", ActionVolumeDown},
	{"громкость", ActionVolumeSet},
	{"volume", ActionVolumeSet},
	{"выключи", ActionOff},
	{"off", ActionOff},
	{"включи", ActionOn},
	{"on", ActionOn},
}

var vacuumActions = []entry{
	{"начни", ActionStart},
	{"начать", ActionStart},
	{"уборк", ActionStart},
	{"убраться", ActionStart},
	{"start", ActionStart},
	{"пауз", ActionPause},
	{"приостанов", ActionPause},
	{"pause", ActionPause},
	{"стоп", ActionStop},
	{"останови", ActionStop},
	{"stop", ActionStop},
	{"баз", ActionDock},
	{"домой", ActionDock},
	{"вернись", ActionDock},
	{"dock", ActionDock},
	{"найди", ActionFind},
	{"find", ActionFind},
	{"статус", ActionStatus},
	{"status", ActionStatus},
}

// Canonical action names shared with the adapters.
const (
	ActionOn         = "on"
	ActionOff        = "off"
	ActionBrightness = "brightness"
	ActionNetflix    = "netflix"
	ActionYouTube    = "youtube"
	ActionVolumeUp   = "volume_up"
	ActionVolumeDown = "volume_down"
	ActionVolumeSet  = "volume_set"
	ActionStart      = "start"
	ActionFanPower   = "fan_power"
	ActionPause      = "pause"
	ActionStop       = "stop"
	ActionDock       = "dock"
	ActionFind       = "find"
	ActionStatus     = "show"
	ActionHealth     = "health"
)

var (
	percentRe  = regexp.MustCompile(`(\d+)\s*%`)
	trailingRe = regexp.MustCompile(`(\d+)\s*$`)
)

// Parse classifies a single utterance. See the package comment for the
// matching rules; unknown input yields Intent{Device: DeviceUnknown}.
func Parse(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return Intent{Device: DeviceUnknown}
	}

	switch {
	case containsAny(t, lightNouns):
		return parseLight(t)
	case containsAny(t, tvNouns):
		return parseTV(t)
	case containsAny(t, vacuumNouns):
		return parseVacuum(t)
	case containsAny(t, statusNouns):
		return Intent{Device: DeviceStatus, Action: ActionStatus}
	}
	return Intent{Device: DeviceUnknown}
}

func parseLight(t string) Intent {
	action := firstMatch(t, lightActions)
	room := firstMatch(t, roomTable)
	value := extractValue(t)

	// A bare percentage means "set brightness" even without the keyword.
	if action == "" && value != nil {
		action = ActionBrightness
	}
	if action == "" {
		return Intent{Device: DeviceUnknown}
	}
	return Intent{Device: DeviceLight, Action: action, Room: room, Value: value}
}

func parseTV(t string) Intent {
	action := firstMatch(t, tvActions)
	if action == "" {
		return Intent{Device: DeviceUnknown}
	}
	var value *int
	if action == ActionVolumeSet || action == ActionVolumeUp || action == ActionVolumeDown {
		value = extractValue(t)
	}
	if action == ActionVolumeSet && value == nil {
		// "громкость" with no level is not actionable
		return Intent{Device: DeviceUnknown}
	}
	return Intent{Device: DeviceTV, Action: action, Value: value}
}

func parseVacuum(t string) Intent {
	action := firstMatch(t, vacuumActions)
	if action == "" {
		return Intent{Device: DeviceUnknown}
	}
	var value *int
	if action == ActionStart {
		// fan power: "начни уборку на 75%"
		value = extractValue(t)
	}
	return Intent{Device: DeviceVacuum, Action: action, Value: value}
}

func containsAny(t string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

func firstMatch(t string, table []entry) string {
	for _, e := range table {
		if strings.Contains(t, e.keyword) {
			return e.token
		}
	}
	return ""
}

// extractValue pulls a percentage ("50%") or a trailing integer out of the
// utterance. Values outside [0,100] are dropped, not errored.
func extractValue(t string) *int {
	m := percentRe.FindStringSubmatch(t)
	if m == nil {
		m = trailingRe.FindStringSubmatch(t)
	}
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil || v < 0 || v > 100 {
		return nil
	}
	return &v
}

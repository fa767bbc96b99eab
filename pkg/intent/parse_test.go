package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_LightCommands(t *testing.T) {
	tests := []struct {
		text   string
		action string
		room   string
	}{
		{"включи свет на кухне", ActionOn, RoomKitchen},
		{"включи свет в прихожей", ActionOn, RoomHallway},
		{"выключи свет в ванной", ActionOff, RoomBathroom},
		{"выключи свет в туалете", ActionOff, RoomToilet},
		{"включи свет в комнате", ActionOn, RoomRoom},
		{"выключи весь свет", ActionOff, RoomAll},
		{"turn on the light in the kitchen", ActionOn, RoomKitchen},
		{"включи свет", ActionOn, ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Parse(tt.text)
			assert.Equal(t, DeviceLight, got.Device)
			assert.Equal(t, tt.action, got.Action)
			assert.Equal(t, tt.room, got.Room)
		})
	}
}

func TestParse_LightBrightness(t *testing.T) {
	got := Parse("яркость света на кухне 70%")
	assert.Equal(t, DeviceLight, got.Device)
	assert.Equal(t, ActionBrightness, got.Action)
	assert.Equal(t, RoomKitchen, got.Room)
	require.True(t, got.HasValue())
	assert.Equal(t, 70, *got.Value)
}

func TestParse_LightBarePercentageImpliesBrightness(t *testing.T) {
	got := Parse("свет в комнате 45%")
	assert.Equal(t, DeviceLight, got.Device)
	assert.Equal(t, ActionBrightness, got.Action)
	require.True(t, got.HasValue())
	assert.Equal(t, 45, *got.Value)
}

func TestParse_OutOfRangeValueDropped(t *testing.T) {
	got := Parse("яркость света 150%")
	assert.Equal(t, DeviceLight, got.Device)
	assert.Equal(t, ActionBrightness, got.Action)
	assert.False(t, got.HasValue())
}

func TestParse_TVCommands(t *testing.T) {
	tests := []struct {
		text   string
		action string
	}{
		{"включи телевизор", ActionOn},
		{"выключи телевизор", ActionOff},
		{"включи netflix", ActionNetflix},
		{"включи нетфликс на телевизоре", ActionNetflix},
		{"запусти youtube", ActionYouTube},
		{"телевизор громче", ActionVolumeUp},
		{"сделай телевизор тише", ActionVolumeDown},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Parse(tt.text)
			assert.Equal(t, DeviceTV, got.Device)
			assert.Equal(t, tt.action, got.Action)
		})
	}
}

func TestParse_TVVolumeLevel(t *testing.T) {
	got := Parse("громкость телевизора на 40")
	assert.Equal(t, DeviceTV, got.Device)
	assert.Equal(t, ActionVolumeSet, got.Action)
	require.True(t, got.HasValue())
	assert.Equal(t, 40, *got.Value)
}

func TestParse_VacuumCommands(t *testing.T) {
	tests := []struct {
		text   string
		action string
	}{
		{"пылесос начни уборку", ActionStart},
		{"робот домой", ActionDock},
		{"пылесос на базу", ActionDock},
		{"пылесос пауза", ActionPause},
		{"останови пылесос", ActionStop},
		{"найди пылесос", ActionFind},
		{"статус пылесоса", ActionStatus},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Parse(tt.text)
			assert.Equal(t, DeviceVacuum, got.Device)
			assert.Equal(t, tt.action, got.Action)
		})
	}
}

func TestParse_Status(t *testing.T) {
	got := Parse("покажи статус")
	assert.Equal(t, DeviceStatus, got.Device)
	assert.NotEmpty(t, got.Action)
}

func TestParse_Unknown(t *testing.T) {
	for _, text := range []string{"абракадabra", "", "сколько времени", "make me a sandwich"} {
		got := Parse(text)
		assert.Equal(t, DeviceUnknown, got.Device, "text=%q", text)
	}
}

func TestParse_DeviceWithoutActionIsUnknown(t *testing.T) {
	// A device noun alone is not an actionable intent.
	got := Parse("свет")
	assert.Equal(t, DeviceUnknown, got.Device)
}

func TestParse_Deterministic(t *testing.T) {
	a := Parse("включи свет на кухне 80%")
	b := Parse("включи свет на кухне 80%")
	assert.Equal(t, a.Device, b.Device)
	assert.Equal(t, a.Action, b.Action)
	assert.Equal(t, a.Room, b.Room)
	require.True(t, a.HasValue() && b.HasValue())
	assert.Equal(t, *a.Value, *b.Value)
}

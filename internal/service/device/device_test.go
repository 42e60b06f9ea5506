package device

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/auth-ui/internal/model"
)

const (
	iphoneSafari  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
	ipadSafari    = "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"
	windowsChrome = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	tizenTV       = "Mozilla/5.0 (SMART-TV; LINUX; Tizen 6.0) AppleWebKit/537.36 (KHTML, like Gecko) 76.0.3809.146/6.0 TV Safari/537.36"
	playstation   = "Mozilla/5.0 (PlayStation 5 3.11) AppleWebKit/605.1.15 (KHTML, like Gecko)"
)

func TestDetector_Parse(t *testing.T) {
	d := NewDetector(nil)

	tests := []struct {
		name string
		raw  string
		icon string
	}{
		{"iphone", iphoneSafari, model.DeviceMobile},
		{"ipad", ipadSafari, model.DeviceTablet},
		{"desktop", windowsChrome, model.DeviceLaptop},
		{"smart tv", tizenTV, model.DeviceSmartTV},
		{"console", playstation, model.DeviceConsole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.icon, Icon(d.Parse(tt.raw)))
		})
	}

	desktop := d.Parse(windowsChrome)
	assert.Equal(t, "Windows, Chrome", Describe(desktop))
}

func TestDetector_CustomParserFirst(t *testing.T) {
	d := NewDetector(func(raw string) (model.UserAgent, bool) {
		if raw != "my-app/1.0" {
			return model.UserAgent{}, false
		}
		return model.UserAgent{AppName: "My App", Type: model.DeviceWearable}, true
	})

	ua := d.Parse("my-app/1.0")
	assert.Equal(t, "My App", Describe(ua))
	assert.Equal(t, model.DeviceWearable, Icon(ua))

	assert.Equal(t, "Windows, Chrome", Describe(d.Parse(windowsChrome)), "falls back to the built-in parser")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		ua   model.UserAgent
		want string
	}{
		{"both", model.UserAgent{OSName: "macOS", AppName: "Firefox"}, "macOS, Firefox"},
		{"os only", model.UserAgent{OSName: "Linux"}, "Linux"},
		{"app only", model.UserAgent{AppName: "curl"}, "curl"},
		{"summary", model.UserAgent{Summary: "internal-bot"}, "internal-bot"},
		{"nothing", model.UserAgent{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.ua))
		})
	}
}

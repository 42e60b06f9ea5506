// Package device turns session user agent strings into the description
// and icon shown in the sessions list.
package device

import (
	"strings"

	"github.com/mileusna/useragent"

	"github.com/jwalitptl/auth-ui/internal/model"
)

// Parser is an application supplied user agent parser. It reports false
// when it cannot handle the string.
type Parser func(raw string) (model.UserAgent, bool)

// Detector parses user agents with the custom parser when one is set and
// falls back to the built-in one.
type Detector struct {
	custom Parser
}

func NewDetector(custom Parser) *Detector {
	return &Detector{custom: custom}
}

var (
	tvMarkers       = []string{"smart-tv", "smarttv", "appletv", "googletv", "hbbtv", "web0s", "tizen", "roku", "crkey"}
	wearableMarkers = []string{"watch", "wear os", "wearos"}
	consoleMarkers  = []string{"playstation", "xbox", "nintendo"}
)

// Parse parses raw into a UserAgent.
func (d *Detector) Parse(raw string) model.UserAgent {
	if d != nil && d.custom != nil {
		if ua, ok := d.custom(raw); ok {
			return ua
		}
	}

	parsed := useragent.Parse(raw)
	ua := model.UserAgent{
		Model:      parsed.Device,
		OSName:     parsed.OS,
		OSVersion:  parsed.OSVersion,
		AppName:    parsed.Name,
		AppVersion: parsed.Version,
		Type:       deviceType(parsed, strings.ToLower(raw)),
	}
	if ua.OSName == "" && ua.AppName == "" {
		ua.Summary = raw
	}
	return ua
}

func deviceType(parsed useragent.UserAgent, lower string) string {
	switch {
	case containsAny(lower, tvMarkers):
		return model.DeviceSmartTV
	case containsAny(lower, consoleMarkers):
		return model.DeviceConsole
	case containsAny(lower, wearableMarkers):
		return model.DeviceWearable
	case parsed.Tablet:
		return model.DeviceTablet
	case parsed.Mobile:
		return model.DeviceMobile
	default:
		return ""
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// Describe returns "os, app", whichever of the two is known, or the summary.
func Describe(ua model.UserAgent) string {
	switch {
	case ua.OSName != "" && ua.AppName != "":
		return ua.OSName + ", " + ua.AppName
	case ua.OSName != "":
		return ua.OSName
	case ua.AppName != "":
		return ua.AppName
	default:
		return ua.Summary
	}
}

// Icon returns the icon name for the device type. Unknown types are shown
// as a laptop.
func Icon(ua model.UserAgent) string {
	switch ua.Type {
	case model.DeviceMobile, model.DeviceTablet, model.DeviceSmartTV, model.DeviceWearable, model.DeviceConsole:
		return ua.Type
	default:
		return model.DeviceLaptop
	}
}

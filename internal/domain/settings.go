// Package domain contains the core business entities and interfaces.
package domain

import "context"

// AppNotifications are the app-wide notification toggles.
type AppNotifications struct {
	Reminders     bool `json:"reminders"`
	CycleTracking bool `json:"cycleTracking"`
	MoonPhases    bool `json:"moonPhases"`
}

// AppSettings is the app-wide settings object. An empty PinHash means no PIN
// has been configured and the app is always unlocked.
type AppSettings struct {
	PinHash       string           `json:"pinHash,omitempty"`
	IsLocked      bool             `json:"isLocked"`
	Theme         string           `json:"theme,omitempty"`
	PartnerName   string           `json:"partnerName,omitempty"`
	CycleLength   *int             `json:"cycleLength,omitempty"`
	Notifications AppNotifications `json:"notifications"`
}

// HasPin reports whether a PIN hash is stored.
func (s AppSettings) HasPin() bool {
	return s.PinHash != ""
}

// DefaultAppSettings returns the settings used when nothing is stored.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		IsLocked: false,
		Notifications: AppNotifications{
			Reminders:     true,
			CycleTracking: true,
			MoonPhases:    true,
		},
	}
}

// AppSettingsRepository is the port for app settings persistence. Save
// replaces the stored object as a whole.
type AppSettingsRepository interface {
	GetAppSettings(ctx context.Context) (AppSettings, error)
	SaveAppSettings(ctx context.Context, s AppSettings) error
}

//go:build linux

package notify

import (
	"path/filepath"

	"github.com/godbus/dbus/v5"
)

const (
	daemonName  = "org.freedesktop.Notifications"
	daemonPath  = "/org/freedesktop/Notifications"
	daemonIface = "org.freedesktop.Notifications"

	// fallbackIcon is a themed icon name shown next to file artwork.
	fallbackIcon = "audio-x-generic"
)

// busNotifier talks to the notification daemon on the session bus.
type busNotifier struct {
	obj dbus.BusObject
}

// New connects to the notification daemon. Without a session bus the
// returned Notifier drops every notification.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return discard{}, nil //nolint:nilerr // headless hosts have no session bus
	}
	return &busNotifier{obj: conn.Object(daemonName, daemonPath)}, nil
}

// Notify implements Notifier.
func (b *busNotifier) Notify(n Notification) (uint32, error) {
	icon, hints := iconHints(n)
	var id uint32
	err := b.obj.Call(daemonIface+".Notify", 0,
		appName,
		n.ReplacesID,
		icon,
		n.Title,
		n.Body,
		[]string{},
		hints,
		n.Timeout,
	).Store(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Close implements Notifier.
func (b *busNotifier) Close(id uint32) error {
	return b.obj.Call(daemonIface+".CloseNotification", 0, id).Err
}

// iconHints splits Icon into the app_icon argument and the hint map.
// Absolute paths travel as an image-path hint so daemons that only show
// themed icons still get one.
func iconHints(n Notification) (string, map[string]dbus.Variant) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(appName),
	}
	if !filepath.IsAbs(n.Icon) {
		return n.Icon, hints
	}
	hints["image-path"] = dbus.MakeVariant("file://" + n.Icon)
	return fallbackIcon, hints
}

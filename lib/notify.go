// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	NotificationService = "org.freedesktop.Notifications"
	NotificationPath    = "/org/freedesktop/Notifications"
	NotifyMethod        = "org.freedesktop.Notifications.Notify"

	notificationTimeoutMs int32 = 5000
)

// NotifyResult posts a desktop notification with the merge outcome over the
// session bus. Callers treat failures as non-fatal; a missing notification
// daemon must not affect the job result.
func NotifyResult(success bool, detail string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	summary := "Panorama merge complete"
	if !success {
		summary = "Panorama merge failed"
	}

	notifications := conn.Object(NotificationService, dbus.ObjectPath(NotificationPath))
	call := notifications.Call(NotifyMethod, 0,
		"panorama-combiner", uint32(0), "",
		summary, detail,
		[]string{}, map[string]dbus.Variant{}, notificationTimeoutMs)
	if call.Err != nil {
		return fmt.Errorf("notification failed: %w", call.Err)
	}
	return nil
}

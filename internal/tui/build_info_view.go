// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/MKhiriev/deepguard/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo) string {
	body := "DeepGuard: deepfake detection for video and audio\n\n" + info.String()
	return renderPage("ABOUT", body, "esc / v: back")
}

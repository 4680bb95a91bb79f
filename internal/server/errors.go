// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// errNoServersAreCreated is returned when no HTTP handler or listen
	// address is configured.
	errNoServersAreCreated = errors.New("no servers are created: HTTP handler and address are required")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// HistoryItem is a persisted record pairing a past [AnalysisResult] with the
// identity that produced it.
//
// UploadTime is serialised as RFC 3339 with nanoseconds, so sub-second
// precision survives a persist/restore round trip.
type HistoryItem struct {
	// ID is the opaque unique identifier of the record.
	ID string `json:"id"`

	// Filename is the original name of the analysed file.
	Filename string `json:"filename"`

	// UploadTime is the moment the analysis completed.
	UploadTime time.Time `json:"uploadTime"`

	// Result is the detector output.
	Result AnalysisResult `json:"result"`

	// UserID references User.ID of the owner.
	UserID string `json:"userId"`
}

// FilterByUser returns the items owned by userID in their original order.
// The returned slice is never nil.
func FilterByUser(items []HistoryItem, userID string) []HistoryItem {
	filtered := make([]HistoryItem, 0, len(items))
	for _, item := range items {
		if item.UserID == userID {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"fmt"
	"sync"
	"time"
)

var (
	idMu   sync.Mutex
	lastID int64
)

// newID builds a record id as "<prefix>-<epoch millis>". Two calls within
// the same millisecond bump the counter past the previous value, so ids
// from one process are always distinct and increasing.
func newID(prefix string) string {
	idMu.Lock()
	defer idMu.Unlock()

	now := time.Now().UnixMilli()
	if now <= lastID {
		now = lastID + 1
	}
	lastID = now
	return fmt.Sprintf("%s-%d", prefix, now)
}

// NewID exposes the id scheme for callers assembling records outside the
// store, such as custom page sections created in the admin panel.
func NewID(prefix string) string {
	return newID(prefix)
}

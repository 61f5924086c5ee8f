// sim/errors.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
)

var (
	ErrDuplicateVertiportID   = errors.New("Duplicate vertiport id")
	ErrDuplicateAircraftID    = errors.New("Duplicate aircraft id")
	ErrDuplicateDemandID      = errors.New("Duplicate demand id")
	ErrUnknownAircraftDBID    = errors.New("Aircraft db_id not found in aircraft info table")
	ErrUnknownOriginVertiport = errors.New("Demand origin vertiport not found")
	ErrUnknownDestVertiport   = errors.New("Demand destination vertiport not found")
	ErrSameOriginDestination  = errors.New("Demand origin and destination are the same vertiport")
	ErrUnknownMode            = errors.New("Unknown departure policy mode")
	ErrEmptyMaxStationCurve   = errors.New("Max station time curve has no points")
	ErrEndBeforeStart         = errors.New("end_time precedes start_time")
)

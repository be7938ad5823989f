package domain

import (
	"errors"
	"time"

	"resolvemcp/internal/modules/connection/dto"
)

var ErrChecksumMismatch = errors.New("bridge checksum mismatch")

type State string

const (
	StateUnconnected State = "unconnected"
	StateConnected   State = "connected"
	StateInvalid     State = "invalid"
)

// Session describes the live connection. The host reference itself stays
// inside the connection service.
type Session struct {
	Root        string
	RootKind    string
	Generation  uint64
	Version     string
	ConnectedAt time.Time
}

// PropertySpec says how a derived handle is resolved from its parent.
// Volatile properties can change inside the host between two calls (the user
// switches project or timeline) and are never served from cache.
type PropertySpec struct {
	Parent   dto.Property
	Method   string
	Volatile bool
	Absent   string
}

var propertySpecs = map[dto.Property]PropertySpec{
	dto.PropertyProjectManager: {Parent: dto.PropertyRoot, Method: "GetProjectManager", Absent: "Could not access Project Manager."},
	dto.PropertyMediaStorage:   {Parent: dto.PropertyRoot, Method: "GetMediaStorage", Absent: "Media Storage is not available."},
	dto.PropertyProject:        {Parent: dto.PropertyProjectManager, Method: "GetCurrentProject", Volatile: true, Absent: "No project is currently open."},
	dto.PropertyMediaPool:      {Parent: dto.PropertyProject, Method: "GetMediaPool", Volatile: true, Absent: "Media Pool is not available. Is a project open?"},
	dto.PropertyTimeline:       {Parent: dto.PropertyProject, Method: "GetCurrentTimeline", Volatile: true, Absent: "No timeline is currently open."},
}

func SpecFor(p dto.Property) (PropertySpec, bool) {
	spec, ok := propertySpecs[p]
	return spec, ok
}

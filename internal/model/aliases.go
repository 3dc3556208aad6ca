package model

import (
	"github.com/oneiros-project/oneiros/internal/ids"
	"github.com/oneiros-project/oneiros/internal/link"
)

// Aliases so handler and projection code can write model.AgentID instead
// of reaching into internal/ids and internal/link directly; the domain
// model is the natural place for these names to live.
type (
	ID        = ids.ID
	Label     = ids.Label
	Timestamp = ids.Timestamp

	AgentName     = ids.AgentName
	PersonaName   = ids.PersonaName
	LevelName     = ids.LevelName
	TextureName   = ids.TextureName
	SensationName = ids.SensationName
	NatureName    = ids.NatureName
	StorageKey    = ids.StorageKey
	BrainName     = ids.BrainName
	TenantName    = ids.TenantName

	AgentID      = ids.AgentID
	CognitionID  = ids.CognitionID
	MemoryID     = ids.MemoryID
	ExperienceID = ids.ExperienceID
	ConnectionID = ids.ConnectionID
	BrainID      = ids.BrainID
	TenantID     = ids.TenantID
	ActorID      = ids.ActorID
	TicketID     = ids.TicketID
	EventID      = ids.EventID

	Key  = link.Key
	Link = link.Link
)

var (
	Now      = ids.Now
	ParseKey = link.ParseKey
)

package models

import (
	"fmt"
	"strings"
	"time"
)

// Direction задаёт направление репликации для пира
type Direction string

const (
	// DirectionOutbound пир, которого мы опрашиваем (мы puller)
	DirectionOutbound Direction = "outbound"
	// DirectionInbound пир, которому разрешено опрашивать нас (мы supplier)
	DirectionInbound Direction = "inbound"
	// DirectionBoth оба направления
	DirectionBoth Direction = "both"
)

// ParseDirection parses a configured direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionOutbound, DirectionInbound, DirectionBoth:
		return d, nil
	default:
		return "", fmt.Errorf("unknown peer direction %q", s)
	}
}

// Peer is a configured remote server (PeerDescriptor).
type Peer struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`         // ID короткое имя пира
	Address   string    `json:"address"`    // Address базовый URL, например https://mirror1:8443
	PublicKey string    `json:"public_key"` // PublicKey ожидаемая публичная идентичность
	Direction Direction `json:"direction"`
}

// CallsOut reports whether we pull from this peer.
func (p *Peer) CallsOut() bool {
	return p.Direction == DirectionOutbound || p.Direction == DirectionBoth
}

// AcceptsCalls reports whether this peer may pull from us.
func (p *Peer) AcceptsCalls() bool {
	return p.Direction == DirectionInbound || p.Direction == DirectionBoth
}

// PullRecord is one entry of the mirroring journal.
type PullRecord struct {
	PulledAt time.Time    `json:"pulled_at"`
	PeerID   string       `json:"peer_id"`
	UID      UniversalID  `json:"uid"`
	Status   RecordStatus `json:"status"`
	Size     int64        `json:"size"`
}

package relay

import (
	"relay-service/internal/models"
	"relay-service/internal/observability"
)

// Key exchange outcomes recorded in metrics.
const (
	KeyExchangeRequested   = "requested"
	KeyExchangeNoResponder = "no_responder"
	KeyExchangeDelivered   = "delivered"
	KeyExchangeTargetGone  = "target_gone"
)

// KeyExchange relays a room's symmetric key between two members. The relay
// only ever forwards opaque blobs: the requester's public key on the way out,
// the key encrypted under that public key on the way back.
type KeyExchange struct {
	registry *Registry
	sender   Sender
}

// NewKeyExchange builds a KeyExchange coordinator.
func NewKeyExchange(registry *Registry, sender Sender) *KeyExchange {
	return &KeyExchange{registry: registry, sender: sender}
}

// Request selects one current room member other than the requester and
// delivers the key request to that member's session only. The pick is the
// first match in join order, so the oldest member tends to be asked
// repeatedly; that skew is tracked, not corrected.
//
// Returns false when no other member is present. That is the normal case for
// the first member of a room, who originates the key locally instead.
func (k *KeyExchange) Request(requesterUserID string, req models.RoomKeyRequest) bool {
	observability.IncKeyExchange(KeyExchangeRequested)

	for _, conn := range k.registry.ConnectionsInRoom(req.RoomID) {
		if conn.ConnectionID == req.ConnectionID {
			continue
		}
		k.sender.SendToConnection(conn.ConnectionID, models.ServerEvent{
			Event: models.EventKeyRequest,
			Payload: models.KeyRequestPayload{
				RoomID:                req.RoomID,
				RequesterConnectionID: req.ConnectionID,
				RequesterUserID:       requesterUserID,
				RequesterPublicKey:    req.PublicKey,
			},
		})
		return true
	}

	observability.IncKeyExchange(KeyExchangeNoResponder)
	return false
}

// Supply forwards the encrypted room key verbatim to the requesting
// connection. If the requester disconnected in the interim the response is
// dropped; the requester re-issues a key request on its next join.
func (k *KeyExchange) Supply(req models.SupplyRoomKeyRequest) bool {
	if _, ok := k.registry.Lookup(req.ConnectionID); !ok {
		observability.IncKeyExchange(KeyExchangeTargetGone)
		return false
	}

	delivered := k.sender.SendToConnection(req.ConnectionID, models.ServerEvent{
		Event: models.EventGetSymmetricKey,
		Payload: models.GetSymmetricKeyPayload{
			EncryptedRoomKey: req.EncryptedRoomKey,
			RoomID:           req.RoomID,
		},
	})
	if !delivered {
		observability.IncKeyExchange(KeyExchangeTargetGone)
		return false
	}
	observability.IncKeyExchange(KeyExchangeDelivered)
	return true
}

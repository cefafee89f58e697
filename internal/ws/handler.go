package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"relay-service/internal/models"
	"relay-service/internal/observability"
	"relay-service/internal/relay"
)

// TokenValidator checks a handshake token against the auth service and
// returns the authenticated user id.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// RelayHandler upgrades client connections and feeds inbound frames to the
// event router.
type RelayHandler struct {
	hub    *Hub
	router *relay.Router
	auth   TokenValidator
}

// NewRelayHandler constructs a RelayHandler.
func NewRelayHandler(hub *Hub, router *relay.Router, auth TokenValidator) *RelayHandler {
	return &RelayHandler{hub: hub, router: router, auth: auth}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates the handshake, upgrades the connection and runs the
// read loop until the client disconnects.
func (h *RelayHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("relay-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
		if token != "" {
			token = "Bearer " + token
		}
	}

	userID, err := h.validateToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := SessionInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	session := NewSession(conn, info)
	h.hub.Attach(session)
	go session.Run()

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	publishWSEvent(ctx, "ws_connect", info, "")

	go h.readLoop(context.WithoutCancel(ctx), session, conn)
}

func (h *RelayHandler) readLoop(ctx context.Context, session *Session, conn *websocket.Conn) {
	info := session.Info()
	var closeReason string
	defer func() {
		h.hub.Detach(info.ConnID)
		h.router.OnDisconnect(ctx, info.ConnID)
		session.Close()
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		publishWSEvent(ctx, "ws_disconnect", info, closeReason)
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
			}
			return
		}

		var frame models.ClientFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			observability.IncDroppedAction("malformed_frame")
			continue
		}
		h.dispatch(ctx, info, frame)
	}
}

func (h *RelayHandler) dispatch(ctx context.Context, info SessionInfo, frame models.ClientFrame) {
	switch frame.Action {
	case models.ActionJoinRoom:
		var req models.JoinRoomRequest
		if !decodePayload(h.hub, info.ConnID, frame, &req) {
			return
		}
		h.router.JoinRoom(ctx, info.ConnID, info.UserID, req)
	case models.ActionSendMessage:
		var req models.MessageRequest
		if !decodePayload(h.hub, info.ConnID, frame, &req) {
			return
		}
		h.router.SendMessage(info.ConnID, req)
	case models.ActionEditMessage:
		var req models.EditMessageRequest
		if !decodePayload(h.hub, info.ConnID, frame, &req) {
			return
		}
		h.router.EditMessage(info.ConnID, req)
	case models.ActionMarkSeen:
		var req models.MessageSeenRequest
		if !decodePayload(h.hub, info.ConnID, frame, &req) {
			return
		}
		h.router.MarkSeen(info.ConnID, req)
	case models.ActionDeleteMessage:
		var req models.DeleteMessageRequest
		if !decodePayload(h.hub, info.ConnID, frame, &req) {
			return
		}
		h.router.DeleteMessage(info.ConnID, req)
	case models.ActionSaveMessage:
		var req models.MessageRequest
		if !decodePayload(h.hub, info.ConnID, frame, &req) {
			return
		}
		h.router.SaveMessage(ctx, info.ConnID, req)
	case models.ActionGetConnectedUserCount:
		var req models.ConnectedUserCountRequest
		if !decodePayload(h.hub, info.ConnID, frame, &req) {
			return
		}
		h.router.ConnectedUserCount(info.ConnID, req)
	case models.ActionRequestRoomKey:
		var req models.RoomKeyRequest
		if !decodePayload(h.hub, info.ConnID, frame, &req) {
			return
		}
		h.router.RequestRoomKey(ctx, info.ConnID, req)
	case models.ActionSupplyRoomKey:
		var req models.SupplyRoomKeyRequest
		if !decodePayload(h.hub, info.ConnID, frame, &req) {
			return
		}
		h.router.SupplyRoomKey(req)
	case models.ActionDeleteRoom:
		var req models.DeleteRoomRequest
		if !decodePayload(h.hub, info.ConnID, frame, &req) {
			return
		}
		h.router.DeleteRoom(ctx, req.RoomID)
	default:
		observability.IncDroppedAction("unknown_action")
	}
}

func decodePayload(hub *Hub, connectionID string, frame models.ClientFrame, out any) bool {
	if err := json.Unmarshal(frame.Payload, out); err != nil {
		observability.IncDroppedAction("malformed_payload")
		hub.SendToConnection(connectionID, models.ServerEvent{
			Event:   models.EventError,
			Payload: models.ErrorPayload{Action: frame.Action, Message: "malformed payload"},
		})
		return false
	}
	return true
}

func (h *RelayHandler) validateToken(ctx context.Context, header string) (string, error) {
	parts := strings.Split(header, " ")
	if len(parts) == 2 {
		return h.auth.ValidateToken(ctx, parts[1])
	}
	return "", fmt.Errorf("invalid token")
}

func publishWSEvent(ctx context.Context, name string, info SessionInfo, reason string) {
	_ = observability.PublishEvent(ctx, observability.WSEventsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: name,
		Payload: map[string]interface{}{
			"ws": observability.WSEventPayload{
				Event:      name,
				ConnID:     info.ConnID,
				DurationMS: time.Since(info.ConnectedAt).Milliseconds(),
				Reason:     reason,
			},
			"identity": observability.WSIdentityPayload{
				UserID:   info.UserID,
				DeviceID: info.DeviceID,
				IP:       info.IP,
			},
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}

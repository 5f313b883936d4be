package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"chatterbox_service/internal/chat/domain"
	"chatterbox_service/pkg/logger"
	"chatterbox_service/pkg/middlewares"
)

// ChatWebsocketHandler websocket entry point, dispatches client events
type ChatWebsocketHandler struct {
	hub       *Hub
	chatUC    *ChatUseCase
	messageUC *MessageUseCase
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(
	hub *Hub,
	chatUC *ChatUseCase,
	messageUC *MessageUseCase,
) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{
		hub:       hub,
		chatUC:    chatUC,
		messageUC: messageUC,
	}
}

// HandleConnection run one connection to completion. The identity was
// already verified by the upgrade middleware, read it from Locals.
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenMember := conn.Locals(middlewares.TokenMemberID)
	memberID, ok := tokenMember.(string)
	if !ok || memberID == "" {
		logger.Log.Error("websocket connection without verified identity")
		conn.Close()
		return
	}
	logger.Log.Info("websocket connected", zap.String("userID", memberID))

	client := NewClient(memberID, conn)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	//server發出ping之後client連線正常會回pong
	//fiber會自動處理回傳pong,故需要SetPongHandler另外接出
	conn.SetPongHandler(func(appData string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Debugf("websocket closed by client: %s", memberID)
		return nil
	})

	h.hub.Register(client)
	go client.writePump()

	defer func() {
		h.hub.Unregister(client)
		logger.Log.Info("websocket disconnected", zap.String("userID", memberID))
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Debugf("connection closed: %v", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		h.execWebsocketAction(ctx, client, mt, message)
	}
}

func (h *ChatWebsocketHandler) execWebsocketAction(ctx context.Context, client *Client, mt int, msg []byte) {
	switch mt {
	case websocket.TextMessage:
		h.textMessageAction(ctx, client, msg)
	default:
		h.sendError(client, "unknown message type")
	}
}

func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, client *Client, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		logger.Log.Debugf("json unmarshal error: %v", err)
		h.sendError(client, "invalid payload")
		return
	}

	switch req.Event {
	case domain.EventJoinChat:
		h.joinChat(ctx, client, req.ChatID)

	case domain.EventLeaveChat:
		h.hub.Leave(client, domain.RoomForChat(req.ChatID))

	case domain.EventSendMessage:
		h.sendMessage(ctx, client, req)

	case domain.EventTyping:
		h.typing(client, req)

	default:
		h.sendError(client, "unknown event")
	}
}

// joinChat subscribe to the chat room after a membership check.
// A denied join is dropped without a reply, the client learns nothing
// about chats it does not belong to.
func (h *ChatWebsocketHandler) joinChat(ctx context.Context, client *Client, chatID string) {
	if chatID == "" {
		return
	}
	allowed, err := h.chatUC.CanAccess(ctx, chatID, client.MemberID)
	if err != nil {
		logger.Log.Error("joinChat check failed",
			zap.String("MemberID", client.MemberID), zap.String("chatID", chatID), zap.Error(err))
		return
	}
	if !allowed {
		logger.Log.Debugf("joinChat denied: member=%s chat=%s", client.MemberID, chatID)
		return
	}
	h.hub.Join(client, domain.RoomForChat(chatID))
}

// sendMessage run the ingestion pipeline then fan the result out
func (h *ChatWebsocketHandler) sendMessage(ctx context.Context, client *Client, req domain.WSRequest) {
	// the claimed sender must be the authenticated member, an absent one too
	if req.Sender != client.MemberID {
		logger.Log.Warnf("sender spoof attempt: member=%s claimed=%s", client.MemberID, req.Sender)
		h.sendError(client, "Unauthorized")
		return
	}

	payload, err := h.messageUC.Execute(ctx, req.ChatID, client.MemberID, req.Content)
	if err != nil {
		logger.Log.Error("sendMessage failed",
			zap.String("MemberID", client.MemberID), zap.String("chatID", req.ChatID), zap.Error(err))
		h.sendError(client, err.Error())
		return
	}

	h.hub.BroadcastRoom(domain.RoomForChat(req.ChatID), domain.WSEvent{
		Event:   domain.EventMessage,
		Payload: payload,
	})
	// the ack carries the same formatted payload the room received
	client.Enqueue(domain.WSEvent{
		Event:   domain.EventMessageSent,
		Payload: payload,
	})
}

// typing relay the indicator to the other room members, never persisted
func (h *ChatWebsocketHandler) typing(client *Client, req domain.WSRequest) {
	if req.ChatID == "" {
		return
	}
	h.hub.BroadcastRoomExcept(domain.RoomForChat(req.ChatID), client, domain.WSEvent{
		Event: domain.EventTyping,
		Payload: domain.TypingPayload{
			ChatID:   req.ChatID,
			UserID:   client.MemberID,
			IsTyping: req.IsTyping,
		},
	})
}

func (h *ChatWebsocketHandler) sendError(client *Client, errorMsg string) {
	client.Enqueue(domain.WSEvent{
		Event:   domain.EventError,
		Payload: domain.ErrorPayload{Message: errorMsg},
	})
}

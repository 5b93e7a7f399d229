package orch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// SendMessage persists content and broadcasts it to the whole room, sender
// included. Blank content returns ErrEmptyContent and changes nothing.
// The timestamp is taken under the room lock, so creation order, persistence
// order and broadcast order agree.
func (o *Orchestrator) SendMessage(ctx context.Context, conn core.Connection, room domain.RoomID, content string) (domain.MessageView, error) {
	if strings.TrimSpace(content) == "" {
		return domain.MessageView{}, domain.ErrEmptyContent
	}
	if !o.Registry.IsMember(room, conn.ID()) {
		return domain.MessageView{}, domain.ErrNotJoined
	}
	user := conn.User()

	mu := o.roomLock(room)
	mu.Lock()
	msg, err := domain.NewMessage(room, user.ID, content, o.maxMessageLength(), o.now())
	if err != nil {
		mu.Unlock()
		return domain.MessageView{}, err
	}
	view := domain.MessageView{Message: msg, Sender: domain.SenderOf(user)}
	if err := o.Messages.CreateMessage(ctx, msg); err != nil {
		mu.Unlock()
		return domain.MessageView{}, fmt.Errorf("%w: create message: %w", domain.ErrPersistence, err)
	}
	res := o.broadcast(room, core.NewMessageEvent(core.EventNewMessage, view))
	mu.Unlock()

	o.applyPolicy(res)
	return view, nil
}

// EditMessage rewrites a message on behalf of its sender and broadcasts the update.
func (o *Orchestrator) EditMessage(ctx context.Context, user domain.User, id, content string) (domain.MessageView, error) {
	msg, mu, err := o.lockOwnMessage(ctx, user.ID, id)
	if err != nil {
		return domain.MessageView{}, err
	}
	if err := msg.Edit(content, o.maxMessageLength(), o.now()); err != nil {
		mu.Unlock()
		return domain.MessageView{}, err
	}
	view := domain.MessageView{Message: msg, Sender: domain.SenderOf(user)}
	if err := o.Messages.UpdateMessage(ctx, msg); err != nil {
		mu.Unlock()
		return domain.MessageView{}, fmt.Errorf("%w: update message: %w", domain.ErrPersistence, err)
	}
	res := o.broadcast(msg.ProjectID, core.NewMessageEvent(core.EventMessageUpdated, view))
	mu.Unlock()

	o.applyPolicy(res)
	return view, nil
}

// DeleteMessage soft-deletes a message on behalf of its sender.
func (o *Orchestrator) DeleteMessage(ctx context.Context, user domain.User, id string) error {
	msg, mu, err := o.lockOwnMessage(ctx, user.ID, id)
	if err != nil {
		return err
	}
	msg.Delete()
	if err := o.Messages.UpdateMessage(ctx, msg); err != nil {
		mu.Unlock()
		return fmt.Errorf("%w: delete message: %w", domain.ErrPersistence, err)
	}
	res := o.broadcast(msg.ProjectID, core.MessageDeletedEvent{
		Type:      core.EventMessageDeleted,
		ProjectID: msg.ProjectID,
		MessageID: msg.ID,
	})
	mu.Unlock()

	o.applyPolicy(res)
	return nil
}

// lockOwnMessage checks that uid sent message id and still belongs to its
// project, then takes the project's room lock and re-reads the message under
// it. On success the caller owns the returned lock.
func (o *Orchestrator) lockOwnMessage(ctx context.Context, uid domain.UserID, id string) (domain.Message, *sync.Mutex, error) {
	msg, err := o.ownMessage(ctx, uid, id)
	if err != nil {
		return domain.Message{}, nil, err
	}
	if _, err := o.authorize(ctx, uid, msg.ProjectID); err != nil {
		return domain.Message{}, nil, err
	}
	mu := o.roomLock(msg.ProjectID)
	mu.Lock()
	msg, err = o.ownMessage(ctx, uid, id)
	if err != nil {
		mu.Unlock()
		return domain.Message{}, nil, err
	}
	return msg, mu, nil
}

func (o *Orchestrator) ownMessage(ctx context.Context, uid domain.UserID, id string) (domain.Message, error) {
	msg, err := o.Messages.GetMessage(ctx, id)
	switch {
	case errors.Is(err, domain.ErrMessageNotFound):
		return domain.Message{}, err
	case err != nil:
		return domain.Message{}, fmt.Errorf("%w: load message: %w", domain.ErrPersistence, err)
	case msg.Deleted:
		return domain.Message{}, domain.ErrMessageNotFound
	case msg.SenderID != uid:
		return domain.Message{}, domain.ErrNotMessageSender
	}
	return msg, nil
}

// Typing tells every other connection of room that conn's user is typing.
// Connections outside the room are ignored.
func (o *Orchestrator) Typing(conn core.Connection, room domain.RoomID) {
	user := conn.User()
	o.relayTyping(conn, room, core.TypingEvent{
		Type:      core.EventUserTyping,
		ProjectID: room,
		UserID:    user.ID,
		UserName:  user.DisplayName(),
	})
}

func (o *Orchestrator) StopTyping(conn core.Connection, room domain.RoomID) {
	o.relayTyping(conn, room, core.TypingEvent{
		Type:      core.EventUserStopTyping,
		ProjectID: room,
		UserID:    conn.User().ID,
	})
}

func (o *Orchestrator) relayTyping(conn core.Connection, room domain.RoomID, evt core.TypingEvent) {
	if !o.Registry.IsMember(room, conn.ID()) {
		return
	}
	frame, err := core.Encode(evt)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode typing")
		return
	}
	others := lo.Filter(o.Registry.Members(room), func(c core.Connection, _ int) bool { return c.ID() != conn.ID() })
	o.applyPolicy(deliver(others, frame))
}

// History pages backwards through room's messages for a project member.
func (o *Orchestrator) History(ctx context.Context, uid domain.UserID, room domain.RoomID, cursor string, limit int) ([]domain.MessageView, string, error) {
	if _, err := o.authorize(ctx, uid, room); err != nil {
		return nil, "", err
	}
	if limit <= 0 || limit > o.recentLimit() {
		limit = o.recentLimit()
	}
	msgs, next, err := o.Messages.MessagesBefore(ctx, room, cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("%w: page messages: %w", domain.ErrPersistence, err)
	}
	return o.resolveSenders(ctx, msgs), next, nil
}

// recent loads the bounded history snapshot sent on join, oldest first.
func (o *Orchestrator) recent(ctx context.Context, room domain.RoomID) ([]domain.MessageView, error) {
	msgs, err := o.Messages.RecentMessages(ctx, room, o.recentLimit())
	if err != nil {
		return nil, fmt.Errorf("%w: recent messages: %w", domain.ErrPersistence, err)
	}
	return o.resolveSenders(ctx, msgs), nil
}

// resolveSenders attaches display fields. Unknown senders fall back to their id.
func (o *Orchestrator) resolveSenders(ctx context.Context, msgs []domain.Message) []domain.MessageView {
	senders := make(map[domain.UserID]domain.Sender)
	return lo.Map(msgs, func(m domain.Message, _ int) domain.MessageView {
		s, ok := senders[m.SenderID]
		if !ok {
			u, err := o.Users.GetUser(ctx, m.SenderID)
			if err != nil {
				u = domain.User{ID: m.SenderID}
			}
			s = domain.SenderOf(u)
			senders[m.SenderID] = s
		}
		return domain.MessageView{Message: m, Sender: s}
	})
}

// broadcast encodes v and sends it to every connection of room.
func (o *Orchestrator) broadcast(room domain.RoomID, v any) core.PublishResult {
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode broadcast")
		return core.PublishResult{}
	}
	return deliver(o.Registry.Members(room), frame)
}

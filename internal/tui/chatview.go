package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"webchat-client/internal/chat"
	"webchat-client/internal/models"
	"webchat-client/internal/presence"
)

// chatView renders the open conversation and owns the compose line.
type chatView struct {
	peer   models.User
	input  string
	scroll int
	marked map[string]bool
	err    error
}

func newChatView(peer models.User) chatView {
	return chatView{peer: peer, marked: make(map[string]bool)}
}

func typingCmd(notifier *presence.TypingNotifier, peerID int) tea.Cmd {
	return func() tea.Msg {
		notifier.Typing(context.Background(), peerID)
		return nil
	}
}

func sendCmd(sync *chat.Synchronizer, notifier *presence.TypingNotifier, text string, senderID, receiverID int) tea.Cmd {
	return func() tea.Msg {
		notifier.Stop(context.Background(), receiverID)
		if err := sync.Send(context.Background(), text, senderID, receiverID); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func markReadCmd(sync *chat.Synchronizer, id string) tea.Cmd {
	return func() tea.Msg {
		if err := sync.MarkAsRead(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// markVisibleRead acknowledges every rendered message addressed to the
// logged-in user that the peer has not yet seen confirmed. Each id is
// acknowledged once per view instance.
func (v *chatView) markVisibleRead(sync *chat.Synchronizer, me int) []tea.Cmd {
	var cmds []tea.Cmd
	for _, msg := range sync.Snapshot().Messages {
		if msg.ReceiverID != me || msg.Status != models.MessageSent || v.marked[msg.ID] {
			continue
		}
		v.marked[msg.ID] = true
		cmds = append(cmds, markReadCmd(sync, msg.ID))
	}
	return cmds
}

// handleKey edits the compose line. Each keystroke feeds the typing
// notifier; enter hands the draft to the synchronizer.
func (v *chatView) handleKey(msg tea.KeyMsg, sync *chat.Synchronizer, notifier *presence.TypingNotifier, me int) tea.Cmd {
	switch msg.Type {
	case tea.KeyPgUp:
		v.scroll++
		return nil
	case tea.KeyPgDown:
		if v.scroll > 0 {
			v.scroll--
		}
		return nil
	case tea.KeyBackspace:
		v.input = trimLastRune(v.input)
		return typingCmd(notifier, v.peer.ID)
	case tea.KeySpace:
		v.input += " "
		return typingCmd(notifier, v.peer.ID)
	case tea.KeyRunes:
		v.input += string(msg.Runes)
		return typingCmd(notifier, v.peer.ID)
	case tea.KeyEnter:
		text := v.input
		v.input = ""
		v.scroll = 0
		return sendCmd(sync, notifier, text, me, v.peer.ID)
	}
	return nil
}

func (v *chatView) view(width, height int, snapshot models.Chat, me int, tracker *presence.Tracker, focused bool) string {
	var b strings.Builder

	state := tracker.Peer(v.peer.ID)
	header := fmt.Sprintf("%s %s", presenceDot(state.Status == models.StatusOnline), v.peer.Name)
	b.WriteString(titleStyle.Render(header) + "\n")
	b.WriteString(" " + strings.Repeat("-", max(1, width-6)) + "\n")

	// Reserve rows for the header, the typing line and the compose line.
	visible := max(1, height-8)
	msgs := snapshot.Messages
	end := len(msgs) - v.scroll
	if end > len(msgs) {
		end = len(msgs)
	}
	if end < 0 {
		end = 0
	}
	start := max(0, end-visible)
	for _, msg := range msgs[start:end] {
		b.WriteString(" " + renderMessage(msg, me, width) + "\n")
	}

	b.WriteString("\n")
	if state.Activity == models.ActivityTyping {
		b.WriteString(" " + typingStyle.Render(v.peer.Name+" is typing...") + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(" " + labelStyle.Render("> ") + v.input)
	if focused {
		b.WriteString(selectedStyle.Render(" "))
	}
	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(" " + errorStyle.Render(v.err.Error()) + "\n")
	}

	style := paneStyle
	if focused {
		style = focusedPaneStyle
	}
	return style.Width(width - 2).Render(b.String())
}

func renderMessage(msg models.Message, me, width int) string {
	text := truncate(msg.Text, max(8, width-20))
	when := timestampStyle.Render(shortTime(msg.SentAt))
	if msg.SenderID == me {
		tick := "✓"
		if msg.Status == models.MessageRead {
			tick = "✓✓"
		}
		return ownMessageStyle.Render("me: "+text) + " " + when + " " + timestampStyle.Render(tick)
	}
	return peerMessageStyle.Render(text) + " " + when
}

// shortTime trims an RFC 3339 timestamp down to hh:mm for display. The
// raw value is shown when it does not look like one.
func shortTime(sentAt string) string {
	if len(sentAt) >= 16 && sentAt[10] == 'T' {
		return sentAt[11:16]
	}
	return sentAt
}

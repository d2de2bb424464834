package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"webchat-client/internal/api"
	"webchat-client/internal/models"
	"webchat-client/internal/presence"
)

// sidebarEntry is one conversation in the list.
type sidebarEntry struct {
	pairKey     string
	peer        models.User
	lastMessage string
}

type sidebarLoadedMsg struct {
	entries []sidebarEntry
}

type peerResolvedMsg struct {
	user models.User
}

// sidebar lists the user's conversations and hosts the chat creator.
type sidebar struct {
	entries  []sidebarEntry
	cursor   int
	creating bool
	input    string
	err      error
}

// loadSidebar fetches the conversation list with peer names and the
// last-message previews.
func loadSidebar(client *api.Client, userID int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		chats, err := client.GetChats(ctx, userID)
		if err != nil {
			return errMsg{err}
		}
		users, err := client.GetUsers(ctx)
		if err != nil {
			return errMsg{err}
		}
		byID := make(map[int]models.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}

		entries := make([]sidebarEntry, 0, len(chats))
		for _, summary := range chats {
			peerID, ok := peerFromPair(summary.Users, userID)
			if !ok {
				continue
			}
			entry := sidebarEntry{
				pairKey: summary.Users,
				peer:    byID[peerID],
			}
			if summary.LastMessageID > 0 {
				if last, err := client.GetMessage(ctx, summary.LastMessageID); err == nil {
					entry.lastMessage = last.Text
				}
			}
			entries = append(entries, entry)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].peer.Name < entries[j].peer.Name
		})
		return sidebarLoadedMsg{entries: entries}
	}
}

// resolvePeer looks a handle up for the chat creator.
func resolvePeer(client *api.Client, username string) tea.Cmd {
	return func() tea.Msg {
		user, err := client.GetUserByUsername(context.Background(), username)
		if err != nil {
			return errMsg{fmt.Errorf("find %s: %w", username, err)}
		}
		return peerResolvedMsg{user: user}
	}
}

// peerFromPair extracts the other participant from a "a,b" pair key.
func peerFromPair(pairKey string, userID int) (int, bool) {
	for _, part := range strings.Split(pairKey, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, false
		}
		if id != userID {
			return id, true
		}
	}
	return 0, false
}

// handleKey navigates the list or edits the creator input. It returns
// the entry to open, if any, and a command to run.
func (s *sidebar) handleKey(msg tea.KeyMsg, client *api.Client) (*sidebarEntry, tea.Cmd) {
	if s.creating {
		switch msg.Type {
		case tea.KeyEsc:
			s.creating = false
			s.input = ""
			s.err = nil
		case tea.KeyBackspace:
			s.input = trimLastRune(s.input)
		case tea.KeyRunes:
			s.input += string(msg.Runes)
		case tea.KeyEnter:
			name := strings.TrimSpace(s.input)
			if name == "" {
				return nil, nil
			}
			return nil, resolvePeer(client, name)
		}
		return nil, nil
	}

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.entries)-1 {
			s.cursor++
		}
	case "n":
		s.creating = true
		s.input = ""
		s.err = nil
	case "enter":
		if s.cursor < len(s.entries) {
			return &s.entries[s.cursor], nil
		}
	}
	return nil, nil
}

func (s *sidebar) view(width int, tracker *presence.Tracker, focused bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Chats") + "\n")
	b.WriteString(" " + strings.Repeat("-", max(1, width-6)) + "\n")

	if len(s.entries) == 0 {
		b.WriteString(" " + hintStyle.Render("no conversations yet") + "\n")
	}
	for i, entry := range s.entries {
		dot := presenceDot(tracker.Peer(entry.peer.ID).Status == models.StatusOnline)
		line := fmt.Sprintf("%s %s", dot, entry.peer.Name)
		if entry.lastMessage != "" {
			line += hintStyle.Render("  " + truncate(entry.lastMessage, max(4, width-len(entry.peer.Name)-10)))
		}
		marker := "  "
		if i == s.cursor && focused {
			marker = "> "
			line = selectedStyle.Render(line)
		}
		b.WriteString(" " + marker + line + "\n")
	}

	b.WriteString("\n")
	if s.creating {
		b.WriteString(" " + labelStyle.Render("To: ") + s.input + selectedStyle.Render(" ") + "\n")
		b.WriteString(" " + hintStyle.Render("enter: start chat  esc: cancel") + "\n")
	} else {
		b.WriteString(" " + hintStyle.Render("n: new chat") + "\n")
	}
	if s.err != nil {
		b.WriteString(" " + errorStyle.Render(s.err.Error()) + "\n")
	}

	style := paneStyle
	if focused {
		style = focusedPaneStyle
	}
	return style.Width(width - 2).Render(b.String())
}

// trimLastRune drops the final rune, not the final byte, so multibyte
// input survives backspace.
func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

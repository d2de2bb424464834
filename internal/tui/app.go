// Package tui is the terminal frontend. It renders the state held by
// the session, synchronizer and presence tracker and forwards input to
// them; it owns no chat state of its own.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"webchat-client/internal/api"
	"webchat-client/internal/chat"
	"webchat-client/internal/models"
	"webchat-client/internal/presence"
	"webchat-client/internal/session"
)

// RefreshMsg asks the program to re-read the shared state. The push
// dispatch goroutine sends it after every applied event.
type RefreshMsg struct{}

// AlertMsg surfaces a message that arrived outside the open chat.
type AlertMsg struct {
	Message models.Message
}

type errMsg struct {
	err error
}

type verifiedMsg struct {
	route session.Route
	err   error
}

type authDoneMsg struct {
	err error
}

type chatOpenedMsg struct {
	peer models.User
}

type viewState int

const (
	viewLogin viewState = iota
	viewHome
	viewChat
)

// App is the bubbletea root model.
type App struct {
	client  *api.Client
	sess    *session.Session
	sync    *chat.Synchronizer
	tracker *presence.Tracker
	typing  *presence.TypingNotifier

	width  int
	height int

	view         viewState
	login        loginForm
	side         sidebar
	conversation chatView
	focusSidebar bool
	alert        string
}

// New builds the root model over the already-wired components.
func New(client *api.Client, sess *session.Session, sync *chat.Synchronizer, tracker *presence.Tracker, typing *presence.TypingNotifier) *App {
	return &App{
		client:  client,
		sess:    sess,
		sync:    sync,
		tracker: tracker,
		typing:  typing,
		view:    viewLogin,
		login:   newLoginForm(),
		width:   80,
		height:  24,
	}
}

func (a *App) Init() tea.Cmd {
	return func() tea.Msg {
		route, err := a.sess.Verify(context.Background(), "")
		return verifiedMsg{route: route, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.FocusMsg:
		return a, a.switchStatus(models.StatusOnline)

	case tea.BlurMsg:
		return a, a.switchStatus(models.StatusOffline)

	case verifiedMsg:
		if msg.err != nil || msg.route == session.RouteLogin {
			a.view = viewLogin
			return a, nil
		}
		return a, a.enterHome()

	case authDoneMsg:
		a.login.busy = false
		if msg.err != nil {
			a.login.err = msg.err
			return a, nil
		}
		a.login = newLoginForm()
		return a, a.enterHome()

	case sidebarLoadedMsg:
		a.side.entries = msg.entries
		if a.side.cursor >= len(a.side.entries) {
			a.side.cursor = 0
		}
		return a, a.primePeers()

	case peerResolvedMsg:
		a.side.creating = false
		a.side.input = ""
		return a, a.openChat(msg.user)

	case chatOpenedMsg:
		a.view = viewChat
		a.focusSidebar = false
		a.conversation = newChatView(msg.peer)
		a.alert = ""
		return a, tea.Batch(a.conversation.markVisibleRead(a.sync, a.sess.UserID())...)

	case RefreshMsg:
		if a.view == viewChat {
			return a, tea.Batch(a.conversation.markVisibleRead(a.sync, a.sess.UserID())...)
		}
		return a, nil

	case AlertMsg:
		a.alert = fmt.Sprintf("new message from %s", a.senderName(msg.Message.SenderID))
		return a, nil

	case errMsg:
		switch a.view {
		case viewLogin:
			a.login.err = msg.err
		case viewChat:
			a.conversation.err = msg.err
		default:
			a.side.err = msg.err
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	switch a.view {
	case viewLogin:
		if a.login.handleKey(msg) {
			return a, a.submitAuth()
		}
		return a, nil

	case viewHome:
		if msg.Type == tea.KeyCtrlD {
			return a, a.logout()
		}
		entry, cmd := a.side.handleKey(msg, a.client)
		if entry != nil {
			return a, a.openChatByPair(entry.pairKey, entry.peer)
		}
		return a, cmd

	case viewChat:
		switch msg.Type {
		case tea.KeyEsc:
			a.view = viewHome
			a.alert = ""
			return a, tea.Batch(
				func() tea.Msg {
					a.typing.Stop(context.Background(), a.conversation.peer.ID)
					if err := a.sync.Open(context.Background(), ""); err != nil {
						return errMsg{err}
					}
					return nil
				},
				loadSidebar(a.client, a.sess.UserID()),
			)
		case tea.KeyTab:
			a.focusSidebar = !a.focusSidebar
			return a, nil
		}
		if a.focusSidebar {
			entry, cmd := a.side.handleKey(msg, a.client)
			if entry != nil {
				return a, a.openChatByPair(entry.pairKey, entry.peer)
			}
			return a, cmd
		}
		return a, a.conversation.handleKey(msg, a.sync, a.typing, a.sess.UserID())
	}
	return a, nil
}

// enterHome installs the logged-in identity into the shared components
// and loads the sidebar.
func (a *App) enterHome() tea.Cmd {
	id := a.sess.UserID()
	a.sync.SetLoggedUser(id)
	a.tracker.SetLoggedUser(id)
	a.typing.SetSender(id)
	a.view = viewHome

	return tea.Batch(
		loadSidebar(a.client, id),
		a.switchStatus(models.StatusOnline),
	)
}

// switchStatus mirrors terminal focus onto the backend status. Before
// login it is a no-op.
func (a *App) switchStatus(status models.UserStatus) tea.Cmd {
	if a.sess.UserID() == 0 {
		return nil
	}
	return func() tea.Msg {
		if err := a.sess.SwitchStatus(context.Background(), status); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (a *App) submitAuth() tea.Cmd {
	a.login.busy = true
	a.login.err = nil
	form := a.login

	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if form.mode == modeSignUp {
			err = a.sess.Register(ctx, form.registerInput())
		} else {
			err = a.sess.Login(ctx, form.value("Email"), form.value("Password"))
		}
		if err != nil {
			return authDoneMsg{err: err}
		}
		if _, err := a.sess.Verify(ctx, ""); err != nil {
			return authDoneMsg{err: err}
		}
		return authDoneMsg{}
	}
}

func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := a.sess.SwitchStatus(ctx, models.StatusOffline); err != nil {
			return errMsg{err}
		}
		if err := a.sess.Logout(); err != nil {
			return errMsg{err}
		}
		return verifiedMsg{route: session.RouteLogin}
	}
}

func (a *App) openChat(peer models.User) tea.Cmd {
	pairKey := fmt.Sprintf("%d,%d", a.sess.UserID(), peer.ID)
	return a.openChatByPair(pairKey, peer)
}

func (a *App) openChatByPair(pairKey string, peer models.User) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := a.sync.Open(ctx, pairKey); err != nil {
			return errMsg{err}
		}
		if err := a.tracker.Prime(ctx, peer.ID); err != nil {
			return errMsg{err}
		}
		return chatOpenedMsg{peer: peer}
	}
}

// primePeers fetches the presence of every listed peer once; pushes
// keep the cells live afterwards.
func (a *App) primePeers() tea.Cmd {
	peers := make([]int, 0, len(a.side.entries))
	for _, entry := range a.side.entries {
		peers = append(peers, entry.peer.ID)
	}
	return func() tea.Msg {
		ctx := context.Background()
		for _, id := range peers {
			if err := a.tracker.Prime(ctx, id); err != nil {
				return errMsg{err}
			}
		}
		return nil
	}
}

func (a *App) senderName(id int) string {
	for _, entry := range a.side.entries {
		if entry.peer.ID == id {
			return entry.peer.Name
		}
	}
	return fmt.Sprintf("user %d", id)
}

func (a *App) View() string {
	switch a.view {
	case viewLogin:
		return a.login.view(a.width)

	case viewHome:
		body := a.side.view(a.width, a.tracker, true)
		return a.withStatusBar(body)

	case viewChat:
		snapshot := a.sync.Snapshot()
		me := a.sess.UserID()
		if a.width < narrowBreakpoint {
			return a.withStatusBar(a.conversation.view(a.width, a.height, snapshot, me, a.tracker, !a.focusSidebar))
		}
		sideWidth := a.width / 3
		body := lipgloss.JoinHorizontal(lipgloss.Top,
			a.side.view(sideWidth, a.tracker, a.focusSidebar),
			a.conversation.view(a.width-sideWidth, a.height, snapshot, me, a.tracker, !a.focusSidebar),
		)
		return a.withStatusBar(body)
	}
	return ""
}

func (a *App) withStatusBar(body string) string {
	bar := hintStyle.Render(" ctrl+c: quit  ctrl+d: logout  esc: back")
	if a.alert != "" {
		bar = alertStyle.Render(" "+a.alert) + "  " + bar
	}
	return body + "\n" + bar
}

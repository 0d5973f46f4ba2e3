package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/prepdeck/prepctl/internal/api"
	"github.com/prepdeck/prepctl/internal/otp"
	"github.com/prepdeck/prepctl/internal/session"
)

// states
type state int

const (
	stateMenu state = iota
	stateInput
	stateCode
	stateConfirm
	stateResult
	statePlans
	stateBusy
)

type action int

const (
	// Account
	actionSignIn action = iota
	actionRegister
	actionVerifyEmail
	actionResetPassword
	actionSignOut
	// Plans
	actionViewPlans
	actionBuyPlan
	// Support
	actionContact
)

type menuItem struct {
	label    string
	action   action
	isHeader bool
}

var menuItems = []menuItem{
	{label: "ACCOUNT", isHeader: true},
	{label: "Sign in", action: actionSignIn},
	{label: "Create account", action: actionRegister},
	{label: "Verify email", action: actionVerifyEmail},
	{label: "Reset password", action: actionResetPassword},
	{label: "Sign out", action: actionSignOut},

	{label: "PLANS", isHeader: true},
	{label: "View plans", action: actionViewPlans},
	{label: "Buy a plan", action: actionBuyPlan},

	{label: "SUPPORT", isHeader: true},
	{label: "Contact us", action: actionContact},
}

// Labels that mark a masked input field.
const (
	labelPassword    = "Password"
	labelNewPassword = "New password"
)

// messages
type resultMsg struct {
	message string
	err     error
}

type restoredMsg struct {
	user *api.User
	err  error
}

type authMsg struct {
	resp *api.AuthResponse
	err  error
}

// codeSentMsg means a verification or reset code was emailed.
type codeSentMsg struct {
	message string
	err     error
}

type plansMsg struct {
	plans []api.Plan
	err   error
}

type model struct {
	client   *api.Client
	store    *session.Store
	log      *zap.Logger
	state    state
	cursor   int
	action   action
	input    session.InputBuffer
	quitting bool

	user *api.User

	// multi-field input
	inputField  int
	inputLabels []string
	inputs      []string

	// code entry
	code       otp.Model
	codeEmail  string
	codeStatus string
	codeErr    error
	resetCode  string

	// result state
	resultMessage string
	resultErr     error

	// data states
	plans   []api.Plan
	dataErr error
}

func initialModel(client *api.Client, store *session.Store, log *zap.Logger, codeLength int) model {
	m := model{
		client: client,
		store:  store,
		log:    log,
		state:  stateMenu,
		code:   otp.NewModel(otp.Config{Length: codeLength, AutoFocusFirst: true}),
	}
	m.cursor = firstSelectableIndex()
	return m
}

func firstSelectableIndex() int {
	for i, item := range menuItems {
		if !item.isHeader {
			return i
		}
	}
	return 0
}

func (m model) Init() tea.Cmd {
	return m.restore()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case restoredMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, session.ErrNoSession) {
				m.log.Warn("session restore failed", zap.Error(msg.err))
			}
			return m, nil
		}
		m.user = msg.user
		m.log.Info("session restored", zap.String("user_id", msg.user.ID))
		return m, nil
	case otp.ChangedMsg:
		if m.codeErr != nil {
			m.codeErr = nil
			m.code.SetErrorState(false)
		}
		return m, nil
	case otp.CompletedMsg:
		return m.submitCode(msg.Code)
	case codeSentMsg:
		if msg.err != nil {
			m.resultErr = msg.err
			m.resultMessage = ""
			m.state = stateResult
			return m, nil
		}
		m.codeStatus = msg.message
		return m, nil
	case authMsg:
		return m.handleAuth(msg)
	case resultMsg:
		m.resultMessage = msg.message
		m.resultErr = msg.err
		m.state = stateResult
		return m, nil
	case plansMsg:
		m.plans = msg.plans
		m.dataErr = msg.err
		m.state = statePlans
		return m, nil
	}
	if m.state == stateCode {
		var cmd tea.Cmd
		m.code, cmd = m.code.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case stateMenu:
		return m.handleMenu(key)
	case stateInput:
		return m.handleInput(key, msg)
	case stateCode:
		return m.handleCode(key, msg)
	case stateConfirm:
		return m.handleConfirm(key)
	case stateResult, statePlans:
		return m.handleDataView(key)
	}
	// stateBusy ignores input until the pending request answers.
	return m, nil
}

func (m model) handleMenu(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		m.cursor = m.prevSelectable(m.cursor)
	case "down", "j":
		m.cursor = m.nextSelectable(m.cursor)
	case "enter":
		item := menuItems[m.cursor]
		if item.isHeader {
			return m, nil
		}
		m.action = item.action
		return m.dispatchAction()
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) prevSelectable(from int) int {
	for i := from - 1; i >= 0; i-- {
		if !menuItems[i].isHeader {
			return i
		}
	}
	return from
}

func (m model) nextSelectable(from int) int {
	for i := from + 1; i < len(menuItems); i++ {
		if !menuItems[i].isHeader {
			return i
		}
	}
	return from
}

func (m model) dispatchAction() (model, tea.Cmd) {
	switch m.action {
	case actionViewPlans:
		m.plans = nil
		m.dataErr = nil
		m.state = statePlans
		return m, m.fetchPlans()
	case actionSignOut:
		m.state = stateConfirm
	case actionSignIn:
		m.startInput([]string{"Email", labelPassword})
	case actionRegister:
		m.startInput([]string{"Name", "Email", labelPassword})
	case actionVerifyEmail, actionResetPassword:
		m.startInput([]string{"Email"})
	case actionBuyPlan:
		if m.client.Token() == "" {
			m.resultErr = api.ErrNotAuthenticated
			m.resultMessage = ""
			m.state = stateResult
			return m, nil
		}
		m.startInput([]string{"Plan ID"})
	case actionContact:
		m.startInput([]string{"Name", "Email", "Message"})
	}
	return m, nil
}

func (m *model) startInput(labels []string) {
	m.state = stateInput
	m.inputField = 0
	m.inputLabels = labels
	m.inputs = make([]string, 0, len(labels))
	m.input.Clear()
}

func (m model) handleInput(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		val := m.input.Value
		if !isSecret(m.inputLabels[m.inputField]) {
			val = strings.TrimSpace(val)
		}
		if val == "" {
			return m, nil
		}
		m.inputs = append(m.inputs, val)
		m.inputField++
		m.input.Clear()

		if m.inputField >= len(m.inputLabels) {
			return m.afterInputComplete()
		}
	case "backspace":
		m.input.Backspace()
	case "esc":
		m.state = stateMenu
		m.input.Clear()
	default:
		m.input.Append(msg.Runes)
	}
	return m, nil
}

func (m model) afterInputComplete() (model, tea.Cmd) {
	switch m.action {
	case actionSignIn:
		m.codeEmail = m.inputs[0]
		m.state = stateBusy
		return m, m.signIn(m.inputs[0], m.inputs[1])
	case actionRegister:
		m.codeEmail = m.inputs[1]
		m.enterCode("")
		return m, m.register(m.inputs[0], m.inputs[1], m.inputs[2])
	case actionVerifyEmail:
		m.codeEmail = m.inputs[0]
		m.enterCode("")
		return m, m.sendCode(m.client.ResendCode, m.inputs[0])
	case actionResetPassword:
		if len(m.inputs) == 1 {
			m.codeEmail = m.inputs[0]
			m.resetCode = ""
			m.enterCode("")
			return m, m.sendCode(m.client.ForgotPassword, m.inputs[0])
		}
		m.state = stateBusy
		return m, m.executeAction()
	case actionBuyPlan:
		m.state = stateConfirm
		return m, nil
	case actionContact:
		m.state = stateBusy
		return m, m.executeAction()
	}

	m.state = stateMenu
	return m, nil
}

// enterCode switches to code entry for m.codeEmail.
func (m *model) enterCode(status string) {
	m.state = stateCode
	m.codeStatus = status
	m.codeErr = nil
	m.code.Reset()
	m.code.SetErrorState(false)
	m.code.SetDisabled(false)
	m.code.Focus()
}

func (m model) handleCode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.code.Blur()
		m.state = stateMenu
		return m, nil
	case "ctrl+r":
		if m.code.Control().Disabled() {
			return m, nil
		}
		m.codeStatus = "Sending a new code..."
		send := m.client.ResendCode
		if m.action == actionResetPassword {
			send = m.client.ForgotPassword
		}
		return m, m.sendCode(send, m.codeEmail)
	}
	var cmd tea.Cmd
	m.code, cmd = m.code.Update(msg)
	return m, cmd
}

// submitCode runs when every slot is filled.
func (m model) submitCode(code string) (tea.Model, tea.Cmd) {
	if m.state != stateCode {
		return m, nil
	}
	if m.action == actionResetPassword {
		m.resetCode = code
		m.code.Blur()
		m.inputs = []string{m.codeEmail}
		m.inputLabels = []string{"Email", labelNewPassword}
		m.inputField = 1
		m.input.Clear()
		m.state = stateInput
		return m, nil
	}
	m.code.SetDisabled(true)
	m.codeStatus = "Verifying..."
	m.log.Info("verifying email", zap.Int("code_length", len(code)))
	return m, m.verify(m.codeEmail, code)
}

func (m model) handleAuth(msg authMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("authentication failed", zap.Error(msg.err))
		if m.state == stateCode {
			m.codeErr = msg.err
			m.codeStatus = ""
			m.code.Reset()
			m.code.SetErrorState(true)
			m.code.SetDisabled(false)
			return m, nil
		}
		m.resultErr = msg.err
		m.resultMessage = ""
		m.state = stateResult
		return m, nil
	}
	if msg.resp.RequiresVerification {
		m.enterCode(firstNonEmpty(msg.resp.Message, "Check your inbox for a verification code."))
		m.action = actionVerifyEmail
		return m, nil
	}
	if msg.resp.Token == "" {
		m.resultErr = errors.New("server returned no session")
		m.state = stateResult
		return m, nil
	}

	m.client.SetToken(msg.resp.Token)
	m.user = msg.resp.User
	email, name := m.codeEmail, ""
	if m.user != nil {
		email, name = m.user.Email, m.user.Name
	}
	if err := m.store.Save(msg.resp.Token, email, name); err != nil {
		m.log.Warn("save session", zap.Error(err))
	}
	m.code.Blur()
	m.resultErr = nil
	m.resultMessage = fmt.Sprintf("Signed in as %s.", firstNonEmpty(name, email))
	m.state = stateResult
	return m, nil
}

func (m model) handleConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		if m.action == actionSignOut {
			return m.signOut(), nil
		}
		m.state = stateBusy
		return m, m.executeAction()
	case "n", "N", "esc":
		m.state = stateMenu
		m.input.Clear()
	}
	return m, nil
}

func (m model) signOut() model {
	m.client.SetToken("")
	m.user = nil
	m.resultMessage = "Signed out."
	m.resultErr = m.store.Clear()
	if m.resultErr != nil {
		m.resultMessage = ""
	}
	m.log.Info("signed out")
	m.state = stateResult
	return m
}

func (m model) handleDataView(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter", "esc":
		m.state = stateMenu
		m.input.Clear()
		m.dataErr = nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// --- Commands ---

func (m model) restore() tea.Cmd {
	return func() tea.Msg {
		user, err := restoreSession(context.Background(), m.client, m.store, m.log)
		return restoredMsg{user: user, err: err}
	}
}

func (m model) signIn(email, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.Login(context.Background(), api.LoginRequest{Email: email, Password: password})
		return authMsg{resp: resp, err: err}
	}
}

func (m model) register(name, email, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.Register(context.Background(), api.RegisterRequest{Name: name, Email: email, Password: password})
		if err != nil {
			return codeSentMsg{err: err}
		}
		return codeSentMsg{message: firstNonEmpty(resp.Message, "Account created. Enter the code we emailed you.")}
	}
}

func (m model) sendCode(send func(context.Context, string) (*api.MessageResponse, error), email string) tea.Cmd {
	return func() tea.Msg {
		resp, err := send(context.Background(), email)
		if err != nil {
			return codeSentMsg{err: err}
		}
		return codeSentMsg{message: firstNonEmpty(resp.Message, "Code sent to "+email+".")}
	}
}

func (m model) verify(email, code string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.VerifyEmail(context.Background(), api.VerifyEmailRequest{Email: email, Code: code})
		return authMsg{resp: resp, err: err}
	}
}

func (m model) fetchPlans() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.ListPlans(context.Background())
		if err != nil {
			return plansMsg{err: err}
		}
		return plansMsg{plans: resp.Plans}
	}
}

func (m model) executeAction() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		switch m.action {
		case actionResetPassword:
			_, err := m.client.ResetPassword(ctx, api.ResetPasswordRequest{Email: m.inputs[0], Code: m.resetCode, Password: m.inputs[1]})
			if err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{message: "Password updated. You can sign in now."}

		case actionBuyPlan:
			order, err := m.client.CreateOrder(ctx, m.inputs[0])
			if err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{message: fmt.Sprintf("Order %s created for %s.\nCheckout key: %s\n\nComplete the payment in the browser checkout.",
				order.ID, api.FormatAmount(order.Amount, order.Currency), order.KeyID)}

		case actionContact:
			resp, err := m.client.SubmitContact(ctx, api.ContactRequest{Name: m.inputs[0], Email: m.inputs[1], Message: m.inputs[2]})
			if err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{message: firstNonEmpty(resp.Message, "Thanks, we'll be in touch.")}
		}

		return resultMsg{err: errUnknownAction}
	}
}

func isSecret(label string) bool {
	return label == labelPassword || label == labelNewPassword
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

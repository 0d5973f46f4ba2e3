package main

import (
	"fmt"
	"strings"

	"github.com/prepdeck/prepctl/internal/api"
	"github.com/prepdeck/prepctl/internal/ui"
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("Interview Prep"))
	if m.user != nil {
		b.WriteString("  ")
		b.WriteString(ui.BadgeStyle.Render(firstNonEmpty(m.user.Name, m.user.Email)))
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateMenu:
		b.WriteString(m.viewMenu())
	case stateInput:
		b.WriteString(m.viewInput())
	case stateCode:
		b.WriteString(m.viewCode())
	case stateConfirm:
		b.WriteString(m.viewConfirm())
	case stateResult:
		b.WriteString(m.viewResult())
	case statePlans:
		b.WriteString(m.viewPlans())
	case stateBusy:
		b.WriteString(ui.DimStyle.Render("Working..."))
	}

	b.WriteString("\n")
	return b.String()
}

func (m model) viewMenu() string {
	var b strings.Builder

	for i, item := range menuItems {
		if item.isHeader {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("  ")
			b.WriteString(ui.HeaderStyle.Render(item.label))
			b.WriteString("\n")
			continue
		}

		cursor := "  "
		style := ui.DimStyle
		if i == m.cursor {
			cursor = "> "
			style = ui.ActiveStyle
		}
		b.WriteString(style.Render(cursor + item.label))
		b.WriteString("\n")
	}

	b.WriteString(ui.DimStyle.Render("\n↑/↓ navigate • enter select • q quit"))
	return b.String()
}

func (m model) viewInput() string {
	var b strings.Builder

	// Show previously collected fields
	for i := 0; i < len(m.inputs); i++ {
		val := m.inputs[i]
		if isSecret(m.inputLabels[i]) {
			val = strings.Repeat("•", len([]rune(val)))
		}
		b.WriteString(ui.DimStyle.Render(fmt.Sprintf("  %s: %s", m.inputLabels[i], val)))
		b.WriteString("\n")
	}

	label := m.inputLabels[m.inputField]
	b.WriteString(ui.PromptStyle.Render(fmt.Sprintf("Enter %s: ", label)))
	if isSecret(label) {
		b.WriteString(m.input.Masked())
	} else {
		b.WriteString(m.input.Value)
	}
	b.WriteString("█")
	b.WriteString(ui.DimStyle.Render("\n\nenter confirm • esc back"))
	return b.String()
}

func (m model) viewCode() string {
	var b strings.Builder
	b.WriteString(ui.PromptStyle.Render(fmt.Sprintf("Enter the code sent to %s", m.codeEmail)))
	b.WriteString("\n\n")
	b.WriteString(m.code.View())
	b.WriteString("\n\n")
	switch {
	case m.codeErr != nil:
		b.WriteString(ui.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.codeErr)))
		b.WriteString("\n")
	case m.codeStatus != "":
		b.WriteString(ui.DimStyle.Render(m.codeStatus))
		b.WriteString("\n")
	}
	b.WriteString(ui.DimStyle.Render("\ndigits type • ←/→ move • ctrl+v paste • ctrl+r resend • esc back"))
	return b.String()
}

func (m model) viewConfirm() string {
	var b strings.Builder
	var prompt string

	switch m.action {
	case actionSignOut:
		prompt = "Sign out and forget the saved session?"
	case actionBuyPlan:
		prompt = fmt.Sprintf("Create a checkout order for plan '%s'?", m.inputs[0])
	}

	b.WriteString(ui.ErrorStyle.Render(prompt))
	b.WriteString(ui.DimStyle.Render("\n\ny confirm • n cancel"))
	return b.String()
}

func (m model) viewResult() string {
	var b strings.Builder
	if m.resultErr != nil {
		b.WriteString(ui.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.resultErr)))
	} else {
		b.WriteString(ui.SuccessStyle.Render(m.resultMessage))
	}
	b.WriteString(ui.DimStyle.Render("\n\nenter continue • q quit"))
	return b.String()
}

func (m model) viewPlans() string {
	var b strings.Builder

	if m.dataErr != nil {
		b.WriteString(ui.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.dataErr)))
		b.WriteString(ui.DimStyle.Render("\n\nenter continue • q quit"))
		return b.String()
	}

	if m.plans == nil {
		b.WriteString(ui.DimStyle.Render("Loading..."))
		return b.String()
	}

	if len(m.plans) == 0 {
		b.WriteString(ui.DimStyle.Render("No plans available."))
		b.WriteString(ui.DimStyle.Render("\n\nenter continue • q quit"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Plans (%d)\n\n", len(m.plans)))
	b.WriteString(renderPlans(m.plans))
	b.WriteString(ui.DimStyle.Render("\nenter continue • q quit"))
	return b.String()
}

func renderPlans(plans []api.Plan) string {
	columns := []ui.Column{
		{Header: "ID", Width: 12},
		{Header: "Plan", Width: 16},
		{Header: "Price", Width: 14},
		{Header: "Billing", Width: 8},
		{Header: "Includes", Width: 36},
	}

	rows := make([][]string, len(plans))
	for i, p := range plans {
		features := "-"
		if len(p.Features) > 0 {
			features = strings.Join(p.Features, ", ")
		}
		rows[i] = []string{
			p.ID,
			p.Name,
			api.FormatAmount(p.Price, p.Currency),
			firstNonEmpty(p.Interval, "-"),
			features,
		}
	}
	return ui.RenderTable(columns, rows)
}

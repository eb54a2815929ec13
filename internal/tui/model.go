package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkessler/faktura/internal/app"
)

// step is the current wizard position
type step int

const (
	stepMenu step = iota
	stepWorksheet
	stepFreelancers
	stepNumber
	stepConfirmDelete
	stepBusy
)

// menu actions, in display order
type action int

const (
	actionGenerate action = iota
	actionCancel
	actionDelete
	actionRegenerate
	actionQuit
)

var menuItems = []struct {
	action action
	label  string
}{
	{actionGenerate, "Rechnungen erstellen"},
	{actionCancel, "Rechnung stornieren"},
	{actionDelete, "Rechnung löschen"},
	{actionRegenerate, "Rechnung neu generieren"},
	{actionQuit, "Beenden"},
}

type freelancersLoadedMsg struct {
	names []string
	err   error
}

type actionDoneMsg struct {
	status string
	err    error
}

// Model is the root Bubble Tea model. It walks the user through the
// prompts of the selected action and runs it against the service layer.
type Model struct {
	app *app.App

	step   step
	action action
	cursor int

	// Generation state
	worksheet   textinput.Model
	freelancers []string
	checked     map[int]bool

	// Cancel/delete/regenerate state
	number textinput.Model

	status string
	err    error
}

// New creates a new root model
func New(a *app.App) Model {
	worksheet := textinput.New()
	worksheet.Placeholder = "2024-05"
	worksheet.CharLimit = 7
	worksheet.Width = 20

	number := textinput.New()
	number.Placeholder = "AB-RE-0001"
	number.CharLimit = 32
	number.Width = 20

	return Model{
		app:       a,
		step:      stepMenu,
		worksheet: worksheet,
		number:    number,
		checked:   make(map[int]bool),
	}
}

// Run starts the interactive program
func Run(a *app.App) error {
	_, err := tea.NewProgram(New(a)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.step {
		case stepMenu:
			return m.updateMenu(msg)
		case stepWorksheet:
			return m.updateWorksheet(msg)
		case stepFreelancers:
			return m.updateFreelancers(msg)
		case stepNumber:
			return m.updateNumber(msg)
		case stepConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		return m, nil

	case freelancersLoadedMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.freelancers = msg.names
		m.checked = make(map[int]bool)
		m.cursor = 0
		m.step = stepFreelancers
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.status = msg.status
		m.err = nil
		m.step = stepMenu
		m.cursor = 0
		return m, nil
	}

	return m, nil
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.status = ""
	m.step = stepMenu
	m.cursor = 0
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
	case "enter":
		m.status = ""
		m.err = nil
		m.action = menuItems[m.cursor].action
		switch m.action {
		case actionGenerate:
			m.worksheet.SetValue("")
			m.step = stepWorksheet
			return m, m.worksheet.Focus()
		case actionCancel, actionDelete, actionRegenerate:
			m.number.SetValue("")
			m.step = stepNumber
			return m, m.number.Focus()
		case actionQuit:
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateWorksheet(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.step = stepMenu
		return m, nil
	case tea.KeyEnter:
		if strings.TrimSpace(m.worksheet.Value()) == "" {
			return m, nil
		}
		m.step = stepBusy
		return m, m.loadFreelancers()
	}
	var cmd tea.Cmd
	m.worksheet, cmd = m.worksheet.Update(msg)
	return m, cmd
}

func (m Model) updateFreelancers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.step = stepMenu
		m.cursor = 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.freelancers)-1 {
			m.cursor++
		}
	case " ":
		m.checked[m.cursor] = !m.checked[m.cursor]
	case "a":
		for i := range m.freelancers {
			m.checked[i] = true
		}
	case "enter":
		var selected []string
		for i, name := range m.freelancers {
			if m.checked[i] {
				selected = append(selected, name)
			}
		}
		if len(selected) == 0 {
			return m, nil
		}
		m.step = stepBusy
		return m, m.generate(selected)
	}
	return m, nil
}

func (m Model) updateNumber(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.step = stepMenu
		return m, nil
	case tea.KeyEnter:
		number := strings.TrimSpace(m.number.Value())
		if number == "" {
			return m, nil
		}
		switch m.action {
		case actionDelete:
			m.step = stepConfirmDelete
			return m, nil
		case actionCancel:
			m.step = stepBusy
			return m, m.cancelInvoice(number)
		case actionRegenerate:
			m.step = stepBusy
			return m, m.regenerateInvoice(number)
		}
	}
	var cmd tea.Cmd
	m.number, cmd = m.number.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "j":
		m.step = stepBusy
		return m, m.deleteInvoice(strings.TrimSpace(m.number.Value()))
	case "n", "esc":
		m.status = "Vorgang abgebrochen"
		m.step = stepMenu
		m.cursor = 0
	}
	return m, nil
}

func (m Model) loadFreelancers() tea.Cmd {
	return func() tea.Msg {
		names, err := m.app.InvoiceService.Freelancers()
		return freelancersLoadedMsg{names: names, err: err}
	}
}

func (m Model) generate(freelancers []string) tea.Cmd {
	worksheet := strings.TrimSpace(m.worksheet.Value())
	return func() tea.Msg {
		total := 0
		for _, name := range freelancers {
			result, err := m.app.InvoiceService.GenerateMonth(context.Background(), name, worksheet)
			if err != nil {
				return actionDoneMsg{err: fmt.Errorf("%s: %w", name, err)}
			}
			total += len(result.Invoices)
		}
		return actionDoneMsg{status: fmt.Sprintf("✓ %d Rechnungen für %s erstellt", total, worksheet)}
	}
}

func (m Model) cancelInvoice(number string) tea.Cmd {
	return func() tea.Msg {
		inv, err := m.app.InvoiceService.Cancel(context.Background(), number)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("✓ Stornorechnung %s für %s erstellt", inv.Options.Invoice.Number, number)}
	}
}

func (m Model) regenerateInvoice(number string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.app.InvoiceService.Regenerate(context.Background(), number); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("✓ Rechnung %s wurde neu generiert", number)}
	}
}

func (m Model) deleteInvoice(number string) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.InvoiceService.Delete(context.Background(), number); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("✓ Rechnung %s wurde gelöscht", number)}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Faktura"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Rechnungsverwaltung"))
	b.WriteString("\n\n")

	switch m.step {
	case stepMenu:
		if m.err != nil {
			b.WriteString(errorStyle.Render("Fehler: "+m.err.Error()) + "\n\n")
		}
		if m.status != "" {
			b.WriteString(successStyle.Render(m.status) + "\n\n")
		}
		b.WriteString("Was möchtest du tun?\n\n")
		for i, item := range menuItems {
			cursor := "  "
			label := item.label
			if i == m.cursor {
				cursor = "> "
				label = selectedStyle.Render(label)
			}
			b.WriteString(cursor + label + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("↑/↓ wählen · enter bestätigen · q beenden"))

	case stepWorksheet:
		b.WriteString("Für welches Arbeitsblatt? (z.B. 2024-05)\n\n")
		b.WriteString(m.worksheet.View())
		b.WriteString("\n\n" + helpStyle.Render("enter weiter · esc zurück"))

	case stepFreelancers:
		b.WriteString("Für welche Assistentinnen?\n\n")
		for i, name := range m.freelancers {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			check := "[ ]"
			if m.checked[i] {
				check = "[x]"
			}
			b.WriteString(cursor + check + " " + name + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("space auswählen · a alle · enter erstellen · esc zurück"))

	case stepNumber:
		prompt := map[action]string{
			actionCancel:     "Welche Rechnung soll storniert werden? (z.B. AB-RE-0001)",
			actionDelete:     "Welche Rechnung soll gelöscht werden? (z.B. KY-RE-0001)",
			actionRegenerate: "Welche Rechnung soll neu generiert werden? (z.B. KY-RE-0001)",
		}[m.action]
		b.WriteString(prompt + "\n\n")
		b.WriteString(m.number.View())
		b.WriteString("\n\n" + helpStyle.Render("enter weiter · esc zurück"))

	case stepConfirmDelete:
		b.WriteString(fmt.Sprintf("Rechnung %s löschen?\n\n", strings.TrimSpace(m.number.Value())))
		b.WriteString("Die Löschung kann nicht rückgängig gemacht werden. Bist du sicher?\n\n")
		b.WriteString(helpStyle.Render("y ja · n abbrechen"))

	case stepBusy:
		b.WriteString("Einen Moment ...")
	}

	return appBorderStyle.Render(b.String())
}

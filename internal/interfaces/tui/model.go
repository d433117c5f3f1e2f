// Package tui formulario de cadastro en terminal sobre el asistente de tres pasos.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhoicas/client-intake/internal/domain/entity"
	rules "github.com/jhoicas/client-intake/internal/domain/intake"
	"github.com/jhoicas/client-intake/internal/wizard"
	"github.com/jhoicas/client-intake/pkg/mask"
)

// Etiquetas de los campos (pt-BR).
var labels = map[string]string{
	rules.FieldFullName:          "Nome / Razão social *",
	rules.FieldTaxID:             "CPF/CNPJ *",
	rules.FieldStateRegistration: "Inscrição estadual",
	rules.FieldCEP:               "CEP *",
	rules.FieldAddress:           "Endereço *",
	rules.FieldNumber:            "Número *",
	rules.FieldComplement:        "Complemento",
	rules.FieldNeighborhood:      "Bairro *",
	rules.FieldCity:              "Cidade *",
	rules.FieldState:             "Estado (UF) *",
	rules.FieldDeliveryLocation:  "Local de entrega",
	rules.FieldReceivingStart:    "Recebimento de",
	rules.FieldReceivingEnd:      "Recebimento até",
	rules.FieldReceivingDays:     "Dias de recebimento *",
	rules.FieldLunchClosed:       "Fecha para almoço",
	rules.FieldLunchStart:        "Almoço de",
	rules.FieldLunchEnd:          "Almoço até",
	rules.FieldBuyerName:         "Comprador",
	rules.FieldPhone1:            "Telefone 1",
	rules.FieldPhone2:            "Telefone 2",
	rules.FieldWhatsApp:          "WhatsApp *",
	rules.FieldEmail:             "Email *",
	rules.FieldInvoiceEmail:      "Email para NF-e",
}

var stepTitles = map[int]string{
	rules.StepBasicInfo: "Dados básicos",
	rules.StepAddress:   "Endereço e recebimento",
	rules.StepContact:   "Contato",
}

// masks máscara aplicada a cada pulsación y longitud máxima del campo ya formateado.
var masks = map[string]struct {
	apply func(string) string
	limit int
}{
	rules.FieldTaxID:    {mask.TaxID, 18},
	rules.FieldCEP:      {mask.CEP, 9},
	rules.FieldPhone1:   {mask.Phone, 15},
	rules.FieldPhone2:   {mask.Phone, 15},
	rules.FieldWhatsApp: {mask.Phone, 15},
}

type submitDoneMsg struct{ err error }

type addressFilledMsg struct{ err error }

// Model modelo bubbletea del formulario.
type Model struct {
	wz        *wizard.Wizard
	ctx       context.Context
	inputs    map[string]textinput.Model
	focus     int
	notice    string
	canLookup bool
	quitting  bool
}

// New crea el modelo. canLookup habilita ctrl+l para autocompletar la dirección por CEP.
func New(ctx context.Context, wz *wizard.Wizard, canLookup bool) Model {
	m := Model{
		wz:        wz,
		ctx:       ctx,
		inputs:    make(map[string]textinput.Model),
		canLookup: canLookup,
	}
	for _, fields := range rules.StepFields {
		for _, f := range fields {
			if isToggle(f) {
				continue
			}
			ti := textinput.New()
			ti.CharLimit = 120
			ti.Width = 40
			if mk, ok := masks[f]; ok {
				ti.CharLimit = mk.limit
			}
			m.inputs[f] = ti
		}
	}
	m.loadInputs()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		if m.wz.FocusTop() {
			m.focus = 0
		}
		m.clampFocus()
		m.loadInputs()
		return m, nil

	case addressFilledMsg:
		if msg.err != nil {
			m.notice = "CEP: " + msg.err.Error()
		} else {
			m.notice = "Endereço preenchido pelo CEP"
		}
		m.loadInputs()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	}

	if m.wz.Status() == wizard.StatusLoading {
		return m, nil
	}

	if m.wz.Succeeded() {
		if msg.String() == "ctrl+r" || msg.String() == "enter" {
			m.wz.Reset()
			m.focus = 0
			m.loadInputs()
		}
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.fields())
		return m, m.syncFocus()
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + len(m.fields())) % len(m.fields())
		return m, m.syncFocus()
	case "ctrl+n":
		if m.wz.Advance() {
			m.focus = 0
		}
		m.clampFocus()
		m.loadInputs()
		return m, m.syncFocus()
	case "ctrl+p":
		m.wz.Retreat()
		m.focus = 0
		m.loadInputs()
		return m, m.syncFocus()
	case "ctrl+s":
		if m.wz.Step() != rules.StepContact {
			m.notice = "Avance até o passo 3 para enviar (ctrl+n)"
			return m, nil
		}
		return m, m.submitCmd()
	case "ctrl+l":
		if m.canLookup {
			return m, m.fillAddressCmd()
		}
	}

	field := m.currentField()
	switch field {
	case rules.FieldReceivingDays:
		m.toggleWeekday(msg.String())
		return m, nil
	case rules.FieldLunchClosed:
		if msg.String() == " " || msg.String() == "enter" {
			closed := m.wz.Form().LunchClosed
			_ = m.wz.SetField(rules.FieldLunchClosed, fmt.Sprint(!closed))
			if closed {
				for _, f := range []string{rules.FieldLunchStart, rules.FieldLunchEnd} {
					ti := m.inputs[f]
					ti.SetValue("")
					m.inputs[f] = ti
				}
			}
		}
		return m, nil
	}

	ti, ok := m.inputs[field]
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	ti, cmd = ti.Update(msg)
	if mk, ok := masks[field]; ok {
		ti.SetValue(mk.apply(ti.Value()))
		ti.CursorEnd()
	}
	m.inputs[field] = ti
	_ = m.wz.SetField(field, ti.Value())
	return m, cmd
}

func (m Model) submitCmd() tea.Cmd {
	wz, ctx := m.wz, m.ctx
	return func() tea.Msg {
		return submitDoneMsg{err: ignoreStepInvalid(wz.Submit(ctx))}
	}
}

func (m Model) fillAddressCmd() tea.Cmd {
	wz, ctx := m.wz, m.ctx
	return func() tea.Msg {
		return addressFilledMsg{err: wz.FillAddress(ctx)}
	}
}

// ignoreStepInvalid los errores del paso ya se muestran bajo cada campo.
func ignoreStepInvalid(err error) error {
	if errors.Is(err, wizard.ErrStepInvalid) {
		return nil
	}
	return err
}

func (m *Model) toggleWeekday(key string) {
	if len(key) != 1 || key[0] < '1' || key[0] > '7' {
		return
	}
	day := entity.Weekdays[key[0]-'1']
	current := m.wz.Form().ReceivingDays
	next := make([]string, 0, len(current)+1)
	found := false
	for _, d := range current {
		if d == string(day) {
			found = true
			continue
		}
		next = append(next, d)
	}
	if !found {
		next = append(next, string(day))
	}
	m.wz.SetWeekdays(orderWeekdays(next))
}

func orderWeekdays(days []string) []string {
	set := make(map[string]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	out := make([]string, 0, len(days))
	for _, d := range entity.Weekdays {
		if set[string(d)] {
			out = append(out, string(d))
		}
	}
	return out
}

func (m Model) fields() []string {
	return rules.StepFields[m.wz.Step()]
}

func (m Model) currentField() string {
	fields := m.fields()
	if m.focus < 0 || m.focus >= len(fields) {
		return ""
	}
	return fields[m.focus]
}

func (m *Model) clampFocus() {
	if n := len(m.fields()); m.focus >= n {
		m.focus = n - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
}

// loadInputs copia el formulario del asistente a los inputs y ajusta el foco.
func (m *Model) loadInputs() {
	form := m.wz.Form()
	values := map[string]string{
		rules.FieldFullName:          form.FullName,
		rules.FieldTaxID:             form.TaxID,
		rules.FieldStateRegistration: form.StateRegistration,
		rules.FieldCEP:               form.CEP,
		rules.FieldAddress:           form.Address,
		rules.FieldNumber:            form.Number,
		rules.FieldComplement:        form.Complement,
		rules.FieldNeighborhood:      form.Neighborhood,
		rules.FieldCity:              form.City,
		rules.FieldState:             form.State,
		rules.FieldDeliveryLocation:  form.DeliveryLocation,
		rules.FieldReceivingStart:    form.ReceivingStart,
		rules.FieldReceivingEnd:      form.ReceivingEnd,
		rules.FieldLunchStart:        form.LunchStart,
		rules.FieldLunchEnd:          form.LunchEnd,
		rules.FieldBuyerName:         form.BuyerName,
		rules.FieldPhone1:            form.Phone1,
		rules.FieldPhone2:            form.Phone2,
		rules.FieldWhatsApp:          form.WhatsApp,
		rules.FieldEmail:             form.Email,
		rules.FieldInvoiceEmail:      form.InvoiceEmail,
	}
	for f, ti := range m.inputs {
		ti.SetValue(values[f])
		m.inputs[f] = ti
	}
	m.syncFocus()
}

func (m *Model) syncFocus() tea.Cmd {
	var cmd tea.Cmd
	current := m.currentField()
	for f, ti := range m.inputs {
		if f == current {
			cmd = ti.Focus()
		} else {
			ti.Blur()
		}
		m.inputs[f] = ti
	}
	return cmd
}

func isToggle(field string) bool {
	return field == rules.FieldReceivingDays || field == rules.FieldLunchClosed
}

// ── Vista ───────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cadastro de cliente"))
	b.WriteString("\n")

	if m.wz.Succeeded() {
		b.WriteString(bannerSuccess.Render(fmt.Sprintf("%s\n\nID: %s", m.wz.Message(), m.wz.SubmittedID())))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("enter novo cadastro  esc sair"))
		return b.String()
	}

	step := m.wz.Step()
	b.WriteString(stepStyle.Render(fmt.Sprintf("Passo %d de 3 · %s", step, stepTitles[step])))
	b.WriteString("\n\n")

	if msg := m.wz.LastAPIError(); msg != "" {
		b.WriteString(bannerError.Render(msg))
		b.WriteString("\n\n")
	}

	form := m.wz.Form()
	errs := m.wz.Errors()
	for i, f := range m.fields() {
		label := labelStyle.Render(labels[f])
		if i == m.focus {
			label = focusedLabel.Render(labels[f])
		}
		b.WriteString(label)
		switch f {
		case rules.FieldReceivingDays:
			b.WriteString(renderWeekdays(form.ReceivingDays))
		case rules.FieldLunchClosed:
			if form.LunchClosed {
				b.WriteString("[x]")
			} else {
				b.WriteString("[ ]")
			}
		default:
			b.WriteString(m.inputs[f].View())
		}
		b.WriteString("\n")
		if msg, ok := errs[f]; ok {
			b.WriteString(fieldError.Render(msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.wz.Status() == wizard.StatusLoading {
		b.WriteString(mutedStyle.Render("Enviando cadastro..."))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(mutedStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())
	return b.String()
}

func renderWeekdays(selected []string) string {
	set := make(map[string]bool, len(selected))
	for _, d := range selected {
		set[d] = true
	}
	parts := make([]string, 0, len(entity.Weekdays))
	for i, d := range entity.Weekdays {
		mark := " "
		if set[string(d)] {
			mark = "x"
		}
		parts = append(parts, fmt.Sprintf("%d[%s]%s", i+1, mark, d.Label()))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderHelp() string {
	help := helpKey.Render("tab") + " campo  " +
		helpKey.Render("ctrl+n") + " avançar  " +
		helpKey.Render("ctrl+p") + " voltar  "
	if m.wz.Step() == rules.StepContact {
		help += helpKey.Render("ctrl+s") + " enviar  "
	}
	if m.canLookup && m.wz.Step() == rules.StepAddress {
		help += helpKey.Render("ctrl+l") + " buscar CEP  "
	}
	if m.currentField() == rules.FieldReceivingDays {
		help += helpKey.Render("1-7") + " dias  "
	}
	return mutedStyle.Render(help + helpKey.Render("esc") + " sair")
}

// Run inicia el formulario a pantalla completa.
func Run(ctx context.Context, wz *wizard.Wizard, canLookup bool) error {
	p := tea.NewProgram(New(ctx, wz, canLookup), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/client-intake/internal/application/dto"
	rules "github.com/jhoicas/client-intake/internal/domain/intake"
	"github.com/jhoicas/client-intake/internal/wizard"
)

func TestValidateStep_SoloCamposDelPaso(t *testing.T) {
	empty := dto.ClientSubmission{}

	assert.Equal(t, map[string]string{
		rules.FieldFullName: rules.MsgFullNameRequired,
		rules.FieldTaxID:    rules.MsgTaxIDRequired,
	}, wizard.ValidateStep(1, empty))

	assert.Equal(t, map[string]string{
		rules.FieldCEP:           rules.MsgCEPRequired,
		rules.FieldAddress:       rules.MsgAddressRequired,
		rules.FieldNumber:        rules.MsgNumberRequired,
		rules.FieldNeighborhood:  rules.MsgNeighborhoodReq,
		rules.FieldCity:          rules.MsgCityRequired,
		rules.FieldState:         rules.MsgStateRequired,
		rules.FieldReceivingDays: rules.MsgWeekdaysRequired,
	}, wizard.ValidateStep(2, empty))

	assert.Equal(t, map[string]string{
		rules.FieldWhatsApp: rules.MsgWhatsAppRequired,
		rules.FieldEmail:    rules.MsgEmailRequired,
	}, wizard.ValidateStep(3, empty))
}

func TestValidateStep_CNPJConMascara(t *testing.T) {
	form := dto.ClientSubmission{FullName: "Mercado", TaxID: "12.345.678/0001-95"}
	assert.Empty(t, wizard.ValidateStep(1, form))
}

func TestValidateStep_PasoDesconocido(t *testing.T) {
	assert.Empty(t, wizard.ValidateStep(7, dto.ClientSubmission{}))
}

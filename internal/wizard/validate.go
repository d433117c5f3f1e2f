package wizard

import (
	"strings"

	"github.com/jhoicas/client-intake/internal/application/dto"
	rules "github.com/jhoicas/client-intake/internal/domain/intake"
)

// ValidateStep valida solo los campos del paso indicado. Usa las mismas reglas que el
// servidor filtradas por paso, más WhatsApp obligatorio en el paso 3, que el servidor
// no exige. Es ayuda de presentación: la aceptación final la decide el servidor.
func ValidateStep(step int, form dto.ClientSubmission) map[string]string {
	client := form.ToEntity()
	errs := map[string]string{}
	for _, r := range rules.Rules {
		if rules.StepOf(r.Field) != step {
			continue
		}
		if msg := r.Check(client); msg != "" {
			errs[r.Field] = msg
		}
	}
	if step == rules.StepContact && strings.TrimSpace(form.WhatsApp) == "" {
		errs[rules.FieldWhatsApp] = rules.MsgWhatsAppRequired
	}
	return errs
}

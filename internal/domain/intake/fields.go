package intake

import "sort"

// Nombres de campo tal como viajan en el JSON del formulario y en el mapa de errores.
const (
	FieldFullName          = "fullName"
	FieldTaxID             = "taxId"
	FieldStateRegistration = "stateRegistration"
	FieldCEP               = "cep"
	FieldAddress           = "address"
	FieldNumber            = "number"
	FieldComplement        = "complement"
	FieldNeighborhood      = "neighborhood"
	FieldCity              = "city"
	FieldState             = "state"
	FieldDeliveryLocation  = "deliveryLocation"
	FieldReceivingStart    = "receivingStart"
	FieldReceivingEnd      = "receivingEnd"
	FieldReceivingDays     = "receivingDays"
	FieldLunchClosed       = "lunchClosed"
	FieldLunchStart        = "lunchStart"
	FieldLunchEnd          = "lunchEnd"
	FieldBuyerName         = "buyerName"
	FieldPhone1            = "phone1"
	FieldPhone2            = "phone2"
	FieldWhatsApp          = "whatsapp"
	FieldEmail             = "email"
	FieldInvoiceEmail      = "invoiceEmail"
)

// Pasos del asistente.
const (
	StepBasicInfo = 1
	StepAddress   = 2
	StepContact   = 3
)

// StepFields campos que pertenecen a cada paso, en orden de presentación.
var StepFields = map[int][]string{
	StepBasicInfo: {FieldFullName, FieldTaxID, FieldStateRegistration},
	StepAddress: {
		FieldCEP, FieldAddress, FieldNumber, FieldComplement, FieldNeighborhood, FieldCity, FieldState,
		FieldDeliveryLocation, FieldReceivingStart, FieldReceivingEnd, FieldReceivingDays,
		FieldLunchClosed, FieldLunchStart, FieldLunchEnd,
	},
	StepContact: {FieldBuyerName, FieldPhone1, FieldPhone2, FieldWhatsApp, FieldEmail, FieldInvoiceEmail},
}

// StepOf devuelve el paso dueño del campo; 0 si el campo es desconocido.
func StepOf(field string) int {
	for step := StepBasicInfo; step <= StepContact; step++ {
		for _, f := range StepFields[step] {
			if f == field {
				return step
			}
		}
	}
	return 0
}

// FirstStep devuelve el paso de menor número que contiene alguno de los campos con error.
// Campos desconocidos se ignoran; sin campos conocidos devuelve 0.
func FirstStep(errs map[string]string) int {
	first := 0
	for field := range errs {
		step := StepOf(field)
		if step == 0 {
			continue
		}
		if first == 0 || step < first {
			first = step
		}
	}
	return first
}

// OrderedFields devuelve los campos de errs ordenados por paso y luego por orden de
// presentación; los desconocidos van al final en orden alfabético.
func OrderedFields(errs map[string]string) []string {
	out := make([]string, 0, len(errs))
	seen := make(map[string]bool, len(errs))
	for step := StepBasicInfo; step <= StepContact; step++ {
		for _, f := range StepFields[step] {
			if _, ok := errs[f]; ok {
				out = append(out, f)
				seen[f] = true
			}
		}
	}
	var extra []string
	for f := range errs {
		if !seen[f] {
			extra = append(extra, f)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

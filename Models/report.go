package Models

import "time"

// PatientTreatmentRow is one line of the cross-patient account listing:
// every live patient with their most recently updated live treatment.
// Patients without treatments keep the treatment columns nil.
type PatientTreatmentRow struct {
	PatientID     uint       `json:"patient_id"`
	Name          string     `json:"name"`
	TreatmentID   *string    `json:"treatment_id"`
	Description   *string    `json:"description"`
	TotalAmount   *float64   `json:"total_amount"`
	AmountPaid    *float64   `json:"amount_paid"`
	AmountPending *float64   `json:"amount_pending"`
	Status        *string    `json:"status"`
	DisplayDate   *time.Time `json:"display_date"`
}

type PaymentReportRow struct {
	PatientName          string    `json:"patient_name"`
	TreatmentID          string    `json:"treatment_id"`
	TreatmentDescription string    `json:"treatment_description"`
	Amount               float64   `json:"amount"`
	PaymentMethod        string    `json:"payment_method"`
	PaymentDate          time.Time `json:"payment_date"`
}

type PaymentReportSummary struct {
	Rows       []PaymentReportRow `json:"rows"`
	Total      float64            `json:"total"`
	TotalCash  float64            `json:"total_cash"`
	TotalOther float64            `json:"total_other"`
}

package domain

import "time"

type Prescription struct {
	DrugName  string `json:"drugName" bson:"drug_name"`
	Dosage    string `json:"dosage" bson:"dosage"`
	Frequency string `json:"frequency" bson:"frequency"`
	Duration  string `json:"duration" bson:"duration"`
	Notes     string `json:"notes,omitempty" bson:"notes,omitempty"`
}

type MedicalRecord struct {
	ID                 string         `json:"id" bson:"_id"`
	PatientID          string         `json:"patientId" bson:"patient_id"`
	DoctorID           string         `json:"doctorId" bson:"doctor_id"`
	VisitReason        string         `json:"visitReason" bson:"visit_reason"`
	PatientDescription string         `json:"patientDescription" bson:"patient_description"`
	DoctorNotes        string         `json:"doctorNotes,omitempty" bson:"doctor_notes,omitempty"`
	FinalDiagnosis     string         `json:"finalDiagnosis,omitempty" bson:"final_diagnosis,omitempty"`
	Requisitions       []string       `json:"requisitions,omitempty" bson:"requisitions,omitempty"`
	Prescriptions      []Prescription `json:"prescriptions,omitempty" bson:"prescriptions,omitempty"`
	BillingAmount      float64        `json:"billingAmount,omitempty" bson:"billing_amount,omitempty"`
	CreatedAt          time.Time      `json:"createdAt,omitempty" bson:"created_at,omitempty"`
}

type MedicalRecordCreate struct {
	PatientID          string  `json:"patientId"`
	DoctorID           string  `json:"doctorId"`
	VisitReason        string  `json:"visitReason"`
	PatientDescription string  `json:"patientDescription"`
	DoctorNotes        string  `json:"doctorNotes,omitempty"`
	FinalDiagnosis     string  `json:"finalDiagnosis,omitempty"`
	BillingAmount      float64 `json:"billingAmount,omitempty"`
}

type MedicalRecordUpdate struct {
	DoctorNotes    string         `json:"doctorNotes,omitempty"`
	FinalDiagnosis string         `json:"finalDiagnosis,omitempty"`
	Prescriptions  []Prescription `json:"prescriptions,omitempty"`
	BillingAmount  float64        `json:"billingAmount,omitempty"`
}

type MedicalRecordFilter struct {
	PatientID string
	DoctorID  string
	From      time.Time
	To        time.Time
}

// RequisitionStatus values are the clinic API's display strings.
type RequisitionStatus string

const (
	RequisitionPending       RequisitionStatus = "Pending"
	RequisitionPendingResult RequisitionStatus = "Pending_result"
	RequisitionCompleted     RequisitionStatus = "Completed"
)

type RequisitionResult struct {
	Description string    `json:"description" bson:"description"`
	Conclusion  string    `json:"conclusion" bson:"conclusion"`
	ReportedAt  time.Time `json:"reportedAt,omitempty" bson:"reported_at,omitempty"`
}

// Requisition is a lab test ordered from a medical record.
type Requisition struct {
	ID              string             `json:"id" bson:"_id"`
	MedicalRecordID string             `json:"medicalRecordId" bson:"medical_record_id"`
	TestName        string             `json:"testName" bson:"test_name"`
	Status          RequisitionStatus  `json:"status" bson:"status"`
	Result          *RequisitionResult `json:"result,omitempty" bson:"result,omitempty"`
	RequestedAt     time.Time          `json:"requestedAt,omitempty" bson:"requested_at,omitempty"`
}

type RequisitionCreate struct {
	MedicalRecordID string `json:"medicalRecordId"`
	TestName        string `json:"testName"`
}

type RequisitionUpdate struct {
	Status RequisitionStatus   `json:"status"`
	Result *RequisitionOutcome `json:"result,omitempty"`
}

// RequisitionOutcome is the result a doctor files against a requisition.
type RequisitionOutcome struct {
	Description string `json:"description"`
	Conclusion  string `json:"conclusion"`
}

type RequisitionFilter struct {
	MedicalRecordID string
	Status          RequisitionStatus
}

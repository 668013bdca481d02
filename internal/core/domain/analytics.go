package domain

// Period selects a calendar month for monthly analytics.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type TopDoctor struct {
	DoctorID         string `json:"doctorId"`
	DoctorName       string `json:"doctorName"`
	Specialization   string `json:"specialization"`
	AppointmentCount int    `json:"appointmentCount"`
}

type SpecialtyStat struct {
	Specialty        string `json:"specialty"`
	AppointmentCount int64  `json:"appointmentCount"`
}

type AgeBucket struct {
	AgeGroup string `json:"ageGroup"`
	Count    int64  `json:"count"`
}

type SpecialtyCount struct {
	Specialty string `json:"specialty"`
	Count     int64  `json:"count"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

// AnalyticsReport is the admin analytics panel. Each section is fetched
// independently; a failed section is left empty and named in Unavailable.
type AnalyticsReport struct {
	Period                 Period           `json:"period"`
	TopDoctors             []TopDoctor      `json:"topDoctors"`
	SpecialtyStats         []SpecialtyStat  `json:"specialtyStats"`
	AgeDistribution        []AgeBucket      `json:"ageDistribution"`
	DoctorCountBySpecialty []SpecialtyCount `json:"doctorCountBySpecialty"`
	RoleDistribution       []RoleCount      `json:"roleDistribution"`
	Unavailable            []string         `json:"unavailable,omitempty"`
}

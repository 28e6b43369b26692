package models

type AdminDashboard struct {
	Doctors             int64              `json:"doctors"`
	Patients            int64              `json:"patients"`
	Consultations       int64              `json:"consultations"`
	LatestConsultations []ConsultationView `json:"latestConsultations"`
	Settings            Settings           `json:"settings"`
}

type DoctorDashboard struct {
	Earnings      float64            `json:"earnings"`
	ActiveChats   int64              `json:"activeChats"`
	TotalPatients int                `json:"totalPatients"`
	LatestChats   []ConsultationView `json:"latestChats"`
	Settings      Settings           `json:"settings"`
}

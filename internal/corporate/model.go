package corporate

import "time"

type ServiceType string

const (
	ServiceWorkshop   ServiceType = "workshop"
	ServiceTraining   ServiceType = "training"
	ServiceConsulting ServiceType = "consulting"
	ServiceWellbeing  ServiceType = "wellbeing"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceWorkshop, ServiceTraining, ServiceConsulting, ServiceWellbeing:
		return true
	}
	return false
}

type Request struct {
	ID                int64
	CompanyName       string
	ContactPerson     string
	Email             string
	Phone             string
	ServiceType       ServiceType
	NumberOfEmployees int
	PreferredDate     time.Time
	Message           string
	CreatedAt         time.Time
}

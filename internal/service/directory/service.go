// Package directory manages the non-scheduled resources of a clinic:
// patients, dentists and the service catalog.
package directory

import (
	"context"

	"github.com/google/uuid"

	"github.com/smilesync/booking-api/internal/model"
	"github.com/smilesync/booking-api/internal/repository"
)

type Service struct {
	patients repository.PatientRepository
	dentists repository.DentistRepository
	services repository.ServiceRepository
}

func NewService(
	patients repository.PatientRepository,
	dentists repository.DentistRepository,
	services repository.ServiceRepository,
) *Service {
	return &Service{
		patients: patients,
		dentists: dentists,
		services: services,
	}
}

func (s *Service) CreatePatient(ctx context.Context, orgID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		Base:           model.Base{ID: uuid.New()},
		OrganizationID: orgID,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Notes:          req.Notes,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, orgID, id uuid.UUID) (*model.Patient, error) {
	return s.patients.Get(ctx, orgID, id)
}

func (s *Service) ListPatients(ctx context.Context, orgID uuid.UUID) ([]*model.Patient, error) {
	return s.patients.List(ctx, orgID)
}

func (s *Service) UpdatePatient(ctx context.Context, orgID, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Notes != nil {
		patient.Notes = *req.Notes
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, orgID, id uuid.UUID) error {
	return s.patients.Delete(ctx, orgID, id)
}

// FindPatientByPhone looks a patient up by exact phone number within the
// tenant. Front desks use it to pull up the caller's record.
func (s *Service) FindPatientByPhone(ctx context.Context, orgID uuid.UUID, phone string) (*model.Patient, error) {
	return s.patients.GetByPhone(ctx, orgID, phone)
}

func (s *Service) CreateDentist(ctx context.Context, orgID uuid.UUID, req *model.CreateDentistRequest) (*model.Dentist, error) {
	dentist := &model.Dentist{
		Base:           model.Base{ID: uuid.New()},
		OrganizationID: orgID,
		Name:           req.Name,
		Email:          req.Email,
		Status:         model.DentistStatusActive,
	}
	if err := s.dentists.Create(ctx, dentist); err != nil {
		return nil, err
	}
	return dentist, nil
}

func (s *Service) GetDentist(ctx context.Context, orgID, id uuid.UUID) (*model.Dentist, error) {
	return s.dentists.Get(ctx, orgID, id)
}

func (s *Service) ListDentists(ctx context.Context, orgID uuid.UUID) ([]*model.Dentist, error) {
	return s.dentists.List(ctx, orgID)
}

func (s *Service) UpdateDentist(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateDentistRequest) (*model.Dentist, error) {
	dentist, err := s.dentists.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		dentist.Name = *req.Name
	}
	if req.Email != nil {
		dentist.Email = *req.Email
	}
	if req.Status != nil {
		dentist.Status = *req.Status
	}

	if err := s.dentists.Update(ctx, dentist); err != nil {
		return nil, err
	}
	return dentist, nil
}

func (s *Service) DeleteDentist(ctx context.Context, orgID, id uuid.UUID) error {
	return s.dentists.Delete(ctx, orgID, id)
}

func (s *Service) CreateService(ctx context.Context, orgID uuid.UUID, req *model.CreateServiceRequest) (*model.Service, error) {
	service := &model.Service{
		Base:            model.Base{ID: uuid.New()},
		OrganizationID:  orgID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	}
	if err := s.services.Create(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *Service) GetService(ctx context.Context, orgID, id uuid.UUID) (*model.Service, error) {
	return s.services.Get(ctx, orgID, id)
}

func (s *Service) ListServices(ctx context.Context, orgID uuid.UUID) ([]*model.Service, error) {
	return s.services.List(ctx, orgID)
}

func (s *Service) UpdateService(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	service, err := s.services.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		service.Price = req.Price
	}

	if err := s.services.Update(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *Service) DeleteService(ctx context.Context, orgID, id uuid.UUID) error {
	return s.services.Delete(ctx, orgID, id)
}

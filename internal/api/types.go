package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/slotify-dev/booking-platform/internal/appointment"
	"github.com/slotify-dev/booking-platform/internal/availability"
	"github.com/slotify-dev/booking-platform/internal/catalog"
	"github.com/slotify-dev/booking-platform/internal/identity"
)

const dateLayout = "2006-01-02"

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Auth

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// Businesses

type CreateBusinessRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

type UpdateBusinessRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

type BusinessResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBusinessResponse(b *catalog.Business) BusinessResponse {
	return BusinessResponse{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Description: b.Description,
		Location:    b.Location,
		CreatedAt:   b.CreatedAt,
	}
}

func toBusinessResponses(businesses []catalog.Business) []BusinessResponse {
	out := make([]BusinessResponse, 0, len(businesses))
	for i := range businesses {
		out = append(out, toBusinessResponse(&businesses[i]))
	}
	return out
}

// Services

type CreateServiceRequest struct {
	BusinessID      string   `json:"business_id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           *float64 `json:"price"`
}

type UpdateServiceRequest struct {
	Name            *string  `json:"name"`
	DurationMinutes *int     `json:"duration_minutes"`
	Price           *float64 `json:"price"`
}

type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	BusinessID      uuid.UUID `json:"business_id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           *float64  `json:"price,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toServiceResponse(s *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		BusinessID:      s.BusinessID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		CreatedAt:       s.CreatedAt,
	}
}

func toServiceResponses(services []catalog.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(services))
	for i := range services {
		out = append(out, toServiceResponse(&services[i]))
	}
	return out
}

// Availability

type CreateSlotRequest struct {
	BusinessID string `json:"business_id"`
	StartDate  string `json:"start_date"` // 2006-01-02
	EndDate    string `json:"end_date"`
	StartTime  string `json:"start_time"` // 09:00
	EndTime    string `json:"end_time"`
}

type UpdateSlotRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

type SlotResponse struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"business_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
}

func toSlotResponse(s *availability.Slot) SlotResponse {
	return SlotResponse{
		ID:         s.ID,
		BusinessID: s.BusinessID,
		StartDate:  s.StartDate.Format(dateLayout),
		EndDate:    s.EndDate.Format(dateLayout),
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
	}
}

func toSlotResponses(slots []availability.Slot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, toSlotResponse(&slots[i]))
	}
	return out
}

// Appointments

type CreateAppointmentRequest struct {
	BusinessID string    `json:"business_id"`
	ServiceID  string    `json:"service_id"`
	DateTime   time.Time `json:"date_time"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status"`
}

// AppointmentResponse is the flattened read model: names come inline so
// clients never fetch the customer, business or service separately.
type AppointmentResponse struct {
	ID                     uuid.UUID `json:"id"`
	CustomerID             uuid.UUID `json:"customer_id"`
	CustomerName           string    `json:"customer_name,omitempty"`
	CustomerEmail          string    `json:"customer_email,omitempty"`
	BusinessID             uuid.UUID `json:"business_id"`
	BusinessName           string    `json:"business_name,omitempty"`
	ServiceID              uuid.UUID `json:"service_id"`
	ServiceName            string    `json:"service_name,omitempty"`
	ServiceDurationMinutes int       `json:"service_duration_minutes,omitempty"`
	DateTime               time.Time `json:"date_time"`
	Status                 string    `json:"status"`
	CreatedAt              time.Time `json:"created_at"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		BusinessID: a.BusinessID,
		ServiceID:  a.ServiceID,
		DateTime:   a.DateTime,
		Status:     string(a.Status),
		CreatedAt:  a.CreatedAt,
	}
}

func toDetailResponse(d *appointment.Detail) AppointmentResponse {
	resp := toAppointmentResponse(&d.Appointment)
	resp.CustomerName = d.CustomerName
	resp.CustomerEmail = d.CustomerEmail
	resp.BusinessName = d.BusinessName
	resp.ServiceName = d.ServiceName
	resp.ServiceDurationMinutes = d.ServiceDuration
	return resp
}

func toDetailResponses(details []appointment.Detail) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(details))
	for i := range details {
		out = append(out, toDetailResponse(&details[i]))
	}
	return out
}

package api

import (
	"time"

	"github.com/mindwellhq/wellness-booking/internal/booking"
	"github.com/mindwellhq/wellness-booking/internal/corporate"
	"github.com/mindwellhq/wellness-booking/internal/progress"
	"github.com/mindwellhq/wellness-booking/internal/resources"
)

type SlotResponse struct {
	ID          int64     `json:"id"`
	StartAt     time.Time `json:"start_at"`
	IsAvailable bool      `json:"is_available"`
}

func toSlotResponse(s booking.SessionSlot) SlotResponse {
	return SlotResponse{ID: s.ID, StartAt: s.StartAt, IsAvailable: s.IsAvailable}
}

type CreateSlotRequest struct {
	StartAt time.Time `json:"start_at"`
}

type BookRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	SlotID          int64  `json:"slot_id"`
	SessionType     string `json:"session_type"`
	DurationMinutes int    `json:"duration_minutes"`
	FirstSession    bool   `json:"first_session"`
	PaymentMode     string `json:"payment_mode"`
	UPIID           string `json:"upi_id"`
	LocationDetails string `json:"location_details"`
	AddToCalendar   bool   `json:"add_to_calendar"`
}

type CancelRequest struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
}

type RescheduleRequest struct {
	NewSlotID int64 `json:"new_slot_id"`
}

type BulkConfirmRequest struct {
	AppointmentIDs []int64 `json:"appointment_ids"`
}

type BulkConfirmResponse struct {
	Confirmed int `json:"confirmed"`
	Requested int `json:"requested"`
}

type AppointmentResponse struct {
	ID               int64         `json:"id"`
	FullName         string        `json:"full_name"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone"`
	SlotID           int64         `json:"slot_id"`
	Slot             *SlotResponse `json:"slot,omitempty"`
	BookedOn         time.Time     `json:"booked_on"`
	SessionType      string        `json:"session_type"`
	DurationMinutes  int           `json:"duration_minutes"`
	FirstSession     bool          `json:"first_session"`
	Status           string        `json:"status"`
	PaymentMode      string        `json:"payment_mode"`
	PaymentConfirmed bool          `json:"payment_confirmed"`
	LocationDetails  string        `json:"location_details,omitempty"`
	CalendarLink     *string       `json:"calendar_link,omitempty"`
}

func toAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:               a.ID,
		FullName:         a.FullName,
		Email:            a.Email,
		Phone:            a.Phone,
		SlotID:           a.SlotID,
		BookedOn:         a.BookedOn,
		SessionType:      string(a.SessionType),
		DurationMinutes:  a.DurationMinutes,
		FirstSession:     a.FirstSession,
		Status:           string(a.Status),
		PaymentMode:      string(a.PaymentMode),
		PaymentConfirmed: a.PaymentConfirmed,
		LocationDetails:  a.LocationDetails,
		CalendarLink:     a.CalendarLink,
	}
}

func toDetailResponse(d booking.AppointmentDetail) AppointmentResponse {
	resp := toAppointmentResponse(&d.Appointment)
	if d.Slot != nil {
		slot := toSlotResponse(*d.Slot)
		resp.Slot = &slot
	}
	return resp
}

type MoodRequest struct {
	Score int    `json:"score"`
	Note  string `json:"note"`
}

type MoodSeriesResponse struct {
	Days   int   `json:"days"`
	Series []int `json:"series"`
}

type DashboardResponse struct {
	Streak            int                   `json:"streak"`
	AverageMood       float64               `json:"average_mood"`
	MoodStatus        string                `json:"mood_status"`
	MoodPercent       int                   `json:"mood_percent"`
	MoodSeries        []int                 `json:"mood_series"`
	CompletedSessions int                   `json:"completed_sessions"`
	Level             string                `json:"level"`
	Upcoming          []AppointmentResponse `json:"upcoming"`
}

func toDashboardResponse(d *progress.Dashboard, upcoming []booking.AppointmentDetail) DashboardResponse {
	resp := DashboardResponse{
		Streak:            d.Streak,
		AverageMood:       d.AverageMood,
		MoodStatus:        d.MoodStatus.Label,
		MoodPercent:       d.MoodStatus.Percent,
		MoodSeries:        d.MoodSeries,
		CompletedSessions: d.CompletedSessions,
		Level:             d.Level,
		Upcoming:          []AppointmentResponse{},
	}
	for _, u := range upcoming {
		resp.Upcoming = append(resp.Upcoming, toDetailResponse(u))
	}
	return resp
}

type ArticleResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content,omitempty"`
	ImageURL  *string   `json:"image_url,omitempty"`
	Views     int       `json:"views"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

func toArticleResponse(a resources.Article, withContent bool) ArticleResponse {
	resp := ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Slug:      a.Slug,
		Summary:   a.Summary,
		ImageURL:  a.ImageURL,
		Views:     a.Views,
		Likes:     a.Likes,
		CreatedAt: a.CreatedAt,
	}
	if withContent {
		resp.Content = a.Content
	}
	return resp
}

type ArticleListResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type VideoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	VideoURL    string    `json:"video_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type CorporateRequestBody struct {
	CompanyName       string `json:"company_name"`
	ContactPerson     string `json:"contact_person"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	ServiceType       string `json:"service_type"`
	NumberOfEmployees int    `json:"number_of_employees"`
	PreferredDate     string `json:"preferred_date"` // YYYY-MM-DD
	Message           string `json:"message"`
}

type CorporateRequestResponse struct {
	ID                int64     `json:"id"`
	CompanyName       string    `json:"company_name"`
	ContactPerson     string    `json:"contact_person"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	ServiceType       string    `json:"service_type"`
	NumberOfEmployees int       `json:"number_of_employees"`
	PreferredDate     string    `json:"preferred_date"`
	Message           string    `json:"message"`
	CreatedAt         time.Time `json:"created_at"`
}

func toCorporateRequestResponse(r corporate.Request) CorporateRequestResponse {
	return CorporateRequestResponse{
		ID:                r.ID,
		CompanyName:       r.CompanyName,
		ContactPerson:     r.ContactPerson,
		Email:             r.Email,
		Phone:             r.Phone,
		ServiceType:       string(r.ServiceType),
		NumberOfEmployees: r.NumberOfEmployees,
		PreferredDate:     r.PreferredDate.Format("2006-01-02"),
		Message:           r.Message,
		CreatedAt:         r.CreatedAt,
	}
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ChatMessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

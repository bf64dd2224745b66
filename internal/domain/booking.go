package domain

import "time"

// Booking and review states shared by appointments, lab bookings and prescriptions.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ConsultationMode is how an appointment takes place.
type ConsultationMode string

const (
	ModeVideo   ConsultationMode = "video"
	ModeAudio   ConsultationMode = "audio"
	ModeChat    ConsultationMode = "chat"
	ModeOffline ConsultationMode = "offline"
)

// Valid reports whether m is a known consultation mode.
func (m ConsultationMode) Valid() bool {
	switch m {
	case ModeVideo, ModeAudio, ModeChat, ModeOffline:
		return true
	}
	return false
}

// TimeSlots are the bookable appointment and sample-collection times.
var TimeSlots = []string{
	"9:00 AM", "9:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"12:00 PM", "2:00 PM", "2:30 PM", "3:00 PM", "3:30 PM", "4:00 PM",
	"4:30 PM", "5:00 PM", "5:30 PM", "6:00 PM",
}

// ValidTimeSlot reports whether slot is one of TimeSlots.
func ValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// DefaultConsultationFeeCents applies when a doctor has no fee configured.
const DefaultConsultationFeeCents int64 = 50000

type Appointment struct {
	ID                   string           `json:"id"`
	RequestID            string           `json:"requestId"`
	UserID               string           `json:"userId"`
	DoctorID             string           `json:"doctorId"`
	DoctorName           string           `json:"doctorName,omitempty"`
	Specialty            string           `json:"specialty,omitempty"`
	Date                 string           `json:"appointmentDate"`
	Time                 string           `json:"appointmentTime"`
	Mode                 ConsultationMode `json:"consultationMode"`
	ConsultationFeeCents int64            `json:"consultationFeeCents"`
	Symptoms             string           `json:"symptoms,omitempty"`
	Status               string           `json:"status"`
	PaymentStatus        string           `json:"paymentStatus"`
	CreatedAt            time.Time        `json:"createdAt"`
}

type LabBooking struct {
	ID              string    `json:"id"`
	RequestID       string    `json:"requestId"`
	UserID          string    `json:"userId"`
	LabTestID       *string   `json:"labTestId,omitempty"`
	ScanTestID      *string   `json:"scanTestId,omitempty"`
	HealthPackageID *string   `json:"healthPackageId,omitempty"`
	ItemName        string    `json:"itemName,omitempty"`
	BookingDate     string    `json:"bookingDate"`
	TimeSlot        string    `json:"timeSlot"`
	Address         string    `json:"address,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Prescription struct {
	ID        string    `json:"id"`
	RequestID string    `json:"requestId"`
	UserID    string    `json:"userId"`
	ImageURL  string    `json:"imageUrl"`
	Notes     string    `json:"notes,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Confirmation is returned by every booking submitter on success.
type Confirmation struct {
	ID       string `json:"id"`
	Redirect string `json:"redirect"`
	Message  string `json:"message"`
}

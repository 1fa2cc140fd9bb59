package model

import "time"

// ReferenceKind тип сущности, к которой привязан токен посещения
type ReferenceKind string

const (
	ReferenceReservation ReferenceKind = "BOOKING"
	ReferenceFree        ReferenceKind = "FREE"
)

// TokenReference ссылка на запись или день свободного плана
type TokenReference struct {
	Kind ReferenceKind `json:"kind"`
	ID   int64         `json:"id"`
}

// ReservationRef ссылка на запись в слот
func ReservationRef(id int64) TokenReference {
	return TokenReference{Kind: ReferenceReservation, ID: id}
}

// FreeEntryRef ссылка на день свободного плана
func FreeEntryRef(id int64) TokenReference {
	return TokenReference{Kind: ReferenceFree, ID: id}
}

// AttendanceToken одноразовый токен подтверждения посещения.
// Использованные токены остаются в истории и никогда не переиспользуются.
type AttendanceToken struct {
	ID        int64          `json:"id"`
	Reference TokenReference `json:"reference"`
	Date      time.Time      `json:"date"` // дата занятия, к которому выдан токен
	Token     string         `json:"token"`
	Used      bool           `json:"used"`
	CreatedAt time.Time      `json:"created_at"`
}

// IsExpired проверяет истёк ли токен: окно ttl отсчитывается
// от момента выдачи, а не от даты занятия
func (t *AttendanceToken) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(t.CreatedAt) > ttl
}

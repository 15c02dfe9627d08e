package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskPriority is the priority level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	switch TaskPriority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TaskState is the workflow state of a task. Any owner may set any state at
// any time; there is no enforced transition table.
type TaskState string

const (
	StateOpen       TaskState = "open"
	StateInProgress TaskState = "in_progress"
	StateDone       TaskState = "done"
)

// ValidState reports whether s is one of the known task states.
func ValidState(s string) bool {
	switch TaskState(s) {
	case StateOpen, StateInProgress, StateDone:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	DueDate     time.Time    `gorm:"not null" json:"due_date"`
	IsOverdue   bool         `gorm:"not null;default:false" json:"is_overdue"`
	Attachment  *string      `json:"attachment"`
	Owners      []User       `gorm:"many2many:task_owners;" json:"owners"`
	Priority    TaskPriority `gorm:"type:varchar(6);not null;default:'medium'" json:"priority"`
	CategoryID  *uuid.UUID   `gorm:"type:uuid" json:"-"`
	Category    *Category    `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;" json:"category,omitempty"`
	State       TaskState    `gorm:"type:varchar(11);not null;default:'open'" json:"state"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BeforeSave recomputes the stored overdue flag from the due date. The flag
// reflects overdue status as of the last write, not the current instant.
func (t *Task) BeforeSave(tx *gorm.DB) (err error) {
	t.IsOverdue = !t.DueDate.IsZero() && t.DueDate.Before(time.Now())
	return nil
}

// TaskResponse is the wire shape of a task, with owners and category
// expanded.
type TaskResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     time.Time         `json:"due_date"`
	IsOverdue   bool              `json:"is_overdue"`
	Attachment  *string           `json:"attachment"`
	Owners      []UserResponse    `json:"owners"`
	Priority    TaskPriority      `json:"priority"`
	Category    *CategoryResponse `json:"category"`
	State       TaskState         `json:"state"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NullableUUID distinguishes an absent JSON field (Set=false) from an
// explicit null (Set=true, Valid=false) and from a value (Set=true,
// Valid=true). A pointer field cannot make the first distinction.
type NullableUUID struct {
	Set   bool
	Valid bool
	Value uuid.UUID
}

func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// SomeUUID builds a NullableUUID holding id.
func SomeUUID(id uuid.UUID) NullableUUID {
	return NullableUUID{Set: true, Valid: true, Value: id}
}

// NullUUID builds a NullableUUID representing an explicit null.
func NullUUID() NullableUUID {
	return NullableUUID{Set: true}
}

// TaskInput is the create/update request body. Pointer fields distinguish
// absent fields so the same shape serves partial updates; category_id
// additionally distinguishes an explicit null, which clears the reference.
type TaskInput struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	DueDate     *time.Time   `json:"due_date"`
	Priority    *string      `json:"priority"`
	State       *string      `json:"state"`
	CategoryID  NullableUUID `json:"category_id"`
	OwnerIDs    *[]uuid.UUID `json:"owner_ids"`
	Attachment  *string      `json:"attachment"`
}
